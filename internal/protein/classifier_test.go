package protein

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/ecurve"
	"github.com/gobics/ecurve-go/internal/substmat"
	"github.com/gobics/ecurve-go/internal/word"
)

const standard = "ACDEFGHIKLMNPQRSTVWY"

func mustAlphabet(t *testing.T) *alphabet.Alphabet {
	t.Helper()
	a, err := alphabet.Create(standard)
	require.NoError(t, err)
	return a
}

func TestClassifyExactMatchScoresPositively(t *testing.T) {
	a := mustAlphabet(t)
	target := "ACDEFGHIKLMNPQRSTVW" // 19 chars, 1 full window once truncated
	target = target[:word.Len]

	w, err := word.FromString(target, a)
	require.NoError(t, err)

	fwd, err := ecurve.Build(a, []word.Word{w}, []uint16{7})
	require.NoError(t, err)

	c := New(a, fwd, nil, substmat.Identity(), All)
	preds, err := c.Classify(target)
	require.NoError(t, err)

	require.Len(t, preds, 1)
	assert.EqualValues(t, 7, preds[0].Family)
	assert.Greater(t, preds[0].Score, 0.0)
}

func TestClassifyNoMatchInEmptyFamilyScoresZeroOrLess(t *testing.T) {
	a := mustAlphabet(t)
	target := "ACDEFGHIKLMNPQRSTVW"[:word.Len]
	other := "YWVTSRQPNMLKIHGFEDCA"[:word.Len]

	w, err := word.FromString(other, a)
	require.NoError(t, err)
	fwd, err := ecurve.Build(a, []word.Word{w}, []uint16{9})
	require.NoError(t, err)

	c := New(a, fwd, nil, substmat.Identity(), All)
	preds, err := c.Classify(target)
	require.NoError(t, err)

	for _, p := range preds {
		assert.LessOrEqual(t, p.Score, 0.0)
	}
}

func TestClassifyMaxModeReturnsSingleBest(t *testing.T) {
	a := mustAlphabet(t)
	w1, err := word.FromString("AAAAAAAAAAAAAAAAAA", a)
	require.NoError(t, err)
	w2, err := word.FromString("YYYYYYYYYYYYYYYYYY", a)
	require.NoError(t, err)

	fwd, err := ecurve.Build(a, []word.Word{w1, w2}, []uint16{1, 2})
	require.NoError(t, err)

	c := New(a, fwd, nil, substmat.Identity(), Max)
	preds, err := c.Classify("AAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.EqualValues(t, 1, preds[0].Family)
}

func TestClassifyTooShortSequenceYieldsNoPredictions(t *testing.T) {
	a := mustAlphabet(t)
	w, err := word.FromString("AAAAAAAAAAAAAAAAAA", a)
	require.NoError(t, err)
	fwd, err := ecurve.Build(a, []word.Word{w}, []uint16{1})
	require.NoError(t, err)

	c := New(a, fwd, nil, substmat.Identity(), All)
	preds, err := c.Classify("AC")
	require.NoError(t, err)
	assert.Empty(t, preds)
}
