package ecurve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/word"
)

const standard = "ACDEFGHIKLMNPQRSTVWY"

func mustAlphabet(t *testing.T) *alphabet.Alphabet {
	t.Helper()
	a, err := alphabet.Create(standard)
	require.NoError(t, err)
	return a
}

func mustWord(t *testing.T, a *alphabet.Alphabet, ch byte) word.Word {
	t.Helper()
	s := strings.Repeat(string(ch), word.Len)
	w, err := word.FromString(s, a)
	require.NoError(t, err)
	return w
}

func TestLookupExactMatch(t *testing.T) {
	a := mustAlphabet(t)
	w := mustWord(t, a, 'A')

	e, err := Build(a, []word.Word{w}, []uint16{42})
	require.NoError(t, err)

	res, err := e.Lookup(w)
	require.NoError(t, err)
	assert.Equal(t, Exact, res.Status)
	assert.True(t, word.Equal(w, res.Lower))
	assert.True(t, word.Equal(w, res.Upper))
	assert.EqualValues(t, 42, res.LowerFamily)
	assert.EqualValues(t, 42, res.UpperFamily)
}

func TestLookupOOBLow(t *testing.T) {
	a := mustAlphabet(t)
	wB := mustWord(t, a, 'C')
	wC := mustWord(t, a, 'D')
	wA := mustWord(t, a, 'A')

	e, err := Build(a, []word.Word{wB, wC}, []uint16{1, 2})
	require.NoError(t, err)

	res, err := e.Lookup(wA)
	require.NoError(t, err)
	assert.Equal(t, OOB, res.Status)
	assert.True(t, word.Equal(wB, res.Lower))
	assert.True(t, word.Equal(wB, res.Upper))
	assert.EqualValues(t, 1, res.LowerFamily)
	assert.EqualValues(t, 1, res.UpperFamily)
}

func TestLookupOOBHigh(t *testing.T) {
	a := mustAlphabet(t)
	wB := mustWord(t, a, 'C')
	wC := mustWord(t, a, 'D')
	wY := mustWord(t, a, 'Y')

	e, err := Build(a, []word.Word{wB, wC}, []uint16{1, 2})
	require.NoError(t, err)

	res, err := e.Lookup(wY)
	require.NoError(t, err)
	assert.Equal(t, OOB, res.Status)
	assert.True(t, word.Equal(wC, res.Lower))
	assert.True(t, word.Equal(wC, res.Upper))
	assert.EqualValues(t, 2, res.LowerFamily)
	assert.EqualValues(t, 2, res.UpperFamily)
}

func TestLookupInexactBetweenDistinctPrefixes(t *testing.T) {
	a := mustAlphabet(t)
	wLo := mustWord(t, a, 'C')
	wHi := mustWord(t, a, 'H')
	wMid := mustWord(t, a, 'F')

	e, err := Build(a, []word.Word{wLo, wHi}, []uint16{1, 2})
	require.NoError(t, err)

	res, err := e.Lookup(wMid)
	require.NoError(t, err)
	assert.Equal(t, Inexact, res.Status)
	assert.True(t, word.Equal(wLo, res.Lower))
	assert.True(t, word.Equal(wHi, res.Upper))
	assert.EqualValues(t, 1, res.LowerFamily)
	assert.EqualValues(t, 2, res.UpperFamily)
}

func TestLookupInexactWithinSharedPrefixBlock(t *testing.T) {
	a := mustAlphabet(t)

	low, err := word.FromString("AAAAAACCCCCCCCCCCC", a)
	require.NoError(t, err)
	high, err := word.FromString("AAAAAAYYYYYYYYYYYY", a)
	require.NoError(t, err)
	mid, err := word.FromString("AAAAAAMMMMMMMMMMMM", a)
	require.NoError(t, err)

	e, err := Build(a, []word.Word{low, high}, []uint16{10, 20})
	require.NoError(t, err)

	res, err := e.Lookup(mid)
	require.NoError(t, err)
	assert.Equal(t, Inexact, res.Status)
	assert.True(t, word.Equal(low, res.Lower))
	assert.True(t, word.Equal(high, res.Upper))
}

func TestLookupBelowLowestBlockSuffixIsOOBLow(t *testing.T) {
	a := mustAlphabet(t)

	low, err := word.FromString("AAAAAACCCCCCCCCCCC", a)
	require.NoError(t, err)
	high, err := word.FromString("AAAAAAYYYYYYYYYYYY", a)
	require.NoError(t, err)
	query, err := word.FromString("AAAAAAAAAAAAAAAAAA", a)
	require.NoError(t, err)

	e, err := Build(a, []word.Word{low, high}, []uint16{10, 20})
	require.NoError(t, err)

	// query shares the ecurve's lowest non-empty prefix but its suffix is
	// below that block's smallest suffix, so there is no preceding block
	// to pair it with: this must not panic, and must report OOB-low
	// against the block's own first word rather than underflow to
	// e.suffixes[-1].
	res, err := e.Lookup(query)
	require.NoError(t, err)
	assert.Equal(t, OOB, res.Status)
	assert.True(t, word.Equal(low, res.Lower))
	assert.True(t, word.Equal(low, res.Upper))
	assert.EqualValues(t, 10, res.LowerFamily)
	assert.EqualValues(t, 10, res.UpperFamily)
}

func TestLookupAboveHighestBlockSuffixIsOOBHigh(t *testing.T) {
	a := mustAlphabet(t)

	low, err := word.FromString("YYYYYYAAAAAAAAAAAA", a)
	require.NoError(t, err)
	high, err := word.FromString("YYYYYYCCCCCCCCCCCC", a)
	require.NoError(t, err)
	query, err := word.FromString("YYYYYYYYYYYYYYYYYY", a)
	require.NoError(t, err)

	e, err := Build(a, []word.Word{low, high}, []uint16{10, 20})
	require.NoError(t, err)

	// query shares the ecurve's highest non-empty prefix but its suffix
	// exceeds that block's largest suffix, so there is no following
	// block to pair it with: this must report OOB-high against the
	// block's own last word, not an INEXACT result with lower == upper
	// and q > upper.
	res, err := e.Lookup(query)
	require.NoError(t, err)
	assert.Equal(t, OOB, res.Status)
	assert.True(t, word.Equal(high, res.Lower))
	assert.True(t, word.Equal(high, res.Upper))
	assert.EqualValues(t, 20, res.LowerFamily)
	assert.EqualValues(t, 20, res.UpperFamily)
}

func TestBuildRejectsUnsorted(t *testing.T) {
	a := mustAlphabet(t)
	wHi := mustWord(t, a, 'Y')
	wLo := mustWord(t, a, 'A')

	_, err := Build(a, []word.Word{wHi, wLo}, []uint16{1, 2})
	require.Error(t, err)
}

func TestBuildRejectsDuplicate(t *testing.T) {
	a := mustAlphabet(t)
	w := mustWord(t, a, 'A')

	_, err := Build(a, []word.Word{w, w}, []uint16{1, 2})
	require.Error(t, err)
}
