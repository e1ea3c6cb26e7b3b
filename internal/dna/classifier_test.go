package dna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/ecurve"
	"github.com/gobics/ecurve-go/internal/protein"
	"github.com/gobics/ecurve-go/internal/substmat"
	"github.com/gobics/ecurve-go/internal/word"
)

const standard = "ACDEFGHIKLMNPQRSTVWY"

func TestClassifyFindsFamilyInCorrectFrame(t *testing.T) {
	a, err := alphabet.Create(standard)
	require.NoError(t, err)

	target := "ACDEFGHIKLMNPQRSTVW"[:word.Len]
	w, err := word.FromString(target, a)
	require.NoError(t, err)

	fwd, err := ecurve.Build(a, []word.Word{w}, []uint16{3})
	require.NoError(t, err)

	pc := protein.New(a, fwd, nil, substmat.Identity(), protein.All)
	c := New(pc, protein.All, 0, nil)

	// target back-translated with no leading nucleotides: forward frame 0
	// reproduces it exactly, so that frame carries the family's best score.
	nt := aminoToCodons(target)
	preds, err := c.Classify(nt)
	require.NoError(t, err)
	require.NotEmpty(t, preds)

	found := false
	for _, p := range preds {
		if p.Family == 3 {
			found = true
			assert.Greater(t, p.Score, 0.0)
			assert.Equal(t, 0, p.Frame)
			assert.Equal(t, 0, p.Start)
		}
	}
	assert.True(t, found)
}

func TestClassifyRespectsMinORFLength(t *testing.T) {
	a, err := alphabet.Create(standard)
	require.NoError(t, err)
	w, err := word.FromString("AAAAAAAAAAAAAAAAAA", a)
	require.NoError(t, err)
	fwd, err := ecurve.Build(a, []word.Word{w}, []uint16{1})
	require.NoError(t, err)

	pc := protein.New(a, fwd, nil, substmat.Identity(), protein.All)
	c := New(pc, protein.All, 1000, nil)

	preds, err := c.Classify("ATGATGATGATGATGATGATGATGATGATGATGATGATGATGATGATGATGATGATG")
	require.NoError(t, err)
	assert.Empty(t, preds)
}

// aminoToCodons maps each amino acid letter to an arbitrary fixed codon so
// that translating the result back with this package's codon table
// reproduces the original amino acid sequence.
var aminoCodon = map[byte]string{
	'A': "GCT", 'C': "TGT", 'D': "GAT", 'E': "GAA", 'F': "TTT",
	'G': "GGT", 'H': "CAT", 'I': "ATT", 'K': "AAA", 'L': "CTT",
	'M': "ATG", 'N': "AAT", 'P': "CCT", 'Q': "CAA", 'R': "CGT",
	'S': "TCT", 'T': "ACT", 'V': "GTT", 'W': "TGG", 'Y': "TAT",
}

func aminoToCodons(seq string) string {
	out := make([]byte, 0, len(seq)*3)
	for i := 0; i < len(seq); i++ {
		out = append(out, aminoCodon[seq[i]]...)
	}
	return string(out)
}
