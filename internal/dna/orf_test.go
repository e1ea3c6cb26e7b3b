package dna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectORFs(t *testing.T, seq string) []ORF {
	t.Helper()
	it := NewIterator(seq, nil, nil)
	var out []ORF
	for {
		orf, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, orf)
	}
	return out
}

func TestORFIteratorTranslatesSingleCodon(t *testing.T) {
	orfs := collectORFs(t, "ATG")
	require.NotEmpty(t, orfs)

	var frame0 *ORF
	for i := range orfs {
		if orfs[i].Frame == 0 {
			frame0 = &orfs[i]
		}
	}
	require.NotNil(t, frame0)
	assert.Equal(t, "M", frame0.Data)
}

func TestORFIteratorYieldsOnStopCodon(t *testing.T) {
	// frame 0: ATG TAA -> "M" then a stop, which must flush the ORF
	// immediately rather than waiting for end of sequence.
	it := NewIterator("ATGTAA", nil, nil)
	var frame0 []ORF
	for {
		orf, ok := it.Next()
		if !ok {
			break
		}
		if orf.Frame == 0 {
			frame0 = append(frame0, orf)
		}
	}
	require.Len(t, frame0, 1)
	assert.Equal(t, "M", frame0[0].Data)
}

func TestORFIteratorSixFramesOnShortSequence(t *testing.T) {
	orfs := collectORFs(t, "ATGAAATTT")
	seen := map[int]bool{}
	for _, o := range orfs {
		seen[o.Frame] = true
	}
	assert.LessOrEqual(t, len(seen), TotalFrames)
	for _, o := range orfs {
		assert.GreaterOrEqual(t, o.Frame, 0)
		assert.Less(t, o.Frame, TotalFrames)
	}
}

func TestORFIteratorSkipsNonLetterCharacters(t *testing.T) {
	withGap := collectORFs(t, "AT-G")
	plain := collectORFs(t, "ATG")
	require.Equal(t, len(plain), len(withGap))
}

func TestGCContentAllGC(t *testing.T) {
	assert.InDelta(t, 1.0, GCContent("GCGCGC"), 1e-9)
}

func TestGCContentAllAT(t *testing.T) {
	assert.InDelta(t, 0.0, GCContent("ATATAT"), 1e-9)
}

func TestGCContentEmptySequence(t *testing.T) {
	assert.Equal(t, 0.0, GCContent(""))
}

func TestORFIteratorFilterRejectsShortORFs(t *testing.T) {
	filter := func(orf ORF, _ string, _ int, _ float64) bool {
		return orf.Length >= 2
	}
	it := NewIterator("ATG", nil, filter)
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestORFIteratorEmptySequenceYieldsNothing(t *testing.T) {
	it := NewIterator("", nil, nil)
	_, ok := it.Next()
	assert.False(t, ok)
}
