package protein

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobics/ecurve-go/internal/scoremap"
	"github.com/gobics/ecurve-go/internal/word"
)

func onesDist() []float64 {
	d := make([]float64, word.SuffixLen)
	for i := range d {
		d[i] = 1.0
	}
	return d
}

func TestAddFirstContributionNoLocking(t *testing.T) {
	acc := scoremap.NewAccumulator(word.Len)
	Add(acc, 0, onesDist(), false)

	assert.Equal(t, 0.0, acc.Total)
	assert.InDelta(t, float64(word.SuffixLen), Finalize(acc), 1e-9)
}

func TestAddNonOverlappingLocksPreviousWindow(t *testing.T) {
	acc := scoremap.NewAccumulator(word.Len)
	Add(acc, 0, onesDist(), false)
	// next match starts word.Len positions later: fully non-overlapping
	Add(acc, uint64(word.Len), onesDist(), false)

	got := Finalize(acc)
	assert.InDelta(t, 2*float64(word.SuffixLen), got, 1e-9)
}

func TestAddOverlappingTakesMax(t *testing.T) {
	acc := scoremap.NewAccumulator(word.Len)
	Add(acc, 0, onesDist(), false)

	betterDist := make([]float64, word.SuffixLen)
	for i := range betterDist {
		betterDist[i] = 2.0
	}
	// overlaps heavily (index advances by 1)
	Add(acc, 1, betterDist, false)

	got := Finalize(acc)
	assert.Greater(t, got, 1.0)
}

func TestAddReverseReversesWindow(t *testing.T) {
	fwdAcc := scoremap.NewAccumulator(word.Len)
	revAcc := scoremap.NewAccumulator(word.Len)

	dist := make([]float64, word.SuffixLen)
	dist[0] = 5.0
	Add(fwdAcc, 0, dist, false)
	Add(revAcc, 0, dist, true)

	// dist[0] lands at window slot Len-SuffixLen forward and at the
	// mirrored slot SuffixLen-1 when reversed.
	assert.Equal(t, 5.0, fwdAcc.Dist[word.Len-word.SuffixLen])
	assert.Equal(t, 5.0, revAcc.Dist[word.SuffixLen-1])

	assert.Equal(t, 5.0, Finalize(fwdAcc))
	assert.Equal(t, 5.0, Finalize(revAcc))
}

func TestFinalizeIsIdempotentAfterLocking(t *testing.T) {
	acc := scoremap.NewAccumulator(word.Len)
	Add(acc, 0, onesDist(), false)
	first := Finalize(acc)
	second := Finalize(acc)
	assert.Equal(t, first, second)
	for _, d := range acc.Dist {
		assert.True(t, math.IsInf(d, -1))
	}
}
