// Package protein implements the position-sensitive protein classifier: it
// streams words out of a query sequence, looks each up in one or two
// ecurves, and accumulates an overlap-aware score per matched family.
//
// Grounded on libuproc/protclass.c / libecurve/src/classify.c for the
// sc_add/sc_finalize streaming-score rule (the "virtual score vector"),
// since no teacher or pack example implements an equivalent sliding-window
// alignment accumulator.
package protein

import (
	"math"

	"github.com/gobics/ecurve-go/internal/scoremap"
	"github.com/gobics/ecurve-go/internal/word"
)

// Add folds one word match (at sequence position index, with per-offset
// substitution distances dist) into acc. reverse indicates the match came
// from the reversed-order word looked up in the reverse ecurve, in which
// case the distances occupy the opposite end of the window.
func Add(acc *scoremap.Accumulator, index uint64, dist []float64, reverse bool) {
	tmp := make([]float64, word.Len)
	for i := range tmp[:word.Len-len(dist)] {
		tmp[i] = math.Inf(-1)
	}
	copy(tmp[word.Len-len(dist):], dist)
	if reverse {
		for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
			tmp[i], tmp[j] = tmp[j], tmp[i]
		}
	}

	var diff int
	if acc.HasIndex {
		d := int(index - acc.Index)
		if d > word.Len {
			d = word.Len
		}
		diff = d
		for i := 0; i < diff; i++ {
			if !math.IsInf(acc.Dist[i], -1) {
				acc.Total += acc.Dist[i]
				acc.Dist[i] = math.Inf(-1)
			}
		}
	}

	shifted := make([]float64, word.Len)
	for i := 0; i < word.Len-diff; i++ {
		shifted[i] = max(acc.Dist[i+diff], tmp[i])
	}
	for i := word.Len - diff; i < word.Len; i++ {
		shifted[i] = tmp[i]
	}
	acc.Dist = shifted

	acc.Index = index
	acc.HasIndex = true
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Finalize sums every still-in-flight (non -Inf) entry of acc.Dist into
// acc.Total and returns it.
func Finalize(acc *scoremap.Accumulator) float64 {
	for i, d := range acc.Dist {
		if !math.IsInf(d, -1) {
			acc.Total += d
			acc.Dist[i] = math.Inf(-1)
		}
	}
	return acc.Total
}
