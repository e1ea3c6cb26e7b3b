// Package substmat implements the position-specific amino-acid substitution
// matrices used to score a query word against a matched ecurve word: one
// 20x20 distance table per suffix position.
//
// Grounded on libuproc/substmat.c. The suffix-alignment index convention
// (dist[SuffixLen-1-i] holds the distance for the i-th amino read off the
// suffix from its low bits) follows that source exactly.
package substmat

import (
	"io"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/errs"
	"github.com/gobics/ecurve-go/internal/matrixio"
	"github.com/gobics/ecurve-go/internal/word"
)

// Matrix holds one 20x20 distance table per suffix position.
type Matrix struct {
	dists [word.SuffixLen][alphabet.Size][alphabet.Size]float64
}

// New returns a zeroed Matrix.
func New() *Matrix {
	return &Matrix{}
}

// Identity returns a Matrix scoring 1.0 for an exact amino-acid match at
// every position and 0.0 otherwise.
func Identity() *Matrix {
	m := New()
	for pos := 0; pos < word.SuffixLen; pos++ {
		for a := 0; a < alphabet.Size; a++ {
			m.Set(pos, a, a, 1.0)
		}
	}
	return m
}

// Get returns the distance for amino acids x (query) and y (matched) at
// suffix position pos.
func (m *Matrix) Get(pos, x, y int) float64 {
	return m.dists[pos][x][y]
}

// Set stores the distance for amino acids x and y at suffix position pos.
func (m *Matrix) Set(pos, x, y int, dist float64) {
	m.dists[pos][x][y] = dist
}

// AlignSuffixes scores every position of two packed suffixes against each
// other, writing SuffixLen distances into dist (which must have length
// word.SuffixLen). Position SuffixLen-1-i receives the distance for the
// i-th amino acid read off the low bits of s1 and s2, matching
// uproc_substmat_align_suffixes.
func AlignSuffixes(m *Matrix, s1, s2 uint64, dist []float64) {
	const bits = word.AminoBits
	const mask = 1<<bits - 1
	for i := 0; i < word.SuffixLen; i++ {
		a1 := int(s1 & mask)
		a2 := int(s2 & mask)
		s1 >>= bits
		s2 >>= bits
		idx := word.SuffixLen - i - 1
		dist[idx] = m.Get(idx, a1, a2)
	}
}

// Load parses a flat matrixio matrix of shape
// [SuffixLen*AlphabetSize, AlphabetSize] into a substitution Matrix. Element
// layout follows uproc_substmat_loads: linear index
// (pos*AlphabetSize+y)*AlphabetSize+x holds Get(pos, x, y).
func Load(r io.Reader) (*Matrix, error) {
	flat, err := matrixio.Load(r)
	if err != nil {
		return nil, err
	}
	required := word.SuffixLen * alphabet.Size * alphabet.Size
	if flat.Len() != required {
		return nil, errs.Newf(errs.InvalidFile,
			"invalid substitution matrix (%d elements instead of %d)",
			flat.Len(), required)
	}

	m := New()
	for pos := 0; pos < word.SuffixLen; pos++ {
		for y := 0; y < alphabet.Size; y++ {
			for x := 0; x < alphabet.Size; x++ {
				idx := (pos*alphabet.Size+y)*alphabet.Size + x
				m.Set(pos, x, y, flat.GetFlat(idx))
			}
		}
	}
	return m, nil
}

// Store serialises m into the flat matrixio format used by Load.
func Store(w io.Writer, m *Matrix) error {
	flat := matrixio.New(word.SuffixLen*alphabet.Size, alphabet.Size)
	for pos := 0; pos < word.SuffixLen; pos++ {
		for y := 0; y < alphabet.Size; y++ {
			for x := 0; x < alphabet.Size; x++ {
				idx := (pos*alphabet.Size+y)*alphabet.Size + x
				flat.SetFlat(idx, m.Get(pos, x, y))
			}
		}
	}
	return matrixio.Store(w, flat)
}
