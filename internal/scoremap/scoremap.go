// Package scoremap implements the ordered-map helper behind
// libuproc/protclass.c's ec_bst of struct sc: a family-keyed map of score
// accumulators that iterates in ascending family order, giving
// deterministic classifier output. A hash map whose keys are sorted on
// read is chosen over a tree since families are small integers
// inserted in no particular order but read back only after accumulation
// finishes, so the only iteration need is a single final ascending pass.
package scoremap

import (
	"math"
	"sort"

	"github.com/gobics/ecurve-go/internal/errs"
)

// Accumulator is the per-family running score state (libuproc's struct sc):
// a sliding window of up-to-WordLen partial per-offset scores still in
// flight, plus the total locked in so far.
type Accumulator struct {
	HasIndex bool
	Index    uint64
	Total    float64
	Dist     []float64
}

// Map is an ordered map from family identifiers to Accumulators.
type Map struct {
	entries map[uint16]*Accumulator
}

// New returns an empty Map.
func New() *Map {
	return &Map{entries: make(map[uint16]*Accumulator)}
}

// Insert adds a new entry, failing with AlreadyExists if family is present.
func (m *Map) Insert(family uint16, acc *Accumulator) error {
	if _, ok := m.entries[family]; ok {
		return errs.Newf(errs.AlreadyExists, "family %d already present", family)
	}
	m.entries[family] = acc
	return nil
}

// GetOrInsert returns the accumulator for family, creating one with the
// given window length (every Dist entry -Inf) if absent.
func (m *Map) GetOrInsert(family uint16, windowLen int) *Accumulator {
	acc, ok := m.entries[family]
	if !ok {
		acc = newAccumulator(windowLen)
		m.entries[family] = acc
	}
	return acc
}

// NewAccumulator returns a fresh Accumulator with a windowLen-sized Dist
// slice, every entry initialised to -Inf ("never set").
func NewAccumulator(windowLen int) *Accumulator {
	return newAccumulator(windowLen)
}

func newAccumulator(windowLen int) *Accumulator {
	dist := make([]float64, windowLen)
	for i := range dist {
		dist[i] = math.Inf(-1)
	}
	return &Accumulator{Dist: dist}
}

// Get returns a copy of family's accumulator and whether it was present.
func (m *Map) Get(family uint16) (Accumulator, bool) {
	acc, ok := m.entries[family]
	if !ok {
		return Accumulator{}, false
	}
	return *acc, true
}

// Remove deletes family's entry, if present.
func (m *Map) Remove(family uint16) {
	delete(m.entries, family)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Families returns all keys in ascending order.
func (m *Map) Families() []uint16 {
	out := make([]uint16, 0, len(m.entries))
	for f := range m.entries {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each calls fn for every entry in ascending family order.
func (m *Map) Each(fn func(family uint16, acc *Accumulator)) {
	for _, f := range m.Families() {
		fn(f, m.entries[f])
	}
}
