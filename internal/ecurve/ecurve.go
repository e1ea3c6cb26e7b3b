// Package ecurve implements the "evolutionary curve": a compressed ordered
// index mapping fixed-length amino-acid words to family identifiers, with
// O(log block-size) nearest-neighbour lookup.
//
// Grounded on libuproc/include/uproc/ecurve.h for the lookup status codes
// and general shape, and on libecurve's ecurve_lookup for the precise
// edge/in-range procedure where the header alone underspecifies it (no
// example repo carries an equivalent bit-packed k-mer index to imitate
// directly).
package ecurve

import (
	"sort"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/errs"
	"github.com/gobics/ecurve-go/internal/word"
)

// EdgeMarker is the prefix-table sentinel count meaning "this prefix has no
// entries, and every non-empty prefix in the ecurve lies on one side of it".
const EdgeMarker int64 = -1

// PrefixMax is the largest representable prefix value; the prefix table has
// PrefixMax+1 entries.
const PrefixMax = word.PrefixMax

// PrefixEntry describes the suffix-array slice belonging to one prefix
// value, or an edge/empty sentinel.
type PrefixEntry struct {
	First uint64
	Count int64
}

// Status is the outcome of a Lookup.
type Status int

const (
	Exact Status = iota
	Inexact
	OOB
)

func (s Status) String() string {
	switch s {
	case Exact:
		return "EXACT"
	case Inexact:
		return "INEXACT"
	case OOB:
		return "OOB"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of Lookup: the bracketing neighbours and their
// families, plus the match status.
type Result struct {
	Status      Status
	Lower       word.Word
	LowerFamily uint16
	Upper       word.Word
	UpperFamily uint16
}

// Ecurve is an ordered index from words to family identifiers.
type Ecurve struct {
	Alphabet *alphabet.Alphabet

	suffixes []uint64
	families []uint16

	prefixTable []PrefixEntry

	// blockFirst/blockPrefix record, for each non-empty prefix, the index
	// of its first entry and the prefix value itself, both ascending; used
	// to reconstruct a neighbour word's prefix from its array index.
	blockFirst  []uint64
	blockPrefix []uint64
}

// N returns the total number of indexed words.
func (e *Ecurve) N() uint64 {
	return uint64(len(e.suffixes))
}

// Build constructs an Ecurve from words and their parallel families slice.
// words must be sorted ascending by word.Cmp and contain no duplicates.
func Build(alpha *alphabet.Alphabet, words []word.Word, families []uint16) (*Ecurve, error) {
	if len(words) != len(families) {
		return nil, errs.New(errs.InvalidArgument, "words and families length mismatch")
	}
	for i := 1; i < len(words); i++ {
		c := word.Cmp(words[i-1], words[i])
		if c > 0 {
			return nil, errs.New(errs.InvalidArgument, "words must be sorted ascending")
		}
		if c == 0 {
			return nil, errs.New(errs.AlreadyExists, "duplicate word in ecurve build")
		}
	}

	e := &Ecurve{
		Alphabet: alpha,
		suffixes: make([]uint64, len(words)),
		families: append([]uint16(nil), families...),
	}
	for i, w := range words {
		e.suffixes[i] = w.Suffix
	}

	e.prefixTable = make([]PrefixEntry, PrefixMax+1)

	i := 0
	for i < len(words) {
		p := words[i].Prefix
		j := i
		for j < len(words) && words[j].Prefix == p {
			j++
		}
		e.blockFirst = append(e.blockFirst, uint64(i))
		e.blockPrefix = append(e.blockPrefix, p)
		e.prefixTable[p] = PrefixEntry{First: uint64(i), Count: int64(j - i)}
		i = j
	}

	if len(e.blockPrefix) == 0 {
		return e, nil
	}

	minP := e.blockPrefix[0]
	maxP := e.blockPrefix[len(e.blockPrefix)-1]
	lastIdx := uint64(len(words) - 1)

	for p := uint64(0); p < minP; p++ {
		e.prefixTable[p] = PrefixEntry{First: 0, Count: EdgeMarker}
	}
	for p := maxP + 1; p <= PrefixMax; p++ {
		e.prefixTable[p] = PrefixEntry{First: lastIdx, Count: EdgeMarker}
	}

	for bi := 0; bi < len(e.blockPrefix)-1; bi++ {
		blockEnd := e.blockFirst[bi] + uint64(e.prefixTable[e.blockPrefix[bi]].Count)
		lastOfBlock := blockEnd - 1
		nextPrefix := e.blockPrefix[bi+1]
		for p := e.blockPrefix[bi] + 1; p < nextPrefix; p++ {
			e.prefixTable[p] = PrefixEntry{First: lastOfBlock, Count: 0}
		}
	}

	return e, nil
}

// prefixOfIndex returns the prefix value of the word stored at array index
// idx, by locating the non-empty block that contains it.
func (e *Ecurve) prefixOfIndex(idx uint64) uint64 {
	n := sort.Search(len(e.blockFirst), func(i int) bool {
		return e.blockFirst[i] > idx
	})
	return e.blockPrefix[n-1]
}

func (e *Ecurve) wordAt(idx uint64) word.Word {
	return word.Word{Prefix: e.prefixOfIndex(idx), Suffix: e.suffixes[idx]}
}

// Lookup finds the neighbours of q in e. e must be non-empty.
func (e *Ecurve) Lookup(q word.Word) (Result, error) {
	if len(e.suffixes) == 0 {
		return Result{}, errs.New(errs.InvalidArgument, "lookup on empty ecurve")
	}

	entry := e.prefixTable[q.Prefix]

	if entry.Count == EdgeMarker {
		if entry.First == 0 && q.Prefix < e.blockPrefix[0] {
			w := e.wordAt(0)
			return Result{Status: OOB, Lower: w, LowerFamily: e.families[0], Upper: w, UpperFamily: e.families[0]}, nil
		}
		lastIdx := e.N() - 1
		w := e.wordAt(lastIdx)
		fam := e.families[lastIdx]
		return Result{Status: OOB, Lower: w, LowerFamily: fam, Upper: w, UpperFamily: fam}, nil
	}

	if entry.Count > 0 {
		lo, hi := entry.First, entry.First+uint64(entry.Count)
		block := e.suffixes[lo:hi]
		pos := sort.Search(len(block), func(i int) bool { return block[i] >= q.Suffix })

		if pos < len(block) && block[pos] == q.Suffix {
			absIdx := lo + uint64(pos)
			w := word.Word{Prefix: q.Prefix, Suffix: q.Suffix}
			fam := e.families[absIdx]
			return Result{Status: Exact, Lower: w, LowerFamily: fam, Upper: w, UpperFamily: fam}, nil
		}

		absIdx := lo + uint64(pos)

		// pos == 0 with lo == 0 means q's suffix is below the smallest
		// suffix in the ecurve's own lowest block: there is no preceding
		// block to borrow a lower neighbour from, so this is the same
		// "below everything" case the low edge sentinel handles, not an
		// in-range INEXACT lookup (clamping to lo-1 here would underflow
		// the uint64 index and panic on e.suffixes[lo-1]).
		if pos == 0 && lo == 0 {
			w := e.wordAt(0)
			fam := e.families[0]
			return Result{Status: OOB, Lower: w, LowerFamily: fam, Upper: w, UpperFamily: fam}, nil
		}
		// Symmetrically, pos == len(block) with absIdx == N means q's
		// suffix is above the largest suffix in the ecurve's own highest
		// block: there is no following block to borrow an upper
		// neighbour from, so this is "above everything", an OOB-high
		// case rather than an INEXACT one (otherwise lower == upper ==
		// the last word while q > upper, violating lower <= q <= upper).
		if pos == len(block) && absIdx == e.N() {
			lastIdx := e.N() - 1
			w := e.wordAt(lastIdx)
			fam := e.families[lastIdx]
			return Result{Status: OOB, Lower: w, LowerFamily: fam, Upper: w, UpperFamily: fam}, nil
		}

		var lowerIdx, upperIdx uint64
		switch pos {
		case 0:
			lowerIdx = lo - 1
			upperIdx = absIdx
		default:
			lowerIdx = absIdx - 1
			upperIdx = absIdx
		}

		return Result{
			Status:      Inexact,
			Lower:       e.wordAt(lowerIdx),
			LowerFamily: e.families[lowerIdx],
			Upper:       e.wordAt(upperIdx),
			UpperFamily: e.families[upperIdx],
		}, nil
	}

	// entry.Count == 0: empty, non-edge prefix.
	lowerIdx := entry.First
	upperIdx := entry.First + 1
	return Result{
		Status:      Inexact,
		Lower:       e.wordAt(lowerIdx),
		LowerFamily: e.families[lowerIdx],
		Upper:       e.wordAt(upperIdx),
		UpperFamily: e.families[upperIdx],
	}, nil
}
