// Package dna implements six-frame DNA-to-protein translation and the DNA
// classifier built on top of it.
//
// Grounded on libuproc/orf.c's uproc_orfiter_next state machine: a single
// three-nucleotide window, advanced one nucleotide at a time, whose codon
// belongs to the frame given by the nucleotide count modulo three,
// with the matching reverse-complement codon derived on demand and a
// stop codon in either direction triggering that frame's ORF to be
// yielded.
package dna

import (
	"strings"

	"github.com/gobics/ecurve-go/internal/codon"
)

// Frames is the number of forward (or reverse) reading frames.
const Frames = 3

// TotalFrames is the number of reading frames in both directions.
const TotalFrames = 2 * Frames

// ORF is a translated open reading frame.
type ORF struct {
	Data   string
	Start  int
	Length int
	Score  float64
	Frame  int
}

// Filter decides whether a translated ORF should be kept.
type Filter func(orf ORF, wholeSeq string, seqLen int, gcContent float64) bool

var gcWeight = map[byte]float64{
	'G': 1, 'C': 1, 'R': .5, 'Y': .5, 'S': 1, 'K': .5, 'M': .5,
	'B': .667, 'D': .333, 'H': .333, 'V': .667, 'N': .25,
}

// GCContent computes the weighted GC fraction of an IUPAC nucleotide
// sequence, each ambiguity code contributing its fractional G/C share.
func GCContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		sum += gcWeight[c]
	}
	return sum / float64(len(seq))
}

type orfBuilder struct {
	data  []byte
	start int
	score float64
}

func (b *orfBuilder) addCodon(c codon.Codon, score float64) {
	ch := codon.ToChar(c)
	if len(b.data) == 0 && ch == 'X' {
		return
	}
	b.data = append(b.data, ch)
	b.score += score
}

func (b *orfBuilder) reset(start int) {
	b.data = b.data[:0]
	b.score = 0
	b.start = start
}

// Iterator streams ORFs out of a nucleotide sequence across all six
// reading frames.
type Iterator struct {
	seq         []byte
	gcContent   float64
	codonScores []float64
	filter      Filter

	pos     int
	done    bool
	ntCount uint64
	frame   int
	window  codon.Codon

	orfs  [TotalFrames]orfBuilder
	yield [TotalFrames]bool
}

// NewIterator creates an Iterator over seq. codonScores, if non-nil, must
// have codon.BinaryCodonCount entries (see codon.PrecomputeScores) and is
// used to score translated codons; if nil, codons score 0.
func NewIterator(seq string, codonScores []float64, filter Filter) *Iterator {
	it := &Iterator{
		seq:         []byte(seq),
		gcContent:   GCContent(seq),
		codonScores: codonScores,
		filter:      filter,
	}
	for i := range it.orfs {
		it.orfs[i].start = i % Frames
	}
	return it
}

func (it *Iterator) codonScore(c codon.Codon) float64 {
	if it.codonScores == nil {
		return 0
	}
	return it.codonScores[c]
}

// Next returns the next translated ORF, or ok=false once the sequence and
// all pending frames are exhausted.
func (it *Iterator) Next() (ORF, bool) {
	for {
		for i := 0; i < TotalFrames; i++ {
			if !it.yield[i] {
				continue
			}
			it.yield[i] = false

			b := &it.orfs[i]
			data := string(b.data)
			for len(data) > 0 && data[len(data)-1] == 'X' {
				data = data[:len(data)-1]
			}
			start := b.start
			score := b.score
			nextStart := it.pos
			b.reset(nextStart)

			if len(data) == 0 {
				continue
			}
			if i >= Frames {
				data = reverseString(data)
			}

			orf := ORF{Data: data, Start: start, Length: len(data), Score: score, Frame: i}
			if it.filter != nil && !it.filter(orf, string(it.seq), len(it.seq), it.gcContent) {
				continue
			}
			return orf, true
		}

		if it.done {
			return ORF{}, false
		}

		if it.pos >= len(it.seq) {
			it.done = true
			for i := 0; i < TotalFrames; i++ {
				it.yield[i] = true
			}
			continue
		}

		c := it.seq[it.pos]
		it.pos++
		nt, ok := codon.CharToNT(c)
		if !ok {
			continue
		}

		it.ntCount++
		it.frame = int(it.ntCount % Frames)
		it.window = codon.Append(it.window, nt)

		if it.ntCount < uint64(Frames) {
			continue
		}

		cFwd := it.window
		if codon.IsStop(cFwd) {
			it.yield[it.frame] = true
		} else {
			it.orfs[it.frame].addCodon(cFwd, it.codonScore(cFwd))
		}

		cRev := codon.Complement(cFwd)
		if codon.IsStop(cRev) {
			it.yield[it.frame+Frames] = true
		} else {
			it.orfs[it.frame+Frames].addCodon(cRev, it.codonScore(cRev))
		}
	}
}

func reverseString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := len(s) - 1; i >= 0; i-- {
		sb.WriteByte(s[i])
	}
	return sb.String()
}
