package word

import "github.com/gobics/ecurve-go/internal/alphabet"

// Iterator streams overlapping forward and reversed-order words out of
// an amino-acid sequence, grounded on libuproc/word.c's worditer_next: a
// character outside the alphabet resets the accumulation counter,
// so a word is only yielded once Len consecutive valid characters have been
// seen since the last invalid one.
type Iterator struct {
	seq   []byte
	alpha *alphabet.Alphabet
	index int
	fwd   Word
	rev   Word
}

// NewIterator creates an Iterator over seq using alpha to translate
// characters to amino-acid indices.
func NewIterator(seq string, alpha *alphabet.Alphabet) *Iterator {
	return &Iterator{seq: []byte(seq), alpha: alpha}
}

// Next advances the iterator by one valid amino acid and returns the word
// starting at index, its reverse word, and true -- or ok=false once the
// sequence is exhausted before a full word could be assembled.
func (it *Iterator) Next() (index int, fwd, rev Word, ok bool) {
	n := 0
	if it.index != 0 {
		n = Len - 1
	}

	for n < Len {
		if it.index >= len(it.seq) {
			return 0, Word{}, Word{}, false
		}
		c := it.seq[it.index]
		it.index++

		a := it.alpha.CharToAmino(c)
		if a < 0 {
			n = 0
			continue
		}
		n++
		it.fwd = it.fwd.Append(a)
		it.rev = it.rev.Prepend(a)
	}

	return it.index - Len, it.fwd, it.rev, true
}
