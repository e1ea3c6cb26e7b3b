// Package word implements the fixed-length 18-amino-acid Word encoding: a
// (prefix, suffix) pair totally ordering words lexicographically over the
// amino-acid alphabet, with O(1) append/prepend.
// Grounded directly on libuproc/word.c (uproc_word_append/prepend/cmp) from
// the original uproc source, since no teacher or pack example carries an
// equivalent bit-packed k-mer representation.
package word

import (
	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/errs"
)

const (
	// PrefixLen is the number of amino acids packed into the prefix.
	PrefixLen = 6
	// SuffixLen is the number of amino acids packed into the suffix.
	SuffixLen = 12
	// Len is the total word length.
	Len = PrefixLen + SuffixLen
	// AminoBits is the number of bits used to represent one amino acid.
	AminoBits = 5
	// AlphabetSize is the number of distinct amino acids.
	AlphabetSize = alphabet.Size
)

// PrefixMax is the maximum representable prefix value (20^6 - 1).
const PrefixMax = AlphabetSize*AlphabetSize*AlphabetSize*AlphabetSize*AlphabetSize*AlphabetSize - 1

// prefixModulus is 20^6, the number of distinct prefix values.
const prefixModulus = PrefixMax + 1

// suffixMask masks the SuffixLen*AminoBits low bits (60 bits for the
// standard parameters).
const suffixMask = (uint64(1) << (SuffixLen * AminoBits)) - 1

// Word is a fixed-length (Len) amino-acid k-mer, packed as a base-20 prefix
// and a bit-packed suffix.
type Word struct {
	Prefix uint64
	Suffix uint64
}

// FromString consumes the first Len characters of s and builds a Word.
// Fails with InvalidArgument if s is shorter than Len or contains a
// character outside alpha.
func FromString(s string, alpha *alphabet.Alphabet) (Word, error) {
	var w Word
	i := 0
	for ; i < len(s) && i < Len; i++ {
		a := alpha.CharToAmino(s[i])
		if a < 0 {
			return Word{}, errs.Newf(errs.InvalidArgument,
				"invalid amino acid %q in word", s[i])
		}
		w = w.Append(a)
	}
	if i < Len {
		return Word{}, errs.Newf(errs.InvalidArgument,
			"string too short (%d chars instead of %d)", i, Len)
	}
	return w, nil
}

// ToString renders w using alpha, prefix amino acids first.
func ToString(w Word, alpha *alphabet.Alphabet) (string, error) {
	buf := make([]byte, Len)

	p := w.Prefix
	for i := PrefixLen - 1; i >= 0; i-- {
		c := alpha.AminoToChar(int(p % AlphabetSize))
		if c < 0 {
			return "", errs.New(errs.InvalidArgument, "invalid word")
		}
		buf[i] = byte(c)
		p /= AlphabetSize
	}

	s := w.Suffix
	for i := SuffixLen - 1; i >= 0; i-- {
		c := alpha.AminoToChar(int(s & (1<<AminoBits - 1)))
		if c < 0 {
			return "", errs.New(errs.InvalidArgument, "invalid word")
		}
		buf[i+PrefixLen] = byte(c)
		s >>= AminoBits
	}
	return string(buf), nil
}

// Append pushes amino onto the right end, dropping the word's leftmost
// amino acid (the most significant prefix digit).
func (w Word) Append(amino int) Word {
	a := uint64(amino)
	// leftmost amino of suffix, about to be shifted into the prefix
	leftmostSuffixAmino := aminoAt(w.Suffix, SuffixLen-1)

	newPrefix := (w.Prefix * AlphabetSize) % prefixModulus
	newSuffix := (w.Suffix << AminoBits) & suffixMask

	newPrefix += leftmostSuffixAmino
	newSuffix |= a

	return Word{Prefix: newPrefix, Suffix: newSuffix}
}

// Prepend pushes amino onto the left end, dropping the word's rightmost
// amino acid (the least significant suffix amino).
func (w Word) Prepend(amino int) Word {
	a := uint64(amino)
	rightmostPrefixAmino := w.Prefix % AlphabetSize

	newPrefix := w.Prefix / AlphabetSize
	newSuffix := w.Suffix >> AminoBits

	newPrefix += a * (prefixModulus / AlphabetSize)
	newSuffix |= rightmostPrefixAmino << (AminoBits * (SuffixLen - 1))

	return Word{Prefix: newPrefix, Suffix: newSuffix}
}

func aminoAt(suffix uint64, n int) uint64 {
	return (suffix >> (AminoBits * uint(n))) & (1<<AminoBits - 1)
}

// StartsWith reports whether w's most-significant prefix digit equals amino.
func (w Word) StartsWith(amino int) bool {
	first := w.Prefix / (prefixModulus / AlphabetSize)
	return first == uint64(amino)
}

// Equal reports whether w1 and w2 denote the same word.
func Equal(w1, w2 Word) bool {
	return w1.Prefix == w2.Prefix && w1.Suffix == w2.Suffix
}

// Cmp returns -1, 0, or 1 as w1 is lexicographically less than, equal to,
// or greater than w2 under (prefix, suffix) order.
func Cmp(w1, w2 Word) int {
	if w1.Prefix != w2.Prefix {
		if w1.Prefix < w2.Prefix {
			return -1
		}
		return 1
	}
	if w1.Suffix != w2.Suffix {
		if w1.Suffix < w2.Suffix {
			return -1
		}
		return 1
	}
	return 0
}
