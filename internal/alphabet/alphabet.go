// Package alphabet implements the 20-letter amino-acid alphabet: a
// bijection between uppercase ASCII letters and amino-acid indices 0..19.
package alphabet

import "github.com/gobics/ecurve-go/internal/errs"

// Size is the number of recognised amino acids.
const Size = 20

// Alphabet maps between amino-acid letters and their indices.
type Alphabet struct {
	letters  [Size]byte
	charToAA [256]int8
}

// Create builds an Alphabet from a 20-character string. It fails if the
// string is not exactly 20 characters, contains a non-uppercase-ASCII-letter
// character, or repeats a letter.
func Create(s string) (*Alphabet, error) {
	if len(s) != Size {
		return nil, errs.Newf(errs.InvalidArgument,
			"alphabet must have %d characters, got %d", Size, len(s))
	}

	a := &Alphabet{}
	for i := range a.charToAA {
		a.charToAA[i] = -1
	}

	for i := 0; i < Size; i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			return nil, errs.Newf(errs.InvalidArgument,
				"alphabet character %q is not an uppercase ASCII letter", c)
		}
		if a.charToAA[c] != -1 {
			return nil, errs.Newf(errs.InvalidArgument,
				"alphabet character %q repeated", c)
		}
		a.letters[i] = c
		a.charToAA[c] = int8(i)
	}
	return a, nil
}

// CharToAmino returns the amino-acid index for c, or -1 if c is not a
// letter in this alphabet.
func (a *Alphabet) CharToAmino(c byte) int {
	return int(a.charToAA[c])
}

// AminoToChar returns the letter for amino-acid index amino, or -1
// (represented as the rune value -1 via a negative return) if amino is
// outside [0, Size).
func (a *Alphabet) AminoToChar(amino int) int {
	if amino < 0 || amino >= Size {
		return -1
	}
	return int(a.letters[amino])
}

// String returns the 20-letter alphabet string in its original order.
func (a *Alphabet) String() string {
	return string(a.letters[:])
}
