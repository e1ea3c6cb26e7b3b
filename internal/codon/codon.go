// Package codon implements IUPAC-aware nucleotide and codon encoding used
// by the six-frame ORF translator.
//
// Grounded on libuproc/codon.c and libuproc/gen_codon_tables.c: nucleotides
// are packed as 4-bit ambiguity masks (A=1, C=2, G=4, T=8, OR'd together
// for IUPAC ambiguity codes), a codon packs three of these into 12 bits
// (4096 possible binary "masks"), and the translation/stop/complement
// tables are derived the same way the original generator built its
// static tables -- computed once here at package init instead of
// generated offline, since this module has no codegen step of its own.
package codon

import "strings"

// NT is a 4-bit nucleotide ambiguity mask.
type NT uint8

const (
	A NT = 1 << iota
	C
	G
	T
)

const ntBits = 4

// Codon packs three NT values into 12 bits, position 2 (bits 8..11) being
// the first nucleotide read.
type Codon uint16

// BinaryCodonCount is the number of distinct 12-bit codon masks (4096).
const BinaryCodonCount = 1 << (3 * ntBits)

// CanonicalCodonCount is the number of unambiguous codons (64).
const CanonicalCodonCount = 64

// iupacMembership lists, for each of the four bases, the IUPAC letters
// whose ambiguity set includes that base -- ported directly from
// gen_codon_tables.c's iupac_char_to_nt.
var iupacMembership = [4]string{
	"ARWMDHVN", // A
	"CYSMBHVN", // C
	"GRSKBDVN", // G
	"TUYWKBDHN", // T
}

// CharToNT translates an IUPAC nucleotide letter (case-insensitive) to its
// ambiguity mask. ok is false if c is not an ASCII letter at all (the
// caller should skip the character); an ASCII letter outside the
// recognised IUPAC set is mapped to N (all four bits), per gen_codon_tables.c.
func CharToNT(c byte) (nt NT, ok bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	for i, set := range iupacMembership {
		if strings.IndexByte(set, c) >= 0 {
			nt |= 1 << uint(i)
		}
	}
	if nt == 0 {
		nt = A | C | G | T
	}
	return nt, true
}

// GetNT returns the nucleotide at position (0=last appended, 2=first).
func GetNT(c Codon, position int) NT {
	if position < 0 || position >= 3 {
		return 0
	}
	return NT(c>>uint(position*ntBits)) & 0xF
}

// Append shifts nt into the low (most recently read) end of c, as a query
// sequence is read left to right.
func Append(c Codon, nt NT) Codon {
	c <<= ntBits
	c |= Codon(nt)
	return c & (1<<(3*ntBits) - 1)
}

// Prepend shifts nt into the high end of c.
func Prepend(c Codon, nt NT) Codon {
	c >>= ntBits
	c |= Codon(nt) << (2 * ntBits)
	return c
}

// Match reports whether every nucleotide of codon is a subset of the
// corresponding (possibly ambiguous) nucleotide of mask.
func Match(codon, mask Codon) bool {
	for i := 0; i < 3; i++ {
		c := GetNT(codon, i)
		m := GetNT(mask, i)
		if c == 0 || c&m != c {
			return false
		}
	}
	return true
}

func complementNT(nt NT) NT {
	var out NT
	if nt&A != 0 {
		out |= T
	}
	if nt&C != 0 {
		out |= G
	}
	if nt&G != 0 {
		out |= C
	}
	if nt&T != 0 {
		out |= A
	}
	return out
}

// Complement returns the reverse-complement codon: nucleotide order is
// reversed and each nucleotide is base-complemented.
func Complement(c Codon) Codon {
	nt := [3]NT{GetNT(c, 2), GetNT(c, 1), GetNT(c, 0)}
	var out Codon
	for k := 2; k >= 0; k-- {
		out = Append(out, complementNT(nt[k]))
	}
	return out
}

var stopMasks = func() []Codon {
	build := func(n1, n2, n3 NT) Codon {
		return Codon(n1)<<(2*ntBits) | Codon(n2)<<ntBits | Codon(n3)
	}
	return []Codon{
		build(T, A, A),
		build(T, A, G),
		build(T, G, A),
		build(T, A|G, A),
		build(T, A, A|G),
	}
}()

// IsStop reports whether c is one of the recognised stop-codon masks.
func IsStop(c Codon) bool {
	for _, s := range stopMasks {
		if c == s {
			return true
		}
	}
	return false
}

// canonicalPatterns maps an IUPAC codon pattern to its translated amino
// acid, checked in order (first match wins), mirroring
// gen_codon_tables.c's CASE chain.
var canonicalPatterns = []struct {
	pattern string
	amino   byte
}{
	{"GCN", 'A'}, {"CGN", 'R'}, {"MGR", 'R'}, {"AAY", 'N'}, {"GAY", 'D'},
	{"TGY", 'C'}, {"CAR", 'Q'}, {"GAR", 'E'}, {"GGN", 'G'}, {"CAY", 'H'},
	{"ATH", 'I'}, {"YTR", 'L'}, {"CTN", 'L'}, {"AAR", 'K'}, {"ATG", 'M'},
	{"TTY", 'F'}, {"CCN", 'P'}, {"TCN", 'S'}, {"AGY", 'S'}, {"ACN", 'T'},
	{"TGG", 'W'}, {"TAY", 'Y'}, {"GTN", 'V'},
}

func patternToCodon(pattern string) Codon {
	var c Codon
	for i := 0; i < 3; i++ {
		nt, _ := CharToNT(pattern[i])
		c = Append(c, nt)
	}
	return c
}

// codonToChar is precomputed once: for each of the 4096 binary codon
// masks, the single amino acid it translates to, or 'X' if ambiguous or
// unrecognised.
var codonToChar = func() [BinaryCodonCount]byte {
	var table [BinaryCodonCount]byte
	patterns := make([]Codon, len(canonicalPatterns))
	for i, p := range canonicalPatterns {
		patterns[i] = patternToCodon(p.pattern)
	}
	for c := 0; c < BinaryCodonCount; c++ {
		table[c] = 'X'
		for i, p := range patterns {
			if Match(Codon(c), p) {
				table[c] = canonicalPatterns[i].amino
				break
			}
		}
	}
	return table
}()

// ToChar returns the amino acid a binary codon mask translates to.
func ToChar(c Codon) byte {
	return codonToChar[c]
}

// scoreIndexToCodon reconstructs the unambiguous codon corresponding to
// canonical-codon-matrix row idx, ported from libuproc/orf.c's
// scoreindex_to_codon.
func scoreIndexToCodon(idx int) Codon {
	var c Codon
	for i := 0; i < 3; i++ {
		nt := NT(1 << uint(idx&0x3))
		c = Prepend(c, nt)
		idx >>= 2
	}
	return c
}

// PrecomputeScores expands a 64-entry canonical codon score vector into a
// 4096-entry table indexed by binary codon mask: each ambiguous mask's
// score is the mean of the canonical (non-stop) codon scores it matches,
// or 0 if it matches none.
func PrecomputeScores(canonical []float64) []float64 {
	scores := make([]float64, BinaryCodonCount)
	for c1 := 0; c1 < BinaryCodonCount; c1++ {
		var sum float64
		var count int
		for i := 0; i < CanonicalCodonCount; i++ {
			c2 := scoreIndexToCodon(i)
			if IsStop(c2) {
				continue
			}
			if Match(c2, Codon(c1)) {
				sum += canonical[i]
				count++
			}
		}
		if count > 0 {
			scores[c1] = sum / float64(count)
		}
	}
	return scores
}
