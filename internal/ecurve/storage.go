package ecurve

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"github.com/edsrzf/mmap-go"

	"github.com/gobics/ecurve-go/internal/alphabet"
	"github.com/gobics/ecurve-go/internal/errs"
	"github.com/gobics/ecurve-go/internal/word"
)

// StorePlain writes e in the human-inspectable plain-text format: a
// header line of "<alphabet> <N>", then one section per non-empty
// prefix block ("<prefix> <count>" followed by count "<suffix> <family>"
// lines).
func StorePlain(w io.Writer, e *Ecurve) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s %d\n", e.Alphabet.String(), e.N()); err != nil {
		return errs.Wrap(errs.IoError, "write ecurve header", err)
	}

	for bi, p := range e.blockPrefix {
		first := e.blockFirst[bi]
		entry := e.prefixTable[p]
		if _, err := fmt.Fprintf(bw, "%d %d\n", p, entry.Count); err != nil {
			return errs.Wrap(errs.IoError, "write prefix header", err)
		}
		for k := int64(0); k < entry.Count; k++ {
			idx := first + uint64(k)
			if _, err := fmt.Fprintf(bw, "%d %d\n", e.suffixes[idx], e.families[idx]); err != nil {
				return errs.Wrap(errs.IoError, "write ecurve entry", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "flush ecurve", err)
	}
	return nil
}

// LoadPlain reads the plain-text format written by StorePlain.
func LoadPlain(r io.Reader) (*Ecurve, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	if !scanner.Scan() {
		return nil, errs.New(errs.InvalidFile, "empty ecurve file")
	}
	headerParts := strings.Fields(scanner.Text())
	if len(headerParts) != 2 {
		return nil, errs.Newf(errs.InvalidFile, "malformed ecurve header %q", scanner.Text())
	}
	n, err := strconv.ParseUint(headerParts[1], 10, 64)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidFile, "parse ecurve count", err)
	}
	alpha, err := alphabet.Create(headerParts[0])
	if err != nil {
		return nil, err
	}

	words := make([]word.Word, 0, n)
	families := make([]uint16, 0, n)

	for scanner.Scan() {
		sectionParts := strings.Fields(scanner.Text())
		if len(sectionParts) != 2 {
			return nil, errs.Newf(errs.InvalidFile, "malformed prefix header %q", scanner.Text())
		}
		prefix, err := strconv.ParseUint(sectionParts[0], 10, 64)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidFile, "parse prefix value", err)
		}
		count, err := strconv.ParseInt(sectionParts[1], 10, 64)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidFile, "parse prefix count", err)
		}
		for k := int64(0); k < count; k++ {
			if !scanner.Scan() {
				return nil, errs.New(errs.InvalidFile, "ecurve truncated")
			}
			parts := strings.Fields(scanner.Text())
			if len(parts) != 2 {
				return nil, errs.Newf(errs.InvalidFile, "malformed ecurve entry %q", scanner.Text())
			}
			suffix, err := strconv.ParseUint(parts[0], 10, 64)
			if err != nil {
				return nil, errs.Wrap(errs.InvalidFile, "parse suffix", err)
			}
			fam, err := strconv.ParseUint(parts[1], 10, 16)
			if err != nil {
				return nil, errs.Wrap(errs.InvalidFile, "parse family", err)
			}
			words = append(words, word.Word{Prefix: prefix, Suffix: suffix})
			families = append(families, uint16(fam))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.IoError, "scan ecurve", err)
	}
	if uint64(len(words)) != n {
		return nil, errs.Newf(errs.InvalidFile,
			"ecurve entry count mismatch: header says %d, found %d", n, len(words))
	}

	return Build(alpha, words, families)
}

// StoreBinary writes e in the portable length-prefixed binary format: the
// alphabet string's length (uint32) and bytes, N (uint64), the number of
// non-empty prefix blocks (uint64), then one block per non-empty prefix
// (prefix value and count as uint64, then count x (suffix uint64, family
// uint16)). All integers are little-endian.
func StoreBinary(w io.Writer, e *Ecurve) error {
	bw := bufio.NewWriter(w)

	alphaBytes := []byte(e.Alphabet.String())
	if err := writeUint32(bw, uint32(len(alphaBytes))); err != nil {
		return err
	}
	if _, err := bw.Write(alphaBytes); err != nil {
		return errs.Wrap(errs.IoError, "write alphabet", err)
	}
	if err := writeUint64(bw, e.N()); err != nil {
		return err
	}
	if err := writeUint64(bw, uint64(len(e.blockPrefix))); err != nil {
		return err
	}

	for bi, p := range e.blockPrefix {
		first := e.blockFirst[bi]
		entry := e.prefixTable[p]
		if err := writeUint64(bw, p); err != nil {
			return err
		}
		if err := writeUint64(bw, uint64(entry.Count)); err != nil {
			return err
		}
		for k := int64(0); k < entry.Count; k++ {
			idx := first + uint64(k)
			if err := writeUint64(bw, e.suffixes[idx]); err != nil {
				return err
			}
			if err := writeUint16(bw, e.families[idx]); err != nil {
				return err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "flush ecurve binary", err)
	}
	return nil
}

// LoadBinary reads the format written by StoreBinary.
func LoadBinary(r io.Reader) (*Ecurve, error) {
	br := bufio.NewReader(r)

	alphaLen, err := readUint32(br)
	if err != nil {
		return nil, err
	}
	alphaBytes := make([]byte, alphaLen)
	if _, err := io.ReadFull(br, alphaBytes); err != nil {
		return nil, errs.Wrap(errs.IoError, "read alphabet", err)
	}
	alpha, err := alphabet.Create(string(alphaBytes))
	if err != nil {
		return nil, err
	}

	n, err := readUint64(br)
	if err != nil {
		return nil, err
	}
	blockCount, err := readUint64(br)
	if err != nil {
		return nil, err
	}

	words := make([]word.Word, 0, n)
	families := make([]uint16, 0, n)

	for b := uint64(0); b < blockCount; b++ {
		prefix, err := readUint64(br)
		if err != nil {
			return nil, err
		}
		count, err := readUint64(br)
		if err != nil {
			return nil, err
		}
		for k := uint64(0); k < count; k++ {
			suffix, err := readUint64(br)
			if err != nil {
				return nil, err
			}
			fam, err := readUint16(br)
			if err != nil {
				return nil, err
			}
			words = append(words, word.Word{Prefix: prefix, Suffix: suffix})
			families = append(families, fam)
		}
	}
	if uint64(len(words)) != n {
		return nil, errs.Newf(errs.InvalidFile,
			"ecurve entry count mismatch: header says %d, found %d", n, len(words))
	}

	return Build(alpha, words, families)
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return errs.Wrap(errs.IoError, "write uint16", err)
	}
	return nil
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return errs.Wrap(errs.IoError, "write uint32", err)
	}
	return nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return errs.Wrap(errs.IoError, "write uint64", err)
	}
	return nil
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errs.Wrap(errs.IoError, "read uint16", err)
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errs.Wrap(errs.IoError, "read uint32", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errs.Wrap(errs.IoError, "read uint64", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Mmap header/entry sizes for the zero-parse on-disk layout.
const (
	mmapAlphabetBytes  = alphabet.Size
	mmapHeaderBytes    = mmapAlphabetBytes + 8
	mmapPrefixEntrySize = 16 // first(8) + count(8)
	mmapSuffixSize      = 8
	mmapFamilySize      = 2
)

// MappedEcurve is an Ecurve backed by a read-only memory mapping; Close
// unmaps the region and closes the underlying file descriptor.
type MappedEcurve struct {
	*Ecurve
	region mmap.MMap
	file   *os.File
}

// Close unmaps the region and closes the file descriptor.
func (m *MappedEcurve) Close() error {
	var firstErr error
	if err := m.region.Unmap(); err != nil {
		firstErr = errs.Wrap(errs.IoError, "unmap ecurve", err)
	}
	if err := m.file.Close(); err != nil && firstErr == nil {
		firstErr = errs.Wrap(errs.IoError, "close mapped ecurve file", err)
	}
	return firstErr
}

// StoreMmap writes e to path in the bit-exact layout required by Mmap.
// Unlike StorePlain/StoreBinary it always materialises the full
// (PrefixMax+1)-entry prefix table, so the resulting file can be mapped
// directly without parsing.
func StoreMmap(path string, e *Ecurve) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, "create mmap ecurve file", err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 1<<20)

	alphaBytes := [mmapAlphabetBytes]byte{}
	copy(alphaBytes[:], e.Alphabet.String())
	if _, err := bw.Write(alphaBytes[:]); err != nil {
		return errs.Wrap(errs.IoError, "write mmap header", err)
	}
	if err := writeUint64(bw, e.N()); err != nil {
		return err
	}

	for p := uint64(0); p <= PrefixMax; p++ {
		entry := e.prefixTable[p]
		if err := writeUint64(bw, entry.First); err != nil {
			return err
		}
		count := uint64(entry.Count)
		if entry.Count == EdgeMarker {
			count = math.MaxUint64
		}
		if err := writeUint64(bw, count); err != nil {
			return err
		}
	}

	for _, s := range e.suffixes {
		if err := writeUint64(bw, s); err != nil {
			return err
		}
	}
	for _, fam := range e.families {
		if err := writeUint16(bw, fam); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "flush mmap ecurve", err)
	}
	return nil
}

// Mmap maps path (previously written by StoreMmap) directly into memory.
func Mmap(path string) (*MappedEcurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "open mmap ecurve file", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.IoError, "stat mmap ecurve file", err)
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errs.Wrap(errs.IoError, "mmap ecurve file", err)
	}

	if len(region) < mmapHeaderBytes {
		region.Unmap()
		f.Close()
		return nil, errs.New(errs.InvalidFile, "mmap ecurve file too short")
	}

	alphaStr := strings.TrimRight(string(region[:mmapAlphabetBytes]), "\x00")
	n := binary.LittleEndian.Uint64(region[mmapAlphabetBytes:mmapHeaderBytes])

	prefixTableBytes := uint64(PrefixMax+1) * mmapPrefixEntrySize
	expected := uint64(mmapHeaderBytes) + prefixTableBytes + n*mmapSuffixSize + n*mmapFamilySize
	if uint64(info.Size()) != expected {
		region.Unmap()
		f.Close()
		return nil, errs.Newf(errs.InvalidFile,
			"mmap ecurve file size mismatch: expected %d, got %d", expected, info.Size())
	}

	alpha, err := alphabet.Create(alphaStr)
	if err != nil {
		region.Unmap()
		f.Close()
		return nil, err
	}

	e := &Ecurve{Alphabet: alpha}

	off := uint64(mmapHeaderBytes)
	prefixTableBytesLen := uint64(PrefixMax+1) * mmapPrefixEntrySize

	// PrefixEntry{First uint64; Count int64} has the same 16-byte, no-padding
	// layout as the on-disk first(8)+count(8) pair (EdgeMarker's -1 and the
	// on-disk math.MaxUint64 sentinel share the same bit pattern), and the
	// suffix/family arrays are flat little-endian uint64/uint16 runs, so all
	// three are reinterpreted directly over the mapped bytes instead of
	// copied into freshly allocated slices: Lookup reads straight out of the
	// kernel's page cache and the file never costs more than its mmap call.
	e.prefixTable = bytesToSlice[PrefixEntry](region[off : off+prefixTableBytesLen])
	off += prefixTableBytesLen

	e.suffixes = bytesToSlice[uint64](region[off : off+n*mmapSuffixSize])
	off += n * mmapSuffixSize
	e.families = bytesToSlice[uint16](region[off : off+n*mmapFamilySize])

	for p, entry := range e.prefixTable {
		if entry.Count > 0 {
			e.blockFirst = append(e.blockFirst, entry.First)
			e.blockPrefix = append(e.blockPrefix, uint64(p))
		}
	}

	return &MappedEcurve{Ecurve: e, region: region, file: f}, nil
}

// bytesToSlice reinterprets b as a slice of T with no copy, the same
// technique storage formats built on mmap use to turn a byte mapping into a
// typed view (e.g. go.mmap-backed FlatNode/FlatEdge tables). It assumes a
// little-endian host and that len(b) is an exact multiple of sizeof(T);
// StoreMmap's layout guarantees the second, while the host byte order is
// not checked.
func bytesToSlice[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/int(unsafe.Sizeof(zero)))
}
