// Package fasta streams FASTA and FASTQ records for classification, using
// the same large-buffer bufio.Scanner pattern as the
// teacher's cache.FASTALoader -- generalized here from "slurp the whole
// file into a map" to one-record-at-a-time streaming, since a classify
// run never needs more than the current query resident in memory. The
// reader does no gzip detection itself; callers open compressed input
// through streamio.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/gobics/ecurve-go/internal/errs"
)

// Record is one sequence read from a FASTA or FASTQ stream.
type Record struct {
	Header   string
	Sequence string
	// Offset is the zero-based ordinal of this record in the stream.
	Offset int
}

const maxLineBytes = 64 * 1024 * 1024

// Reader streams Records from an underlying io.Reader, auto-detecting
// FASTA (">") versus FASTQ ("@") framing from the first non-blank line.
type Reader struct {
	scanner *bufio.Scanner
	mode    byte // '>' or '@'
	next    string
	started bool
	done    bool
	offset  int
}

// NewReader wraps r for record-at-a-time reading.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next record. ok is false once the stream is exhausted;
// err is non-nil only on a genuine read or format error.
func (r *Reader) Next() (rec Record, ok bool, err error) {
	if r.done {
		return Record{}, false, nil
	}

	if !r.started {
		if err := r.primeMode(); err != nil {
			return Record{}, false, err
		}
		if r.done {
			return Record{}, false, nil
		}
	}

	switch r.mode {
	case '@':
		return r.nextFastq()
	default:
		return r.nextFasta()
	}
}

func (r *Reader) primeMode() error {
	r.started = true
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		r.next = line
		switch line[0] {
		case '>':
			r.mode = '>'
		case '@':
			r.mode = '@'
		default:
			return errs.New(errs.InvalidFile, "unrecognised sequence format: expected '>' or '@'")
		}
		return nil
	}
	if err := r.scanner.Err(); err != nil {
		return errs.Wrap(errs.IoError, "read sequence stream", err)
	}
	r.done = true
	return nil
}

func (r *Reader) nextFasta() (Record, bool, error) {
	if r.next == "" {
		r.done = true
		return Record{}, false, nil
	}
	header := strings.TrimPrefix(r.next, ">")
	r.next = ""

	var seq strings.Builder
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.HasPrefix(line, ">") {
			r.next = line
			break
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if r.next == "" {
		if err := r.scanner.Err(); err != nil {
			return Record{}, false, errs.Wrap(errs.IoError, "read FASTA record", err)
		}
		r.done = true
	}

	rec := Record{Header: header, Sequence: seq.String(), Offset: r.offset}
	r.offset++
	return rec, true, nil
}

func (r *Reader) nextFastq() (Record, bool, error) {
	if r.next == "" {
		r.done = true
		return Record{}, false, nil
	}
	header := strings.TrimPrefix(r.next, "@")

	if !r.scanner.Scan() {
		return Record{}, false, errs.New(errs.InvalidFile, "truncated FASTQ record: missing sequence line")
	}
	seq := strings.TrimSpace(r.scanner.Text())

	if !r.scanner.Scan() {
		return Record{}, false, errs.New(errs.InvalidFile, "truncated FASTQ record: missing '+' line")
	}
	if plus := strings.TrimSpace(r.scanner.Text()); !strings.HasPrefix(plus, "+") {
		return Record{}, false, errs.New(errs.InvalidFile, "malformed FASTQ record: expected '+' separator")
	}

	if !r.scanner.Scan() {
		return Record{}, false, errs.New(errs.InvalidFile, "truncated FASTQ record: missing quality line")
	}
	_ = r.scanner.Text() // quality string, unused for classification

	r.next = ""
	if r.scanner.Scan() {
		r.next = r.scanner.Text()
	} else if err := r.scanner.Err(); err != nil {
		return Record{}, false, errs.Wrap(errs.IoError, "read FASTQ record", err)
	} else {
		r.done = true
	}

	rec := Record{Header: header, Sequence: seq, Offset: r.offset}
	r.offset++
	return rec, true, nil
}
