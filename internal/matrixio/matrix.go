// Package matrixio implements uproc's flat matrix file format: a one-line
// header "[<rows>, <cols>]\n" followed by rows*cols floating point values,
// one per line. It backs substitution matrices, codon-score tables, and
// threshold tables.
package matrixio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gobics/ecurve-go/internal/errs"
)

// Matrix is a dense row-major matrix of float64 values.
type Matrix struct {
	Rows, Cols int
	data       []float64
}

// New allocates a zeroed Rows x Cols matrix.
func New(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, data: make([]float64, rows*cols)}
}

// Get returns the value at (row, col).
func (m *Matrix) Get(row, col int) float64 {
	return m.data[row*m.Cols+col]
}

// Set stores a value at (row, col).
func (m *Matrix) Set(row, col int, v float64) {
	m.data[row*m.Cols+col] = v
}

// Len returns the total element count (Rows*Cols).
func (m *Matrix) Len() int {
	return len(m.data)
}

// GetFlat returns the value at linear index idx, treating the matrix as a
// flat vector whatever its shape (used where only the element order
// matters, as with substitution matrices and codon-score tables).
func (m *Matrix) GetFlat(idx int) float64 {
	return m.data[idx]
}

// SetFlat stores a value at linear index idx.
func (m *Matrix) SetFlat(idx int, v float64) {
	m.data[idx] = v
}

// Load parses the matrix format from r.
func Load(r io.Reader) (*Matrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	if !scanner.Scan() {
		return nil, errs.New(errs.InvalidFile, "empty matrix file")
	}
	rows, cols, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	m := New(rows, cols)
	n := rows * cols
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, errs.Newf(errs.InvalidFile,
				"matrix truncated: expected %d values, got %d", n, i)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidFile, "parse matrix value", err)
		}
		m.data[i] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.IoError, "scan matrix", err)
	}
	return m, nil
}

// parseHeader parses a "[<rows>, <cols>]" header line.
func parseHeader(line string) (rows, cols int, err error) {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "[")
	line = strings.TrimSuffix(line, "]")
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, errs.Newf(errs.InvalidFile, "malformed matrix header %q", line)
	}
	rows, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	cols, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, errs.Newf(errs.InvalidFile, "malformed matrix header %q", line)
	}
	return rows, cols, nil
}

// Store writes the matrix format to w.
func Store(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "[%d, %d]\n", m.Rows, m.Cols); err != nil {
		return errs.Wrap(errs.IoError, "write matrix header", err)
	}
	for _, v := range m.data {
		if _, err := fmt.Fprintf(bw, "%g\n", v); err != nil {
			return errs.Wrap(errs.IoError, "write matrix value", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IoError, "flush matrix", err)
	}
	return nil
}
