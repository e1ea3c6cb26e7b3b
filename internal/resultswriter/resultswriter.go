// Package resultswriter writes classification predictions in the
// tab-delimited format a driver prints to stdout or a file, mirroring the
// teacher's internal/output.TabWriter: a bufio.Writer wrapping an io.Writer,
// a fixed header line, and one row per prediction.
package resultswriter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gobics/ecurve-go/internal/dna"
	"github.com/gobics/ecurve-go/internal/protein"
)

// ProteinWriter writes protein-classifier predictions as
// "header\tfamily\tscore" rows.
type ProteinWriter struct {
	w *bufio.Writer
}

// NewProteinWriter wraps w for protein prediction output.
func NewProteinWriter(w io.Writer) *ProteinWriter {
	return &ProteinWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column header line.
func (pw *ProteinWriter) WriteHeader() error {
	_, err := pw.w.WriteString(strings.Join([]string{"#seq_header", "family", "score"}, "\t") + "\n")
	return err
}

// Write emits one row per prediction for the query identified by header.
// An empty preds slice writes nothing (a query with no matches contributes
// no rows, matching §4.H's "empty result is success").
func (pw *ProteinWriter) Write(header string, preds []protein.Prediction) error {
	for _, p := range preds {
		if _, err := fmt.Fprintf(pw.w, "%s\t%d\t%.6f\n", header, p.Family, p.Score); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered output.
func (pw *ProteinWriter) Flush() error {
	return pw.w.Flush()
}

// DNAWriter writes DNA-classifier predictions as
// "header\tfamily\tscore\tframe\tstart" rows.
type DNAWriter struct {
	w *bufio.Writer
}

// NewDNAWriter wraps w for DNA prediction output.
func NewDNAWriter(w io.Writer) *DNAWriter {
	return &DNAWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column header line.
func (dw *DNAWriter) WriteHeader() error {
	_, err := dw.w.WriteString(strings.Join([]string{"#seq_header", "family", "score", "frame", "start"}, "\t") + "\n")
	return err
}

// Write emits one row per prediction for the query identified by header.
func (dw *DNAWriter) Write(header string, preds []dna.Prediction) error {
	for _, p := range preds {
		if _, err := fmt.Fprintf(dw.w, "%s\t%d\t%.6f\t%d\t%d\n", header, p.Family, p.Score, p.Frame, p.Start); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered output.
func (dw *DNAWriter) Flush() error {
	return dw.w.Flush()
}
