package resultswriter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gobics/ecurve-go/internal/dna"
	"github.com/gobics/ecurve-go/internal/protein"
)

func TestProteinWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewProteinWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write("seq1", []protein.Prediction{
		{Family: 42, Score: 18},
		{Family: 7, Score: 3.5},
	}))
	require.NoError(t, w.Write("seq2", nil))
	require.NoError(t, w.Flush())

	want := "#seq_header\tfamily\tscore\n" +
		"seq1\t42\t18.000000\n" +
		"seq1\t7\t3.500000\n"
	require.Equal(t, want, buf.String())
}

func TestDNAWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewDNAWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write("seq1", []dna.Prediction{
		{Family: 42, Score: 18, Frame: 5, Start: 3},
	}))
	require.NoError(t, w.Flush())

	want := "#seq_header\tfamily\tscore\tframe\tstart\n" +
		"seq1\t42\t18.000000\t5\t3\n"
	require.Equal(t, want, buf.String())
}
