package fasta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, data string) []Record {
	t.Helper()
	r := NewReader(strings.NewReader(data))
	var out []Record
	for {
		rec, ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, rec)
	}
	return out
}

func TestReaderParsesSingleFASTARecord(t *testing.T) {
	recs := readAll(t, ">seq1 description\nACDEFGHIKL\nMNPQRSTVWY\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "seq1 description", recs[0].Header)
	assert.Equal(t, "ACDEFGHIKLMNPQRSTVWY", recs[0].Sequence)
	assert.Equal(t, 0, recs[0].Offset)
}

func TestReaderParsesMultipleFASTARecords(t *testing.T) {
	recs := readAll(t, ">a\nACGT\n>b\nTTTT\n>c\nGGGG\n")
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{recs[0].Header, recs[1].Header, recs[2].Header})
	assert.Equal(t, []int{0, 1, 2}, []int{recs[0].Offset, recs[1].Offset, recs[2].Offset})
}

func TestReaderSkipsLeadingBlankLines(t *testing.T) {
	recs := readAll(t, "\n\n>a\nACGT\n")
	require.Len(t, recs, 1)
	assert.Equal(t, "ACGT", recs[0].Sequence)
}

func TestReaderParsesFASTQ(t *testing.T) {
	recs := readAll(t, "@read1\nACGTACGT\n+\nIIIIIIII\n@read2\nTTTT\n+read2\nIIII\n")
	require.Len(t, recs, 2)
	assert.Equal(t, "read1", recs[0].Header)
	assert.Equal(t, "ACGTACGT", recs[0].Sequence)
	assert.Equal(t, "read2", recs[1].Header)
	assert.Equal(t, "TTTT", recs[1].Sequence)
}

func TestReaderRejectsUnrecognisedFormat(t *testing.T) {
	r := NewReader(strings.NewReader("not a sequence file\n"))
	_, _, err := r.Next()
	assert.Error(t, err)
}

func TestReaderRejectsTruncatedFASTQ(t *testing.T) {
	r := NewReader(strings.NewReader("@read1\nACGT\n"))
	_, _, err := r.Next()
	assert.Error(t, err)
}

func TestReaderEmptyStreamYieldsNoRecords(t *testing.T) {
	recs := readAll(t, "")
	assert.Empty(t, recs)
}
