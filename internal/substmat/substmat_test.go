package substmat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobics/ecurve-go/internal/word"
)

func TestIdentityScoresExactMatch(t *testing.T) {
	m := Identity()
	for pos := 0; pos < word.SuffixLen; pos++ {
		assert.Equal(t, 1.0, m.Get(pos, 3, 3))
		assert.Equal(t, 0.0, m.Get(pos, 3, 4))
	}
}

func TestAlignSuffixesIdentity(t *testing.T) {
	m := Identity()

	// build a suffix where amino 'i' (i.e. position, capped to alphabet
	// range) occupies bit-slot i
	var s uint64
	for i := 0; i < word.SuffixLen; i++ {
		s |= uint64(i%20) << (uint(i) * word.AminoBits)
	}

	dist := make([]float64, word.SuffixLen)
	AlignSuffixes(m, s, s, dist)
	for _, d := range dist {
		assert.Equal(t, 1.0, d)
	}
}

func TestAlignSuffixesMismatch(t *testing.T) {
	m := New()
	for pos := 0; pos < word.SuffixLen; pos++ {
		m.Set(pos, 1, 2, 0.5)
	}

	var s1, s2 uint64
	s1 |= 1 // low bits amino 1
	s2 |= 2 // low bits amino 2

	dist := make([]float64, word.SuffixLen)
	AlignSuffixes(m, s1, s2, dist)
	// i=0 reads the low bits -> idx = SuffixLen-1
	assert.Equal(t, 0.5, dist[word.SuffixLen-1])
}

func TestStoreLoadRoundTrip(t *testing.T) {
	m := Identity()
	m.Set(5, 2, 7, 3.25)

	var buf bytes.Buffer
	require.NoError(t, Store(&buf, m))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3.25, loaded.Get(5, 2, 7))
	assert.Equal(t, 1.0, loaded.Get(0, 0, 0))
}

func TestLoadRejectsWrongSize(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("[1, 1]\n1\n")))
	require.Error(t, err)
}
