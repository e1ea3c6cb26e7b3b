package thresholddb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFamilyThresholdsRoundTrip(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetFamilyThreshold(42, 12.5))
	require.NoError(t, s.SetFamilyThreshold(7, -3.0))
	// Upsert overwrites.
	require.NoError(t, s.SetFamilyThreshold(42, 99.0))

	got, err := s.FamilyThresholds()
	require.NoError(t, err)
	require.Equal(t, map[uint16]float64{42: 99.0, 7: -3.0}, got)
}

func TestCodonScoresRoundTrip(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	const n = 4096
	scores := make([]float64, n)
	scores[0] = 1.5
	scores[4095] = -2.25

	require.NoError(t, s.SetCodonScores(scores))

	got, err := s.CodonScores(n)
	require.NoError(t, err)
	require.Equal(t, scores, got)
}

func TestCodonScoresUnsetMasksAreZero(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	got, err := s.CodonScores(16)
	require.NoError(t, err)
	require.Equal(t, make([]float64, 16), got)
}
