package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standard = "ACDEFGHIKLMNPQRSTVWY"

func TestCreateValid(t *testing.T) {
	a, err := Create(standard)
	require.NoError(t, err)
	assert.Equal(t, standard, a.String())
}

func TestCreateRejectsWrongLength(t *testing.T) {
	_, err := Create("ACDEFG")
	require.Error(t, err)
}

func TestCreateRejectsLowercase(t *testing.T) {
	_, err := Create("acdefghiklmnpqrstvwy")
	require.Error(t, err)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	_, err := Create("AADEFGHIKLMNPQRSTVWY")
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	a, err := Create(standard)
	require.NoError(t, err)
	for _, c := range []byte(standard) {
		amino := a.CharToAmino(c)
		require.GreaterOrEqual(t, amino, 0)
		assert.Equal(t, int(c), a.AminoToChar(amino))
	}
}

func TestCharToAminoUnknown(t *testing.T) {
	a, err := Create(standard)
	require.NoError(t, err)
	assert.Equal(t, -1, a.CharToAmino('Z'))
	assert.Equal(t, -1, a.CharToAmino('*'))
	assert.Equal(t, -1, a.CharToAmino('1'))
}

func TestAminoToCharOutOfRange(t *testing.T) {
	a, err := Create(standard)
	require.NoError(t, err)
	assert.Equal(t, -1, a.AminoToChar(-1))
	assert.Equal(t, -1, a.AminoToChar(20))
}
