package deltapack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/deltapack/chunk"
	"github.com/arloliu/deltapack/errs"
	"github.com/arloliu/deltapack/format"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	values := []int64{100, 101, 102, 50, 50, 50}

	framed, err := Encode(values)
	require.NoError(t, err)

	decoded, err := Decode[int64](framed)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestEncodeDecode_WithOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	values := make([]uint32, 2000)
	for i := range values {
		values[i] = uint32(1_000_000 + i*10 + rng.Intn(10))
	}

	framed, err := Encode(values,
		chunk.WithEncoding(format.TypeDeltaPacked),
		chunk.WithCompression(format.CompressionS2),
	)
	require.NoError(t, err)

	decoded, err := Decode[uint32](framed)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestEncodeValues_WithValidity(t *testing.T) {
	values := []int64{10, 0, 20, 0, 30}
	validity := []bool{true, false, true, false, true}

	framed, err := EncodeValues(values, validity)
	require.NoError(t, err)

	decoded, err := Decode[int64](framed)
	require.NoError(t, err)
	require.Equal(t, []int64{10, 20, 30}, decoded)
}

func TestEncode_Empty(t *testing.T) {
	framed, err := Encode[int64](nil)
	require.NoError(t, err)

	decoded, err := Decode[int64](framed)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecode_WrongValueType(t *testing.T) {
	framed, err := Encode([]int64{1, 2, 3})
	require.NoError(t, err)

	_, err = Decode[int32](framed)
	require.ErrorIs(t, err, errs.ErrInvalidValueWidth)
}

func TestCountValid(t *testing.T) {
	require.Equal(t, 5, CountValid(5, nil))
	require.Equal(t, 0, CountValid(0, nil))
	require.Equal(t, 2, CountValid(4, []bool{true, false, false, true}))
	require.Equal(t, 0, CountValid(3, []bool{false, false, false}))
}
