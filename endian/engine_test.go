package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetEndianEngines(t *testing.T) {
	require.Equal(t, EndianEngine(binary.LittleEndian), GetLittleEndianEngine())
	require.Equal(t, EndianEngine(binary.BigEndian), GetBigEndianEngine())
}

func TestEndianEngine_RoundTrip(t *testing.T) {
	engines := map[string]EndianEngine{
		"little-endian": GetLittleEndianEngine(),
		"big-endian":    GetBigEndianEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			b32 := make([]byte, 4)
			engine.PutUint32(b32, 0xDEADBEEF)
			require.Equal(t, uint32(0xDEADBEEF), engine.Uint32(b32))

			b64 := make([]byte, 8)
			engine.PutUint64(b64, 0x0123456789ABCDEF)
			require.Equal(t, uint64(0x0123456789ABCDEF), engine.Uint64(b64))

			appended := engine.AppendUint32(nil, 0xDEADBEEF)
			require.Equal(t, b32, appended)

			appended = engine.AppendUint64(nil, 0x0123456789ABCDEF)
			require.Equal(t, b64, appended)
		})
	}
}

func TestEndianEngine_ByteOrder(t *testing.T) {
	le := GetLittleEndianEngine().AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le)

	be := GetBigEndianEngine().AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be)
}

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.NotNil(t, order)
	require.Equal(t, order == binary.LittleEndian, IsNativeLittleEndian())
	require.Equal(t, order == binary.BigEndian, IsNativeBigEndian())
}
