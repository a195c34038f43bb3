package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.BigEndian, engine)

	var testValue uint16 = 0x0102
	bytes := make([]byte, 2)
	engine.PutUint16(bytes, testValue)
	require.Equal(t, byte(0x01), bytes[0], "big endian should put MSB first")
	require.Equal(t, byte(0x02), bytes[1], "big endian should put LSB second")

	require.Equal(t, testValue, engine.Uint16(bytes))
}

func TestEndianEngineAppend(t *testing.T) {
	engine := GetBigEndianEngine()

	buf := engine.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)

	buf = engine.AppendUint64(buf, 0x0102030405060708)
	require.Equal(t, []byte{
		0x01, 0x02, 0x03, 0x04,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}, buf)
}
