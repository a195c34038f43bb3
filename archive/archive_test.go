package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpack_AllCodecs(t *testing.T) {
	codecs := []CodecID{CodecNone, CodecZstd, CodecS2, CodecLZ4}

	for _, codec := range codecs {
		t.Run(codec.String(), func(t *testing.T) {
			v := []any{int64(1), "two", []any{true, false, nil}}

			encoded, err := Pack(v, codec)
			require.NoError(t, err)
			require.Equal(t, byte(codec), encoded[0])

			got, err := Unpack(encoded)
			require.NoError(t, err)
			require.Equal(t, v, got)
		})
	}
}

func TestUnpack_UnknownCodec(t *testing.T) {
	_, err := Unpack([]byte{0xfe, 0x00})
	require.Error(t, err)
}

func TestUnpack_Empty(t *testing.T) {
	_, err := Unpack(nil)
	require.Error(t, err)
}

func TestCodecID_String(t *testing.T) {
	require.Equal(t, "Zstd", CodecZstd.String())
	require.Equal(t, "Unknown", CodecID(0xaa).String())
}
