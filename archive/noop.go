package archive

// NoopCodec bypasses compression; useful as a baseline or when the
// caller already knows the payload won't compress well.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoopCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
