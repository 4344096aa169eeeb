package compress

import "fmt"

// noneCodec implements the identity compressor.
type noneCodec struct{}

func (noneCodec) Compress(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

func (noneCodec) Decompress(input []byte, expectedSize int) ([]byte, error) {
	if len(input) != expectedSize {
		return nil, fmt.Errorf("compress: none codec: got %d bytes, want %d", len(input), expectedSize)
	}
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}
