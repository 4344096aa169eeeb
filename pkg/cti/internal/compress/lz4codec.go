package compress

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// lz4Codec wraps pierrec/lz4/v4's block API: each tile is compressed as a
// single independent LZ4 block (no frame headers, no streaming), since
// the container already records compressed/original size per tile and a
// CRC32 over the decompressed bytes.
type lz4Codec struct{}

func newLZ4Codec() lz4Codec {
	return lz4Codec{}
}

func (lz4Codec) Compress(input []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(input)))
	var c lz4.Compressor
	n, err := c.CompressBlock(input, buf)
	if err != nil {
		return nil, fmt.Errorf("compress: lz4: %w", err)
	}
	if n == 0 && len(input) > 0 {
		// Incompressible input: lz4 returns n==0 rather than expanding it.
		// Fall back to storing the raw bytes with a sentinel so Decompress
		// can tell the two cases apart.
		out := make([]byte, len(input)+1)
		out[0] = lz4RawMarker
		copy(out[1:], input)
		return out, nil
	}
	out := make([]byte, n+1)
	out[0] = lz4CompressedMarker
	copy(out[1:], buf[:n])
	return out, nil
}

const (
	lz4CompressedMarker = 0
	lz4RawMarker        = 1
)

func (lz4Codec) Decompress(input []byte, expectedSize int) ([]byte, error) {
	if expectedSize == 0 {
		return []byte{}, nil
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("compress: lz4: empty input, want %d bytes", expectedSize)
	}
	marker, body := input[0], input[1:]
	switch marker {
	case lz4RawMarker:
		if len(body) != expectedSize {
			return nil, fmt.Errorf("compress: lz4: raw payload %d bytes, want %d", len(body), expectedSize)
		}
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	case lz4CompressedMarker:
		out := make([]byte, expectedSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("compress: lz4: %w", err)
		}
		if n != expectedSize {
			return nil, fmt.Errorf("compress: lz4: decoded %d bytes, want %d", n, expectedSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("compress: lz4: unknown block marker %d", marker)
	}
}
