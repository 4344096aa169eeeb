// Package compress implements the per-tile entropy/compression schemes CTI
// supports, and a registry keyed by cti.CompressionKind.
//
// DeltaRLE and PredictiveRLE are not separate entries here: the format
// defines them as the Delta/2nd-order predictor transform (see
// pkg/cti/internal/transform) composed with the RLE entropy back-end. The
// tile engine applies the predictor and then calls the RLE Codec directly,
// so this registry only holds true byte-to-byte codecs.
package compress

import "fmt"

// Kind mirrors cti.CompressionKind without importing the cti package
// (which imports this one), keeping the dependency direction one-way.
type Kind uint8

// Exhaustive compression kinds; values match the CTI wire format exactly.
const (
	None          Kind = 0
	RLE           Kind = 1
	LZ77          Kind = 2
	DeltaRLE      Kind = 3
	PredictiveRLE Kind = 4
	Zstd          Kind = 10
	LZ4           Kind = 11
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case RLE:
		return "rle"
	case LZ77:
		return "lz77"
	case DeltaRLE:
		return "delta-rle"
	case PredictiveRLE:
		return "predictive-rle"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Codec compresses and decompresses a single tile's transformed byte
// buffer. expectedSize on Decompress is authoritative: implementations
// must fail rather than return a short or long buffer.
type Codec interface {
	Compress(input []byte) ([]byte, error)
	Decompress(input []byte, expectedSize int) ([]byte, error)
}

var registry = map[Kind]Codec{
	None: noneCodec{},
	RLE:  rleCodec{},
	LZ77: lz77Codec{},
	Zstd: newZstdCodec(),
	LZ4:  newLZ4Codec(),
}

// ByKind returns the entropy Codec backing k. DeltaRLE and PredictiveRLE
// both resolve to the RLE codec: the tile engine is responsible for
// running the corresponding predictor transform around it (see
// Config.usesPredictor and forwardTransform in the tile package).
func ByKind(k Kind) (Codec, error) {
	switch k {
	case DeltaRLE, PredictiveRLE:
		return registry[RLE], nil
	}
	c, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("compress: unknown compression kind %d", k)
	}
	return c, nil
}
