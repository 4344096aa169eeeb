package compress

import (
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec wraps klauspost/compress/zstd for a single tile's bytes. Each
// call constructs its own encoder/decoder rather than sharing one across
// tiles: tiles are compressed concurrently by the tile engine, and zstd's
// Encoder/Decoder are not safe for concurrent EncodeAll/DecodeAll calls
// from a single instance once a dictionary or window state is attached.
// This mirrors how brawer-wikidata-qrank opens a fresh zstd.NewWriter per
// output stream rather than pooling one across goroutines.
type zstdCodec struct {
	level zstd.EncoderLevel
}

func newZstdCodec() zstdCodec {
	return zstdCodec{level: zstd.SpeedDefault}
}

// NewZstdCodecWithQuality returns a Codec whose encoder level is derived
// from a CTI quality value (0..100). The tile engine uses this instead of
// the registry's default-level codec so EncodeParams.Quality actually
// affects Zstd tiles.
func NewZstdCodecWithQuality(quality uint8) Codec {
	return zstdCodec{level: zstdLevel(quality)}
}

func (c zstdCodec) Compress(input []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: new encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(input, make([]byte, 0, len(input))), nil
}

func (c zstdCodec) Decompress(input []byte, expectedSize int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: new decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(input, make([]byte, 0, expectedSize))
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: decode: %w", err)
	}
	if len(out) != expectedSize {
		return nil, fmt.Errorf("compress: zstd: decoded %d bytes, want %d", len(out), expectedSize)
	}
	return out, nil
}

// zstdQualityLevel computes the documented quality->level formula,
// level = 1 + round((quality/100) * 21), clamped to the valid [1,22]
// zstd level range. klauspost/compress/zstd only exposes four discrete
// EncoderLevel tiers rather than 22 individually selectable levels, so
// zstdLevel buckets this computed level onto the nearest tier instead of
// being able to select it directly.
func zstdQualityLevel(quality uint8) int {
	if quality > 100 {
		quality = 100
	}
	level := 1 + int(math.Round(float64(quality)/100*21))
	if level < 1 {
		level = 1
	}
	if level > 22 {
		level = 22
	}
	return level
}

// zstdLevel maps a CTI quality value (0..100, higher means smaller/slower)
// onto a klauspost/compress/zstd EncoderLevel by first computing the
// documented level via zstdQualityLevel, then bucketing that level onto
// the nearest of klauspost's four tiers. The registry's zstdCodec (built by
// newZstdCodec) ignores quality and always encodes at SpeedDefault; the
// tile engine uses NewZstdCodecWithQuality instead.
func zstdLevel(quality uint8) zstd.EncoderLevel {
	switch level := zstdQualityLevel(quality); {
	case level <= 5:
		return zstd.SpeedFastest
	case level <= 11:
		return zstd.SpeedDefault
	case level <= 17:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}
