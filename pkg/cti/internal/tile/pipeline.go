package tile

import (
	"fmt"

	"github.com/ctiproj/cti/pkg/cti/internal/compress"
	"github.com/ctiproj/cti/pkg/cti/internal/transform"
)

// Config carries everything the tile pipeline needs about the image and
// the chosen encode parameters, independent of cti.ColorType/EncodeParams
// so this package does not import the parent pkg/cti (which imports this
// one for orchestration).
type Config struct {
	Channels      int
	BitsPerSample int
	RCTCapable    bool // true for 3-channel (RGB8/RGB16) color types
	RCTEnabled    bool
	Compression   compress.Kind
	Quality       uint8
}

func (c Config) bytesPerPixel() int {
	return c.Channels * c.BitsPerSample / 8
}

func (c Config) usesPredictor() bool {
	return c.Compression == compress.DeltaRLE || c.Compression == compress.PredictiveRLE
}

func (c Config) rctActive() bool {
	return c.RCTEnabled && c.RCTCapable && c.Channels == 3
}

// EncodeResult is one tile's fully processed output, ready to be sized,
// offset-assigned, and written out by the caller.
type EncodeResult struct {
	Compressed   []byte
	OriginalSize uint32
	CRC32        uint32
}

// EncodeTile runs the full per-tile encode pipeline: extract -> CRC ->
// RCT -> predictor -> compress, per the documented component-design step
// order.
func EncodeTile(pixels []byte, width int, rect Rect, cfg Config) (EncodeResult, error) {
	bpp := cfg.bytesPerPixel()
	native, checksum := ExtractRectChecksummed(pixels, width, bpp, rect)

	transformed, err := forwardTransform(native, rect.W, rect.H, cfg)
	if err != nil {
		return EncodeResult{}, err
	}

	codec, err := codecFor(cfg)
	if err != nil {
		return EncodeResult{}, err
	}
	compressed, err := codec.Compress(transformed)
	if err != nil {
		return EncodeResult{}, fmt.Errorf("tile: compress: %w", err)
	}

	return EncodeResult{
		Compressed:   compressed,
		OriginalSize: uint32(len(native)),
		CRC32:        checksum,
	}, nil
}

// DecodeTile reverses EncodeTile: decompress -> inverse predictor ->
// inverse RCT -> blit into dst while accumulating the CRC, then check it.
// A payload that does not decompress to the tile's expected size is
// reported as a CRCMismatchError too, since it is just as corrupted.
// Blitting before the check is safe because every caller discards dst
// entirely (never returns a partially-written image) on any tile's
// CRCMismatchError.
func DecodeTile(compressed []byte, dst []byte, width int, rect Rect, cfg Config, originalSize int, wantCRC uint32) error {
	bpp := cfg.bytesPerPixel()
	transformed, err := decompressTile(compressed, rect.W, rect.H, cfg)
	if err != nil {
		return &CRCMismatchError{Expected: wantCRC}
	}

	native, err := inverseTransform(transformed, rect.W, rect.H, cfg)
	if err != nil {
		return err
	}
	if len(native) != originalSize {
		return fmt.Errorf("tile: reconstructed %d bytes, want %d", len(native), originalSize)
	}

	actualCRC := BlitRectChecksummed(dst, width, bpp, rect, native)
	if actualCRC != wantCRC {
		return &CRCMismatchError{Expected: wantCRC, Actual: actualCRC}
	}
	return nil
}

// CRCMismatchError signals a decoded tile whose checksum does not match
// the index, or whose payload did not decompress at all (Actual is then 0,
// as there were no tile bytes to checksum). Index is filled in by
// DecodeAll, which is the only caller that knows a tile's position in the
// grid; the cti package's top-level Decode turns this into its own
// TileCorrupted error.
type CRCMismatchError struct {
	Index            int
	Expected, Actual uint32
}

func (e *CRCMismatchError) Error() string {
	return fmt.Sprintf("tile %d: crc mismatch: expected %#08x, got %#08x", e.Index, e.Expected, e.Actual)
}

func codecFor(cfg Config) (compress.Codec, error) {
	if cfg.Compression == compress.Zstd {
		return compress.NewZstdCodecWithQuality(cfg.Quality), nil
	}
	return compress.ByKind(cfg.Compression)
}

func decompressTile(compressed []byte, w, h int, cfg Config) ([]byte, error) {
	codec, err := codecFor(cfg)
	if err != nil {
		return nil, err
	}
	expected := transformedSize(w, h, cfg)
	out, err := codec.Decompress(compressed, expected)
	if err != nil {
		return nil, fmt.Errorf("tile: decompress: %w", err)
	}
	return out, nil
}

// transformedSize returns the byte length of the buffer a decompressor
// must produce, derived purely from tile geometry and cfg so the decoder
// never needs it stored on disk.
func transformedSize(w, h int, cfg Config) int {
	if cfg.rctActive() {
		return transform.RCTPlaneSize(w*h, cfg.BitsPerSample)
	}
	return w * h * cfg.bytesPerPixel()
}

// forwardTransform applies RCT (if active) and the predictor (if this
// compression kind calls for one) to a tile's native interleaved bytes,
// returning the buffer the entropy coder compresses.
func forwardTransform(native []byte, w, h int, cfg Config) ([]byte, error) {
	sampleCount := w * h
	if !cfg.rctActive() {
		planes := deinterleave(native, cfg.Channels, cfg.BitsPerSample, sampleCount)
		if cfg.usesPredictor() {
			predictEachForward(planes, w, h, uint(cfg.BitsPerSample), cfg.Compression)
		}
		return interleave(planes, cfg.BitsPerSample), nil
	}

	planes := deinterleave(native, 3, cfg.BitsPerSample, sampleCount)
	r, g, b := planes[0], planes[1], planes[2]
	transform.ForwardRCT(r, g, b)

	if cfg.usesPredictor() {
		cBits := uint(2 * cfg.BitsPerSample)
		// Cb/Cr are signed, but the inverse predictors reconstruct samples
		// modulo 2^cBits; give the forward pass that same representation so
		// both sides see identical neighbor values.
		cMask := int64(1)<<cBits - 1
		for i := range g {
			g[i] = int32(int64(g[i]) & cMask)
			b[i] = int32(int64(b[i]) & cMask)
		}
		predictOneForward(r, w, h, uint(cfg.BitsPerSample), cfg.Compression)
		predictOneForward(g, w, h, cBits, cfg.Compression)
		predictOneForward(b, w, h, cBits, cfg.Compression)
	}

	return transform.PackRCTPlanes(r, g, b, cfg.BitsPerSample), nil
}

// inverseTransform reverses forwardTransform.
func inverseTransform(buf []byte, w, h int, cfg Config) ([]byte, error) {
	sampleCount := w * h
	if !cfg.rctActive() {
		planes := deinterleave(buf, cfg.Channels, cfg.BitsPerSample, sampleCount)
		if cfg.usesPredictor() {
			predictEachInverse(planes, w, h, uint(cfg.BitsPerSample), cfg.Compression)
		}
		return interleave(planes, cfg.BitsPerSample), nil
	}

	y, cb, cr := transform.UnpackRCTPlanes(buf, sampleCount, cfg.BitsPerSample)
	if cfg.usesPredictor() {
		cBits := uint(2 * cfg.BitsPerSample)
		predictOneInverse(y, w, h, uint(cfg.BitsPerSample), cfg.Compression)
		predictOneInverse(cb, w, h, cBits, cfg.Compression)
		predictOneInverse(cr, w, h, cBits, cfg.Compression)
	}
	transform.InverseRCT(y, cb, cr)
	return interleave([][]int32{y, cb, cr}, cfg.BitsPerSample), nil
}

func predictEachForward(planes [][]int32, w, h int, bits uint, kind compress.Kind) {
	for _, p := range planes {
		predictOneForward(p, w, h, bits, kind)
	}
}

func predictEachInverse(planes [][]int32, w, h int, bits uint, kind compress.Kind) {
	for _, p := range planes {
		predictOneInverse(p, w, h, bits, kind)
	}
}

func predictOneForward(plane []int32, w, h int, bits uint, kind compress.Kind) {
	if kind == compress.PredictiveRLE {
		transform.PredictiveForward(plane, w, h, bits)
	} else {
		transform.DeltaForward(plane, w, h, bits)
	}
}

func predictOneInverse(plane []int32, w, h int, bits uint, kind compress.Kind) {
	if kind == compress.PredictiveRLE {
		transform.PredictiveInverse(plane, w, h, bits)
	} else {
		transform.DeltaInverse(plane, w, h, bits)
	}
}
