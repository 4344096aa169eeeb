package cti

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomImage(rng *rand.Rand, width, height int, colorType ColorType) *Image {
	img, err := NewImage(width, height, colorType)
	if err != nil {
		panic(err)
	}
	rng.Read(img.Pixels)
	return img
}

// Scenario A: a tiny RGB8 image whose tile grid has one full-width tile
// column and one clipped column, round-tripped with no transform at all.
func TestScenarioAIdentityRoundTripWithClippedTile(t *testing.T) {
	img, err := NewImage(3, 2, ColorRGB8)
	require.NoError(t, err)
	for i := range img.Pixels {
		img.Pixels[i] = byte(i)
	}

	data, err := Encode(img, EncodeParams{TileSize: 2, Compression: CompressionNone})
	require.NoError(t, err)

	meta, err := Info(data)
	require.NoError(t, err)
	require.Equal(t, 2, meta.TilesX)
	require.Equal(t, 1, meta.TilesY)
	require.Equal(t, 2, meta.TileCount)

	decoded, decodedMeta, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
	require.Equal(t, meta, decodedMeta)
}

// Scenario B: RCT + Zstd on a solid-color RGB8 image.
func TestScenarioBRCTZstdSolidColor(t *testing.T) {
	img, err := NewImage(64, 48, ColorRGB8)
	require.NoError(t, err)
	for i := 0; i < len(img.Pixels); i += 3 {
		img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2] = 10, 200, 30
	}

	data, err := Encode(img, EncodeParams{
		TileSize:    16,
		Compression: CompressionZstd,
		Quality:     70,
		RCTEnabled:  true,
	})
	require.NoError(t, err)

	decoded, meta, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
	require.True(t, meta.RCTEnabled)
}

// Scenario C: Predictive+RLE on an L16 ramp image.
func TestScenarioCPredictiveRLEL16Ramp(t *testing.T) {
	width, height := 40, 30
	img, err := NewImage(width, height, ColorL16)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint16((x + y*width) % 65536)
			off := (y*width + x) * 2
			img.Pixels[off] = byte(v)
			img.Pixels[off+1] = byte(v >> 8)
		}
	}

	data, err := Encode(img, EncodeParams{TileSize: 8, Compression: CompressionPredictiveRLE})
	require.NoError(t, err)

	decoded, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
}

// Scenario D: corrupting a tile payload byte must surface TileCorrupted.
func TestScenarioDCorruptionSurfacesTileCorrupted(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	img := randomImage(rng, 32, 32, ColorRGBA8)

	data, err := Encode(img, EncodeParams{TileSize: 8, Compression: CompressionRLE})
	require.NoError(t, err)

	// Flip a byte inside the first tile's payload region (just past the
	// header and index).
	meta, err := Info(data)
	require.NoError(t, err)
	payloadStart := 64 + meta.TileCount*20
	data[payloadStart] ^= 0xff

	_, _, err = Decode(data)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTileCorrupted))
	var tcErr *TileCorruptedError
	require.True(t, errors.As(err, &tcErr))
	require.Equal(t, 0, tcErr.Index)
}

// Scenario E: RES + ICC sections round-trip with a TOC count of 2.
func TestScenarioESectionsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	img := randomImage(rng, 16, 16, ColorRGB8)

	data, err := Encode(img, EncodeParams{
		TileSize:    8,
		Compression: CompressionNone,
		DPI:         &DPI{X: 300, Y: 300},
		ICC:         []byte("fake icc profile payload"),
	})
	require.NoError(t, err)

	meta, err := Info(data)
	require.NoError(t, err)
	require.True(t, meta.HasSections)
	require.NotNil(t, meta.DPI)
	require.Equal(t, float32(300), meta.DPI.X)
	require.Equal(t, float32(300), meta.DPI.Y)
	require.Equal(t, []byte("fake icc profile payload"), meta.ICC)

	decoded, decodedMeta, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
	require.Equal(t, meta, decodedMeta)
}

// Scenario F: truncation failures at specific boundaries.
func TestScenarioFTruncation(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	img := randomImage(rng, 16, 16, ColorRGB8)
	data, err := Encode(img, EncodeParams{TileSize: 8, Compression: CompressionNone})
	require.NoError(t, err)

	t.Run("header truncated at 63 bytes", func(t *testing.T) {
		_, _, err := Decode(data[:63])
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrMalformedHeader))
	})

	t.Run("index truncated mid-entry", func(t *testing.T) {
		_, _, err := Decode(data[:70])
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrTruncatedIndex))
	})
}

// Boundary: a 1x1 image is a single tile, one pixel, through the predictor
// and compress stages. RCT is requested but not applied, since RGBA8 is
// not an RCT-eligible color type.
func TestBoundarySinglePixelImage(t *testing.T) {
	img, err := NewImage(1, 1, ColorRGBA8)
	require.NoError(t, err)
	copy(img.Pixels, []byte{11, 22, 33, 44})

	data, err := Encode(img, EncodeParams{TileSize: 8, Compression: CompressionDeltaRLE, RCTEnabled: true})
	require.NoError(t, err)

	meta, err := Info(data)
	require.NoError(t, err)
	require.Equal(t, 1, meta.TilesX)
	require.Equal(t, 1, meta.TilesY)
	require.Equal(t, 1, meta.TileCount)

	decoded, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
}

// Boundary: tile_size strictly greater than both image dimensions still
// produces exactly one (clipped) tile rather than an out-of-bounds grid.
func TestBoundaryTileSizeExceedsImageDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	img := randomImage(rng, 5, 3, ColorRGB8)

	data, err := Encode(img, EncodeParams{TileSize: 256, Compression: CompressionZstd, Quality: 50})
	require.NoError(t, err)

	meta, err := Info(data)
	require.NoError(t, err)
	require.Equal(t, 1, meta.TilesX)
	require.Equal(t, 1, meta.TilesY)
	require.Equal(t, 1, meta.TileCount)

	decoded, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
}

// Boundary: RGBA8 pixels with alpha == 0 throughout must round-trip
// byte-for-byte — the codec treats alpha as an ordinary channel, never
// special-cases or drops it.
func TestBoundaryRGBA8ZeroAlpha(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	img, err := NewImage(12, 9, ColorRGBA8)
	require.NoError(t, err)
	rng.Read(img.Pixels)
	for i := 3; i < len(img.Pixels); i += 4 {
		img.Pixels[i] = 0
	}

	data, err := Encode(img, EncodeParams{TileSize: 4, Compression: CompressionRLE})
	require.NoError(t, err)

	decoded, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, img.Pixels, decoded.Pixels)
	for i := 3; i < len(decoded.Pixels); i += 4 {
		require.Equal(t, byte(0), decoded.Pixels[i])
	}
}

func TestEncodeRejectsBadTileSize(t *testing.T) {
	img, err := NewImage(4, 4, ColorL8)
	require.NoError(t, err)
	_, err = Encode(img, EncodeParams{TileSize: 70000})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadTileSize))
}

func TestEncodeRejectsUnknownCompression(t *testing.T) {
	img, err := NewImage(4, 4, ColorL8)
	require.NoError(t, err)
	_, err = Encode(img, EncodeParams{Compression: CompressionKind(200)})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownCompression))
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf, "NOPE")
	_, _, err := Decode(buf)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadMagic))
}

func TestInfoAndDecodeMetadataAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	img := randomImage(rng, 50, 37, ColorRGBA8)
	data, err := Encode(img, EncodeParams{TileSize: 12, Compression: CompressionLZ77})
	require.NoError(t, err)

	infoMeta, err := Info(data)
	require.NoError(t, err)
	_, decodeMeta, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, infoMeta, decodeMeta)
}

func TestEncodeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	img := randomImage(rng, 48, 48, ColorRGB16)
	params := EncodeParams{TileSize: 16, Compression: CompressionDeltaRLE, RCTEnabled: true}

	first, err := Encode(img, params)
	require.NoError(t, err)
	second, err := Encode(img, params)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
