package compress

import (
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func testInputs() map[string][]byte {
	r := rand.New(rand.NewSource(7))
	random := make([]byte, 4096)
	r.Read(random)

	solid := make([]byte, 4096)
	for i := range solid {
		solid[i] = 0x42
	}

	runs := make([]byte, 0, 4096)
	for len(runs) < 4096 {
		b := byte(len(runs) % 5)
		for k := 0; k < 17; k++ {
			runs = append(runs, b)
		}
	}

	return map[string][]byte{
		"empty":  {},
		"random": random,
		"solid":  solid,
		"runs":   runs,
		"tiny":   {1, 2, 3},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	kinds := []Kind{None, RLE, LZ77, Zstd, LZ4}
	for _, kind := range kinds {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			codec, err := ByKind(kind)
			require.NoError(t, err)
			for name, input := range testInputs() {
				input := input
				t.Run(name, func(t *testing.T) {
					compressed, err := codec.Compress(input)
					require.NoError(t, err)
					out, err := codec.Decompress(compressed, len(input))
					require.NoError(t, err)
					require.Equal(t, input, out)
				})
			}
		})
	}
}

func TestCodecDecompressSizeMismatch(t *testing.T) {
	codec, err := ByKind(RLE)
	require.NoError(t, err)
	compressed, err := codec.Compress([]byte("aaaaaaaaaa"))
	require.NoError(t, err)
	_, err = codec.Decompress(compressed, 3)
	require.Error(t, err)
}

func TestByKindPredictorVariantsUseRLE(t *testing.T) {
	deltaCodec, err := ByKind(DeltaRLE)
	require.NoError(t, err)
	rleCodec, err := ByKind(RLE)
	require.NoError(t, err)
	require.Equal(t, rleCodec, deltaCodec)

	predictiveCodec, err := ByKind(PredictiveRLE)
	require.NoError(t, err)
	require.Equal(t, rleCodec, predictiveCodec)
}

func TestByKindUnknown(t *testing.T) {
	_, err := ByKind(Kind(99))
	require.Error(t, err)
}

func TestZstdQualityLevelFormula(t *testing.T) {
	// level = 1 + round((quality/100) * 21), clamped to [1,22].
	cases := []struct {
		quality uint8
		level   int
	}{
		{0, 1},
		{10, 3},
		{100, 22},
	}
	for _, c := range cases {
		require.Equal(t, c.level, zstdQualityLevel(c.quality), "quality %d", c.quality)
	}
}

func TestZstdLevelBucketsOntoNearestTier(t *testing.T) {
	require.Equal(t, zstd.SpeedFastest, zstdLevel(10))           // level 3, <= 5
	require.Equal(t, zstd.SpeedDefault, zstdLevel(35))           // level 8, <= 11
	require.Equal(t, zstd.SpeedBetterCompression, zstdLevel(65)) // level 15, <= 17
	require.Equal(t, zstd.SpeedBestCompression, zstdLevel(90))   // level 20, > 17
}
