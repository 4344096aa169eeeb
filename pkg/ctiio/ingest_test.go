package ctiio

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/stretchr/testify/require"

	"github.com/ctiproj/cti/pkg/cti"
)

func encodeTIFF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestIngestTIFFGrayscale(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = byte(i * 10)
	}

	data := encodeTIFF(t, src)
	img, err := IngestTIFF(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cti.ColorL8, img.ColorType)
	require.Equal(t, 4, img.Width)
	require.Equal(t, 3, img.Height)
	require.Equal(t, src.Pix, img.Pixels)
}

func TestIngestTIFFGray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetGray16(x, y, color.Gray16{Y: uint16(1000 * (x + y + 1))})
		}
	}

	data := encodeTIFF(t, src)
	img, err := IngestTIFF(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cti.ColorL16, img.ColorType)
	require.Len(t, img.Pixels, 3*2*2)
}

func TestIngestTIFFOpaqueRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 10, 20, 30, 0xff
	}

	data := encodeTIFF(t, src)
	img, err := IngestTIFF(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cti.ColorRGB8, img.ColorType)
}

func TestIngestTIFFTransparentRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 10, 20, 30, 128
	}

	data := encodeTIFF(t, src)
	img, err := IngestTIFF(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cti.ColorRGBA8, img.ColorType)
}

func TestIngestTIFFMalformedStream(t *testing.T) {
	_, err := IngestTIFF(bytes.NewReader([]byte("not a tiff")))
	require.Error(t, err)
}
