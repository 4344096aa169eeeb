package ctiio

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ctiproj/cti/pkg/cti"
)

func TestWritePNGPreviewL8(t *testing.T) {
	img, err := cti.NewImage(4, 3, cti.ColorL8)
	require.NoError(t, err)
	for i := range img.Pixels {
		img.Pixels[i] = byte(i * 5)
	}

	var buf bytes.Buffer
	require.NoError(t, WritePNGPreview(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 4, decoded.Bounds().Dx())
	require.Equal(t, 3, decoded.Bounds().Dy())
}

func TestWritePNGPreviewRGB8(t *testing.T) {
	img, err := cti.NewImage(6, 4, cti.ColorRGB8)
	require.NoError(t, err)
	for i := 0; i < len(img.Pixels); i += 3 {
		img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2] = 10, 20, 30
	}

	var buf bytes.Buffer
	require.NoError(t, WritePNGPreview(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, a := decoded.At(0, 0).RGBA()
	require.Equal(t, uint32(10*257), r)
	require.Equal(t, uint32(20*257), g)
	require.Equal(t, uint32(30*257), b)
	require.Equal(t, uint32(0xffff), a)
}

func TestWritePNGPreviewRGBA8PreservesAlpha(t *testing.T) {
	img, err := cti.NewImage(2, 2, cti.ColorRGBA8)
	require.NoError(t, err)
	for i := 0; i < len(img.Pixels); i += 4 {
		img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], img.Pixels[i+3] = 1, 2, 3, 128
	}

	var buf bytes.Buffer
	require.NoError(t, WritePNGPreview(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	_, _, _, a := decoded.At(0, 0).RGBA()
	require.NotEqual(t, uint32(0xffff), a)
}

func TestWritePNGPreviewL16TruncatesToTopByte(t *testing.T) {
	img, err := cti.NewImage(2, 2, cti.ColorL16)
	require.NoError(t, err)
	img.Pixels[0], img.Pixels[1] = 0x34, 0x12 // little-endian 0x1234

	var buf bytes.Buffer
	require.NoError(t, WritePNGPreview(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	r, _, _, _ := decoded.At(0, 0).RGBA()
	require.Equal(t, uint32(0x12)*257, r)
}
