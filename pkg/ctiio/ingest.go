// Package ctiio bridges the cti codec to stdlib and golang.org/x/image
// image types: TIFF ingestion into a cti.Image, and PNG preview rendering
// out of one.
package ctiio

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/tiff"

	"github.com/ctiproj/cti/pkg/cti"
)

// IngestTIFF decodes a TIFF stream and converts it into a cti.Image. The
// color type is chosen from the decoded image's concrete color model:
// grayscale sources become L8/L16, RGBA sources become RGBA8, and opaque
// 3-channel sources become RGB8/RGB16.
func IngestTIFF(r io.Reader) (*cti.Image, error) {
	src, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("ctiio: decode tiff: %w", err)
	}
	return fromImage(src)
}

// fromImage converts a decoded image.Image into a cti.Image, selecting the
// narrowest ColorType that preserves the source's channel count and depth.
func fromImage(src image.Image) (*cti.Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	colorType, err := colorTypeFor(src)
	if err != nil {
		return nil, err
	}

	img, err := cti.NewImage(width, height, colorType)
	if err != nil {
		return nil, err
	}

	bpp := colorType.BytesPerPixel()
	switch colorType {
	case cti.ColorL8:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				_, _, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				img.Pixels[y*width+x] = byte(b >> 8)
			}
		}
	case cti.ColorL16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				_, _, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				off := (y*width + x) * bpp
				putUint16LE(img.Pixels[off:], uint16(b))
			}
		}
	case cti.ColorRGB8:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				off := (y*width + x) * bpp
				img.Pixels[off] = byte(r >> 8)
				img.Pixels[off+1] = byte(g >> 8)
				img.Pixels[off+2] = byte(b >> 8)
			}
		}
	case cti.ColorRGB16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				off := (y*width + x) * bpp
				putUint16LE(img.Pixels[off:], uint16(r))
				putUint16LE(img.Pixels[off+2:], uint16(g))
				putUint16LE(img.Pixels[off+4:], uint16(b))
			}
		}
	case cti.ColorRGBA8:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				off := (y*width + x) * bpp
				img.Pixels[off] = byte(r >> 8)
				img.Pixels[off+1] = byte(g >> 8)
				img.Pixels[off+2] = byte(b >> 8)
				img.Pixels[off+3] = byte(a >> 8)
			}
		}
	}
	return img, nil
}

// colorTypeFor inspects src's concrete color model to decide which
// cti.ColorType preserves it most faithfully without inventing channels
// the source never had.
func colorTypeFor(src image.Image) (cti.ColorType, error) {
	switch src.ColorModel() {
	case color.GrayModel:
		return cti.ColorL8, nil
	case color.Gray16Model:
		return cti.ColorL16, nil
	case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model:
		if hasTransparency(src) {
			return cti.ColorRGBA8, nil
		}
		if is16Bit(src) {
			return cti.ColorRGB16, nil
		}
		return cti.ColorRGB8, nil
	default:
		return cti.ColorRGB8, nil
	}
}

func hasTransparency(src image.Image) bool {
	switch src.ColorModel() {
	case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model:
		bounds := src.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if _, _, _, a := src.At(x, y).RGBA(); a != 0xffff {
					return true
				}
			}
		}
	}
	return false
}

func is16Bit(src image.Image) bool {
	switch src.ColorModel() {
	case color.NRGBA64Model, color.RGBA64Model:
		return true
	default:
		return false
	}
}

func putUint16LE(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}
