package ctiio

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/ctiproj/cti/pkg/cti"
)

// WritePNGPreview renders img as a PNG, losslessly for 8-bit color types
// and with a straightforward 16-to-8-bit top-byte truncation for L16/RGB16
// (PNG previews are for eyeballing, not archival fidelity — the CTI stream
// itself remains the source of truth).
func WritePNGPreview(w io.Writer, img *cti.Image) error {
	preview, err := toImage(img)
	if err != nil {
		return err
	}
	if err := png.Encode(w, preview); err != nil {
		return fmt.Errorf("ctiio: encode png preview: %w", err)
	}
	return nil
}

func toImage(img *cti.Image) (image.Image, error) {
	switch img.ColorType {
	case cti.ColorL8:
		out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		copy(out.Pix, img.Pixels)
		return out, nil
	case cti.ColorL16:
		out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		for i := range out.Pix {
			out.Pix[i] = img.Pixels[i*2+1]
		}
		return out, nil
	case cti.ColorRGB8:
		out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
		for i := 0; i < img.Width*img.Height; i++ {
			src := img.Pixels[i*3 : i*3+3]
			dst := out.Pix[i*4 : i*4+4]
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
		}
		return out, nil
	case cti.ColorRGB16:
		out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
		for i := 0; i < img.Width*img.Height; i++ {
			src := img.Pixels[i*6 : i*6+6]
			dst := out.Pix[i*4 : i*4+4]
			dst[0], dst[1], dst[2], dst[3] = src[1], src[3], src[5], 0xff
		}
		return out, nil
	case cti.ColorRGBA8:
		out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
		copy(out.Pix, img.Pixels)
		return out, nil
	default:
		return nil, fmt.Errorf("ctiio: unsupported color type %v for preview", img.ColorType)
	}
}
