package tile

import (
	"encoding/binary"

	"github.com/ctiproj/cti/pkg/cti/internal/crc"
)

// ExtractRectChecksummed copies the pixel bytes of rect out of a
// width×height image buffer with the given bytes-per-pixel stride, into a
// contiguous, row-major buffer (no padding — callers get exactly
// rect.W*rect.H*bpp bytes), accumulating the tile's CRC-32 over the same
// row-at-a-time pass instead of a second full pass over the copied bytes.
func ExtractRectChecksummed(pixels []byte, width int, bpp int, rect Rect) ([]byte, uint32) {
	out := make([]byte, rect.W*rect.H*bpp)
	rowBytes := rect.W * bpp
	h := crc.NewHasher()
	for row := 0; row < rect.H; row++ {
		srcOff := ((rect.Y+row)*width + rect.X) * bpp
		dstOff := row * rowBytes
		copy(out[dstOff:dstOff+rowBytes], pixels[srcOff:srcOff+rowBytes])
		h.Write(out[dstOff : dstOff+rowBytes])
	}
	return out, h.Sum32()
}

// BlitRectChecksummed copies a contiguous rect-sized buffer back into a
// width×height image buffer at rect's position, accumulating tileBytes'
// CRC-32 over the same row-at-a-time pass instead of a separate full pass
// before blitting. Callers that must verify the checksum before trusting
// the blitted pixels rely on every tile's destination rectangle being
// disjoint, and on the caller discarding the whole output buffer when any
// tile's returned checksum doesn't match.
func BlitRectChecksummed(pixels []byte, width int, bpp int, rect Rect, tileBytes []byte) uint32 {
	rowBytes := rect.W * bpp
	h := crc.NewHasher()
	for row := 0; row < rect.H; row++ {
		dstOff := ((rect.Y+row)*width + rect.X) * bpp
		srcOff := row * rowBytes
		h.Write(tileBytes[srcOff : srcOff+rowBytes])
		copy(pixels[dstOff:dstOff+rowBytes], tileBytes[srcOff:srcOff+rowBytes])
	}
	return h.Sum32()
}

// deinterleave splits a native (R,G,B[,A] or L) interleaved byte buffer
// into one []int32 plane per channel, each holding w*h samples decoded at
// bitsPerSample width.
func deinterleave(buf []byte, channels, bitsPerSample int, sampleCount int) [][]int32 {
	sampleBytes := bitsPerSample / 8
	planes := make([][]int32, channels)
	for c := range planes {
		planes[c] = make([]int32, sampleCount)
	}
	stride := channels * sampleBytes
	for i := 0; i < sampleCount; i++ {
		base := i * stride
		for c := 0; c < channels; c++ {
			planes[c][i] = int32(decodeSample(buf[base+c*sampleBytes:], sampleBytes))
		}
	}
	return planes
}

// interleave reverses deinterleave.
func interleave(planes [][]int32, bitsPerSample int) []byte {
	channels := len(planes)
	sampleBytes := bitsPerSample / 8
	sampleCount := len(planes[0])
	stride := channels * sampleBytes
	buf := make([]byte, sampleCount*stride)
	for i := 0; i < sampleCount; i++ {
		base := i * stride
		for c := 0; c < channels; c++ {
			encodeSample(buf[base+c*sampleBytes:], uint32(planes[c][i]), sampleBytes)
		}
	}
	return buf
}

func decodeSample(buf []byte, sampleBytes int) uint32 {
	if sampleBytes == 1 {
		return uint32(buf[0])
	}
	return uint32(binary.LittleEndian.Uint16(buf))
}

func encodeSample(dst []byte, v uint32, sampleBytes int) {
	if sampleBytes == 1 {
		dst[0] = byte(v)
		return
	}
	binary.LittleEndian.PutUint16(dst, uint16(v))
}
