package transform

import "encoding/binary"

// RCT's Y channel always lands back in [0, 2^bits-1] by construction (the
// averaging right shift cancels exactly), so it serializes at the source
// sample width. Cb/Cr do not: they carry one true extra bit of signed
// range (see rct.go), and offset-binary truncation back to the source
// width is not actually invertible once that shift is involved (the
// right-shift in InverseRCT does not commute with modular reduction the
// way plain addition/subtraction does). Packing Cb/Cr into a container
// double the source sample width avoids ever truncating them, at the
// cost of wire size, and keeps the transform exactly reversible.

// RCTPlaneSize returns the byte length of one tile's packed Y+Cb+Cr
// planes for a source sample width of bitsPerSample (8 or 16).
func RCTPlaneSize(pixelCount int, bitsPerSample int) int {
	ySize := bitsPerSample / 8
	cSize := 2 * ySize
	return pixelCount*ySize + 2*pixelCount*cSize
}

// PackRCTPlanes serializes Y, Cb, Cr (as produced by ForwardRCT) into a
// single little-endian buffer: Y plane at native sample width, then Cb,
// then Cr, each at double that width.
func PackRCTPlanes(y, cb, cr []int32, bitsPerSample int) []byte {
	n := len(y)
	ySize := bitsPerSample / 8
	cSize := 2 * ySize
	buf := make([]byte, n*ySize+2*n*cSize)

	off := 0
	for i := 0; i < n; i++ {
		putUint(buf[off:off+ySize], uint64(y[i]), ySize)
		off += ySize
	}
	for i := 0; i < n; i++ {
		putInt(buf[off:off+cSize], cb[i], cSize)
		off += cSize
	}
	for i := 0; i < n; i++ {
		putInt(buf[off:off+cSize], cr[i], cSize)
		off += cSize
	}
	return buf
}

// UnpackRCTPlanes reverses PackRCTPlanes.
func UnpackRCTPlanes(buf []byte, pixelCount int, bitsPerSample int) (y, cb, cr []int32) {
	ySize := bitsPerSample / 8
	cSize := 2 * ySize
	y = make([]int32, pixelCount)
	cb = make([]int32, pixelCount)
	cr = make([]int32, pixelCount)

	off := 0
	for i := 0; i < pixelCount; i++ {
		y[i] = int32(getUint(buf[off:off+ySize], ySize))
		off += ySize
	}
	for i := 0; i < pixelCount; i++ {
		cb[i] = getInt(buf[off:off+cSize], cSize)
		off += cSize
	}
	for i := 0; i < pixelCount; i++ {
		cr[i] = getInt(buf[off:off+cSize], cSize)
		off += cSize
	}
	return y, cb, cr
}

func putUint(dst []byte, v uint64, size int) {
	switch size {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	}
}

func getUint(src []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(src[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(src))
	case 4:
		return uint64(binary.LittleEndian.Uint32(src))
	}
	return 0
}

func putInt(dst []byte, v int32, size int) {
	switch size {
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	}
}

func getInt(src []byte, size int) int32 {
	switch size {
	case 2:
		return int32(int16(binary.LittleEndian.Uint16(src)))
	case 4:
		return int32(binary.LittleEndian.Uint32(src))
	}
	return 0
}
