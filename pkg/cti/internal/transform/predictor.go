package transform

// DeltaForward applies the Delta predictor to a single-channel width×height
// plane, in place, storing each residual modulo 2^bits so it fits back
// into the same fixed-width container the caller serializes.
//
//	d(x,y) = p(x,y) - p(x-1,y)                    for x>0
//	d(0,y) = p(0,y) - p(0,y-1)                    for y>0
//	d(0,0) = p(0,0)
//
// bits may be up to 32; at bits==32 the mask below is the full int32
// range and masking degenerates to a no-op, which is correct since the
// RCT chroma planes (the only caller using bits>16) never actually need
// to wrap.
func DeltaForward(plane []int32, width, height int, bits uint) {
	mask := fullMask(bits)
	// Walk the plane back-to-front so each pixel's left/top neighbor is
	// still the original (un-differenced) sample when it's read.
	for y := height - 1; y >= 0; y-- {
		for x := width - 1; x >= 0; x-- {
			idx := y*width + x
			switch {
			case x > 0:
				plane[idx] = wrap(int64(plane[idx])-int64(plane[idx-1]), mask)
			case y > 0:
				plane[idx] = wrap(int64(plane[idx])-int64(plane[idx-width]), mask)
			}
		}
	}
}

// DeltaInverse reverses DeltaForward in place.
func DeltaInverse(plane []int32, width, height int, bits uint) {
	mask := fullMask(bits)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			switch {
			case x > 0:
				plane[idx] = wrap(int64(plane[idx])+int64(plane[idx-1]), mask)
			case y > 0:
				plane[idx] = wrap(int64(plane[idx])+int64(plane[idx-width]), mask)
			}
		}
	}
}

// PredictiveForward applies the 2nd-order (median-less gradient) predictor
// to a single-channel width×height plane, in place, with residuals stored
// modulo 2^bits:
//
//	P = clamp(a + b - c, sampleMin, sampleMax)
//	a = p(x-1,y), b = p(x,y-1), c = p(x-1,y-1); missing neighbors are 0.
func PredictiveForward(plane []int32, width, height int, bits uint) {
	mask := fullMask(bits)
	sampleMin, sampleMax := sampleRange(bits)
	for y := height - 1; y >= 0; y-- {
		for x := width - 1; x >= 0; x-- {
			idx := y*width + x
			a, b, c := neighbor(plane, width, x-1, y), neighbor(plane, width, x, y-1), neighbor(plane, width, x-1, y-1)
			pred := clamp64(int64(a)+int64(b)-int64(c), sampleMin, sampleMax)
			plane[idx] = wrap(int64(plane[idx])-pred, mask)
		}
	}
}

// PredictiveInverse reverses PredictiveForward in place. Reconstruction
// must proceed top-to-bottom, left-to-right since each pixel's predictor
// depends on already-reconstructed neighbors.
func PredictiveInverse(plane []int32, width, height int, bits uint) {
	mask := fullMask(bits)
	sampleMin, sampleMax := sampleRange(bits)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			a, b, c := neighbor(plane, width, x-1, y), neighbor(plane, width, x, y-1), neighbor(plane, width, x-1, y-1)
			pred := clamp64(int64(a)+int64(b)-int64(c), sampleMin, sampleMax)
			plane[idx] = wrap(int64(plane[idx])+pred, mask)
		}
	}
}

// neighbor returns plane[y*width+x], or 0 if (x,y) falls outside the plane
// (the first row/column's missing-neighbor case).
func neighbor(plane []int32, width, x, y int) int32 {
	if x < 0 || y < 0 {
		return 0
	}
	return plane[y*width+x]
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sampleRange returns the [min, max] an unsigned sample of the given bit
// width can hold: predicted values are clamped against the plane's actual
// value domain, not a signed two's-complement range.
func sampleRange(bits uint) (int64, int64) {
	return 0, int64(1)<<bits - 1
}

// fullMask returns the int64 mask covering the low bits bits, computed in
// int64 so bits==32 does not overflow the way a literal int32 shift by 32
// would.
func fullMask(bits uint) int64 {
	return int64(1)<<bits - 1
}

// wrap reduces v modulo 2^bits (via mask) and narrows back to int32; safe
// for bits up to 32 since the masked result always fits.
func wrap(v int64, mask int64) int32 {
	return int32(v & mask)
}
