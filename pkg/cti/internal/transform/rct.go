// Package transform implements the lossless color and predictor transforms
// applied to a tile's pixel data before compression.
//
// ForwardRCT/InverseRCT implement the JPEG2000 Reversible Color Transform's
// lifting equations, carried in a native (machine-width) integer rather
// than masked back into the channel's own sample width. Cb/Cr need one bit
// more range than R/G/B, so this package works in int32 regardless of
// whether the source is an 8-bit or 16-bit channel, rather than truncating.
package transform

// ForwardRCT applies the Reversible Color Transform to one tile's worth of
// RGB samples, in place. r, g, b must have equal length and hold native
// (un-truncated) sample values.
func ForwardRCT(r, g, b []int32) {
	for i := range r {
		ri, gi, bi := r[i], g[i], b[i]
		r[i] = (ri + 2*gi + bi) >> 2 // Y
		g[i] = bi - gi               // Cb
		b[i] = ri - gi               // Cr
	}
}

// InverseRCT reverses ForwardRCT in place. y holds Y, cb holds Cb, cr holds
// Cr, as produced by ForwardRCT (un-truncated).
func InverseRCT(y, cb, cr []int32) {
	for i := range y {
		yi, cbi, cri := y[i], cb[i], cr[i]
		g := yi - ((cbi + cri) >> 2)
		y[i] = cri + g  // R
		cb[i] = g       // G
		cr[i] = cbi + g // B
	}
}
