package compress

import (
	"encoding/binary"
	"fmt"
)

// lz77Codec is a minimal, self-compatible LZ77 coder: a 32 KiB sliding
// window, matches of length 3..258, tokens flagged literal/match with one
// bit each, flag bits packed MSB-first into a leading byte per group of 8
// tokens (see bitpack.go). It does not aim for DEFLATE wire compatibility,
// only for round-tripping what this package itself wrote.
type lz77Codec struct{}

const (
	lz77WindowSize = 32 * 1024
	lz77MinMatch   = 3
	lz77MaxMatch   = 258
	lz77HashBytes  = 3
	lz77HashBits   = 15
	lz77HashSize   = 1 << lz77HashBits
)

func lz77Hash(b0, b1, b2 byte) uint32 {
	v := uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16
	return (v * 2654435761) >> (32 - lz77HashBits) & (lz77HashSize - 1)
}

func (lz77Codec) Compress(input []byte) ([]byte, error) {
	fw := newFlagWriter()

	// head[h] holds the most recent position whose 3-byte prefix hashed to
	// h; prev[pos] chains back to the previous position with the same
	// hash, bounded to positions still inside the sliding window.
	head := make([]int32, lz77HashSize)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int32, len(input))

	i := 0
	for i < len(input) {
		bestLen, bestDist := 0, 0
		if i+lz77HashBytes <= len(input) {
			h := lz77Hash(input[i], input[i+1], input[i+2])
			cand := head[h]
			tries := 0
			for cand >= 0 && i-int(cand) <= lz77WindowSize && tries < 64 {
				length := matchLength(input, int(cand), i)
				if length > bestLen {
					bestLen = length
					bestDist = i - int(cand)
				}
				cand = prev[cand]
				tries++
			}
		}

		if bestLen >= lz77MinMatch {
			fw.writeFlag(true)
			var hdr [3]byte
			binary.LittleEndian.PutUint16(hdr[:2], uint16(bestDist))
			hdr[2] = byte(bestLen - lz77MinMatch)
			fw.writeBytes(hdr[:]...)
			end := i + bestLen
			for ; i < end; i++ {
				insert(input, i, head, prev)
			}
		} else {
			fw.writeFlag(false)
			fw.writeBytes(input[i])
			insert(input, i, head, prev)
			i++
		}
	}

	return fw.bytes(), nil
}

// insert records position i in the hash chain, if a full 3-byte prefix is
// available starting there.
func insert(input []byte, i int, head, prev []int32) {
	if i+lz77HashBytes > len(input) {
		return
	}
	h := lz77Hash(input[i], input[i+1], input[i+2])
	prev[i] = head[h]
	head[h] = int32(i)
}

// matchLength returns how many bytes starting at a and b agree, capped at
// lz77MaxMatch and by the end of input.
func matchLength(input []byte, a, b int) int {
	max := len(input) - b
	if max > lz77MaxMatch {
		max = lz77MaxMatch
	}
	n := 0
	for n < max && input[a+n] == input[b+n] {
		n++
	}
	return n
}

func (lz77Codec) Decompress(input []byte, expectedSize int) ([]byte, error) {
	out := make([]byte, 0, expectedSize)
	fr := newFlagReader(input)

	for len(out) < expectedSize {
		isMatch, ok := fr.readFlag()
		if !ok {
			return nil, fmt.Errorf("compress: lz77: ran out of flag bits at %d/%d bytes", len(out), expectedSize)
		}
		if isMatch {
			hdr, ok := fr.readBytes(3)
			if !ok {
				return nil, fmt.Errorf("compress: lz77: truncated match token")
			}
			dist := int(binary.LittleEndian.Uint16(hdr[:2]))
			length := int(hdr[2]) + lz77MinMatch
			if dist <= 0 || dist > len(out) {
				return nil, fmt.Errorf("compress: lz77: invalid back-reference distance %d at offset %d", dist, len(out))
			}
			start := len(out) - dist
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		} else {
			b, ok := fr.readByte()
			if !ok {
				return nil, fmt.Errorf("compress: lz77: truncated literal token")
			}
			out = append(out, b)
		}
	}

	if len(out) != expectedSize {
		return nil, fmt.Errorf("compress: lz77: decompressed %d bytes, want %d", len(out), expectedSize)
	}
	return out, nil
}
