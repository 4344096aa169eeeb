// Package crc computes the CRC-32 (IEEE polynomial) checksums CTI stores
// in each tile's index entry. It is a thin incremental wrapper over
// hash/crc32, used by the tile package to accumulate a tile's checksum
// over the same row-at-a-time pass that already extracts or blits it.
package crc

import "hash/crc32"

// Hasher accumulates a CRC-32 (IEEE) over multiple Write calls.
type Hasher struct {
	table *crc32.Table
	sum   uint32
}

// NewHasher returns a Hasher ready to accumulate.
func NewHasher() *Hasher {
	return &Hasher{table: crc32.IEEETable}
}

// Write implements io.Writer.
func (h *Hasher) Write(p []byte) (int, error) {
	h.sum = crc32.Update(h.sum, h.table, p)
	return len(p), nil
}

// Sum32 returns the checksum accumulated so far.
func (h *Hasher) Sum32() uint32 {
	return h.sum
}
