package container

import (
	"encoding/binary"
	"fmt"
)

// IndexEntrySize is the fixed width of one serialized TileIndexEntry.
const IndexEntrySize = 20

// TileIndexEntry describes one tile's compressed payload: its absolute
// file offset, its size on disk and decompressed, and the CRC32 of its
// decoded, unpadded, native-pixel-order bytes.
type TileIndexEntry struct {
	Offset         uint64
	CompressedSize uint32
	OriginalSize   uint32
	CRC32          uint32
}

// MarshalIndex encodes entries in tile order (row-major, entries[j*tilesX+i]).
func MarshalIndex(entries []TileIndexEntry) []byte {
	buf := make([]byte, len(entries)*IndexEntrySize)
	for idx, e := range entries {
		off := idx * IndexEntrySize
		binary.LittleEndian.PutUint64(buf[off:off+8], e.Offset)
		binary.LittleEndian.PutUint32(buf[off+8:off+12], e.CompressedSize)
		binary.LittleEndian.PutUint32(buf[off+12:off+16], e.OriginalSize)
		binary.LittleEndian.PutUint32(buf[off+16:off+20], e.CRC32)
	}
	return buf
}

// UnmarshalIndex decodes count tile index entries from buf.
func UnmarshalIndex(buf []byte, count int) ([]TileIndexEntry, error) {
	want := count * IndexEntrySize
	if len(buf) < want {
		return nil, fmt.Errorf("container: truncated tile index: got %d bytes, want %d", len(buf), want)
	}
	entries := make([]TileIndexEntry, count)
	for idx := range entries {
		off := idx * IndexEntrySize
		entries[idx] = TileIndexEntry{
			Offset:         binary.LittleEndian.Uint64(buf[off : off+8]),
			CompressedSize: binary.LittleEndian.Uint32(buf[off+8 : off+12]),
			OriginalSize:   binary.LittleEndian.Uint32(buf[off+12 : off+16]),
			CRC32:          binary.LittleEndian.Uint32(buf[off+16 : off+20]),
		}
	}
	return entries, nil
}
