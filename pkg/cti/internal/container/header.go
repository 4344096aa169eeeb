// Package container implements CTI's on-disk binary layout: the 64-byte
// fixed header, the fixed-width tile index, the tile payload region, and
// the optional section trailer. Every field is encoded explicitly with
// encoding/binary rather than through a single reflective struct-tag pass.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors UnmarshalHeader returns, so callers can distinguish a
// bad magic from an unsupported version without string matching.
var (
	ErrBadMagic           = errors.New("container: bad magic")
	ErrUnsupportedVersion = errors.New("container: unsupported version")
)

// HeaderSize is the fixed, tightly packed on-disk header length.
const HeaderSize = 64

const (
	magicValue     = "CTI1"
	currentVersion = 1
	// FlagRCT is header.Flags bit 0: set iff RCT was applied to every
	// RGB8/RGB16 tile at encode time.
	FlagRCT      uint16 = 1 << 0
	reservedSize        = 33
)

// Header is CTI's 64-byte fixed preamble, immediately followed by the
// tile index. Field layout, order, and widths are part of the wire
// format and must not change.
type Header struct {
	Version     uint16
	Flags       uint16
	Width       uint32
	Height      uint32
	TileSize    uint32
	TilesX      uint32
	TilesY      uint32
	ColorType   uint8
	Compression uint8
	Quality     uint8
}

// Marshal encodes h into exactly HeaderSize bytes.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magicValue)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.Flags)
	binary.LittleEndian.PutUint32(buf[8:12], h.Width)
	binary.LittleEndian.PutUint32(buf[12:16], h.Height)
	binary.LittleEndian.PutUint32(buf[16:20], h.TileSize)
	binary.LittleEndian.PutUint32(buf[20:24], h.TilesX)
	binary.LittleEndian.PutUint32(buf[24:28], h.TilesY)
	buf[28] = h.ColorType
	buf[29] = h.Compression
	buf[30] = h.Quality
	// buf[31:64] is the reserved region; left zeroed.
	return buf
}

// UnmarshalHeader decodes the first HeaderSize bytes of buf. It validates
// the magic and version but does not otherwise interpret the fields.
func UnmarshalHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("container: malformed header: got %d bytes, want %d", len(buf), HeaderSize)
	}
	if string(buf[0:4]) != magicValue {
		return Header{}, fmt.Errorf("%w: %q", ErrBadMagic, buf[0:4])
	}
	h := Header{
		Version:     binary.LittleEndian.Uint16(buf[4:6]),
		Flags:       binary.LittleEndian.Uint16(buf[6:8]),
		Width:       binary.LittleEndian.Uint32(buf[8:12]),
		Height:      binary.LittleEndian.Uint32(buf[12:16]),
		TileSize:    binary.LittleEndian.Uint32(buf[16:20]),
		TilesX:      binary.LittleEndian.Uint32(buf[20:24]),
		TilesY:      binary.LittleEndian.Uint32(buf[24:28]),
		ColorType:   buf[28],
		Compression: buf[29],
		Quality:     buf[30],
	}
	if h.Version != currentVersion {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	return h, nil
}

// CurrentVersion is the only Header.Version this package writes or accepts.
func CurrentVersion() uint16 { return currentVersion }

// MagicBytes is the literal 4-byte magic every CTI stream starts with.
func MagicBytes() []byte { return []byte(magicValue) }
