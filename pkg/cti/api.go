package cti

import (
	"bytes"
	"context"
	"errors"

	"github.com/ctiproj/cti/pkg/cti/internal/compress"
	"github.com/ctiproj/cti/pkg/cti/internal/container"
	"github.com/ctiproj/cti/pkg/cti/internal/tile"
)

// Encode runs the full tile pipeline over img and assembles a complete CTI
// byte stream: header, tile index, tile payloads, and an optional RES/ICC
// section trailer.
func Encode(img *Image, params EncodeParams) ([]byte, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	params, err := params.withDefaults()
	if err != nil {
		return nil, err
	}

	rctEnabled := params.RCTEnabled && img.ColorType.IsRGB()
	grid := tile.NewGrid(img.Width, img.Height, int(params.TileSize))
	cfg := tileConfig(img.ColorType, params.Compression, params.Quality, rctEnabled)

	results, err := tile.EncodeAll(context.Background(), img.Pixels, grid, cfg)
	if err != nil {
		return nil, newError(KindCompression, ErrCompressionFailed, "%v", err)
	}

	indexSize := grid.Count() * container.IndexEntrySize
	payloadStart := uint64(container.HeaderSize + indexSize)

	entries := make([]container.TileIndexEntry, grid.Count())
	var payload []byte
	offset := payloadStart
	for i, res := range results {
		entries[i] = container.TileIndexEntry{
			Offset:         offset,
			CompressedSize: uint32(len(res.Compressed)),
			OriginalSize:   res.OriginalSize,
			CRC32:          res.CRC32,
		}
		payload = append(payload, res.Compressed...)
		offset += uint64(len(res.Compressed))
	}

	var flags uint16
	if rctEnabled {
		flags |= container.FlagRCT
	}
	header := container.Header{
		Version:     container.CurrentVersion(),
		Flags:       flags,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		TileSize:    params.TileSize,
		TilesX:      uint32(grid.TilesX),
		TilesY:      uint32(grid.TilesY),
		ColorType:   uint8(img.ColorType),
		Compression: uint8(params.Compression),
		Quality:     params.Quality,
	}

	// cw tracks the absolute stream offset as the header, index, and tile
	// payloads are written, so the section trailer (written last, once
	// sections are known) can record its own absolute byte offset without
	// a second pass over the assembled stream.
	var buf bytes.Buffer
	buf.Grow(int(payloadStart) + len(payload))
	cw := &container.CountingWriter{Writer: &buf}
	cw.Write(header.Marshal())
	cw.Write(container.MarshalIndex(entries))
	cw.Write(payload)

	if params.DPI != nil || len(params.ICC) > 0 {
		var sections []container.Section
		if params.DPI != nil {
			sections = append(sections, container.Section{
				Type:    container.SectionTypeDPI,
				Payload: container.EncodeDPIPayload(params.DPI.X, params.DPI.Y),
			})
		}
		if len(params.ICC) > 0 {
			sections = append(sections, container.Section{
				Type:    container.SectionTypeICC,
				Payload: params.ICC,
			})
		}
		cw.Write(container.MarshalSections(uint64(cw.Count.Load()), sections))
	}

	return buf.Bytes(), nil
}

// Decode parses a complete CTI stream, validates every tile's checksum,
// and returns the reconstructed Image alongside its Metadata.
func Decode(data []byte) (*Image, *Metadata, error) {
	header, entries, sections, err := parseContainer(data)
	if err != nil {
		return nil, nil, err
	}

	colorType := ColorType(header.ColorType)
	compression := CompressionKind(header.Compression)
	rctEnabled := header.Flags&container.FlagRCT != 0
	grid := tile.NewGrid(int(header.Width), int(header.Height), int(header.TileSize))
	cfg := tileConfig(colorType, compression, header.Quality, rctEnabled)

	pixels, err := tile.DecodeAll(context.Background(), data, grid, cfg, entries)
	if err != nil {
		return nil, nil, translateDecodeErr(err)
	}

	img := &Image{Width: int(header.Width), Height: int(header.Height), ColorType: colorType, Pixels: pixels}
	meta := buildMetadata(header, entries, sections)
	return img, meta, nil
}

// Info parses the header, tile index, and section table of contents
// without decompressing any tile payload.
func Info(data []byte) (*Metadata, error) {
	header, entries, sections, err := parseContainer(data)
	if err != nil {
		return nil, err
	}
	return buildMetadata(header, entries, sections), nil
}

func tileConfig(colorType ColorType, compression CompressionKind, quality uint8, rctEnabled bool) tile.Config {
	return tile.Config{
		Channels:      colorType.Channels(),
		BitsPerSample: colorType.SampleBits(),
		RCTCapable:    colorType.IsRGB(),
		RCTEnabled:    rctEnabled,
		Compression:   compress.Kind(compression),
		Quality:       quality,
	}
}

// parseContainer decodes the header, tile index, and (if present) the
// section trailer shared by Decode and Info.
func parseContainer(data []byte) (container.Header, []container.TileIndexEntry, []container.Section, error) {
	if len(data) < container.HeaderSize {
		return container.Header{}, nil, nil, newError(KindFormat, ErrMalformedHeader, "stream is %d bytes, want at least %d", len(data), container.HeaderSize)
	}
	header, err := container.UnmarshalHeader(data[:container.HeaderSize])
	if err != nil {
		if errors.Is(err, container.ErrBadMagic) {
			return container.Header{}, nil, nil, newError(KindFormat, ErrBadMagic, "%v", err)
		}
		return container.Header{}, nil, nil, newError(KindFormat, ErrUnsupportedVersion, "%v", err)
	}

	colorType := ColorType(header.ColorType)
	if !colorType.valid() {
		return container.Header{}, nil, nil, newError(KindFormat, ErrBadColorType, "color type %d", header.ColorType)
	}
	if !CompressionKind(header.Compression).valid() {
		return container.Header{}, nil, nil, newError(KindFormat, ErrUnknownCompression, "compression kind %d", header.Compression)
	}

	tileCount := int(header.TilesX) * int(header.TilesY)
	indexBuf := data[container.HeaderSize:]
	entries, err := container.UnmarshalIndex(indexBuf, tileCount)
	if err != nil {
		return container.Header{}, nil, nil, newError(KindFormat, ErrTruncatedIndex, "%v", err)
	}

	for i, e := range entries {
		if i > 0 && e.Offset <= entries[i-1].Offset {
			return container.Header{}, nil, nil, newError(KindFormat, ErrTileOutOfBounds, "tile %d offset %d does not strictly increase", i, e.Offset)
		}
		if e.Offset+uint64(e.CompressedSize) > uint64(len(data)) {
			return container.Header{}, nil, nil, newError(KindFormat, ErrTruncatedPayload, "tile %d payload runs past end of stream", i)
		}
	}

	var sections []container.Section
	if trailerStart, ok := container.TrailerStart(entries, uint64(len(data))); ok {
		sections, err = container.UnmarshalSections(data, trailerStart)
		if err != nil {
			return container.Header{}, nil, nil, newError(KindFormat, ErrBadSectionTOC, "%v", err)
		}
	}

	return header, entries, sections, nil
}

func translateDecodeErr(err error) error {
	var crcErr *tile.CRCMismatchError
	if errors.As(err, &crcErr) {
		return newTileCorrupted(crcErr.Index, crcErr.Expected, crcErr.Actual)
	}
	return newError(KindCompression, ErrCompressionFailed, "%v", err)
}

func buildMetadata(header container.Header, entries []container.TileIndexEntry, sections []container.Section) *Metadata {
	meta := &Metadata{
		Width:       int(header.Width),
		Height:      int(header.Height),
		ColorType:   ColorType(header.ColorType),
		TileSize:    int(header.TileSize),
		TilesX:      int(header.TilesX),
		TilesY:      int(header.TilesY),
		Compression: CompressionKind(header.Compression),
		Quality:     header.Quality,
		RCTEnabled:  header.Flags&container.FlagRCT != 0,
		TileCount:   len(entries),
		HasSections: len(sections) > 0,
	}

	if len(entries) > 0 {
		var sum uint64
		meta.MinCompressed = entries[0].CompressedSize
		meta.MaxCompressed = entries[0].CompressedSize
		for _, e := range entries {
			if e.CompressedSize < meta.MinCompressed {
				meta.MinCompressed = e.CompressedSize
			}
			if e.CompressedSize > meta.MaxCompressed {
				meta.MaxCompressed = e.CompressedSize
			}
			sum += uint64(e.CompressedSize)
		}
		meta.AvgCompressed = float64(sum) / float64(len(entries))
	}

	for _, s := range sections {
		switch s.Type {
		case container.SectionTypeDPI:
			if x, y, err := container.DecodeDPIPayload(s.Payload); err == nil {
				meta.DPI = &DPI{X: x, Y: y}
			}
		case container.SectionTypeICC:
			meta.ICC = append([]byte(nil), s.Payload...)
		}
	}

	return meta
}
