package container

// TrailerStart returns the absolute offset the section trailer begins at,
// given the tile index and total file length, or ok=false if there is no
// trailer (the last tile payload runs to EOF).
func TrailerStart(entries []TileIndexEntry, fileLength uint64) (offset uint64, ok bool) {
	var maxEnd uint64
	for _, e := range entries {
		end := e.Offset + uint64(e.CompressedSize)
		if end > maxEnd {
			maxEnd = end
		}
	}
	if maxEnd < fileLength {
		return maxEnd, true
	}
	return 0, false
}
