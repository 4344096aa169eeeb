// Package preset holds named EncodeParams bundles ctictl exposes as a
// single flag, the way a scanner vendor's SDK bakes a known-good profile
// in rather than making every operator rediscover it.
package preset

import "github.com/ctiproj/cti/pkg/cti"

// NDK is the encode profile tuned for the archival NDK pipeline: Zstd at a
// moderate compression level, RCT on for its 3-channel color types, and a
// 512-pixel tile edge that balances seek granularity against per-tile
// overhead for that pipeline's typical image sizes.
var NDK = cti.EncodeParams{
	TileSize:    512,
	Compression: cti.CompressionZstd,
	Quality:     70,
	RCTEnabled:  true,
}
