package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ctiproj/cti/cmd/ctictl/preset"
	"github.com/ctiproj/cti/pkg/cti"
	"github.com/ctiproj/cti/pkg/ctiio"
)

func newEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <in.tiff> <out.cti>",
		Short: "ingest a TIFF image and encode it as a CTI stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(ctx, cmd, args[0], args[1])
		},
	}

	pf := cmd.Flags()
	pf.Uint32("tile-size", 0, "tile edge length, in pixels (0 uses the codec default)")
	pf.Uint8("compression", uint8(cti.CompressionNone), "compression kind: 0=none 1=rle 2=lz77 3=delta-rle 4=predictive-rle 10=zstd 11=lz4")
	pf.Uint8("quality", 0, "quality hint, interpreted by the chosen compression kind")
	pf.Bool("rct", false, "apply the reversible color transform (RGB8/RGB16 only)")
	pf.Bool("ndk", false, "use the NDK preset (zstd q70, rct, 512px tiles); overrides the other encode flags")
	pf.Float32Slice("dpi", nil, "horizontal,vertical DPI hint written to the RES section")
	pf.String("icc", "", "path to an ICC profile blob to embed verbatim")
	return cmd
}

func runEncode(ctx context.Context, cmd *cobra.Command, inPath, outPath string) error {
	params, err := encodeParamsFromFlags(cmd)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("ctictl: open %s: %w", inPath, err)
	}
	defer in.Close()

	img, err := ctiio.IngestTIFF(in)
	if err != nil {
		return err
	}

	data, err := cti.Encode(img, params)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("ctictl: write %s: %w", outPath, err)
	}

	slog.InfoContext(ctx, "encoded cti stream",
		"in", inPath, "out", outPath, "bytes", len(data),
		"width", img.Width, "height", img.Height, "color_type", img.ColorType.String())
	return nil
}

func encodeParamsFromFlags(cmd *cobra.Command) (cti.EncodeParams, error) {
	if ndk, _ := cmd.Flags().GetBool("ndk"); ndk {
		params := preset.NDK
		return attachSections(cmd, params)
	}

	tileSize, _ := cmd.Flags().GetUint32("tile-size")
	compressionRaw, _ := cmd.Flags().GetUint8("compression")
	quality, _ := cmd.Flags().GetUint8("quality")
	rct, _ := cmd.Flags().GetBool("rct")

	params := cti.EncodeParams{
		TileSize:    tileSize,
		Compression: cti.CompressionKind(compressionRaw),
		Quality:     quality,
		RCTEnabled:  rct,
	}
	return attachSections(cmd, params)
}

func attachSections(cmd *cobra.Command, params cti.EncodeParams) (cti.EncodeParams, error) {
	dpi, _ := cmd.Flags().GetFloat32Slice("dpi")
	if len(dpi) == 2 {
		params.DPI = &cti.DPI{X: dpi[0], Y: dpi[1]}
	} else if len(dpi) != 0 {
		return params, fmt.Errorf("ctictl: --dpi takes exactly two values (x,y), got %d", len(dpi))
	}

	iccPath, _ := cmd.Flags().GetString("icc")
	if iccPath != "" {
		icc, err := os.ReadFile(iccPath)
		if err != nil {
			return params, fmt.Errorf("ctictl: read icc profile %s: %w", iccPath, err)
		}
		params.ICC = icc
	}
	return params, nil
}
