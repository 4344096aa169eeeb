package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ctiproj/cti/pkg/cti"
	"github.com/ctiproj/cti/pkg/ctiio"
)

func newDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <in.cti> <out.raw>",
		Short: "decode a CTI stream into a raw pixel dump",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(ctx, cmd, args[0], args[1])
		},
	}
	cmd.Flags().String("png-out", "", "also write an 8-bpc PNG preview to this path")
	return cmd
}

func runDecode(ctx context.Context, cmd *cobra.Command, inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("ctictl: read %s: %w", inPath, err)
	}

	img, meta, err := cti.Decode(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, img.Pixels, 0o644); err != nil {
		return fmt.Errorf("ctictl: write %s: %w", outPath, err)
	}
	slog.InfoContext(ctx, "decoded cti stream",
		"in", inPath, "out", outPath, "width", meta.Width, "height", meta.Height,
		"tiles", meta.TileCount, "compression", meta.Compression.String())

	pngOut, _ := cmd.Flags().GetString("png-out")
	if pngOut == "" {
		return nil
	}
	f, err := os.Create(pngOut)
	if err != nil {
		return fmt.Errorf("ctictl: create %s: %w", pngOut, err)
	}
	defer f.Close()
	if err := ctiio.WritePNGPreview(f, img); err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote png preview", "out", pngOut)
	return nil
}
