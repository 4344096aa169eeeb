package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ctiproj/cti/pkg/cti"
	"github.com/ctiproj/cti/pkg/ctiio"
)

func newBenchCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench {encode|decode} <path>",
		Short: "time repeated encode or decode passes over a single input",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repeat, _ := cmd.Flags().GetInt("repeat")
			if repeat <= 0 {
				repeat = 1
			}
			switch args[0] {
			case "encode":
				return runBenchEncode(ctx, cmd, args[1], repeat)
			case "decode":
				return runBenchDecode(ctx, args[1], repeat)
			default:
				return fmt.Errorf("ctictl: bench mode must be %q or %q, got %q", "encode", "decode", args[0])
			}
		},
	}

	pf := cmd.Flags()
	pf.Int("repeat", 1, "number of encode/decode passes to time")
	pf.Uint32("tile-size", 0, "tile edge length, in pixels (0 uses the codec default)")
	pf.Uint8("compression", uint8(cti.CompressionNone), "compression kind: 0=none 1=rle 2=lz77 3=delta-rle 4=predictive-rle 10=zstd 11=lz4")
	pf.Uint8("quality", 0, "quality hint, interpreted by the chosen compression kind")
	pf.Bool("rct", false, "apply the reversible color transform (RGB8/RGB16 only)")
	pf.Bool("ndk", false, "use the NDK preset; overrides the other encode flags")
	return cmd
}

func runBenchEncode(ctx context.Context, cmd *cobra.Command, path string, repeat int) error {
	params, err := encodeParamsFromFlags(cmd)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ctictl: open %s: %w", path, err)
	}
	defer f.Close()
	img, err := ctiio.IngestTIFF(f)
	if err != nil {
		return err
	}

	var total time.Duration
	var lastSize int
	for i := 0; i < repeat; i++ {
		start := time.Now()
		data, err := cti.Encode(img, params)
		if err != nil {
			return err
		}
		total += time.Since(start)
		lastSize = len(data)
	}

	slog.InfoContext(ctx, "encode bench",
		"path", path, "repeat", repeat, "total", total, "mean", total/time.Duration(repeat),
		"width", img.Width, "height", img.Height, "output_bytes", lastSize)
	return nil
}

func runBenchDecode(ctx context.Context, path string, repeat int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ctictl: read %s: %w", path, err)
	}

	var total time.Duration
	for i := 0; i < repeat; i++ {
		start := time.Now()
		if _, _, err := cti.Decode(data); err != nil {
			return err
		}
		total += time.Since(start)
	}

	slog.InfoContext(ctx, "decode bench",
		"path", path, "repeat", repeat, "total", total, "mean", total/time.Duration(repeat))
	return nil
}
