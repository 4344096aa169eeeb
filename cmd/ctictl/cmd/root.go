package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ctiproj/cti/pkg/logging"
)

// NewRoot builds the ctictl command tree. gitsha is baked in at link time
// by the caller ("NA" when not set at link time) and surfaced by the
// version command, which also prints "NA" for an empty value.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	root := &cobra.Command{
		Use:   "ctictl",
		Short: "encode, decode, and inspect CTI archival images",
		Long:  "ctictl drives the CTI tiled-image codec: encode TIFF sources into .cti streams, decode them back, inspect metadata without a full decode, and benchmark the pipeline.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevelStr, _ := cmd.Flags().GetString("log-level")
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevelStr))); err != nil {
				level = slog.LevelInfo
			}

			logFile, _ := cmd.Flags().GetString("log-file")
			jsonLog := logFile != ""
			out := os.Stderr
			if logFile != "" {
				slog.SetDefault(logging.Logger(logging.RotatingWriter(logFile, 50, 3), jsonLog, level))
			} else {
				slog.SetDefault(logging.Logger(out, jsonLog, level))
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	root.AddCommand(
		newVersionCmd(gitsha),
		newEncodeCmd(ctx),
		newDecodeCmd(ctx),
		newInfoCmd(ctx),
		newBenchCmd(ctx),
	)

	pf := root.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "rotate logs to this path instead of stderr (implies JSON logging)")
	return root
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, sub := range cmd.Commands() {
		printCommandTree(sub, indent+1)
	}
}

func newVersionCmd(gitsha string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the build's git sha",
		Run: func(cmd *cobra.Command, args []string) {
			if gitsha == "" {
				gitsha = "NA"
			}
			fmt.Println(gitsha)
		},
	}
}
