package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/ctiproj/cti/cmd/ctictl/cmd"
	"github.com/ctiproj/cti/pkg/cti"
	"github.com/ctiproj/cti/pkg/logging"
)

var GitSHA string = "NA"

func main() {
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()
	go func() {
		defer cnc() // removes the signal hook so a second ctrl-c falls through to the default handler
		<-ctx.Done()
	}()

	slog.SetDefault(logging.Logger(os.Stderr, false, slog.LevelInfo))
	ctx = logging.AppendCtx(ctx,
		slog.Group("ctictl",
			slog.String("git", GitSHA),
			slog.String("run_id", uuid.NewString()),
		))

	root := cmd.NewRoot(ctx, GitSHA)
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps a returned error onto the CLI's exit-code contract: 1 for
// usage errors, 2 for format/integrity/compression errors, 3 for I/O
// errors. A *fs.PathError (a missing or unreadable file, caught outside
// cti.Encode/Decode) maps to 3; any other error that never passed through
// the cti package (flag parsing, for one) defaults to 1.
func exitCode(err error) int {
	var ctiErr *cti.Error
	if errors.As(err, &ctiErr) {
		return ctiErr.Kind.ExitCode()
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return cti.KindIO.ExitCode()
	}
	slog.Error("ctictl: command failed", "error", err)
	return 1
}
