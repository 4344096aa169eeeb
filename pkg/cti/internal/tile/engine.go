package tile

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ctiproj/cti/pkg/cti/internal/container"
)

// EncodeAll runs EncodeTile over every tile in the grid concurrently,
// staging each tile's result into its own slot so the caller can later
// serialize offsets in index order regardless of completion order. The
// worker count follows GOMAXPROCS, a fixed pool fanning out over a
// disjoint partition via errgroup.WithContext.
//
// Completion order is unconstrained, but on any failure the error
// reported to the caller is always the one for the lowest tile index,
// never whichever goroutine happened to fail first.
func EncodeAll(ctx context.Context, pixels []byte, grid Grid, cfg Config) ([]EncodeResult, error) {
	n := grid.Count()
	results := make([]EncodeResult, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx := 0; idx < n; idx++ {
		idx := idx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			i, j := grid.Coords(idx)
			rect := grid.RectAt(i, j)
			res, err := EncodeTile(pixels, grid.Width, rect, cfg)
			if err != nil {
				err = fmt.Errorf("tile: encode tile %d (col %d, row %d): %w", idx, i, j, err)
				errs[idx] = err
				return err
			}
			results[idx] = res
			return nil
		})
	}
	_ = g.Wait()
	if err := firstError(errs); err != nil {
		return nil, err
	}
	return results, nil
}

// DecodeAll runs DecodeTile over every index entry concurrently, blitting
// each tile directly into the shared output buffer (workers never touch
// overlapping rectangles, so no synchronization beyond errgroup's own is
// needed). On any tile failure, outstanding work is cancelled and the
// first error in tile index order is returned.
func DecodeAll(ctx context.Context, data []byte, grid Grid, cfg Config, entries []container.TileIndexEntry) ([]byte, error) {
	out := make([]byte, grid.Width*grid.Height*cfg.bytesPerPixel())
	errs := make([]error, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx, entry := range entries {
		idx, entry := idx, entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			i, j := grid.Coords(idx)
			rect := grid.RectAt(i, j)
			end := entry.Offset + uint64(entry.CompressedSize)
			if end > uint64(len(data)) {
				err := fmt.Errorf("tile: tile %d payload out of bounds", idx)
				errs[idx] = err
				return err
			}
			payload := data[entry.Offset:end]
			if err := DecodeTile(payload, out, grid.Width, rect, cfg, int(entry.OriginalSize), entry.CRC32); err != nil {
				var crcErr *CRCMismatchError
				if errors.As(err, &crcErr) {
					crcErr.Index = idx
				}
				err = fmt.Errorf("tile %d (col %d, row %d): %w", idx, i, j, err)
				errs[idx] = err
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := firstError(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// firstError returns the first non-nil error in index order, or nil.
func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
