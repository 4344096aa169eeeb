package container

import (
	"io"
	"sync/atomic"
)

// CountingWriter wraps an io.Writer and tracks total bytes written. Used
// by api.go's Encode to learn the absolute stream offset after writing the
// header, tile index, and tile payloads, so the section trailer can record
// its own offset without a second pass over the assembled bytes.
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
