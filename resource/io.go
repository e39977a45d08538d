package resource

import (
	"context"
	"errors"
	"io"
)

// ErrNotSeekable is returned by ThrottledWriter.Seek when the underlying
// writer does not implement io.Seeker.
var ErrNotSeekable = errors.New("resource: underlying writer is not seekable")

// ThrottledWriter wraps an io.Writer with the controller's IO rate limit.
// Writes block until the limiter releases enough tokens for the buffer.
type ThrottledWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewThrottledWriter creates a new ThrottledWriter.
func NewThrottledWriter(ctx context.Context, w io.Writer, rc *Controller) *ThrottledWriter {
	return &ThrottledWriter{
		ctx: ctx,
		w:   w,
		rc:  rc,
	}
}

func (w *ThrottledWriter) Write(p []byte) (n int, err error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

// Seek delegates to the underlying writer if it implements io.Seeker.
// Seeking itself is not throttled.
func (w *ThrottledWriter) Seek(offset int64, whence int) (int64, error) {
	if s, ok := w.w.(io.Seeker); ok {
		return s.Seek(offset, whence)
	}
	return 0, ErrNotSeekable
}

// ThrottledReader wraps an io.Reader with the controller's IO rate limit.
type ThrottledReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewThrottledReader creates a new ThrottledReader.
func NewThrottledReader(ctx context.Context, r io.Reader, rc *Controller) *ThrottledReader {
	return &ThrottledReader{
		ctx: ctx,
		r:   r,
		rc:  rc,
	}
}

// Read throttles on len(p), the most a single read can return.
func (r *ThrottledReader) Read(p []byte) (n int, err error) {
	if err := r.rc.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
