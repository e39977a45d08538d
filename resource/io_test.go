package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThrottledWriter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10000})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewThrottledWriter(ctx, &buf, c)

	n, err := w.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

func TestThrottledWriter_Seek(t *testing.T) {
	c := NewController(Config{})
	ctx := context.Background()

	// bytes.Buffer is not a seeker
	var buf bytes.Buffer
	w := NewThrottledWriter(ctx, &buf, c)

	_, err := w.Seek(0, 0)
	assert.ErrorIs(t, err, ErrNotSeekable)
}

func TestThrottledWriter_NilController(t *testing.T) {
	var buf bytes.Buffer
	w := NewThrottledWriter(context.Background(), &buf, nil)

	n, err := w.Write([]byte("unlimited"))
	assert.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestThrottledReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10000})
	ctx := context.Background()

	data := bytes.NewReader([]byte("hello world"))
	r := NewThrottledReader(ctx, data, c)

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestThrottledReader_ContextCanceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1}) // very slow
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := bytes.NewReader([]byte("hello world"))
	r := NewThrottledReader(ctx, data, c)

	buf := make([]byte, 1000)
	_, err := r.Read(buf)
	assert.Error(t, err)
}
