package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mapping_test.bin")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestMappingOpenReadClose(t *testing.T) {
	content := []byte("snapshot body bytes")
	path := writeTempFile(t, content)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 9)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "body", string(buf))

	// Out of bounds.
	n, err = m.ReadAt(make([]byte, 4), 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	// Partial read at the tail.
	tail := make([]byte, 10)
	n, err = m.ReadAt(tail, int64(len(content)-5))
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "bytes", string(tail[:n]))

	_, err = m.ReadAt(buf, -1)
	assert.Equal(t, ErrInvalidOffset, err)
}

func TestMappingEmptyFile(t *testing.T) {
	path := writeTempFile(t, nil)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Bytes())
}

func TestMappingCloseIdempotent(t *testing.T) {
	path := writeTempFile(t, []byte("x"))

	m, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, ErrClosed, m.Advise(AccessSequential))
}

func TestMappingRegion(t *testing.T) {
	content := []byte("0123456789")
	path := writeTempFile(t, content)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	r, err := m.Region(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Size())
	assert.Equal(t, "2345", string(r.Bytes()))
	require.NoError(t, r.Advise(AccessRandom))

	_, err = m.Region(8, 4)
	assert.Equal(t, ErrOutOfBounds, err)
	_, err = m.Region(-1, 2)
	assert.Equal(t, ErrOutOfBounds, err)
}

func TestMappingAdvise(t *testing.T) {
	path := writeTempFile(t, []byte("advise me"))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	for _, p := range []AccessPattern{AccessDefault, AccessSequential, AccessRandom, AccessWillNeed} {
		assert.NoError(t, m.Advise(p))
	}
}
