package elemgo_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/blobstore"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/resource"
	"github.com/hupe1980/elemgo/testutil"
)

func fillSample(t *testing.T, m *elemgo.Model) {
	t.Helper()

	result := m.BatchAdd(t.Context(), testutil.SampleModel())
	for _, err := range result.Errors {
		require.NoError(t, err)
	}
}

func TestClose(t *testing.T) {
	m, err := elemgo.New()
	require.NoError(t, err)
	fillSample(t, m)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	t.Run("Reads Stay Usable", func(t *testing.T) {
		e, err := m.Get(testutil.FixtureWallW1)
		require.NoError(t, err)
		assert.Equal(t, "W1", e.Name())

		c, err := m.Collector()
		require.NoError(t, err)
		assert.Equal(t, 13, c.Len())
	})

	t.Run("Mutations Fail", func(t *testing.T) {
		ctx := t.Context()

		_, err := m.AddElement(ctx, &element.Element{Class: element.ClassWall})
		assert.ErrorIs(t, err, elemgo.ErrClosed)

		e, err := m.Get(testutil.FixtureWallW1)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Update(ctx, e), elemgo.ErrClosed)
		assert.ErrorIs(t, m.Delete(ctx, e.ID), elemgo.ErrClosed)
		assert.ErrorIs(t, m.Checkpoint(), elemgo.ErrClosed)
		assert.ErrorIs(t, m.RecoverFromJournal(ctx), elemgo.ErrClosed)
	})

	t.Run("Snapshot Operations Fail", func(t *testing.T) {
		err := m.SaveToFile(filepath.Join(t.TempDir(), "model.snapshot"))
		assert.ErrorIs(t, err, elemgo.ErrClosed)

		err = m.SaveSnapshot(t.Context(), blobstore.NewMemoryStore(), "model")
		assert.ErrorIs(t, err, elemgo.ErrClosed)
	})

	t.Run("Nil Model", func(t *testing.T) {
		var m *elemgo.Model
		assert.NoError(t, m.Close())
	})
}

func TestCloseWithJournal(t *testing.T) {
	dir := t.TempDir()

	m, err := elemgo.New(elemgo.WithJournal(dir))
	require.NoError(t, err)
	fillSample(t, m)
	require.NoError(t, m.Close())

	// The journal was flushed and closed; a fresh model can still replay it.
	recovered, err := elemgo.New(elemgo.WithJournal(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = recovered.Close() })

	require.NoError(t, recovered.RecoverFromJournal(t.Context()))
	assert.Equal(t, 13, recovered.Len())
}

func TestAutoSnapshot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "model.snapshot")

	m, err := elemgo.New(
		elemgo.WithSnapshotPath(filename),
		elemgo.WithAutoSnapshotInterval(10*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	fillSample(t, m)

	// The loop rewrites the snapshot path until it has caught up.
	require.Eventually(t, func() bool {
		loaded, err := elemgo.NewFromFile(filename)
		if err != nil {
			return false
		}
		defer loaded.Close()
		return loaded.Len() == 13
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCloseStopsAutoSnapshot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "model.snapshot")

	before := runtime.NumGoroutine()

	m, err := elemgo.New(
		elemgo.WithSnapshotPath(filename),
		elemgo.WithAutoSnapshotInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	fillSample(t, m)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Close())

	// Close joins the loop goroutine before returning; allow runtime noise.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+1
	}, 2*time.Second, 10*time.Millisecond)

	info, err := os.Stat(filename)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	after, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestResourceControlledSnapshots(t *testing.T) {
	ctrl := resource.NewController(resource.Config{
		MaxBackgroundWorkers: 1,
		IOLimitBytesPerSec:   8 << 20,
	})

	m, err := elemgo.New(elemgo.WithResourceController(ctrl))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	fillSample(t, m)

	filename := filepath.Join(t.TempDir(), "model.snapshot")
	require.NoError(t, m.SaveToFile(filename))

	loaded, err := elemgo.NewFromFile(filename, elemgo.WithResourceController(ctrl))
	require.NoError(t, err)
	t.Cleanup(func() { _ = loaded.Close() })
	assert.Equal(t, 13, loaded.Len())
}

func TestCurrentModel(t *testing.T) {
	elemgo.SetCurrent(nil)
	t.Cleanup(func() { elemgo.SetCurrent(nil) })
	assert.Nil(t, elemgo.Current())

	m, err := elemgo.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	elemgo.SetCurrent(m)
	assert.Same(t, m, elemgo.Current())

	ctx := context.Background()
	_, err = m.AddElement(ctx, testutil.Level(0, "Level 1", 0))
	require.NoError(t, err)

	c, err := elemgo.NewCollector()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
