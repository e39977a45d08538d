package elemgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/elemgo/blobstore"
	"github.com/hupe1980/elemgo/codec"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/persist"
	"github.com/hupe1980/elemgo/resource"
)

// CurrentSnapshot names the pointer blob that tracks the latest committed
// snapshot in a blob store. SaveSnapshot advances it; LoadSnapshot resolves
// it when asked for the current snapshot.
const CurrentSnapshot = "CURRENT"

// SaveToWriter saves the model to an io.Writer as a block-compressed
// snapshot. Unlike SaveToFile it does not touch the journal.
func (m *Model) SaveToWriter(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	return translateError(m.writeSnapshotLocked(context.Background(), w))
}

// SaveToFile saves the model to a file. The write goes through a temp file
// and rename, so readers never observe a partial snapshot. If a journal is
// enabled it is truncated once the snapshot is durable.
//
// An empty filename falls back to the configured snapshot path.
func (m *Model) SaveToFile(filename string) error {
	if filename == "" {
		filename = m.snapshotPath
	}

	start := time.Now()
	bytes, err := m.saveToFile(filename)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordSnapshotSave(bytes, duration, err)
	m.logger.LogSnapshotSave(context.Background(), filename, bytes, err)
	return err
}

func (m *Model) saveToFile(filename string) (int64, error) {
	if filename == "" {
		return 0, ErrNoSnapshotPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	var bytes int64
	err := persist.SaveToFile(filename, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		err := m.writeSnapshotLocked(context.Background(), cw)
		bytes = cw.n
		return err
	})
	if err != nil {
		return bytes, err
	}

	// The snapshot supersedes everything the journal holds.
	if m.journal != nil {
		if err := m.journal.Checkpoint(); err != nil {
			return bytes, fmt.Errorf("elemgo: failed to checkpoint journal: %w", err)
		}
	}

	return bytes, nil
}

// SaveSnapshot saves the model to a blob store under a versioned name
// derived from name, then advances the CURRENT pointer blob to it. With a
// commit-gated store the pointer update is the commit point. The journal is
// truncated once the pointer is advanced.
func (m *Model) SaveSnapshot(ctx context.Context, bs blobstore.BlobStore, name string) error {
	start := time.Now()
	bytes, err := m.saveSnapshot(ctx, bs, name)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordSnapshotSave(bytes, duration, err)
	m.logger.LogSnapshotSave(ctx, name, bytes, err)
	return err
}

func (m *Model) saveSnapshot(ctx context.Context, bs blobstore.BlobStore, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	blobName := fmt.Sprintf("%s-%d.snapshot", name, time.Now().UnixNano())

	wb, err := bs.Create(ctx, blobName)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: wb}
	if err := m.writeSnapshotLocked(ctx, cw); err != nil {
		_ = wb.Close()
		return cw.n, err
	}
	if err := wb.Sync(); err != nil {
		_ = wb.Close()
		return cw.n, err
	}
	if err := wb.Close(); err != nil {
		return cw.n, err
	}

	if err := bs.Put(ctx, CurrentSnapshot, []byte(blobName)); err != nil {
		return cw.n, fmt.Errorf("elemgo: failed to advance %s: %w", CurrentSnapshot, err)
	}

	if m.journal != nil {
		if err := m.journal.Checkpoint(); err != nil {
			return cw.n, fmt.Errorf("elemgo: failed to checkpoint journal: %w", err)
		}
	}

	return cw.n, nil
}

// LoadSnapshot loads a model from a blob store. name selects the exact blob
// to load; CurrentSnapshot (or "") resolves the CURRENT pointer first. A
// missing blob or pointer fails with ErrNotFound.
func LoadSnapshot(ctx context.Context, bs blobstore.BlobStore, name string, optFns ...Option) (*Model, error) {
	opts := applyOptions(optFns)

	m, err := newModel(opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	count, bytes, err := m.loadSnapshot(ctx, bs, &name)
	duration := time.Since(start)
	err = translateError(err)
	m.metrics.RecordSnapshotLoad(bytes, duration, err)
	m.logger.LogSnapshotLoad(ctx, name, count, err)
	if err != nil {
		if m.journal != nil {
			_ = m.journal.Close()
		}
		return nil, err
	}

	m.startAutoSnapshot(opts.autoSnapshot)

	return m, nil
}

func (m *Model) loadSnapshot(ctx context.Context, bs blobstore.BlobStore, name *string) (int, int64, error) {
	if *name == "" || *name == CurrentSnapshot {
		target, err := readBlob(ctx, bs, CurrentSnapshot)
		if err != nil {
			return 0, 0, err
		}
		*name = string(target)
	}

	blob, err := bs.Open(ctx, *name)
	if err != nil {
		return 0, 0, err
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	cr := &countingReader{r: rc}
	count, err := m.readSnapshot(ctx, cr)
	return count, cr.n, err
}

func readBlob(ctx context.Context, bs blobstore.BlobStore, name string) ([]byte, error) {
	blob, err := bs.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	buf := make([]byte, blob.Size())
	n, err := blob.ReadAt(ctx, buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// writeSnapshotLocked streams every live element through the snapshot
// container, recording the codec by name and the id watermark so loads can
// resume id assignment. The caller holds m.mu.
func (m *Model) writeSnapshotLocked(ctx context.Context, w io.Writer) error {
	els := m.store.Query().Elements()

	tw := resource.NewThrottledWriter(ctx, w, m.resources)

	sw, err := persist.NewSnapshotWriter(tw, uint64(len(els)),
		persist.WithCodecName(m.codec.Name()),
		persist.WithMaxID(uint64(m.nextID)), //nolint:gosec // id watermark is non-negative
	)
	if err != nil {
		return err
	}

	for _, e := range els {
		rec, err := m.codec.Marshal(e)
		if err != nil {
			return fmt.Errorf("elemgo: failed to encode element %d: %w", int64(e.ID), err)
		}
		if err := sw.WriteRecord(rec); err != nil {
			return err
		}
	}

	return sw.Close()
}

// readSnapshot populates the store from a snapshot stream and returns the
// number of elements loaded. The header's codec name overrides the model's
// configured codec for decoding.
func (m *Model) readSnapshot(ctx context.Context, r io.Reader) (int, error) {
	tr := resource.NewThrottledReader(ctx, r, m.resources)

	sr, err := persist.NewSnapshotReader(tr)
	if err != nil {
		return 0, err
	}

	dec := m.codec
	if name := sr.Codec(); name != "" {
		c, ok := codec.ByName(name)
		if !ok {
			return 0, fmt.Errorf("elemgo: unknown snapshot codec %q", name)
		}
		dec = c
	}

	count := 0
	for {
		rec, err := sr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}

		e := &element.Element{}
		if err := dec.Unmarshal(rec, e); err != nil {
			return count, fmt.Errorf("elemgo: failed to decode snapshot record %d: %w", count, err)
		}
		if err := m.store.Insert(e); err != nil {
			return count, err
		}
		if e.ID > m.nextID {
			m.nextID = e.ID
		}
		count++
	}

	if maxID := element.ID(sr.MaxID()); maxID > m.nextID { //nolint:gosec // watermark written from a non-negative id
		m.nextID = maxID
	}

	return count, nil
}

func (m *Model) loadFromFile(filename string) (int, int64, error) {
	var (
		count int
		bytes int64
	)
	err := persist.LoadFromFile(filename, func(r io.Reader) error {
		cr := &countingReader{r: r}
		n, err := m.readSnapshot(context.Background(), cr)
		count = n
		bytes = cr.n
		return err
	})
	return count, bytes, err
}

// autoSnapshotLoop periodically rewrites the snapshot path and truncates the
// journal. Ticks are skipped while the resource controller has no free
// background slot.
func (m *Model) autoSnapshotLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopAutoSnapshot:
			return
		case <-ticker.C:
			if !m.resources.TryAcquireBackground() {
				continue
			}
			err := m.SaveToFile(m.snapshotPath)
			m.resources.ReleaseBackground()
			if errors.Is(err, ErrClosed) {
				return
			}
		}
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
