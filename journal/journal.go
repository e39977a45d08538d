// Package journal provides an append-only mutation log for durability and
// crash recovery.
//
// Every add and delete is journaled before the in-memory store mutates, so a
// crash between snapshot saves loses no acknowledged mutation. Records carry
// a CRC32-Castagnoli checksum; replay stops silently at the first torn or
// corrupted record, which makes a crash mid-append recoverable.
//
// Features:
//   - Per-record checksums with torn-tail tolerance on replay
//   - Configurable fsync behavior (SyncOnCommit, SyncNone)
//   - Optional zstd stream compression
//   - Checkpoint support for truncation after snapshots
//   - Sequential ordering via sequence numbers
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// FileName is the name of the journal file inside Options.Path.
const FileName = "elemgo.journal"

// ErrClosed is returned when operating on a closed journal.
var ErrClosed = errors.New("journal is closed")

// Journal is an append-only mutation log.
type Journal struct {
	mu               sync.Mutex
	file             *os.File
	writer           io.Writer     // May be compressed or direct
	bufWriter        *bufio.Writer // Buffered writer for performance
	compressor       *zstd.Encoder
	decompressor     *zstd.Decoder
	seq              uint64
	filePath         string
	compressed       bool
	compressionLevel int
	syncMode         SyncMode
	dataOffset       int64 // start of record stream (after header)
	dirty            bool  // records buffered since the last flush
}

// New opens or creates a journal in the configured directory.
func New(optFns ...func(o *Options)) (*Journal, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(opts.Path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	filePath := filepath.Join(opts.Path, FileName)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	st, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat journal file: %w", err)
	}

	j := &Journal{
		file:             file,
		filePath:         filePath,
		compressionLevel: opts.CompressionLevel,
		syncMode:         opts.Sync,
	}

	if st.Size() == 0 {
		hdrLen, err := writeHeader(j.file, headerInfo{
			Compressed:       opts.Compress,
			CompressionLevel: opts.CompressionLevel,
		})
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		j.dataOffset = hdrLen
		j.compressed = opts.Compress
	} else {
		// An existing file dictates its own compression settings.
		hdrInfo, valid, err := readHeader(j.file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to read journal header: %w", err)
		}
		if !valid {
			_ = file.Close()
			return nil, fmt.Errorf("invalid journal header")
		}
		j.dataOffset = hdrInfo.HeaderLen
		j.compressed = hdrInfo.Compressed
		j.compressionLevel = hdrInfo.CompressionLevel
	}

	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to seek journal data offset: %w", err)
	}

	if err := j.initCodecs(); err != nil {
		_ = file.Close()
		return nil, err
	}

	// Read existing records to determine the next sequence number.
	if err := j.scanForSeq(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to scan journal: %w", err)
	}

	return j, nil
}

// initCodecs sets up the write path (and decompressor when compressed).
func (j *Journal) initCodecs() error {
	if j.compressed {
		level := zstd.EncoderLevelFromZstd(j.compressionLevel)
		compressor, err := zstd.NewWriter(j.file, zstd.WithEncoderLevel(level))
		if err != nil {
			return fmt.Errorf("failed to create compressor: %w", err)
		}
		j.compressor = compressor
		j.bufWriter = bufio.NewWriter(compressor)
		j.writer = j.bufWriter

		if j.decompressor == nil {
			decompressor, err := zstd.NewReader(nil)
			if err != nil {
				_ = compressor.Close()
				return fmt.Errorf("failed to create decompressor: %w", err)
			}
			j.decompressor = decompressor
		}
	} else {
		j.bufWriter = bufio.NewWriter(j.file)
		j.writer = j.bufWriter
	}
	return nil
}

// scanForSeq scans the journal to find the highest sequence number.
func (j *Journal) scanForSeq() error {
	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		return err
	}

	reader, err := j.streamReader()
	if err != nil {
		return err
	}

	var maxSeq uint64

	for {
		var rec Record
		if err := j.decodeRecord(reader, &rec); err != nil {
			// EOF or torn tail - stop here
			break
		}
		if rec.Seq > maxSeq {
			maxSeq = rec.Seq
		}
	}

	j.seq = maxSeq

	// Seek back to end for appending
	if _, err := j.file.Seek(0, 2); err != nil {
		return err
	}

	return nil
}

// streamReader returns a reader positioned at the current file offset,
// wrapping the decompressor when the journal is compressed.
func (j *Journal) streamReader() (io.Reader, error) {
	if j.compressed {
		if err := j.decompressor.Reset(j.file); err != nil {
			return nil, fmt.Errorf("failed to reset decompressor: %w", err)
		}
		return j.decompressor, nil
	}
	return bufio.NewReader(j.file), nil
}

// FilePath returns the path to the journal file.
func (j *Journal) FilePath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.filePath
}

// Append writes a record to the journal and returns its sequence number.
//
// Appends are buffered; call Commit to make them durable. The record's Seq
// field is assigned by the journal.
func (j *Journal) Append(rec Record) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return 0, ErrClosed
	}
	if rec.Op != OpAdd && rec.Op != OpDelete {
		return 0, fmt.Errorf("unsupported journal record op: %d", rec.Op)
	}

	j.seq++
	rec.Seq = j.seq
	if err := j.encodeRecord(&rec); err != nil {
		return 0, fmt.Errorf("failed to encode journal record: %w", err)
	}
	j.dirty = true

	return rec.Seq, nil
}

// Commit flushes buffered records and, in SyncOnCommit mode, fsyncs the file.
// Commit is the durability boundary for preceding Appends.
func (j *Journal) Commit() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return ErrClosed
	}
	if err := j.flushLocked(); err != nil {
		return err
	}
	if j.syncMode == SyncOnCommit {
		return j.file.Sync()
	}
	return nil
}

// Replay replays all records by calling the provided callback in append order.
//
// A torn or corrupted tail (crash mid-append) silently ends the replay; every
// record before it is intact thanks to per-record checksums. An error from
// the callback aborts the replay.
func (j *Journal) Replay(callback func(rec Record) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return ErrClosed
	}

	// Make buffered records visible to the read pass.
	if err := j.flushLocked(); err != nil {
		return err
	}

	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		return err
	}

	reader, err := j.streamReader()
	if err != nil {
		return err
	}

	for {
		var rec Record
		if err := j.decodeRecord(reader, &rec); err != nil {
			// EOF or torn tail - stop replay
			break
		}

		if rec.Op == opCheckpoint {
			break
		}

		if err := callback(rec); err != nil {
			return fmt.Errorf("failed to replay record %d: %w", rec.Seq, err)
		}
	}

	// Seek back to end for appending
	if _, err := j.file.Seek(0, 2); err != nil {
		return err
	}

	return nil
}

// Checkpoint truncates the journal after a successful snapshot.
//
// A checkpoint marker is written and fsynced before truncation, so a crash
// between the two leaves a journal that replays to nothing stale.
func (j *Journal) Checkpoint() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return ErrClosed
	}

	j.seq++
	rec := Record{Op: opCheckpoint, Seq: j.seq}
	if err := j.encodeRecord(&rec); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	j.dirty = true

	if err := j.flushLocked(); err != nil {
		return err
	}

	// Checkpoint is an explicit durability boundary.
	if err := j.file.Sync(); err != nil {
		return err
	}

	return j.truncate()
}

// truncate replaces the journal file with a fresh one (called after checkpoint).
func (j *Journal) truncate() error {
	if j.compressed && j.compressor != nil {
		if err := j.compressor.Close(); err != nil {
			return fmt.Errorf("failed to close compressor: %w", err)
		}
	}

	if err := j.file.Close(); err != nil {
		return err
	}

	file, err := os.OpenFile(j.filePath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return fmt.Errorf("failed to truncate journal file: %w", err)
	}

	j.file = file

	hdrLen, err := writeHeader(j.file, headerInfo{
		Compressed:       j.compressed,
		CompressionLevel: j.compressionLevel,
	})
	if err != nil {
		_ = j.file.Close()
		j.file = nil
		return err
	}
	j.dataOffset = hdrLen
	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		_ = j.file.Close()
		j.file = nil
		return fmt.Errorf("failed to seek journal data offset: %w", err)
	}

	if err := j.initCodecs(); err != nil {
		_ = j.file.Close()
		j.file = nil
		return err
	}

	j.seq = 0
	j.dirty = false

	return nil
}

// Seq returns the highest assigned sequence number.
func (j *Journal) Seq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seq
}

// Len returns the number of replayable records in the journal.
func (j *Journal) Len() (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return 0, ErrClosed
	}

	if err := j.flushLocked(); err != nil {
		return 0, err
	}

	if _, err := j.file.Seek(j.dataOffset, 0); err != nil {
		return 0, err
	}

	reader, err := j.streamReader()
	if err != nil {
		return 0, err
	}

	count := 0

	for {
		var rec Record
		if err := j.decodeRecord(reader, &rec); err != nil {
			break
		}
		if rec.Op == opCheckpoint {
			break
		}
		count++
	}

	// Seek back to end for appending
	if _, err := j.file.Seek(0, 2); err != nil {
		return count, err
	}

	return count, nil
}

// Close flushes and closes the journal. It is safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}

	if err := j.flushLocked(); err != nil {
		return err
	}

	if j.compressed && j.compressor != nil {
		if err := j.compressor.Close(); err != nil {
			return fmt.Errorf("failed to close compressor: %w", err)
		}
	}

	if j.decompressor != nil {
		j.decompressor.Close()
	}

	err := j.file.Close()
	j.file = nil // Mark as closed
	return err
}
