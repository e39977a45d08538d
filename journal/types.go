package journal

import (
	"github.com/hupe1980/elemgo/element"
)

// SyncMode defines the fsync behavior for journal commits.
type SyncMode int

const (
	// SyncOnCommit performs an fsync on every Commit.
	// Slowest but strongest durability guarantee.
	SyncOnCommit SyncMode = iota

	// SyncNone never fsyncs; the OS flushes at its own pace.
	// Fastest writes but risk of data loss on crash.
	SyncNone
)

// Op represents the type of a journaled mutation.
type Op uint8

const (
	// OpAdd records an element insert or replacement.
	OpAdd Op = iota + 1
	// OpDelete records an element removal.
	OpDelete
	// opCheckpoint marks a truncation boundary; replay stops here.
	opCheckpoint
)

// Record is a single journaled mutation.
//
// Seq is assigned by Append; values set by the caller are ignored.
// Payload carries the codec-encoded element for OpAdd and is empty
// for OpDelete.
type Record struct {
	Op      Op
	Seq     uint64
	ID      element.ID
	Payload []byte
}

// Options contains configuration for the journal.
type Options struct {
	// Path is the directory where the journal file is stored.
	Path string

	// Sync controls fsync behavior on Commit (SyncOnCommit, SyncNone).
	// Default is SyncOnCommit.
	Sync SyncMode

	// Compress enables zstd stream compression.
	Compress bool

	// CompressionLevel sets the zstd compression level (1-22).
	// Default (3) provides a good balance.
	CompressionLevel int
}

// DefaultOptions returns default journal options.
var DefaultOptions = Options{
	Path:             ".",
	Sync:             SyncOnCommit,
	Compress:         false,
	CompressionLevel: 3,
}
