// Package mmap provides memory-mapped file access for zero-copy reads.
//
// Snapshot files opened through the local blob store are mapped instead of
// read into heap buffers, so loading a model touches pages on demand and
// large snapshots never double in memory.
//
// # Usage
//
//	m, err := mmap.Open("snapshot.elm")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	region, _ := m.Region(offset, size)
//	m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) access hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is a no-op)
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent reads. Close is idempotent;
// callers must ensure no goroutine touches Bytes() after Close returns.
package mmap
