package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// WriterOptions configures a SnapshotWriter.
type WriterOptions struct {
	// Compression selects the body block compression.
	// Default: CompressionZSTD.
	Compression CompressionType

	// BlockSize is the uncompressed block size in bytes. Default: 256KB.
	BlockSize int

	// Codec is the record codec name stored in the header so readers can
	// pick the matching decoder. At most 8 bytes.
	Codec string

	// MaxID is the ID sequence watermark stored in the header. Restoring it
	// keeps deleted IDs from being reissued after a load.
	MaxID uint64
}

// WithCompression sets the body compression algorithm.
func WithCompression(c CompressionType) func(o *WriterOptions) {
	return func(o *WriterOptions) {
		o.Compression = c
	}
}

// WithBlockSize sets the uncompressed block size.
func WithBlockSize(n int) func(o *WriterOptions) {
	return func(o *WriterOptions) {
		o.BlockSize = n
	}
}

// WithCodecName records the codec name in the header.
func WithCodecName(name string) func(o *WriterOptions) {
	return func(o *WriterOptions) {
		o.Codec = name
	}
}

// WithMaxID records the ID sequence watermark in the header.
func WithMaxID(id uint64) func(o *WriterOptions) {
	return func(o *WriterOptions) {
		o.MaxID = id
	}
}

// SnapshotWriter writes a snapshot: the 64-byte header, a block-compressed
// body of length-prefixed element records, and a CRC32 footer over the body
// bytes as stored.
type SnapshotWriter struct {
	w        io.Writer
	cw       *ChecksumWriter
	bw       *blockWriter
	declared uint64
	written  uint64
	closed   bool
	lenBuf   [4]byte
}

// NewSnapshotWriter writes the header for count records to w and returns a
// writer for the body. Close finalizes the body and writes the checksum
// footer; it does not close w.
func NewSnapshotWriter(w io.Writer, count uint64, optFns ...func(o *WriterOptions)) (*SnapshotWriter, error) {
	opts := WriterOptions{
		Compression: CompressionZSTD,
		BlockSize:   defaultBlockSize,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Compression > CompressionZSTD {
		return nil, ErrInvalidCompression
	}

	header := FileHeader{
		Magic:        MagicNumber,
		Version:      Version,
		Compression:  uint8(opts.Compression),
		ElementCount: count,
		MaxID:        opts.MaxID,
	}
	copy(header.Codec[:], opts.Codec)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("persist: write header: %w", err)
	}

	cw := NewChecksumWriter(w)
	return &SnapshotWriter{
		w:        w,
		cw:       cw,
		bw:       newBlockWriter(cw, opts.Compression, opts.BlockSize),
		declared: count,
	}, nil
}

// WriteRecord appends one length-prefixed record to the body.
func (sw *SnapshotWriter) WriteRecord(p []byte) error {
	if sw.closed {
		return ErrWriterClosed
	}
	if sw.written == sw.declared {
		return fmt.Errorf("persist: header declares %d records", sw.declared)
	}
	if len(p) > maxRecordSize {
		return fmt.Errorf("persist: record of %d bytes exceeds limit", len(p))
	}

	binary.LittleEndian.PutUint32(sw.lenBuf[:], uint32(len(p)))
	if _, err := sw.bw.Write(sw.lenBuf[:]); err != nil {
		return err
	}
	if _, err := sw.bw.Write(p); err != nil {
		return err
	}
	sw.written++
	return nil
}

// Close flushes the final block and writes the checksum footer. It fails if
// fewer records were written than the header declares.
func (sw *SnapshotWriter) Close() error {
	if sw.closed {
		return nil
	}
	sw.closed = true

	if sw.written != sw.declared {
		return fmt.Errorf("persist: wrote %d of %d declared records", sw.written, sw.declared)
	}
	if err := sw.bw.flushBlock(); err != nil {
		return err
	}

	var footer [4]byte
	binary.LittleEndian.PutUint32(footer[:], sw.cw.Sum())
	if _, err := sw.w.Write(footer[:]); err != nil {
		return fmt.Errorf("persist: write checksum footer: %w", err)
	}
	return nil
}

// SnapshotReader reads a snapshot written by SnapshotWriter.
type SnapshotReader struct {
	r         io.Reader
	cr        *ChecksumReader
	br        *blockReader
	header    FileHeader
	remaining uint64
	buf       []byte
	off       int
	done      bool
	doneErr   error
}

// NewSnapshotReader reads and validates the header of a snapshot on r.
func NewSnapshotReader(r io.Reader) (*SnapshotReader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("persist: read header: %w", truncated(err))
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if header.Compression > uint8(CompressionZSTD) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompression, header.Compression)
	}

	cr := NewChecksumReader(r)
	return &SnapshotReader{
		r:         r,
		cr:        cr,
		br:        newBlockReader(cr, CompressionType(header.Compression)),
		header:    header,
		remaining: header.ElementCount,
	}, nil
}

// Count returns the number of records declared in the header.
func (sr *SnapshotReader) Count() uint64 { return sr.header.ElementCount }

// MaxID returns the ID sequence watermark stored in the header.
func (sr *SnapshotReader) MaxID() uint64 { return sr.header.MaxID }

// Codec returns the codec name stored in the header, or "" if none was
// recorded.
func (sr *SnapshotReader) Codec() string {
	return string(bytes.TrimRight(sr.header.Codec[:], "\x00"))
}

// Compression returns the body compression type.
func (sr *SnapshotReader) Compression() CompressionType {
	return CompressionType(sr.header.Compression)
}

// Next returns the next record. After the final record it verifies the
// checksum footer and returns io.EOF, or a ChecksumMismatchError when the
// stored body was corrupted. The returned slice is only valid until the next
// call.
func (sr *SnapshotReader) Next() ([]byte, error) {
	if sr.remaining == 0 {
		if err := sr.finish(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	lenBytes, err := sr.take(4)
	if err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBytes)
	if n > maxRecordSize {
		return nil, fmt.Errorf("persist: record of %d bytes exceeds limit", n)
	}

	rec, err := sr.take(int(n))
	if err != nil {
		return nil, err
	}
	sr.remaining--
	return rec, nil
}

// take returns n contiguous body bytes, pulling blocks as needed.
func (sr *SnapshotReader) take(n int) ([]byte, error) {
	for len(sr.buf)-sr.off < n {
		block, err := sr.br.next()
		if err != nil {
			return nil, truncated(err)
		}
		if sr.off == len(sr.buf) {
			sr.buf, sr.off = block, 0
			continue
		}
		// A record straddles a block boundary. Stitch the tail and the new
		// block together.
		merged := make([]byte, 0, len(sr.buf)-sr.off+len(block))
		merged = append(merged, sr.buf[sr.off:]...)
		merged = append(merged, block...)
		sr.buf, sr.off = merged, 0
	}
	p := sr.buf[sr.off : sr.off+n]
	sr.off += n
	return p, nil
}

// finish verifies the checksum footer once all records are consumed.
func (sr *SnapshotReader) finish() error {
	if sr.done {
		return sr.doneErr
	}
	sr.done = true

	if sr.off != len(sr.buf) {
		sr.doneErr = fmt.Errorf("persist: %d trailing bytes after final record", len(sr.buf)-sr.off)
		return sr.doneErr
	}

	var footer [4]byte
	// The footer is read from the underlying reader so it stays out of the
	// running checksum.
	if _, err := io.ReadFull(sr.r, footer[:]); err != nil {
		sr.doneErr = truncated(err)
		return sr.doneErr
	}
	sr.doneErr = sr.cr.Verify(binary.LittleEndian.Uint32(footer[:]))
	return sr.doneErr
}
