package persist

import "errors"

const (
	// MagicNumber identifies element snapshot files (ASCII: "ELM1").
	MagicNumber = 0x454C4D31
	// Version is the current file format version (v1.0).
	Version = 0x00010000

	// maxRecordSize bounds a single element record. A length prefix beyond
	// this is treated as corruption instead of an allocation request.
	maxRecordSize = 64 << 20
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrWriterClosed is returned when writing to a finalized snapshot writer.
	ErrWriterClosed = errors.New("snapshot writer is closed")
)

// FileHeader is the 64-byte header at the start of every snapshot file,
// stored little-endian. Layout keeps 8-byte fields on 8-byte boundaries.
type FileHeader struct {
	Magic        uint32 // 0x454C4D31 ("ELM1")
	Version      uint32 // File format version
	Compression  uint8  // CompressionNone, CompressionLZ4 or CompressionZSTD
	Flags        uint8  // Reserved flag bits
	Padding      [6]byte
	ElementCount uint64  // Number of element records in the body
	MaxID        uint64  // Highest element ID ever issued (ID sequence watermark)
	Codec        [8]byte // Zero-padded codec name, e.g. "gojson"
	Reserved     [24]byte
}
