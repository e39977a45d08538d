package persist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects the block compression algorithm for snapshot bodies.
type CompressionType uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast, moderate ratio).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (slower, better ratio).
	CompressionZSTD CompressionType = 2
)

const (
	// Each block is framed as [UncompressedSize:4][CompressedSize:4][data],
	// little-endian. CompressedSize 0 means the data is stored raw; blocks
	// that do not compress well fall back to raw storage so a block never
	// grows past its payload by more than the frame.
	blockHeaderSize = 8

	defaultBlockSize = 256 * 1024

	// maxBlockPayload bounds block sizes read back from disk. Anything
	// larger is treated as corruption.
	maxBlockPayload = 64 << 20
)

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBlock frames and compresses one block.
func compressBlock(data []byte, compression CompressionType) ([]byte, error) {
	var compressed []byte
	var err error

	switch compression {
	case CompressionLZ4:
		compressed, err = compressBlockLZ4(data)
	case CompressionZSTD:
		compressed, err = compressBlockZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	// Store raw when compression is off or does not pay for itself.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0)
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressBlockZSTD(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil), nil
}

// blockWriter buffers writes into fixed-size blocks and compresses each
// block independently.
type blockWriter struct {
	w           io.Writer
	compression CompressionType
	blockSize   int
	buf         *bytes.Buffer
}

func newBlockWriter(w io.Writer, compression CompressionType, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &blockWriter{
		w:           w,
		compression: compression,
		blockSize:   blockSize,
		buf:         bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

func (bw *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := bw.blockSize - bw.buf.Len()
		if space <= 0 {
			if err := bw.flushBlock(); err != nil {
				return total, err
			}
			space = bw.blockSize
		}

		toWrite := len(p)
		if toWrite > space {
			toWrite = space
		}

		n, _ := bw.buf.Write(p[:toWrite])
		total += n
		p = p[n:]
	}
	return total, nil
}

// flushBlock compresses and writes the buffered block, if any.
func (bw *blockWriter) flushBlock() error {
	if bw.buf.Len() == 0 {
		return nil
	}

	block, err := compressBlock(bw.buf.Bytes(), bw.compression)
	if err != nil {
		return err
	}
	if _, err := bw.w.Write(block); err != nil {
		return err
	}
	bw.buf.Reset()
	return nil
}

// blockReader reads framed blocks back from a stream, decompressing each.
type blockReader struct {
	r           io.Reader
	compression CompressionType
	head        [blockHeaderSize]byte
}

func newBlockReader(r io.Reader, compression CompressionType) *blockReader {
	return &blockReader{r: r, compression: compression}
}

// next returns the decompressed payload of the next block. Every returned
// slice is freshly allocated, so callers may hold on to it.
func (br *blockReader) next() ([]byte, error) {
	if _, err := io.ReadFull(br.r, br.head[:]); err != nil {
		return nil, err
	}

	usize := binary.LittleEndian.Uint32(br.head[0:])
	csize := binary.LittleEndian.Uint32(br.head[4:])

	if usize == 0 || usize > maxBlockPayload {
		return nil, fmt.Errorf("persist: invalid block size %d", usize)
	}

	if csize == 0 {
		block := make([]byte, usize)
		if _, err := io.ReadFull(br.r, block); err != nil {
			return nil, truncated(err)
		}
		return block, nil
	}

	if csize > maxBlockPayload {
		return nil, fmt.Errorf("persist: invalid compressed block size %d", csize)
	}

	compressed := make([]byte, csize)
	if _, err := io.ReadFull(br.r, compressed); err != nil {
		return nil, truncated(err)
	}

	result := make([]byte, usize)
	switch br.compression {
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressed, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != usize {
			return nil, errors.New("persist: decompressed size mismatch")
		}
		return decoded, nil

	default: // LZ4
		n, err := lz4.UncompressBlock(compressed, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != usize {
			return nil, errors.New("persist: decompressed size mismatch")
		}
		return result, nil
	}
}

// truncated maps a clean EOF inside a structure to ErrUnexpectedEOF.
func truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
