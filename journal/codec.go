package journal

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/internal/hash"
)

const (
	// recordHeadLen is op (1) + seq (8) + id (8) + payload length (4).
	recordHeadLen = 21

	// maxPayloadSize bounds a single record payload (64 MiB).
	maxPayloadSize = 64 << 20
)

// encodeRecord writes a record in binary format.
// Format: [Op:1][Seq:8][ID:8][PayloadLen:4][Payload:N][CRC32C:4]
// The checksum covers everything from Op through Payload.
func (j *Journal) encodeRecord(rec *Record) error {
	if len(rec.Payload) > maxPayloadSize {
		return fmt.Errorf("journal record payload too large: %d bytes", len(rec.Payload))
	}

	var head [recordHeadLen]byte
	head[0] = byte(rec.Op)
	binary.LittleEndian.PutUint64(head[1:9], rec.Seq)
	binary.LittleEndian.PutUint64(head[9:17], uint64(rec.ID)) //nolint:gosec // two's complement round-trip
	binary.LittleEndian.PutUint32(head[17:21], uint32(len(rec.Payload)))

	sum := hash.NewCRC32C()
	_, _ = sum.Write(head[:])
	_, _ = sum.Write(rec.Payload)

	if _, err := j.writer.Write(head[:]); err != nil {
		return err
	}
	if len(rec.Payload) > 0 {
		if _, err := j.writer.Write(rec.Payload); err != nil {
			return err
		}
	}

	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], sum.Sum32())
	if _, err := j.writer.Write(crc[:]); err != nil {
		return err
	}

	return nil
}

// decodeRecord reads a record in binary format and verifies its checksum.
func (j *Journal) decodeRecord(reader io.Reader, rec *Record) error {
	var head [recordHeadLen]byte
	if _, err := io.ReadFull(reader, head[:]); err != nil {
		return err
	}

	op := Op(head[0])
	if op < OpAdd || op > opCheckpoint {
		return fmt.Errorf("invalid journal record op: %d", op)
	}

	payloadLen := binary.LittleEndian.Uint32(head[17:21])
	if payloadLen > maxPayloadSize {
		return fmt.Errorf("journal record payload too large: %d bytes", payloadLen)
	}

	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(reader, payload); err != nil {
			return err
		}
	}

	var crc [4]byte
	if _, err := io.ReadFull(reader, crc[:]); err != nil {
		return err
	}

	sum := hash.NewCRC32C()
	_, _ = sum.Write(head[:])
	_, _ = sum.Write(payload)
	if binary.LittleEndian.Uint32(crc[:]) != sum.Sum32() {
		return fmt.Errorf("journal record checksum mismatch")
	}

	rec.Op = op
	rec.Seq = binary.LittleEndian.Uint64(head[1:9])
	rec.ID = element.ID(binary.LittleEndian.Uint64(head[9:17])) //nolint:gosec // two's complement round-trip
	rec.Payload = payload

	return nil
}

func (j *Journal) flushLocked() error {
	if !j.dirty {
		return nil
	}
	if err := j.bufWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if j.compressed {
		if err := j.compressor.Flush(); err != nil {
			return fmt.Errorf("failed to flush compressor: %w", err)
		}
	}
	j.dirty = false
	return nil
}
