// Package hash provides hardware-accelerated hashing utilities for data integrity.
//
// # CRC32-Castagnoli (CRC32C)
//
// Journal records and S3 object uploads are protected with CRC32-Castagnoli:
//
//   - Hardware acceleration on x86 (SSE4.2) and ARM (CRC extension)
//   - Industry standard for write-ahead logs (RocksDB, LevelDB) and S3
//     object integrity (x-amz-checksum-crc32c)
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
