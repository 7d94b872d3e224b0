// Package block implements the fixed-width little-endian integer codec used
// for chunk headers and footers, and the CRC-32/IEEE checksum that every
// chunk in a segment file is framed with. It is pure: no I/O, no state,
// just byte-slice transforms.
package block

import (
	"hash/crc32"

	"github.com/pkg/errors"
)

// ErrShortBuffer is returned by the WriteU*/ReadU* family when the buffer
// does not have room for the requested fixed-width field at the given
// offset.
var ErrShortBuffer = errors.New("block: buffer too short for offset")

// WriteU8 writes a single byte at offset.
func WriteU8(buf []byte, v uint8, offset int) error {
	if offset+1 > len(buf) {
		return ErrShortBuffer
	}
	buf[offset] = v
	return nil
}

// ReadU8 reads a single byte at offset.
func ReadU8(buf []byte, offset int) (uint8, error) {
	if offset+1 > len(buf) {
		return 0, ErrShortBuffer
	}
	return buf[offset], nil
}

// WriteU32 writes v as 4 little-endian bytes starting at offset.
func WriteU32(buf []byte, v uint32, offset int) error {
	if offset+4 > len(buf) {
		return ErrShortBuffer
	}
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
	buf[offset+2] = byte(v >> 16)
	buf[offset+3] = byte(v >> 24)
	return nil
}

// ReadU32 reads 4 little-endian bytes starting at offset.
func ReadU32(buf []byte, offset int) (uint32, error) {
	if offset+4 > len(buf) {
		return 0, ErrShortBuffer
	}
	return uint32(buf[offset]) |
		uint32(buf[offset+1])<<8 |
		uint32(buf[offset+2])<<16 |
		uint32(buf[offset+3])<<24, nil
}

// WriteU64 writes v as 8 little-endian bytes starting at offset.
func WriteU64(buf []byte, v uint64, offset int) error {
	if offset+8 > len(buf) {
		return ErrShortBuffer
	}
	for i := 0; i < 8; i++ {
		buf[offset+i] = byte(v >> (8 * i))
	}
	return nil
}

// ReadU64 reads 8 little-endian bytes starting at offset.
func ReadU64(buf []byte, offset int) (uint64, error) {
	if offset+8 > len(buf) {
		return 0, ErrShortBuffer
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[offset+i]) << (8 * i)
	}
	return v, nil
}

// CRC32 computes the CRC-32/IEEE checksum over data, matching the
// polynomial every chunk in the on-disk format is checksummed with.
// Footers carry no checksum.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
