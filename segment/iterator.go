package segment

import (
	"io"
	"os"

	"github.com/ongniud/logseg/block"
	"github.com/pkg/errors"
)

// SegmentIterator reads the messages stored in a segment file in order.
// It supports tailing: if the file it is reading is still being appended
// to by a SegmentWriter, a re-read of the trailing block lets it observe
// chunks packed into that block after the iterator last looked at it.
type SegmentIterator struct {
	file *os.File

	buffer         []byte
	offset         int   // index into buffer of the next chunk header
	loadedBlockPos int64 // file offset the buffer currently mirrors
	haveBlock      bool
}

func newSegmentIterator(path string, blockSize uint64) (*SegmentIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "segment: opening segment for iteration")
	}
	size := int(blockSize)
	return &SegmentIterator{
		file:   f,
		buffer: make([]byte, size),
		offset: size, // exhausted: forces a load on the first Next
	}, nil
}

// Close releases the iterator's file handle.
func (it *SegmentIterator) Close() error {
	return it.file.Close()
}

func (it *SegmentIterator) isBufferExhausted() bool {
	return it.offset+NumHeaderBytes >= len(it.buffer)
}

func (it *SegmentIterator) typeAtOffset() ChunkType {
	return ChunkType(it.buffer[it.offset+TypeOffset])
}

// loadNextBlock reads the block immediately following the one currently
// loaded (or the first block, if none is loaded yet). A short or failed
// read is treated as a normal end of stream, not an error.
func (it *SegmentIterator) loadNextBlock() error {
	pos := int64(0)
	if it.haveBlock {
		pos = it.loadedBlockPos + int64(len(it.buffer))
	}
	n, err := it.file.ReadAt(it.buffer, pos)
	if err != nil || n < len(it.buffer) {
		return io.EOF
	}
	it.loadedBlockPos = pos
	it.haveBlock = true
	it.offset = 0
	return nil
}

// reloadCurrentBlock re-reads the block the iterator is already
// positioned in, without moving offset, to pick up chunks a writer may
// have packed into it since the last read.
func (it *SegmentIterator) reloadCurrentBlock() error {
	n, err := it.file.ReadAt(it.buffer, it.loadedBlockPos)
	if err != nil || n < len(it.buffer) {
		return io.EOF
	}
	return nil
}

// Next returns the next reassembled message, or io.EOF when the segment
// has no more messages (a normal, non-error termination). A chunk with a
// bad CRC returns ErrCRCMismatch, which is fatal for this segment.
func (it *SegmentIterator) Next() ([]byte, error) {
	if it.haveBlock && !it.isBufferExhausted() && it.typeAtOffset() == ChunkNull {
		if err := it.reloadCurrentBlock(); err != nil {
			return nil, io.EOF
		}
		if it.typeAtOffset() == ChunkNull {
			return nil, io.EOF
		}
	}

	var payload []byte
	for {
		if !it.haveBlock || it.isBufferExhausted() {
			if err := it.loadNextBlock(); err != nil {
				return nil, io.EOF
			}
		}

		chunkType := ChunkType(it.buffer[it.offset+TypeOffset])
		if chunkType == ChunkNull {
			return nil, io.EOF
		}

		length, err := block.ReadU32(it.buffer, it.offset+LenOffset)
		if err != nil {
			return nil, io.EOF
		}
		payloadStart := it.offset + PayloadOffset
		payloadEnd := payloadStart + int(length)
		if payloadEnd > len(it.buffer) {
			return nil, io.EOF
		}

		expectedCRC, err := block.ReadU32(it.buffer, it.offset+CRCOffset)
		if err != nil {
			return nil, io.EOF
		}
		actualCRC := block.CRC32(it.buffer[it.offset+LenOffset : payloadEnd])
		if actualCRC != expectedCRC {
			return nil, ErrCRCMismatch
		}

		payload = append(payload, it.buffer[payloadStart:payloadEnd]...)
		it.offset = payloadEnd

		switch chunkType {
		case ChunkFull, ChunkEnd:
			return payload, nil
		case ChunkStart, ChunkMiddle:
			continue
		default:
			return nil, io.EOF
		}
	}
}
