package segment

import (
	"os"

	"github.com/ongniud/logseg/block"
	sp "github.com/ongniud/slice-pool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var headerPool = sp.NewSlicePoolDefault[byte]()

// SegmentWriter appends messages to a single segment file. It packs
// variable-length messages into fixed-size blocks, reusing space in a
// partially filled trailing block by rewriting it in place rather than
// always appending a fresh block.
type SegmentWriter struct {
	file   *os.File
	info   *SegmentInfo
	logger *zap.SugaredLogger

	buffer       []byte // scratch mirror of the trailing block
	bufferOffset int    // bytes of buffer currently occupied by valid chunks
	nextBlockPos int64  // file offset a brand-new block would be written at

	numPayloadBytesPerChunk int
	closed                  bool
}

// NewSegmentWriter creates the backing file for info and returns a writer
// ready to Append to it. The segment starts empty: info.NextOffset equals
// info.StartOffset until the first Append.
func NewSegmentWriter(info *SegmentInfo, logger *zap.SugaredLogger) (*SegmentWriter, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	f, err := os.OpenFile(info.Path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "segment: creating segment file")
	}

	blockSize := int(info.BlockSize)
	w := &SegmentWriter{
		file:                    f,
		info:                    info,
		logger:                  logger,
		buffer:                  make([]byte, blockSize),
		numPayloadBytesPerChunk: blockSize - NumHeaderBytes,
	}
	return w, nil
}

// Info returns a snapshot of the writer's live SegmentInfo.
func (w *SegmentWriter) Info() SegmentInfo {
	return *w.info
}

// Append writes payload as one or more chunks, durable on return: the
// underlying file is flushed and fsynced before Append returns nil.
func (w *SegmentWriter) Append(payload []byte) error {
	if w.closed {
		return ErrClosed
	}
	if len(payload) == 0 {
		return ErrEmptyMessage
	}

	if err := w.writePayload(payload); err != nil {
		return err
	}
	w.info.NextOffset++
	return nil
}

func (w *SegmentWriter) bufferCapacity() int {
	used := w.bufferOffset + NumHeaderBytes
	if used >= len(w.buffer) {
		return 0
	}
	return len(w.buffer) - used
}

func (w *SegmentWriter) writePayload(payload []byte) error {
	remaining := payload
	numPreChunks := 0

	if w.bufferOffset > 0 {
		if room := w.bufferCapacity(); room > 0 {
			numPreChunks = 1
			blockPos := w.nextBlockPos - int64(len(w.buffer))

			if len(remaining) <= room {
				if err := w.writeChunkAt(blockPos, remaining, ChunkFull); err != nil {
					return err
				}
				remaining = nil
			} else {
				if err := w.writeChunkAt(blockPos, remaining[:room], ChunkStart); err != nil {
					return err
				}
				remaining = remaining[room:]
			}
		}
	}

	if len(remaining) > 0 {
		numChunks := numPreChunks + numChunksNeeded(len(remaining), w.numPayloadBytesPerChunk)

		idx := 0
		for len(remaining) > 0 {
			w.clearBuffer()

			chunkLen := w.numPayloadBytesPerChunk
			if chunkLen > len(remaining) {
				chunkLen = len(remaining)
			}
			chunk := remaining[:chunkLen]
			remaining = remaining[chunkLen:]

			globalIdx := idx + numPreChunks
			chunkType := classifyChunk(globalIdx, numChunks)

			w.logger.Debugw("opening fresh block", "segment", w.info.Index, "pos", w.nextBlockPos)
			if err := w.writeChunkAt(w.nextBlockPos, chunk, chunkType); err != nil {
				return err
			}
			idx++
		}
	}

	return w.file.Sync()
}

// writeChunkAt renders one chunk into w.buffer at the current
// bufferOffset, computes its CRC, and writes the whole block-sized buffer
// to the file at pos. pos is either the start of the still-trailing block
// (tail-fill rewrite) or w.nextBlockPos (a fresh block), which this
// advances.
func (w *SegmentWriter) writeChunkAt(pos int64, payload []byte, chunkType ChunkType) error {
	fresh := pos == w.nextBlockPos

	header := headerPool.Alloc(NumHeaderBytes)[:NumHeaderBytes]
	defer headerPool.Free(header)

	if err := writeChunkHeader(header, uint32(len(payload)), chunkType); err != nil {
		return err
	}

	start := w.bufferOffset
	copy(w.buffer[start:start+NumHeaderBytes], header)
	copy(w.buffer[start+PayloadOffset:start+PayloadOffset+len(payload)], payload)

	end := start + NumHeaderBytes + len(payload)
	crc := block.CRC32(w.buffer[start+LenOffset : end])
	_ = block.WriteU32(w.buffer, crc, start+CRCOffset)

	if _, err := w.file.WriteAt(w.buffer, pos); err != nil {
		return errors.Wrap(err, "segment: writing block")
	}

	w.bufferOffset = end
	if fresh {
		w.nextBlockPos += int64(len(w.buffer))
	}
	return nil
}

func (w *SegmentWriter) clearBuffer() {
	for i := range w.buffer {
		w.buffer[i] = 0
	}
	w.bufferOffset = 0
}

// Close writes the 33-byte footer and forbids further writes. It is
// idempotent: calling Close more than once only writes the footer the
// first time. Go has no destructors, so unlike the Rust original's
// Drop-based footer write, callers must invoke Close explicitly (e.g.
// via defer) for the footer to be written.
func (w *SegmentWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	footer := encodeFooter(w.info)
	if _, err := w.file.WriteAt(footer, w.nextBlockPos); err != nil {
		return errors.Wrap(err, "segment: writing footer")
	}
	if err := w.file.Sync(); err != nil {
		return errors.Wrap(err, "segment: syncing footer")
	}

	w.logger.Infow("segment closed",
		"segment", w.info.Index,
		"path", w.info.Path,
		"messages", w.info.MessageCount(),
		"bytes", w.nextBlockPos+FooterByteCount,
	)
	return w.file.Close()
}

func numChunksNeeded(payloadLen, payloadPerChunk int) int {
	if payloadLen == 0 {
		return 0
	}
	return (payloadLen + payloadPerChunk - 1) / payloadPerChunk
}

// classifyChunk implements spec.md §4.2's type-assignment rule: a chunk's
// type depends only on its position among the total chunks the message
// was split into.
func classifyChunk(globalIndex, numChunks int) ChunkType {
	switch {
	case globalIndex == 0 && numChunks == 1:
		return ChunkFull
	case globalIndex == 0:
		return ChunkStart
	case globalIndex+1 == numChunks:
		return ChunkEnd
	default:
		return ChunkMiddle
	}
}

func writeChunkHeader(header []byte, length uint32, chunkType ChunkType) error {
	if err := block.WriteU32(header, length, LenOffset); err != nil {
		return err
	}
	return block.WriteU8(header, uint8(chunkType), TypeOffset)
}
