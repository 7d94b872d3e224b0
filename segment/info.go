package segment

import (
	"os"

	"github.com/pkg/errors"
)

// SegmentInfo is the in-memory descriptor for a segment: where its file
// lives, which segment index it is, the block size it was created with,
// and the half-open message-index range [StartOffset, NextOffset) it
// holds.
type SegmentInfo struct {
	Path        string
	Index       uint64
	BlockSize   uint64
	StartOffset uint64
	NextOffset  uint64
}

// NewSegmentInfo describes a brand new, empty segment: NextOffset starts
// equal to StartOffset.
func NewSegmentInfo(path string, index, startOffset, blockSize uint64) *SegmentInfo {
	return &SegmentInfo{
		Path:        path,
		Index:       index,
		BlockSize:   blockSize,
		StartOffset: startOffset,
		NextOffset:  startOffset,
	}
}

// LoadSegmentInfo opens a closed segment file and parses its footer.
// Returns ErrMissingMagic if the file is too short to hold a footer or
// its magic byte doesn't match — the caller decides whether that means
// "this is the open trailing segment" or "this file is corrupt".
func LoadSegmentInfo(path string) (*SegmentInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "segment: opening segment file")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "segment: stat segment file")
	}
	if fi.Size() < FooterByteCount {
		return nil, ErrMissingMagic
	}

	buf := make([]byte, FooterByteCount)
	if _, err := f.ReadAt(buf, fi.Size()-FooterByteCount); err != nil {
		return nil, errors.Wrap(err, "segment: reading footer")
	}

	index, blockSize, startOffset, nextOffset, err := decodeFooter(buf)
	if err != nil {
		return nil, err
	}

	return &SegmentInfo{
		Path:        path,
		Index:       index,
		BlockSize:   blockSize,
		StartOffset: startOffset,
		NextOffset:  nextOffset,
	}, nil
}

// MessageCount returns how many messages this segment holds.
func (s *SegmentInfo) MessageCount() uint64 {
	return s.NextOffset - s.StartOffset
}

// Iter opens the segment file for reading and returns an iterator over
// its messages, starting from the beginning of the file.
func (s *SegmentInfo) Iter() (*SegmentIterator, error) {
	return newSegmentIterator(s.Path, s.BlockSize)
}

// SealOrphanSegment is used by Topic recovery: it takes a segment file
// that was never closed (no footer, left behind by a crash before the
// writer's Close ran) together with its recovered message count, and
// appends a footer to it directly, without reconstructing the full
// SegmentWriter packing state. See SPEC_FULL.md §4.5 for why replay-then
// -seal was chosen over in-place resumption.
func SealOrphanSegment(path string, index, startOffset, blockSize, nextOffset uint64) (*SegmentInfo, error) {
	info := &SegmentInfo{
		Path:        path,
		Index:       index,
		BlockSize:   blockSize,
		StartOffset: startOffset,
		NextOffset:  nextOffset,
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "segment: opening orphan segment for sealing")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "segment: stat orphan segment")
	}
	if _, err := f.WriteAt(encodeFooter(info), fi.Size()); err != nil {
		return nil, errors.Wrap(err, "segment: writing recovered footer")
	}
	if err := f.Sync(); err != nil {
		return nil, errors.Wrap(err, "segment: syncing recovered footer")
	}
	return info, nil
}
