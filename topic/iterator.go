package topic

import (
	"io"

	"github.com/ongniud/logseg/segment"
)

// Iterator reads every message across a fixed set of closed segments, in
// index order, rolling from one segment to the next on io.EOF.
type Iterator struct {
	segments []*segment.SegmentInfo
	cursor   *segment.SegmentIterator
	next     int
}

// Next returns the next message, or io.EOF once every segment has been
// exhausted. Any other error (e.g. ErrCRCMismatch) is returned as-is and
// should be treated as fatal for this iterator.
func (it *Iterator) Next() ([]byte, error) {
	for {
		if it.cursor == nil {
			if it.next >= len(it.segments) {
				return nil, io.EOF
			}
			cur, err := it.segments[it.next].Iter()
			if err != nil {
				return nil, err
			}
			it.cursor = cur
			it.next++
		}

		msg, err := it.cursor.Next()
		if err == nil {
			return msg, nil
		}
		if err != io.EOF {
			return nil, err
		}

		it.cursor.Close()
		it.cursor = nil
	}
}

// Close releases the file handle of whichever segment is currently open,
// if any. Safe to call even if iteration already reached the end.
func (it *Iterator) Close() error {
	if it.cursor == nil {
		return nil
	}
	err := it.cursor.Close()
	it.cursor = nil
	return err
}
