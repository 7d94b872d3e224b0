package segment

import "github.com/pkg/errors"

var (
	// ErrClosed is returned by SegmentWriter.Append once Close has been
	// called.
	ErrClosed = errors.New("segment: writer is closed")

	// ErrEmptyMessage is a precondition violation: Append was called with
	// a zero-length payload.
	ErrEmptyMessage = errors.New("segment: message payload must not be empty")

	// ErrCRCMismatch means a chunk's stored CRC did not match the CRC
	// computed while reading it; the segment is corrupt at that point.
	ErrCRCMismatch = errors.New("segment: chunk crc mismatch")

	// ErrMissingMagic means a segment file's last 33 bytes did not begin
	// with the footer magic byte.
	ErrMissingMagic = errors.New("segment: footer magic byte missing")

	// ErrMultipleOpenSegments is returned by recovery when an unfooted
	// segment file in a topic directory is not the highest-indexed one,
	// which includes the case of more than one unfooted file; at most one
	// open (unfooted) segment may exist at a time, and only at the tail.
	ErrMultipleOpenSegments = errors.New("segment: more than one unfooted segment found")
)
