// Package topic composes a directory of segments into one logical,
// ordered message stream: producing appends to an open trailing segment,
// iterating chains per-segment iterators in index order.
package topic

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/ongniud/logseg/segment"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var segmentFileName = regexp.MustCompile(`^segment_(\d{9})$`)

// Topic is a directory of segments forming one logical ordered message
// stream. At most one segment — the trailing one — is ever open for
// writes; the rest are closed (footed).
type Topic struct {
	dir       string
	blockSize uint64
	logger    *zap.SugaredLogger

	closed []*segment.SegmentInfo // ascending by index
	writer *segment.SegmentWriter
}

// Option configures Topic construction.
type Option func(*Topic)

// WithLogger injects a structured logger; the default is a no-op logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(t *Topic) { t.logger = logger }
}

// Open ensures dir exists and rebuilds the in-memory segment index from
// whatever segment files (and footers) it finds there. At most one
// unfooted segment is tolerated; it is treated as the product of a crash
// before Close and is sealed immediately (see SPEC_FULL.md §4.5).
func Open(dir string, blockSize uint64, opts ...Option) (*Topic, error) {
	t := &Topic{dir: dir, blockSize: blockSize, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(t)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "topic: creating topic directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "topic: reading topic directory")
	}

	var indices []int
	byIndex := map[int]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := segmentFileName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(m[1], "%d", &idx); err != nil {
			continue
		}
		indices = append(indices, idx)
		byIndex[idx] = filepath.Join(dir, e.Name())
	}
	sort.Ints(indices)

	var openPath string
	var openIndex int
	for i, idx := range indices {
		path := byIndex[idx]
		info, err := segment.LoadSegmentInfo(path)
		if err == nil {
			t.closed = append(t.closed, info)
			continue
		}
		if !errors.Is(err, segment.ErrMissingMagic) {
			return nil, errors.Wrapf(err, "topic: loading segment %s", path)
		}
		if i != len(indices)-1 {
			return nil, segment.ErrMultipleOpenSegments
		}
		openPath, openIndex = path, idx
	}

	if openPath != "" {
		startOffset := uint64(0)
		if n := len(t.closed); n > 0 {
			startOffset = t.closed[n-1].NextOffset
		}
		sealed, err := recoverOrphanSegment(openPath, uint64(openIndex), startOffset, blockSize)
		if err != nil {
			return nil, errors.Wrapf(err, "topic: recovering orphan segment %s", openPath)
		}
		t.logger.Infow("recovered unfooted segment", "path", openPath, "messages", sealed.MessageCount())
		t.closed = append(t.closed, sealed)
	}

	return t, nil
}

// recoverOrphanSegment replays an unfooted segment end to end to count
// the messages it durably holds, then seals it with a footer computed
// from that count. A trailing incomplete multi-chunk message (Start/
// Middle with no End) is silently dropped by the replay, exactly as an
// ordinary reader would drop it.
func recoverOrphanSegment(path string, index, startOffset, blockSize uint64) (*segment.SegmentInfo, error) {
	tmp := segment.NewSegmentInfo(path, index, startOffset, blockSize)
	it, err := tmp.Iter()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var count uint64
	for {
		_, err := it.Next()
		if err != nil {
			break
		}
		count++
	}

	return segment.SealOrphanSegment(path, index, startOffset, blockSize, startOffset+count)
}

// Produce appends message to the topic's trailing segment, creating one
// if none is open yet. Durable on return.
func (t *Topic) Produce(message []byte) error {
	if t.writer == nil {
		if err := t.openNewSegment(); err != nil {
			return err
		}
	}
	return t.writer.Append(message)
}

func (t *Topic) openNewSegment() error {
	nextIndex := uint64(0)
	startOffset := uint64(0)
	if n := len(t.closed); n > 0 {
		nextIndex = t.closed[n-1].Index + 1
		startOffset = t.closed[n-1].NextOffset
	}

	path := filepath.Join(t.dir, fmt.Sprintf("segment_%09d", nextIndex))
	info := segment.NewSegmentInfo(path, nextIndex, startOffset, t.blockSize)
	w, err := segment.NewSegmentWriter(info, t.logger)
	if err != nil {
		return err
	}
	t.writer = w
	return nil
}

// Close closes any open segment, writing its footer, and folds its final
// SegmentInfo into the closed-segment list.
func (t *Topic) Close() error {
	if t.writer == nil {
		return nil
	}
	snapshot := t.writer.Info()
	if err := t.writer.Close(); err != nil {
		return err
	}
	t.closed = append(t.closed, &snapshot)
	t.writer = nil
	return nil
}

// Iter returns a finite iterator over every message in every closed
// segment, in order. The trailing open segment (if any) is not included.
func (t *Topic) Iter() *Iterator {
	segments := make([]*segment.SegmentInfo, len(t.closed))
	copy(segments, t.closed)
	return &Iterator{segments: segments}
}

// NextOffset reports the next message index this topic will assign,
// whether or not a segment is currently open.
func (t *Topic) NextOffset() uint64 {
	if t.writer != nil {
		info := t.writer.Info()
		return info.NextOffset
	}
	if n := len(t.closed); n > 0 {
		return t.closed[n-1].NextOffset
	}
	return 0
}
