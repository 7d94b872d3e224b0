package topic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ongniud/logseg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduceAndIterateAcrossSegments(t *testing.T) {
	dir := t.TempDir()

	tp, err := Open(dir, 32)
	require.NoError(t, err)

	require.NoError(t, tp.Produce([]byte{0}))
	require.NoError(t, tp.Produce([]byte{1}))
	require.NoError(t, tp.Close())

	tp2, err := Open(dir, 32)
	require.NoError(t, err)
	require.NoError(t, tp2.Produce([]byte{1}))
	require.NoError(t, tp2.Produce([]byte{2}))
	require.NoError(t, tp2.Close())

	tp3, err := Open(dir, 32)
	require.NoError(t, err)

	it := tp3.Iter()
	msg, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, msg)

	msg, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, msg)

	msg, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, msg)

	msg, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, msg)

	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenRecoversUnfootedTrailingSegment(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "segment_000000000")
	info := segment.NewSegmentInfo(path, 0, 0, 32)
	w, err := segment.NewSegmentWriter(info, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append([]byte{10}))
	require.NoError(t, w.Append([]byte{20}))
	// Crash: no Close, so no footer is written. Append already fsyncs on
	// every call, so the bytes are durable despite the missing footer.

	tp, err := Open(dir, 32)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), tp.NextOffset())

	it := tp.Iter()
	msg, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{10}, msg)

	msg, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{20}, msg)

	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, tp.Produce([]byte{30}))
	require.NoError(t, tp.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpenRejectsMultipleUnfootedSegments(t *testing.T) {
	dir := t.TempDir()

	for _, idx := range []uint64{0, 1} {
		path := filepath.Join(dir, fmt.Sprintf("segment_%09d", idx))
		info := segment.NewSegmentInfo(path, idx, idx, 32)
		w, err := segment.NewSegmentWriter(info, nil)
		require.NoError(t, err)
		require.NoError(t, w.Append([]byte{byte(idx)}))
	}

	_, err := Open(dir, 32)
	assert.ErrorIs(t, err, segment.ErrMultipleOpenSegments)
}

func TestOpenOnEmptyDirectoryStartsFresh(t *testing.T) {
	dir := t.TempDir()

	tp, err := Open(dir, 16)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tp.NextOffset())

	it := tp.Iter()
	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

