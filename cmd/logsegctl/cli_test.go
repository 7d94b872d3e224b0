package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	cfgFile = ""
	dataDir = ""
	blockSize = 0
}

func TestProduceThenCatRoundTrips(t *testing.T) {
	resetFlags()
	dir := filepath.Join(t.TempDir(), "topic")

	dataDir = dir
	blockSize = 64
	produce := newProduceCommand()
	produce.SetArgs([]string{"hello", "world"})
	require.NoError(t, produce.Execute())

	resetFlags()
	dataDir = dir
	blockSize = 64
	var out bytes.Buffer
	cat := newCatCommand()
	cat.SetOut(&out)
	require.NoError(t, cat.Execute())

	assert.Equal(t, "hello\nworld\n", out.String())
}

func TestInspectReportsClosedSegment(t *testing.T) {
	resetFlags()
	dir := filepath.Join(t.TempDir(), "topic")

	dataDir = dir
	blockSize = 64
	produce := newProduceCommand()
	produce.SetArgs([]string{"one"})
	require.NoError(t, produce.Execute())

	resetFlags()
	dataDir = dir
	blockSize = 64
	var out bytes.Buffer
	inspect := newInspectCommand()
	inspect.SetOut(&out)
	require.NoError(t, inspect.Execute())

	assert.Contains(t, out.String(), "segment_000000000")
	assert.Contains(t, out.String(), "messages=1")
}
