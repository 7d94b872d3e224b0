package segment

import (
	"github.com/ongniud/logseg/block"
	"github.com/pkg/errors"
)

// Footer layout: magic(1) | index(8) | block_size(8) | start_offset(8) |
// next_offset(8) = 33 bytes, appended once a segment is closed. It is not
// part of any block.
const (
	FooterMagicOffset      = 0
	FooterIndexOffset      = 1
	FooterBlockSizeOffset  = 9
	FooterStartOffsetOff   = 17
	FooterNextOffsetOffset = 25

	FooterMagicByte = 0x2A
	FooterByteCount = 33
)

// encodeFooter renders info as the 33-byte on-disk footer.
func encodeFooter(info *SegmentInfo) []byte {
	buf := make([]byte, FooterByteCount)
	_ = block.WriteU8(buf, FooterMagicByte, FooterMagicOffset)
	_ = block.WriteU64(buf, info.Index, FooterIndexOffset)
	_ = block.WriteU64(buf, info.BlockSize, FooterBlockSizeOffset)
	_ = block.WriteU64(buf, info.StartOffset, FooterStartOffsetOff)
	_ = block.WriteU64(buf, info.NextOffset, FooterNextOffsetOffset)
	return buf
}

// decodeFooter parses a 33-byte footer buffer into its four fields; the
// caller builds the SegmentInfo from them together with the path it
// already has.
func decodeFooter(buf []byte) (index, blockSize, startOffset, nextOffset uint64, err error) {
	magic, err := block.ReadU8(buf, FooterMagicOffset)
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(err, "segment: reading footer magic")
	}
	if magic != FooterMagicByte {
		return 0, 0, 0, 0, ErrMissingMagic
	}
	index, err = block.ReadU64(buf, FooterIndexOffset)
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(err, "segment: reading footer index")
	}
	blockSize, err = block.ReadU64(buf, FooterBlockSizeOffset)
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(err, "segment: reading footer block size")
	}
	startOffset, err = block.ReadU64(buf, FooterStartOffsetOff)
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(err, "segment: reading footer start offset")
	}
	nextOffset, err = block.ReadU64(buf, FooterNextOffsetOffset)
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(err, "segment: reading footer next offset")
	}
	return index, blockSize, startOffset, nextOffset, nil
}
