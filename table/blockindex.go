package table

import "github.com/libyal/go-libpff-table/internal/format"

// blockIndex is the ordered list of slots parsed from one physical block's
// trailing allocation map (spec.md §4.3, component B). Slot i spans
// [offsets[i], offsets[i+1]).
type blockIndex struct {
	offsets []uint16
}

// parseBlockIndex reads the allocation map at the leading index_offset of
// data (data[0:2] is index_offset itself, per spec.md §4.4's table header
// and §4.3's map layout).
func parseBlockIndex(data []byte, indexOffset uint16) (blockIndex, error) {
	base := int(indexOffset)
	if base+format.BlockIndexHeaderSize > len(data) {
		return blockIndex{}, wrap(ErrKindOutOfBounds, "block allocation map header out of bounds", nil)
	}
	count, err := format.CheckedReadU16(data, base+format.BlockIndexCountOff)
	if err != nil {
		return blockIndex{}, wrap(ErrKindOutOfBounds, "block allocation map count", err)
	}
	need := base + format.BlockIndexOffsetsStart + (int(count)+1)*2
	if need > len(data) {
		return blockIndex{}, wrap(ErrKindOutOfBounds, "block allocation map offsets out of bounds", nil)
	}

	offsets := make([]uint16, count+1)
	prev := uint16(0)
	for i := range offsets {
		off := base + format.BlockIndexOffsetsStart + i*2
		v, err := format.CheckedReadU16(data, off)
		if err != nil {
			return blockIndex{}, wrap(ErrKindOutOfBounds, "block allocation map offset", err)
		}
		if i > 0 && v < prev {
			return blockIndex{}, wrap(ErrKindInvalidFormat, "block allocation map offsets not non-decreasing", nil)
		}
		if v > indexOffset {
			return blockIndex{}, wrap(ErrKindInvalidFormat, "block allocation map offset exceeds index_offset", nil)
		}
		offsets[i] = v
		prev = v
	}
	return blockIndex{offsets: offsets}, nil
}

// slotCount returns the number of addressable slots (one less than the
// offsets array length: offsets has count+1 entries bracketing count
// slots).
func (bi blockIndex) slotCount() int {
	if len(bi.offsets) == 0 {
		return 0
	}
	return len(bi.offsets) - 1
}

// slot returns the [start, end) byte span of slot i within the owning
// block's data.
func (bi blockIndex) slot(i int) (start, end uint16, ok bool) {
	if i < 0 || i >= bi.slotCount() {
		return 0, 0, false
	}
	return bi.offsets[i], bi.offsets[i+1], true
}
