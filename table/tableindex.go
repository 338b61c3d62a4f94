package table

import "github.com/libyal/go-libpff-table/internal/format"

// tableIndex is the aggregate index over every physical block of a
// descriptor's data (spec.md §2 components C+D): an array of per-block
// blockIndex values, resolving a heap HNID to the raw byte slice it
// addresses.
type tableIndex struct {
	list     DescriptorDataList
	blocks   []blockIndex
	fileType FileType
}

// buildTableIndex scans every physical block of list with parseBlockIndex
// (spec.md §4.3), the "(C) is built by scanning every physical block with
// (B)" step of spec.md §2's data-flow summary.
func buildTableIndex(list DescriptorDataList, fileType FileType) (*tableIndex, error) {
	n := list.BlockCount()
	if n == 0 {
		return nil, wrap(ErrKindInvalidFormat, "descriptor data has no physical blocks", nil)
	}
	blocks := make([]blockIndex, n)
	for i := 0; i < n; i++ {
		data, err := list.Block(i)
		if err != nil {
			return nil, wrap(ErrKindIO, "read physical block", err)
		}
		if i == 0 && len(data) < 4 {
			return nil, wrap(ErrKindInvalidFormat, "block 0 too small for a heap map", nil)
		}
		if len(data) < 2 {
			return nil, wrap(ErrKindInvalidFormat, "physical block too small for an index_offset", nil)
		}
		indexOffset, err := format.CheckedReadU16(data, format.TableHeaderIndexOffsetOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "block index_offset", err)
		}
		bi, err := parseBlockIndex(data, indexOffset)
		if err != nil {
			return nil, err
		}
		blocks[i] = bi
	}
	return &tableIndex{list: list, blocks: blocks, fileType: fileType}, nil
}

// resolve is the heap reader (spec.md §4.1): given a heap HNID, return the
// byte slice it addresses. The returned slice aliases the owning block's
// cached bytes and must be copied (clone) before it can outlive further
// cache activity.
func (ti *tableIndex) resolve(h HNID) ([]byte, error) {
	if !h.IsHeapReference() {
		return nil, wrap(ErrKindInvalidArgument, "hnid is a sub-node reference, not a heap reference", nil)
	}
	blockSel, slotSel := h.Split(ti.fileType)
	if int(blockSel) >= len(ti.blocks) {
		return nil, wrap(ErrKindOutOfBounds, "hnid block selector out of range", nil)
	}
	bi := ti.blocks[blockSel]
	start, end, ok := bi.slot(int(slotSel))
	if !ok {
		return nil, wrap(ErrKindOutOfBounds, "hnid slot selector out of range", nil)
	}
	data, err := ti.list.Block(int(blockSel))
	if err != nil {
		return nil, wrap(ErrKindIO, "read physical block", err)
	}
	if int(end) > len(data) {
		return nil, wrap(ErrKindOutOfBounds, "slot span exceeds block size", nil)
	}
	return data[start:end], nil
}

// clone resolves h like resolve, but copies the bytes so the caller can
// retain them across operations that may evict the owning block from
// cache (spec.md §4.1 "Clone by reference", §5 cache-eviction safety).
func (ti *tableIndex) clone(h HNID) ([]byte, error) {
	slice, err := ti.resolve(h)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(slice))
	copy(out, slice)
	return out, nil
}

// blockData returns the full raw bytes of physical block i, used by the
// table header parser to read block 0 directly (spec.md §4.4).
func (ti *tableIndex) blockData(i int) ([]byte, error) {
	return ti.list.Block(i)
}
