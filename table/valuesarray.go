package table

// valuesArray is component H, the values-array reader: given a row number,
// yields the raw entry_size bytes of that row (spec.md §4.7).
type valuesArray interface {
	// Row returns the bytes of row n. present is false for a well-defined,
	// non-fatal "absent" result (external backend only, out-of-range rows);
	// err reports I/O failures, a negative row, and (local backend only) an
	// out-of-range row.
	Row(n int) (data []byte, present bool, err error)
}

// localValuesArray is the local backend: values_array_reference is a heap
// HNID, and the whole array is cloned up front (spec.md §4.7 "Local").
type localValuesArray struct {
	data      []byte
	entrySize int
}

// newLocalValuesArray clones the heap slot at ref and wraps it as a
// fixed-row-size array.
func newLocalValuesArray(ti *tableIndex, ref HNID, entrySize int) (*localValuesArray, error) {
	if entrySize <= 0 {
		return nil, wrap(ErrKindInvalidArgument, "local values array entry size must be positive", nil)
	}
	data, err := ti.clone(ref)
	if err != nil {
		return nil, wrap(ErrKindInvalidFormat, "resolve local values array", err)
	}
	return &localValuesArray{data: data, entrySize: entrySize}, nil
}

// Row returns row n's bytes. Unlike the external backend, a local
// out-of-range row is a hard error: (F)'s BTH traversal is the only
// producer of row indices against a local array, so an out-of-range row
// here means the on-disk structure itself is inconsistent.
func (v *localValuesArray) Row(n int) ([]byte, bool, error) {
	if n < 0 {
		return nil, false, wrap(ErrKindInvalidArgument, "negative row index", nil)
	}
	start := n * v.entrySize
	end := start + v.entrySize
	if end > len(v.data) {
		return nil, false, wrap(ErrKindOutOfBounds, "local values array row out of range", nil)
	}
	return v.data[start:end], true, nil
}

// externalValuesArray is the descriptor-backed external backend:
// values_array_reference is a sub-node reference, and rows are addressed by
// (block, offset) using the first block's size to derive rows_per_block
// (spec.md §4.7 "External").
type externalValuesArray struct {
	list         DescriptorDataList
	entrySize    int
	rowsPerBlock int
}

// newExternalValuesArray builds an external values array over an
// already-opened descriptor-data stream.
func newExternalValuesArray(list DescriptorDataList, entrySize int) (*externalValuesArray, error) {
	if entrySize <= 0 {
		return nil, wrap(ErrKindInvalidArgument, "external values array entry size must be positive", nil)
	}
	if list.BlockCount() == 0 {
		return nil, wrap(ErrKindInvalidFormat, "external values array has no physical blocks", nil)
	}
	first, err := list.Block(0)
	if err != nil {
		return nil, wrap(ErrKindIO, "read external values array first block", err)
	}
	if len(first) < entrySize {
		return nil, wrap(ErrKindInvalidFormat, "external values array block smaller than one entry", nil)
	}
	rowsPerBlock := len(first) / entrySize
	return &externalValuesArray{list: list, entrySize: entrySize, rowsPerBlock: rowsPerBlock}, nil
}

// Row returns row n's bytes, or present=false when n falls past the end of
// the stream's physical blocks (spec.md §4.7: "well-defined absent result,
// not fatal", surfaced by the caller as MissingRecordEntryData).
func (v *externalValuesArray) Row(n int) ([]byte, bool, error) {
	if n < 0 {
		return nil, false, wrap(ErrKindInvalidArgument, "negative row index", nil)
	}
	blockIdx := n / v.rowsPerBlock
	if blockIdx >= v.list.BlockCount() {
		return nil, false, nil
	}
	data, err := v.list.Block(blockIdx)
	if err != nil {
		return nil, false, wrap(ErrKindIO, "read external values array block", err)
	}
	off := (n % v.rowsPerBlock) * v.entrySize
	end := off + v.entrySize
	if end > len(data) {
		return nil, false, nil
	}
	return data[off:end], true, nil
}
