package table

import "github.com/libyal/go-libpff-table/internal/format"

// RecordEntryKind tags which shape a RecordEntryID carries (spec.md §3).
type RecordEntryKind uint8

const (
	// RecordEntryKindMapiProperty is the common Table Context/Property
	// Context shape.
	RecordEntryKindMapiProperty RecordEntryKind = iota
	// RecordEntryKindGUID is the GUID-keyed 0x6c/0x9c shape.
	RecordEntryKindGUID
	// RecordEntryKindSecure4 is the 0x8c (64-bit identifier) shape.
	RecordEntryKindSecure4
)

// RecordEntryID is the tagged union spec.md §3 calls RecordEntryId.
type RecordEntryID struct {
	Kind      RecordEntryKind
	EntryType uint32
	ValueType uint32
	GUID      [16]byte
	Secure4   uint64
}

// RecordFlags marks non-fatal degradation on a single record entry or an
// enclosing table (spec.md §4.12, §7 propagation policy).
type RecordFlags uint8

const (
	// FlagMissingDataDescriptor marks a record entry whose sub-node
	// reference could not be resolved through the local-descriptors tree.
	FlagMissingDataDescriptor RecordFlags = 1 << iota
	// FlagMissingRecordEntryData marks a record entry whose value bytes
	// could not be read (descriptor-data read failure, out-of-range
	// external values-array row, or a heap lookup failure).
	FlagMissingRecordEntryData
)

// RecordEntry is one materialized cell (spec.md §3).
type RecordEntry struct {
	ID       RecordEntryID
	Value    []byte
	Named    *NamedPropertyEntry
	Flags    RecordFlags
	Codepage uint32
}

// usesDirectInlineBytes reports whether (valueType, len(raw)) matches one of
// the small fixed-width classes spec.md §4.8 step 4 sources directly from
// raw_cell_bytes, bypassing entry_value pointer resolution entirely.
//
// BOOLEAN and INT16 take this path whenever raw_cell_bytes holds at least
// 1 or 2 bytes (spec.md §4.8 step 4): in a Table Context raw_cell_bytes is
// sized to the column, but in a Property Context it is always the 4-byte
// entry_value field, and the value is still the first 1 or 2 bytes of it,
// not a pointer to resolve.
func usesDirectInlineBytes(valueType uint16, rawLen int) bool {
	switch valueType {
	case format.ValueTypeBoolean:
		return rawLen >= 1
	case format.ValueTypeInt16:
		return rawLen >= 2
	case format.ValueTypeInt32, format.ValueTypeFloat32, format.ValueTypeError:
		return rawLen == 4
	case format.ValueTypeInt64, format.ValueTypeFloat64, format.ValueTypeCurrency,
		format.ValueTypeAppTime, format.ValueTypeFiletime:
		return rawLen == 8
	default:
		return false
	}
}

// materializeCellValue implements spec.md §4.8 steps 2-6 for a single
// cell's raw bytes: either the bytes are the value verbatim, or they carry
// a 4-byte entry_value pointer resolved as NULL / heap slot / sub-node
// stream.
func materializeCellValue(raw []byte, valueType uint16, ti *tableIndex, resolver LocalDescriptorResolver, opener SubNodeStreamOpener) ([]byte, RecordFlags, error) {
	if usesDirectInlineBytes(valueType, len(raw)) {
		switch valueType {
		case format.ValueTypeBoolean:
			return raw[:1], 0, nil
		case format.ValueTypeInt16:
			return raw[:2], 0, nil
		default:
			return raw, 0, nil
		}
	}
	if len(raw) != 4 {
		return nil, 0, wrap(ErrKindInvalidFormat, "entry_value field must be 4 bytes for pointer resolution", nil)
	}
	entryValue := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
	return resolveEntryValuePointer(entryValue, ti, resolver, opener)
}

// resolveEntryValuePointer implements spec.md §4.8 step 5: NULL, heap slot,
// or sub-node stream, with sub-node/read failures downgraded to the
// MissingRecordEntryData flag rather than propagated as errors.
func resolveEntryValuePointer(entryValue uint32, ti *tableIndex, resolver LocalDescriptorResolver, opener SubNodeStreamOpener) ([]byte, RecordFlags, error) {
	if entryValue == 0 {
		return nil, 0, nil
	}
	if entryValue&format.HNIDNodeTypeMask != 0 {
		if resolver == nil {
			return nil, FlagMissingRecordEntryData | FlagMissingDataDescriptor, nil
		}
		dataID, _, ok, err := resolver.Resolve(entryValue)
		if err != nil || !ok {
			return nil, FlagMissingRecordEntryData | FlagMissingDataDescriptor, nil
		}
		if opener == nil {
			return nil, FlagMissingRecordEntryData, nil
		}
		stream, err := opener.OpenStream(dataID)
		if err != nil {
			return nil, FlagMissingRecordEntryData, nil
		}
		data, err := readFullStream(stream)
		if err != nil {
			return nil, FlagMissingRecordEntryData, nil
		}
		return data, 0, nil
	}
	data, err := ti.clone(HNID(entryValue))
	if err != nil {
		return nil, FlagMissingRecordEntryData, nil
	}
	return data, 0, nil
}

// readFullStream drains a DescriptorDataList into a single byte slice. This
// is a deliberate simplification of the spec's "open a lazy stream" model:
// value bytes are read once at materialization time rather than kept as a
// cursor over an open stream, matching how the teacher's VK/value reader
// also copies out small value blobs rather than keeping file handles alive
// per cell.
func readFullStream(list DescriptorDataList) ([]byte, error) {
	size := list.Size()
	buf := make([]byte, size)
	var read int64
	for read < size {
		n, err := list.ReadAt(read, buf[read:])
		if n == 0 && err != nil {
			return nil, err
		}
		read += int64(n)
		if n == 0 {
			break
		}
	}
	return buf[:read], nil
}

// PassThroughRow is one row of a 0xa5 pass-through table: the raw slot
// bytes at (block, slot), slot 0 excluded since it holds the table header
// (spec.md §4.9).
type PassThroughRow struct {
	Block int
	Slot  int
	Data  []byte
}

// collectPassThroughRows implements the 0xa5 flavor directly: rows are
// obtained by iterating every physical block's slots, skipping slot 0.
func collectPassThroughRows(ti *tableIndex) ([]PassThroughRow, error) {
	var rows []PassThroughRow
	for b, bi := range ti.blocks {
		for s := 1; s < bi.slotCount(); s++ {
			start, end, ok := bi.slot(s)
			if !ok {
				continue
			}
			data, err := ti.list.Block(b)
			if err != nil {
				return nil, wrap(ErrKindIO, "read pass-through block", err)
			}
			if int(end) > len(data) {
				return nil, wrap(ErrKindOutOfBounds, "pass-through slot out of range", nil)
			}
			rows = append(rows, PassThroughRow{Block: b, Slot: s, Data: data[start:end]})
		}
	}
	return rows, nil
}
