package table

import "github.com/libyal/go-libpff-table/internal/format"

// RecordSet is an ordered sequence of record entries sharing a column
// schema (spec.md §3). A Table owns a sequence of record sets; ordering
// within a set follows column-definition-slot order, and across sets BTH
// traversal order (spec.md §5 "Ordering").
type RecordSet struct {
	Entries []RecordEntry
}

// bthLeafEntry is one (key, value) pair read from a BTH leaf page, the
// common shape every non-TC table flavor's record entries share (spec.md
// §6: each of 6c/8c/9c/bc's "record entry" layouts is exactly key bytes
// followed by value bytes, widths fixed by the table flavor).
type bthLeafEntry struct {
	Key   []byte
	Value []byte
}

// flattenBTHEntries resolves every leaf page HNID component F collected and
// splits each into fixed-width (key, value) entries.
func flattenBTHEntries(ti *tableIndex, leaves []HNID, keySize, valueSize int) ([]bthLeafEntry, error) {
	entrySize := keySize + valueSize
	var out []bthLeafEntry
	for _, leaf := range leaves {
		page, err := ti.clone(leaf)
		if err != nil {
			return nil, wrap(ErrKindInvalidFormat, "resolve BTH leaf page", err)
		}
		if len(page)%entrySize != 0 {
			return nil, wrap(ErrKindInvalidFormat, "BTH leaf page size not a multiple of entry size", nil)
		}
		for off := 0; off < len(page); off += entrySize {
			out = append(out, bthLeafEntry{
				Key:   page[off : off+keySize],
				Value: page[off+keySize : off+entrySize],
			})
		}
	}
	return out, nil
}

// buildDescriptorIndexRecords materializes a 0x8c table: key = u64
// identifier, value = u32 descriptor_identifier (spec.md §6).
func buildDescriptorIndexRecords(entries []bthLeafEntry) ([]RecordEntry, error) {
	out := make([]RecordEntry, 0, len(entries))
	for _, e := range entries {
		ident, err := readLEU64(e.Key)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0x8c identifier", err)
		}
		descID, err := format.CheckedReadU32(e.Value, 0)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0x8c descriptor_identifier", err)
		}
		out = append(out, RecordEntry{
			ID:    RecordEntryID{Kind: RecordEntryKindSecure4, Secure4: ident},
			Value: leU32Bytes(descID),
		})
	}
	return out, nil
}

// buildGUIDToDescriptorRecords materializes a 0x9c table: key = 16-byte
// GUID, value = u32 descriptor_identifier (spec.md §6).
func buildGUIDToDescriptorRecords(entries []bthLeafEntry) ([]RecordEntry, error) {
	out := make([]RecordEntry, 0, len(entries))
	for _, e := range entries {
		if len(e.Key) != 16 {
			return nil, wrap(ErrKindInvalidFormat, "0x9c key is not a 16-byte GUID", nil)
		}
		descID, err := format.CheckedReadU32(e.Value, 0)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0x9c descriptor_identifier", err)
		}
		var guid [16]byte
		copy(guid[:], e.Key)
		out = append(out, RecordEntry{
			ID:    RecordEntryID{Kind: RecordEntryKindGUID, GUID: guid},
			Value: leU32Bytes(descID),
		})
	}
	return out, nil
}

// buildGUIDToValueRecords materializes a 0x6c table: key = 16-byte GUID,
// value = u16 va_number indexing the table's external values array
// (spec.md §6).
func buildGUIDToValueRecords(entries []bthLeafEntry, va valuesArray) ([]RecordEntry, RecordFlags, error) {
	out := make([]RecordEntry, 0, len(entries))
	var tableFlags RecordFlags
	for _, e := range entries {
		if len(e.Key) != 16 {
			return nil, 0, wrap(ErrKindInvalidFormat, "0x6c key is not a 16-byte GUID", nil)
		}
		vaNumber, err := format.CheckedReadU16(e.Value, 0)
		if err != nil {
			return nil, 0, wrap(ErrKindOutOfBounds, "0x6c va_number", err)
		}
		var guid [16]byte
		copy(guid[:], e.Key)
		entryFlags := RecordFlags(0)
		var value []byte
		if va != nil {
			data, present, err := va.Row(int(vaNumber))
			if err != nil {
				return nil, 0, err
			}
			if present {
				value = data
			} else {
				entryFlags |= FlagMissingRecordEntryData
			}
		}
		tableFlags |= entryFlags
		out = append(out, RecordEntry{
			ID:    RecordEntryID{Kind: RecordEntryKindGUID, GUID: guid},
			Value: value,
			Flags: entryFlags,
		})
	}
	return out, tableFlags, nil
}

// buildPropertyContextRecords materializes a 0xbc (Property Context) table:
// key = {entry_type u16, value_type u16} packed, value = u32 entry_value
// resolved per spec.md §4.8.
func buildPropertyContextRecords(entries []bthLeafEntry, ti *tableIndex, names NameToIDMap, resolver LocalDescriptorResolver, opener SubNodeStreamOpener) ([]RecordEntry, RecordFlags, error) {
	out := make([]RecordEntry, 0, len(entries))
	var tableFlags RecordFlags
	for _, e := range entries {
		if len(e.Key) != 4 {
			return nil, 0, wrap(ErrKindInvalidFormat, "0xbc key is not a 4-byte MapiProperty tag", nil)
		}
		entryType, err := format.CheckedReadU16(e.Key, 0)
		if err != nil {
			return nil, 0, wrap(ErrKindOutOfBounds, "0xbc entry_type", err)
		}
		valueType, err := format.CheckedReadU16(e.Key, 2)
		if err != nil {
			return nil, 0, wrap(ErrKindOutOfBounds, "0xbc value_type", err)
		}
		value, flags, err := materializeCellValue(e.Value, valueType, ti, resolver, opener)
		if err != nil {
			return nil, 0, err
		}
		tableFlags |= flags
		out = append(out, RecordEntry{
			ID: RecordEntryID{
				Kind:      RecordEntryKindMapiProperty,
				EntryType: uint32(entryType),
				ValueType: uint32(valueType),
			},
			Value: value,
			Named: attachName(uint32(entryType), names),
			Flags: flags,
		})
	}
	return out, tableFlags, nil
}

// buildTableContextRecordSets materializes a 0x7c/0xac table: the BTH
// enumerates rows (value = the row's index into the values array), and for
// each row every column contributes one cell, read at the column's
// va_offset/va_size from that row's bytes (spec.md §4.7, §4.8, §5
// "Ordering").
func buildTableContextRecordSets(entries []bthLeafEntry, columns []ColumnDefinition, va valuesArray, ti *tableIndex, names NameToIDMap, resolver LocalDescriptorResolver, opener SubNodeStreamOpener, sideOpener SideTableOpener) ([]RecordSet, RecordFlags, error) {
	var sets []RecordSet
	var tableFlags RecordFlags
	for _, e := range entries {
		rowIndex, err := readLEUint(e.Value)
		if err != nil {
			return nil, 0, wrap(ErrKindInvalidFormat, "table context row index", err)
		}
		rowData, present, err := va.Row(int(rowIndex))
		if err != nil {
			return nil, 0, err
		}
		set := RecordSet{Entries: make([]RecordEntry, len(columns))}
		if !present {
			tableFlags |= FlagMissingRecordEntryData
			for i, col := range columns {
				set.Entries[i] = RecordEntry{
					ID:    RecordEntryID{Kind: RecordEntryKindMapiProperty, EntryType: col.EntryType, ValueType: uint32(col.ValueType)},
					Named: col.Named,
					Flags: FlagMissingRecordEntryData,
				}
			}
			sets = append(sets, set)
			continue
		}
		for i, col := range columns {
			start := int(col.VAOffset)
			end := start + int(col.VASize)
			if end > len(rowData) {
				set.Entries[i] = RecordEntry{
					ID:    RecordEntryID{Kind: RecordEntryKindMapiProperty, EntryType: col.EntryType, ValueType: uint32(col.ValueType)},
					Named: col.Named,
					Flags: FlagMissingRecordEntryData,
				}
				tableFlags |= FlagMissingRecordEntryData
				continue
			}
			cellRaw := rowData[start:end]
			var value []byte
			var flags RecordFlags
			if col.HasSideTable() {
				ev, err := readLEUint(cellRaw)
				if err != nil {
					return nil, 0, wrap(ErrKindInvalidFormat, "side table entry_value", err)
				}
				value, flags, err = resolveSideTableCell(uint32(ev), col.SideTableDescriptor, ti.fileType, sideOpener, resolver, opener)
				if err != nil {
					return nil, 0, err
				}
			} else {
				var err error
				value, flags, err = materializeCellValue(cellRaw, col.ValueType, ti, resolver, opener)
				if err != nil {
					return nil, 0, err
				}
			}
			tableFlags |= flags
			set.Entries[i] = RecordEntry{
				ID:    RecordEntryID{Kind: RecordEntryKindMapiProperty, EntryType: col.EntryType, ValueType: uint32(col.ValueType)},
				Value: value,
				Named: col.Named,
				Flags: flags,
			}
		}
		sets = append(sets, set)
	}
	return sets, tableFlags, nil
}

func readLEUint(b []byte) (uint64, error) {
	switch len(b) {
	case 1:
		return uint64(b[0]), nil
	case 2:
		v, err := format.CheckedReadU16(b, 0)
		return uint64(v), err
	case 4:
		v, err := format.CheckedReadU32(b, 0)
		return uint64(v), err
	case 8:
		return readLEU64(b)
	default:
		return 0, wrap(ErrKindInvalidFormat, "unsupported little-endian integer width", nil)
	}
}

func readLEU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, wrap(ErrKindOutOfBounds, "expected 8 bytes for u64", nil)
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, nil
}

func leU32Bytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
