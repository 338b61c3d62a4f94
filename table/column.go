package table

import "github.com/libyal/go-libpff-table/internal/format"

// ColumnDefinition is one column in a Table Context's schema (spec.md §4.6):
// where its cell lives in a values-array row, its MAPI type/entry-type
// identity, and (0xac only) whether it is indirected through a side table.
type ColumnDefinition struct {
	ValueType uint16
	EntryType uint32
	VAOffset  uint16
	VASize    uint16
	VANumber  int

	// Named is non-nil when EntryType fell in the named-property range and
	// resolved through the caller's NameToIDMap.
	Named *NamedPropertyEntry

	// SideTableDescriptor is nonzero only for 0xac columns whose record
	// entries are indirected through a nested 0xa5 side table
	// (record_entry_values_table_descriptor, spec.md §4.6/§4.8.3).
	SideTableDescriptor uint32
}

// HasSideTable reports whether this column's cells are resolved through a
// side table rather than the ordinary values array.
func (c ColumnDefinition) HasSideTable() bool {
	return c.SideTableDescriptor != 0
}

// attachName resolves entryType to a named-property entry when it falls in
// the named-property range and names knows it (spec.md §4.6).
func attachName(entryType uint32, names NameToIDMap) *NamedPropertyEntry {
	if entryType < format.NamedPropertyEntryTypeMin || entryType > format.NamedPropertyEntryTypeMax {
		return nil
	}
	if names == nil {
		return nil
	}
	id, ok := names.Resolve(entryType)
	if !ok {
		return nil
	}
	return &NamedPropertyEntry{CanonicalID: id}
}

// parseColumnDefs7c parses the concatenation of 8-byte inline column
// definitions and places each into its va_number output slot (spec.md
// §4.6). numColumns sizes and bounds the output array; a va_number outside
// [0, numColumns) or a duplicate va_number is fatal.
func parseColumnDefs7c(raw []byte, names NameToIDMap, numColumns int) ([]ColumnDefinition, error) {
	if len(raw)%format.ColumnDef7cSize != 0 {
		return nil, wrap(ErrKindInvalidFormat, "0x7c column definitions not a multiple of entry size", nil)
	}
	out := make([]ColumnDefinition, numColumns)
	seen := make([]bool, numColumns)
	for off := 0; off < len(raw); off += format.ColumnDef7cSize {
		entry := raw[off : off+format.ColumnDef7cSize]
		valueType, err := format.CheckedReadU16(entry, format.ColumnDef7cVTypeOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0x7c column value_type", err)
		}
		entryType, err := format.CheckedReadU16(entry, format.ColumnDef7cETypeOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0x7c column entry_type", err)
		}
		vaOffset, err := format.CheckedReadU16(entry, format.ColumnDef7cVAOffOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0x7c column va_offset", err)
		}
		vaSize := entry[format.ColumnDef7cVASizeOff]
		vaNumber := int(entry[format.ColumnDef7cVANumOff])
		if vaNumber < 0 || vaNumber >= numColumns {
			return nil, wrap(ErrKindOutOfBounds, "0x7c column va_number out of range", nil)
		}
		if seen[vaNumber] {
			return nil, wrap(ErrKindInvalidFormat, "duplicate 0x7c column va_number", nil)
		}
		seen[vaNumber] = true
		out[vaNumber] = ColumnDefinition{
			ValueType: valueType,
			EntryType: uint32(entryType),
			VAOffset:  vaOffset,
			VASize:    uint16(vaSize),
			VANumber:  vaNumber,
			Named:     attachName(uint32(entryType), names),
		}
	}
	return out, nil
}

// parseColumnDefsAc parses the concatenation of 16-byte external column
// definitions, read beforehand through the local-descriptors tree by the
// caller (spec.md §4.6: "read via the local-descriptors tree").
func parseColumnDefsAc(raw []byte, names NameToIDMap, numColumns int) ([]ColumnDefinition, error) {
	if len(raw)%format.ColumnDefAcSize != 0 {
		return nil, wrap(ErrKindInvalidFormat, "0xac column definitions not a multiple of entry size", nil)
	}
	out := make([]ColumnDefinition, numColumns)
	seen := make([]bool, numColumns)
	for off := 0; off < len(raw); off += format.ColumnDefAcSize {
		entry := raw[off : off+format.ColumnDefAcSize]
		valueType, err := format.CheckedReadU16(entry, format.ColumnDefAcVTypeOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0xac column value_type", err)
		}
		entryType, err := format.CheckedReadU16(entry, format.ColumnDefAcETypeOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0xac column entry_type", err)
		}
		vaOffset, err := format.CheckedReadU16(entry, format.ColumnDefAcVAOffOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0xac column va_offset", err)
		}
		vaSize, err := format.CheckedReadU16(entry, format.ColumnDefAcVASizeOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0xac column va_size", err)
		}
		vaNumber, err := format.CheckedReadU16(entry, format.ColumnDefAcVANumOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0xac column va_number", err)
		}
		sideTable, err := format.CheckedReadU32(entry, format.ColumnDefAcSideTableOff)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "0xac column side table descriptor", err)
		}
		idx := int(vaNumber)
		if idx < 0 || idx >= numColumns {
			return nil, wrap(ErrKindOutOfBounds, "0xac column va_number out of range", nil)
		}
		if seen[idx] {
			return nil, wrap(ErrKindInvalidFormat, "duplicate 0xac column va_number", nil)
		}
		seen[idx] = true
		out[idx] = ColumnDefinition{
			ValueType:           valueType,
			EntryType:           uint32(entryType),
			VAOffset:            vaOffset,
			VASize:              vaSize,
			VANumber:            idx,
			Named:               attachName(uint32(entryType), names),
			SideTableDescriptor: sideTable,
		}
	}
	return out, nil
}
