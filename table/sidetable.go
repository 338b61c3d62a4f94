package table

import "github.com/libyal/go-libpff-table/internal/format"

// SideTable is a nested 0xa5 pass-through table addressed by (set_index,
// entry_index) rather than a BTH (spec.md §4.6, §4.9): an 0xac column with
// a nonzero record_entry_values_table_descriptor stores its large/variable
// cell values here instead of the ordinary values array.
type SideTable struct {
	rows map[[2]uint32][]byte
}

// buildSideTable reads every physical block of list as an 0xa5 table and
// indexes its rows by (block index, slot index), the natural (set, entry)
// coordinate pair a side-table HNID splits into.
func buildSideTable(list DescriptorDataList, fileType FileType) (*SideTable, error) {
	ti, err := buildTableIndex(list, fileType)
	if err != nil {
		return nil, wrap(ErrKindInvalidFormat, "build side table index", err)
	}
	rows, err := collectPassThroughRows(ti)
	if err != nil {
		return nil, err
	}
	st := &SideTable{rows: make(map[[2]uint32][]byte, len(rows))}
	for _, r := range rows {
		st.rows[[2]uint32{uint32(r.Block), uint32(r.Slot)}] = r.Data
	}
	return st, nil
}

// Lookup returns the raw bytes stored at (setIndex, entryIndex), or
// ok=false if no such row exists (spec.md §4.8 step 3: a missing side-table
// row is non-fatal).
func (st *SideTable) Lookup(setIndex, entryIndex uint32) (data []byte, ok bool) {
	data, ok = st.rows[[2]uint32{setIndex, entryIndex}]
	return data, ok
}

// composedSideTableOpener builds a SideTableOpener out of the same
// LocalDescriptorResolver/SubNodeStreamOpener pair already used for
// ordinary sub-node values: a side-table descriptor is itself a
// local-descriptors identifier, resolved to a data identifier and then
// opened as a stream exactly like any other sub-node (spec.md §4.6).
type composedSideTableOpener struct {
	resolver LocalDescriptorResolver
	opener   SubNodeStreamOpener
}

// newComposedSideTableOpener is the default SideTableOpener: no separate
// collaborator is required from callers beyond what sub-node value
// resolution already needs.
func newComposedSideTableOpener(resolver LocalDescriptorResolver, opener SubNodeStreamOpener) SideTableOpener {
	return composedSideTableOpener{resolver: resolver, opener: opener}
}

func (c composedSideTableOpener) OpenSideTable(descriptor uint32) (DescriptorDataList, error) {
	if c.resolver == nil || c.opener == nil {
		return nil, wrap(ErrKindMissingData, "no local-descriptor resolver/sub-node opener configured", nil)
	}
	dataID, _, ok, err := c.resolver.Resolve(descriptor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, wrap(ErrKindMissingData, "side table descriptor not found", nil)
	}
	return c.opener.OpenStream(dataID)
}

// resolveSideTableCell implements spec.md §4.8 step 3: entry_value is
// either a sub-node reference (low 5 bits nonzero, resolved the same way as
// an ordinary sub-node value) or a (set_index, entry_index) split into the
// column's side table. A missing side table or row is non-fatal
// (FlagMissingDataDescriptor); a sub-node reference carries the flags of
// ordinary sub-node resolution.
func resolveSideTableCell(entryValue uint32, descriptor uint32, fileType FileType, sideOpener SideTableOpener, resolver LocalDescriptorResolver, subOpener SubNodeStreamOpener) ([]byte, RecordFlags, error) {
	if entryValue == 0 {
		return nil, 0, nil
	}
	if entryValue&format.HNIDNodeTypeMask != 0 {
		data, flags, err := resolveEntryValuePointer(entryValue, nil, resolver, subOpener)
		if err != nil {
			return nil, 0, err
		}
		return data, flags, nil
	}
	if sideOpener == nil {
		return nil, FlagMissingDataDescriptor, nil
	}
	list, err := sideOpener.OpenSideTable(descriptor)
	if err != nil || list == nil {
		return nil, FlagMissingDataDescriptor, nil
	}
	st, err := buildSideTable(list, fileType)
	if err != nil {
		return nil, FlagMissingDataDescriptor, nil
	}
	setIndex, entryIndex := HNID(entryValue).Split(fileType)
	data, ok := st.Lookup(setIndex, entryIndex)
	if !ok {
		return nil, FlagMissingDataDescriptor, nil
	}
	return data, 0, nil
}
