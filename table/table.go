package table

import "github.com/libyal/go-libpff-table/internal/format"

// Table is the fully parsed heap-on-node value (spec.md §2, §3): the
// dispatched table flavor's record sets (or, for 0xa5, raw pass-through
// rows), ready for typed access via RecordEntry's accessors.
type Table struct {
	opts      Options
	tableType uint8

	// index backs any access that needs to re-resolve a heap reference
	// (there currently is none post-Open, but Clone's documented gap below
	// is defined in terms of this field being absent). nil on a clone.
	index *tableIndex

	// Columns is nil for every flavor but 0x7c/0xac.
	Columns []ColumnDefinition

	// RecordSets holds every flavor's materialized rows. Flavors with a
	// single implicit record set (0x6c/0x8c/0x9c/0xbc) populate exactly
	// one entry; 0x7c/0xac populate one per BTH-enumerated row.
	RecordSets []RecordSet

	// PassThroughRows is populated only for 0xa5 (spec.md §4.9); RecordSets
	// is empty in that case.
	PassThroughRows []PassThroughRow

	// Flags aggregates every non-fatal degradation observed while building
	// RecordSets (spec.md §4.12).
	Flags RecordFlags

	// cloned marks a table produced by Clone: its index was deliberately
	// left behind, matching libpff_table_clone's own shallow copy (it
	// clones record_sets_array but carries a "TODO clone index?" next to
	// index_array, which it never clones).
	cloned bool
}

// TableType reports the dispatched on-disk table type byte (0x6c, 0x7c,
// 0x8c, 0x9c, 0xa5, 0xac, or 0xbc).
func (t *Table) TableType() uint8 { return t.tableType }

// Clone deep-copies t's record sets and pass-through rows, but deliberately
// does not carry over the table index: libpff_table_clone copies
// record_sets_array and leaves index_array uncloned (marked "TODO clone
// index ?" in the source, never resolved). IndexRef on a cloned table
// returns ErrClonedSnapshot rather than silently operating on a nil index.
func (t *Table) Clone() *Table {
	clone := &Table{
		opts:      t.opts,
		tableType: t.tableType,
		Flags:     t.Flags,
		cloned:    true,
	}
	if t.Columns != nil {
		clone.Columns = append([]ColumnDefinition(nil), t.Columns...)
	}
	if t.RecordSets != nil {
		clone.RecordSets = make([]RecordSet, len(t.RecordSets))
		for i, set := range t.RecordSets {
			entries := make([]RecordEntry, len(set.Entries))
			for j, e := range set.Entries {
				e.Value = append([]byte(nil), e.Value...)
				entries[j] = e
			}
			clone.RecordSets[i] = RecordSet{Entries: entries}
		}
	}
	if t.PassThroughRows != nil {
		clone.PassThroughRows = make([]PassThroughRow, len(t.PassThroughRows))
		for i, r := range t.PassThroughRows {
			r.Data = append([]byte(nil), r.Data...)
			clone.PassThroughRows[i] = r
		}
	}
	return clone
}

// IndexRef reports whether t carries a live table index, and fails with
// ErrClonedSnapshot when called on a Clone result (spec.md §9 Open
// Questions: libpff_table_clone's documented shallow-clone caveat).
func (t *Table) IndexRef() error {
	if t.cloned {
		return ErrClonedSnapshot
	}
	return nil
}

// ReferenceDescriptor is the (descriptor_identifier, data_identifier,
// local_descriptors_identifier) triple libpff_table_initialize carries
// alongside a table, for callers that look a table up by its PST
// descriptor record rather than opening a bare (data_id,
// local_descriptors_id) pair directly.
type ReferenceDescriptor struct {
	DescriptorID       uint32
	DataID             uint64
	LocalDescriptorsID uint64
}

// Collaborators bundles every optional external dependency Open needs
// beyond the table's own descriptor data (spec.md §1 "External
// collaborators"). Every field may be left nil; features that need a nil
// collaborator degrade to the matching non-fatal flag rather than failing
// outright, except where the flavor cannot proceed at all without it.
type Collaborators struct {
	// Resolver resolves 0xac column-definition and sub-node-value
	// descriptor identifiers through the local-descriptors tree.
	Resolver LocalDescriptorResolver
	// SubNodeOpener turns a resolved data identifier into its
	// descriptor-data stream.
	SubNodeOpener SubNodeStreamOpener
	// Names resolves named-property entry types to canonical identifiers.
	Names NameToIDMap
}

// Open parses one descriptor's logical data stream as a table (spec.md §2
// "data-flow summary"): builds the table index, reads and dispatches the
// table header, walks its BTH (if any), and materializes record sets or
// pass-through rows per the dispatched flavor.
func Open(list DescriptorDataList, collab Collaborators, opts Options) (*Table, error) {
	opts = opts.normalized()

	ti, err := buildTableIndex(list, opts.FileType)
	if err != nil {
		return nil, err
	}
	block0, err := ti.blockData(0)
	if err != nil {
		return nil, wrap(ErrKindIO, "read table header block", err)
	}
	h, err := parseHeader(block0, ti)
	if err != nil {
		return nil, err
	}

	t := &Table{opts: opts, tableType: h.tableType, index: ti}

	if h.tableType == format.TableTypePassThrough {
		rows, err := collectPassThroughRows(ti)
		if err != nil {
			return nil, err
		}
		t.PassThroughRows = rows
		return t, nil
	}

	leaves, err := collectBTHLeaves(ti, h.bth.rootRef, h.bth.depth, h.bth.keySize, opts.MaxBTHDepth)
	if err != nil {
		return nil, err
	}
	entries, err := flattenBTHEntries(ti, leaves, int(h.bth.keySize), int(h.bth.valueSize))
	if err != nil {
		return nil, err
	}

	switch h.tableType {
	case format.TableTypeDescriptorIndex:
		records, err := buildDescriptorIndexRecords(entries)
		if err != nil {
			return nil, err
		}
		t.RecordSets = []RecordSet{{Entries: records}}
		return t, nil

	case format.TableTypeGUIDToDescriptor:
		records, err := buildGUIDToDescriptorRecords(entries)
		if err != nil {
			return nil, err
		}
		t.RecordSets = []RecordSet{{Entries: records}}
		return t, nil

	case format.TableTypeGUIDToValue:
		// entrySize 16: the values array backing 0x6c is itself an array
		// of 16-byte values (original_source libpff_table.c indexes it
		// "16 * values_array_number"), not a generic row width.
		var va valuesArray
		if !h.valuesArrayRef.IsZero() {
			va, err = newLocalValuesArray(ti, h.valuesArrayRef, 16)
			if err != nil {
				return nil, err
			}
		}
		records, flags, err := buildGUIDToValueRecords(entries, va)
		if err != nil {
			return nil, err
		}
		t.RecordSets = []RecordSet{{Entries: records}}
		t.Flags = flags
		return t, nil

	case format.TableTypePropertyContext:
		records, flags, err := buildPropertyContextRecords(entries, ti, collab.Names, collab.Resolver, collab.SubNodeOpener)
		if err != nil {
			return nil, err
		}
		t.RecordSets = []RecordSet{{Entries: records}}
		t.Flags = flags
		return t, nil

	case format.TableTypeTCInline, format.TableTypeTCExternal:
		columns, err := resolveColumns(h, ti, collab)
		if err != nil {
			return nil, err
		}
		if len(columns) > opts.MaxColumnDefinitions {
			return nil, wrap(ErrKindUnsupportedValue, "column count exceeds configured maximum", nil)
		}
		va, err := resolveValuesArray(h, ti, collab)
		if err != nil {
			return nil, err
		}
		if len(entries) > opts.MaxRecordSets {
			return nil, wrap(ErrKindUnsupportedValue, "row count exceeds configured maximum", nil)
		}
		sideOpener := newComposedSideTableOpener(collab.Resolver, collab.SubNodeOpener)
		sets, flags, err := buildTableContextRecordSets(entries, columns, va, ti, collab.Names, collab.Resolver, collab.SubNodeOpener, sideOpener)
		if err != nil {
			return nil, err
		}
		t.Columns = columns
		t.RecordSets = sets
		t.Flags = flags
		return t, nil

	default:
		return nil, wrap(ErrKindUnsupportedValue, "unhandled table type", nil)
	}
}

// resolveColumns reads 0x7c's inline column-definition array directly, or
// 0xac's external array via the local-descriptors tree (spec.md §4.6).
func resolveColumns(h *header, ti *tableIndex, collab Collaborators) ([]ColumnDefinition, error) {
	if h.tableType == format.TableTypeTCInline {
		return parseColumnDefs7c(h.inlineColumnDefs, collab.Names, h.numColumns)
	}
	if collab.Resolver == nil || collab.SubNodeOpener == nil {
		return nil, wrap(ErrKindMissingData, "0xac column definitions require a local-descriptor resolver and sub-node opener", nil)
	}
	dataID, _, ok, err := collab.Resolver.Resolve(h.columnDefDescriptor)
	if err != nil {
		return nil, wrap(ErrKindMissingData, "resolve 0xac column-definition descriptor", err)
	}
	if !ok {
		return nil, wrap(ErrKindMissingData, "0xac column-definition descriptor not found", nil)
	}
	stream, err := collab.SubNodeOpener.OpenStream(dataID)
	if err != nil {
		return nil, wrap(ErrKindIO, "open 0xac column-definition stream", err)
	}
	raw, err := readFullStream(stream)
	if err != nil {
		return nil, wrap(ErrKindIO, "read 0xac column-definition stream", err)
	}
	return parseColumnDefsAc(raw, collab.Names, h.numColumns)
}

// resolveValuesArray builds the local or external values-array backend for
// a 0x7c/0xac table, picking the backend by whether valuesArrayRef
// addresses the heap directly or a sub-node (spec.md §4.7).
func resolveValuesArray(h *header, ti *tableIndex, collab Collaborators) (valuesArray, error) {
	entrySize := int(h.rowEntrySize)
	if h.valuesArrayRef.IsHeapReference() {
		return newLocalValuesArray(ti, h.valuesArrayRef, entrySize)
	}
	if collab.Resolver == nil || collab.SubNodeOpener == nil {
		return nil, wrap(ErrKindMissingData, "external values array requires a local-descriptor resolver and sub-node opener", nil)
	}
	dataID, _, ok, err := collab.Resolver.Resolve(uint32(h.valuesArrayRef))
	if err != nil {
		return nil, wrap(ErrKindMissingData, "resolve values-array sub-node", err)
	}
	if !ok {
		return nil, wrap(ErrKindMissingData, "values-array sub-node not found", nil)
	}
	stream, err := collab.SubNodeOpener.OpenStream(dataID)
	if err != nil {
		return nil, wrap(ErrKindIO, "open values-array stream", err)
	}
	return newExternalValuesArray(stream, entrySize)
}
