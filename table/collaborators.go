package table

// This file names the collaborator interfaces spec.md §1 describes as
// "consumed, not specified": the table core is built against these
// interfaces, and internal/datastream + internal/localdesc provide the
// default concrete implementations (structurally, without importing this
// package, the way Go interfaces are meant to be satisfied).

// BlockSource is collaborator A, "Data-block reader": given a physical
// block's data identifier, return its fully decrypted and decompressed
// bytes.
type BlockSource interface {
	ReadBlock(dataID uint64) ([]byte, error)
}

// OffsetsIndex maps a 64-bit data identifier to the location of a physical
// block in the underlying file.
type OffsetsIndex interface {
	Lookup(dataID uint64) (offset int64, size uint32, flags uint16, ok bool)
}

// DescriptorDataList is "a lazy concatenation of physical blocks ... exposed
// as a single logical byte-addressable stream" (spec.md §3). Most callers
// (values-array reads, §4.7's external backend) only need ReadAt/Size; the
// table header/index construction (components A/B/C, §4.1-§4.3) instead
// needs to see individual physical block boundaries, since each block
// carries its own trailing allocation map — hence BlockCount/Block.
type DescriptorDataList interface {
	ReadAt(offset int64, buf []byte) (int, error)
	Size() int64

	// BlockCount returns the number of physical blocks backing the
	// stream.
	BlockCount() int
	// Block returns the fully decoded bytes of the N-th physical block.
	Block(i int) ([]byte, error)
}

// LocalDescriptorResolver resolves a 32-bit descriptor identifier to its
// data identifier and nested local-descriptors identifier (spec.md §9:
// "Single trait/interface LocalDescriptorResolver::get(id) →
// Option<(data_id, sub_desc_id)> suffices").
type LocalDescriptorResolver interface {
	Resolve(id uint32) (dataID uint64, localDescriptorsID uint32, ok bool, err error)
}

// NameToIDMap resolves a named MAPI property (entry type in
// [0x8000, 0xFFFE]) to its canonical identifier (spec.md §4.6).
type NameToIDMap interface {
	Resolve(entryType uint32) (canonicalID uint32, ok bool)
}

// NamedPropertyEntry is attached to a ColumnDefinition or RecordEntry when
// its raw entry type resolved through a NameToIDMap.
type NamedPropertyEntry struct {
	CanonicalID uint32
}

// SubNodeStreamOpener turns a resolved data identifier into its
// descriptor-data stream, the collaborator component I needs to read a
// sub-node's value bytes (spec.md §4.8 step 5, "open a lazy stream").
type SubNodeStreamOpener interface {
	OpenStream(dataID uint64) (DescriptorDataList, error)
}

// SideTableOpener resolves an 0xac column's
// record_entry_values_table_descriptor to the descriptor-data stream backing
// its nested 0xa5 side table (spec.md §4.6, §4.8 step 3).
type SideTableOpener interface {
	OpenSideTable(descriptor uint32) (DescriptorDataList, error)
}
