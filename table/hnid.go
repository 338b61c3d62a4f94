package table

import "github.com/libyal/go-libpff-table/internal/format"

// FileType selects the bit split an HNID uses to address heap storage
// (spec.md §3). Modeled as a sum type threaded explicitly through every
// function that splits an HNID, per spec.md §9 ("avoid a global").
type FileType uint8

const (
	// Ansi32 is the 32-bit ANSI PST/OST variant.
	Ansi32 FileType = iota
	// Unicode64 is the 64-bit Unicode PST/OST variant.
	Unicode64
	// Unicode64_4k is the 64-bit Unicode variant using 4K pages.
	Unicode64_4k
)

// Is64Bit reports whether this file type uses 64-bit node/data identifiers,
// needed by the local-descriptors and descriptor-data collaborators.
func (ft FileType) Is64Bit() bool {
	return ft == Unicode64 || ft == Unicode64_4k
}

// HNID is a 32-bit Heap-on-Node Identifier (spec.md §3). The low 5 bits are
// a node-type tag; when zero, the remaining bits address heap storage.
type HNID uint32

// IsZero reports whether the HNID is the null/absent value.
func (h HNID) IsZero() bool { return h == 0 }

// IsHeapReference reports whether the low 5 bits are clear, meaning this
// HNID addresses a heap slot directly (as opposed to a local-descriptors
// sub-node, spec.md §4.8 step 5).
func (h HNID) IsHeapReference() bool {
	return uint32(h)&format.HNIDNodeTypeMask == 0
}

// Split divides the HNID into a block selector and a 0-based slot selector
// per the file-type-dependent bit layout in spec.md §3's table. The raw
// on-disk field is 1-based ("slot selector (minus 1)" in the spec table,
// 0 reserved as an invalid sentinel); Split already subtracts the 1, so a
// raw field of 0 underflows to a huge slotSelector that any real table
// index will reject as out of bounds, matching spec.md §4.1's "selectors
// out of bounds" failure. Only meaningful when IsHeapReference is true.
func (h HNID) Split(ft FileType) (blockSelector, slotSelector uint32) {
	v := uint32(h)
	if ft == Unicode64_4k {
		return v >> 19, ((v >> 5) & 0x3fff) - 1
	}
	return v >> 16, ((v >> 5) & 0x7ff) - 1
}

// BlockSlot is a resolved heap address: {block_index, offset, size}
// (spec.md §3 "TableIndexValue").
type BlockSlot struct {
	BlockIndex uint32
	Offset     uint16
	Size       uint16
}
