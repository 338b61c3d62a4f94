package table

import "github.com/libyal/go-libpff-table/internal/format"

// bthEntrySize returns the on-disk size of one BTH entry (key | u32 value)
// for the given key size, and whether keySize is one of the four supported
// widths (spec.md §4.5).
func bthEntrySize(keySize uint8) (int, bool) {
	switch keySize {
	case 2, 4, 8, 16:
		return int(keySize) + 4, true
	default:
		return 0, false
	}
}

// collectBTHLeaves is component F, the record-entry collector: it walks the
// BTH rooted at rootRef down to depth 0, returning the HNIDs of every leaf
// page in left-to-right order (spec.md §4.5).
func collectBTHLeaves(ti *tableIndex, rootRef HNID, depth uint8, keySize uint8, maxDepth int) ([]HNID, error) {
	entrySize, ok := bthEntrySize(keySize)
	if !ok {
		return nil, wrap(ErrKindUnsupportedValue, "unsupported BTH key size", nil)
	}
	return bthWalk(ti, rootRef, int(depth), entrySize, maxDepth, 0)
}

func bthWalk(ti *tableIndex, ref HNID, depth int, entrySize int, maxDepth int, callDepth int) ([]HNID, error) {
	if callDepth > maxDepth {
		return nil, wrap(ErrKindInvalidFormat, "BTH recursion depth exceeds limit", nil)
	}
	if depth == 0 {
		return []HNID{ref}, nil
	}

	page, err := ti.clone(ref)
	if err != nil {
		return nil, wrap(ErrKindInvalidFormat, "resolve BTH branch page", err)
	}
	if len(page)%entrySize != 0 {
		return nil, wrap(ErrKindInvalidFormat, "BTH branch page size not a multiple of entry size", nil)
	}

	var leaves []HNID
	keySize := entrySize - 4
	for off := 0; off < len(page); off += entrySize {
		childRaw, err := format.CheckedReadU32(page, off+keySize)
		if err != nil {
			return nil, wrap(ErrKindOutOfBounds, "BTH branch child ref", err)
		}
		child, err := bthWalk(ti, HNID(childRaw), depth-1, entrySize, maxDepth, callDepth+1)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, child...)
	}
	return leaves, nil
}
