package table

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectBTHLeavesDepthZero(t *testing.T) {
	// depth=0: root_ref is itself the (only) leaf, never dereferenced.
	ti := &tableIndex{} // unused at depth 0
	leaves, err := collectBTHLeaves(ti, HNID(0x20), 0, 4, 32)
	require.NoError(t, err, "collectBTHLeaves")
	want := []HNID{0x20}
	if !reflect.DeepEqual(leaves, want) {
		t.Fatalf("leaves = %v, want %v", leaves, want)
	}
}

func TestCollectBTHLeavesDepthOne(t *testing.T) {
	// Branch page at slot 0: entries [k0 | 0x40] [k1 | 0x60], key_size=4,
	// entry size 8.
	page := make([]byte, 16)
	putU32(page, 0, 0x1111) // k0 (ignored)
	putU32(page, 4, 0x40)   // child ref
	putU32(page, 8, 0x2222) // k1 (ignored)
	putU32(page, 12, 0x60)  // child ref

	block0 := buildBlockWithSlots([][]byte{page}, 20, 32)
	list := &fakeBlockList{blocks: [][]byte{block0}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")

	root := ansiHNIDFor(0, 0)
	leaves, err := collectBTHLeaves(ti, root, 1, 4, 32)
	require.NoError(t, err, "collectBTHLeaves")
	want := []HNID{0x40, 0x60}
	if !reflect.DeepEqual(leaves, want) {
		t.Fatalf("leaves = %v, want %v", leaves, want)
	}
}

func TestCollectBTHLeavesUnsupportedKeySize(t *testing.T) {
	_, err := collectBTHLeaves(&tableIndex{}, HNID(0), 1, 3, 32)
	assertErrKind(t, err, ErrKindUnsupportedValue)
}

func TestCollectBTHLeavesBadPageSize(t *testing.T) {
	// Page length not a multiple of entry size (8).
	page := make([]byte, 13)
	block0 := buildBlockWithSlots([][]byte{page}, 20, 32)
	list := &fakeBlockList{blocks: [][]byte{block0}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	root := ansiHNIDFor(0, 0)
	_, err = collectBTHLeaves(ti, root, 1, 4, 32)
	assertErrKind(t, err, ErrKindInvalidFormat)
}

func TestCollectBTHLeavesDepthGuard(t *testing.T) {
	_, err := bthWalk(&tableIndex{}, HNID(0x20), 5, 8, 2, 3)
	assertErrKind(t, err, ErrKindInvalidFormat)
}

func putU32(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}
