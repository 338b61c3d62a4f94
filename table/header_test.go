package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildHeaderBlock assembles a single physical block containing:
//   - slot 0: the 12-byte table signature block + extra body bytes
//   - slot 1: an 8-byte 0xb5 BTH sub-header (only used when withBTH)
//
// followed by its own trailing allocation map, matching the real on-disk
// layout where the table header's own index_offset field doubles as the
// block's allocation-map pointer.
func buildHeaderBlock(sigType byte, valueRef uint32, extraBody []byte, bthKeySize, bthValueSize, bthDepth byte, bthRootRef uint32, withBTH bool) []byte {
	slot0 := make([]byte, 12+len(extraBody))
	// index_offset placeholder, filled in once offsets are known.
	slot0[2] = 0xec
	slot0[3] = sigType
	slot0[4] = byte(valueRef)
	slot0[5] = byte(valueRef >> 8)
	slot0[6] = byte(valueRef >> 16)
	slot0[7] = byte(valueRef >> 24)
	copy(slot0[12:], extraBody)

	var slots [][]byte
	slots = append(slots, slot0)
	if withBTH {
		slot1 := make([]byte, 8)
		slot1[0] = 0xb5
		slot1[1] = bthKeySize
		slot1[2] = bthValueSize
		slot1[3] = bthDepth
		slot1[4] = byte(bthRootRef)
		slot1[5] = byte(bthRootRef >> 8)
		slot1[6] = byte(bthRootRef >> 16)
		slot1[7] = byte(bthRootRef >> 24)
		slots = append(slots, slot1)
	}

	indexOffset := 0
	for _, s := range slots {
		indexOffset += len(s)
	}
	total := indexOffset + 4 + (len(slots)+1)*2
	data := make([]byte, total)
	pos := 0
	offsets := []uint16{0}
	for _, s := range slots {
		copy(data[pos:], s)
		pos += len(s)
		offsets = append(offsets, uint16(pos))
	}
	putU16(data, indexOffset, uint16(len(slots)))
	putU16(data, indexOffset+2, 0)
	for i, off := range offsets {
		putU16(data, indexOffset+4+i*2, off)
	}
	// The table header's own index_offset field (bytes 0-1) must match the
	// block's allocation-map offset.
	putU16(data, 0, uint16(indexOffset))
	return data
}

func ansiHNIDFor(block uint32, slot uint32) HNID {
	// Ansi32 split: blockSelector = v>>16, slotSelector = ((v>>5)&0x7ff)-1,
	// so a 0-based slot index s is encoded with raw bits (s+1).
	return HNID(block<<16 | (slot+1)<<5)
}

func TestParseHeaderPropertyContext(t *testing.T) {
	valueRef := ansiHNIDFor(0, 1)
	data := buildHeaderBlock(0xbc, uint32(valueRef), nil, 8, 4, 0, 0xdeadbeef, true)
	list := &fakeBlockList{blocks: [][]byte{data}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	block0, err := ti.blockData(0)
	require.NoError(t, err, "blockData")
	h, err := parseHeader(block0, ti)
	require.NoError(t, err, "parseHeader")
	if h.tableType != 0xbc {
		t.Fatalf("tableType = %#x, want 0xbc", h.tableType)
	}
	if h.bth.keySize != 8 || h.bth.valueSize != 4 || h.bth.depth != 0 {
		t.Fatalf("bth = %+v, unexpected", h.bth)
	}
	if uint32(h.bth.rootRef) != 0xdeadbeef {
		t.Fatalf("bth.rootRef = %#x, want 0xdeadbeef", uint32(h.bth.rootRef))
	}
}

func TestParseHeader6c(t *testing.T) {
	// body: b5_ref(4) | va_ref(4)
	body := make([]byte, 8)
	// b5_ref points at slot 1 within this same block (computed after layout
	// is known to be stable: header block always puts BTH at slot 1).
	ref := ansiHNIDFor(0, 1)
	body[0] = byte(ref)
	body[1] = byte(ref >> 8)
	body[2] = byte(ref >> 16)
	body[3] = byte(ref >> 24)
	// va_ref left zero.

	data := buildHeaderBlock(0x6c, 0, body, 16, 4, 0, 0x12345678, true)
	list := &fakeBlockList{blocks: [][]byte{data}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	block0, err := ti.blockData(0)
	require.NoError(t, err, "blockData")
	h, err := parseHeader(block0, ti)
	require.NoError(t, err, "parseHeader")
	if h.bth.keySize != 16 {
		t.Fatalf("bth.keySize = %d, want 16", h.bth.keySize)
	}
	if uint32(h.bth.rootRef) != 0x12345678 {
		t.Fatalf("bth.rootRef = %#x, want 0x12345678", uint32(h.bth.rootRef))
	}
}

func TestParseHeaderPassThroughHasNoBTH(t *testing.T) {
	data := buildHeaderBlock(0xa5, 0, nil, 0, 0, 0, 0, false)
	list := &fakeBlockList{blocks: [][]byte{data}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	block0, err := ti.blockData(0)
	require.NoError(t, err, "blockData")
	h, err := parseHeader(block0, ti)
	require.NoError(t, err, "parseHeader")
	if h.bth != (bthSubHeader{}) {
		t.Fatalf("0xa5 should have a zero-value bth, got %+v", h.bth)
	}
}

func TestParseHeaderBadSignature(t *testing.T) {
	data := buildHeaderBlock(0xbc, 0, nil, 0, 0, 0, 0, false)
	data[2] = 0xff // corrupt signature byte
	list := &fakeBlockList{blocks: [][]byte{data}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	block0, _ := ti.blockData(0)
	_, err = parseHeader(block0, ti)
	assertErrKind(t, err, ErrKindInvalidFormat)
}

func TestParseHeaderBadType(t *testing.T) {
	data := buildHeaderBlock(0xff, 0, nil, 0, 0, 0, 0, false)
	list := &fakeBlockList{blocks: [][]byte{data}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	block0, _ := ti.blockData(0)
	_, err = parseHeader(block0, ti)
	assertErrKind(t, err, ErrKindUnsupportedValue)
}

func TestParseHeaderTruncated(t *testing.T) {
	_, err := parseHeader([]byte{1, 2, 3}, nil)
	assertErrKind(t, err, ErrKindInvalidFormat)
}
