package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeNames struct {
	m map[uint32]uint32
}

func (f fakeNames) Resolve(entryType uint32) (uint32, bool) {
	id, ok := f.m[entryType]
	return id, ok
}

func build7cColumn(valueType, entryType, vaOffset uint16, vaSize, vaNumber byte) []byte {
	b := make([]byte, 8)
	putU16(b, 0, valueType)
	putU16(b, 2, entryType)
	putU16(b, 4, vaOffset)
	b[6] = vaSize
	b[7] = vaNumber
	return b
}

func TestParseColumnDefs7cBasic(t *testing.T) {
	names := fakeNames{m: map[uint32]uint32{0x8001: 42}}
	raw := append(
		build7cColumn(0x0003, 0x3007, 0, 4, 1),
		build7cColumn(0x001f, 0x8001, 4, 8, 0)...,
	)
	defs, err := parseColumnDefs7c(raw, names, 2)
	require.NoError(t, err, "parseColumnDefs7c")
	if defs[1].ValueType != 0x0003 || defs[1].EntryType != 0x3007 {
		t.Fatalf("defs[1] = %+v, unexpected", defs[1])
	}
	if defs[0].Named == nil || defs[0].Named.CanonicalID != 42 {
		t.Fatalf("defs[0].Named = %+v, want resolved to 42", defs[0].Named)
	}
}

func TestParseColumnDefs7cDuplicateVANumberFatal(t *testing.T) {
	raw := append(
		build7cColumn(0x0003, 0x3007, 0, 4, 0),
		build7cColumn(0x001f, 0x3008, 4, 8, 0)...,
	)
	_, err := parseColumnDefs7c(raw, nil, 2)
	assertErrKind(t, err, ErrKindInvalidFormat)
}

func TestParseColumnDefs7cVANumberOutOfRange(t *testing.T) {
	raw := build7cColumn(0x0003, 0x3007, 0, 4, 5)
	_, err := parseColumnDefs7c(raw, nil, 2)
	assertErrKind(t, err, ErrKindOutOfBounds)
}

func TestParseColumnDefs7cBadSize(t *testing.T) {
	_, err := parseColumnDefs7c(make([]byte, 13), nil, 1)
	assertErrKind(t, err, ErrKindInvalidFormat)
}

func buildAcColumn(valueType, entryType, vaOffset, vaSize, vaNumber uint16, sideTable uint32) []byte {
	b := make([]byte, 16)
	putU16(b, 0, valueType)
	putU16(b, 2, entryType)
	putU16(b, 4, vaOffset)
	putU16(b, 6, vaSize)
	putU16(b, 8, vaNumber)
	putU32(b, 12, sideTable)
	return b
}

func TestParseColumnDefsAcWithSideTable(t *testing.T) {
	raw := buildAcColumn(0x0102, 0x6800, 0, 4, 0, 0x99)
	defs, err := parseColumnDefsAc(raw, nil, 1)
	require.NoError(t, err, "parseColumnDefsAc")
	if !defs[0].HasSideTable() {
		t.Fatalf("expected side table column, got %+v", defs[0])
	}
	if defs[0].SideTableDescriptor != 0x99 {
		t.Fatalf("SideTableDescriptor = %#x, want 0x99", defs[0].SideTableDescriptor)
	}
}

func TestParseColumnDefsAcDuplicateVANumberFatal(t *testing.T) {
	raw := append(
		buildAcColumn(0x0003, 0x3007, 0, 4, 0, 0),
		buildAcColumn(0x001f, 0x3008, 4, 8, 0, 0)...,
	)
	_, err := parseColumnDefsAc(raw, nil, 2)
	assertErrKind(t, err, ErrKindInvalidFormat)
}
