package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSideOpener struct {
	list DescriptorDataList
}

func (f fakeSideOpener) OpenSideTable(descriptor uint32) (DescriptorDataList, error) {
	return f.list, nil
}

func TestBuildSideTableLookup(t *testing.T) {
	header := make([]byte, 12)
	row0 := []byte{0xaa, 0xbb}
	row1 := []byte{0xcc, 0xdd, 0xee}
	block0 := buildBlockWithSlots([][]byte{header, row0, row1}, 30, 48)
	list := &fakeBlockList{blocks: [][]byte{block0}}

	st, err := buildSideTable(list, Ansi32)
	require.NoError(t, err, "buildSideTable")
	data, ok := st.Lookup(0, 1)
	if !ok || string(data) != string(row0) {
		t.Fatalf("Lookup(0,1) = %v,%v, want %v,true", data, ok, row0)
	}
	data, ok = st.Lookup(0, 2)
	if !ok || string(data) != string(row1) {
		t.Fatalf("Lookup(0,2) = %v,%v, want %v,true", data, ok, row1)
	}
	if _, ok := st.Lookup(0, 0); ok {
		t.Fatalf("Lookup(0,0) should miss: slot 0 is the header slot")
	}
	if _, ok := st.Lookup(9, 9); ok {
		t.Fatalf("Lookup(9,9) should miss: no such row")
	}
}

func TestResolveSideTableCellMissingOpenerIsNonFatal(t *testing.T) {
	data, flags, err := resolveSideTableCell(0x20, 1, Ansi32, nil, nil, nil)
	require.NoError(t, err, "resolveSideTableCell")
	if data != nil || flags&FlagMissingDataDescriptor == 0 {
		t.Fatalf("data=%v flags=%v, want nil data and FlagMissingDataDescriptor", data, flags)
	}
}

func TestResolveSideTableCellNullIsAbsent(t *testing.T) {
	data, flags, err := resolveSideTableCell(0, 1, Ansi32, nil, nil, nil)
	require.NoError(t, err, "resolveSideTableCell")
	if data != nil || flags != 0 {
		t.Fatalf("data=%v flags=%v, want nil/0 for NULL entry_value", data, flags)
	}
}

func TestResolveSideTableCellResolved(t *testing.T) {
	header := make([]byte, 12)
	row0 := []byte{0x01, 0x02, 0x03, 0x04}
	block0 := buildBlockWithSlots([][]byte{header, row0}, 20, 32)
	list := &fakeBlockList{blocks: [][]byte{block0}}
	ref := ansiHNIDFor(0, 1) // block 0, slot 1

	data, flags, err := resolveSideTableCell(uint32(ref), 7, Ansi32, fakeSideOpener{list: list}, nil, nil)
	require.NoError(t, err, "resolveSideTableCell")
	if flags != 0 {
		t.Fatalf("flags = %v, want 0", flags)
	}
	if string(data) != string(row0) {
		t.Fatalf("data = %v, want %v", data, row0)
	}
}

func TestBuildTableContextRecordSetsSideTableColumn(t *testing.T) {
	sideHeader := make([]byte, 12)
	sideRow := []byte{0x11, 0x22, 0x33}
	sideBlock := buildBlockWithSlots([][]byte{sideHeader, sideRow}, 20, 32)
	sideList := &fakeBlockList{blocks: [][]byte{sideBlock}}
	sideRef := ansiHNIDFor(0, 1)

	rowSlot := make([]byte, 4)
	putU32(rowSlot, 0, uint32(sideRef))
	block0 := buildBlockWithSlots([][]byte{rowSlot}, 20, 32)
	list := &fakeBlockList{blocks: [][]byte{block0}}
	ti, err := buildTableIndex(list, Ansi32)
	require.NoError(t, err, "buildTableIndex")
	ref := ansiHNIDFor(0, 0)
	va, err := newLocalValuesArray(ti, ref, 4)
	require.NoError(t, err, "newLocalValuesArray")
	columns := []ColumnDefinition{
		{ValueType: 0x0102, EntryType: 0x3001, VAOffset: 0, VASize: 4, SideTableDescriptor: 7},
	}
	entries := []bthLeafEntry{{Key: []byte{0, 0, 0, 0}, Value: []byte{0, 0}}}
	sets, flags, err := buildTableContextRecordSets(entries, columns, va, ti, nil, nil, nil, fakeSideOpener{list: sideList})
	require.NoError(t, err, "buildTableContextRecordSets")
	if flags != 0 {
		t.Fatalf("flags = %v, want 0", flags)
	}
	if len(sets) != 1 || len(sets[0].Entries) != 1 {
		t.Fatalf("sets = %+v, unexpected shape", sets)
	}
	if string(sets[0].Entries[0].Value) != string(sideRow) {
		t.Fatalf("entry value = %v, want %v", sets[0].Entries[0].Value, sideRow)
	}
}
