package localdesc_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libyal/go-libpff-table/internal/localdesc"
)

func buildLeafNode32(entries [][3]uint32) []byte {
	buf := make([]byte, 4+len(entries)*12)
	buf[0] = 0x02
	buf[1] = 0x00 // leaf
	binary.LittleEndian.PutUint16(buf[2:], uint16(len(entries)))
	for i, e := range entries {
		base := 4 + i*12
		binary.LittleEndian.PutUint32(buf[base:], e[0])
		binary.LittleEndian.PutUint32(buf[base+4:], e[1])
		binary.LittleEndian.PutUint32(buf[base+8:], e[2])
	}
	return buf
}

func buildBranchNode32(entries [][2]uint32) []byte {
	buf := make([]byte, 4+len(entries)*8)
	buf[0] = 0x02
	buf[1] = 0x01 // branch
	binary.LittleEndian.PutUint16(buf[2:], uint16(len(entries)))
	for i, e := range entries {
		base := 4 + i*8
		binary.LittleEndian.PutUint32(buf[base:], e[0])
		binary.LittleEndian.PutUint32(buf[base+4:], e[1])
	}
	return buf
}

type fakeNodeSource struct {
	nodes map[uint64][]byte
}

func (f *fakeNodeSource) ReadNode(nodeID uint64) ([]byte, error) {
	n, ok := f.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("no such node %#x", nodeID)
	}
	return n, nil
}

func TestResolveLeafNode(t *testing.T) {
	leaf := buildLeafNode32([][3]uint32{
		{1, 0x100, 0},
		{5, 0x200, 0x300},
	})
	source := &fakeNodeSource{nodes: map[uint64][]byte{0x10: leaf}}
	r := localdesc.NewResolver(source, 0x10, false)

	dataID, localID, ok, err := r.Resolve(5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(0x200), dataID)
	require.Equal(t, uint32(0x300), localID)
}

func TestResolveMissingIdentifier(t *testing.T) {
	leaf := buildLeafNode32([][3]uint32{{1, 0x100, 0}})
	source := &fakeNodeSource{nodes: map[uint64][]byte{0x10: leaf}}
	r := localdesc.NewResolver(source, 0x10, false)

	_, _, ok, err := r.Resolve(99)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveThroughBranch(t *testing.T) {
	leafLow := buildLeafNode32([][3]uint32{{1, 0xaaa, 0}, {3, 0xbbb, 0}})
	leafHigh := buildLeafNode32([][3]uint32{{10, 0xccc, 0}})
	branch := buildBranchNode32([][2]uint32{{3, 0x20}, {10, 0x21}})
	source := &fakeNodeSource{nodes: map[uint64][]byte{
		0x1: branch,
		0x20: leafLow,
		0x21: leafHigh,
	}}
	r := localdesc.NewResolver(source, 0x1, false)

	dataID, _, ok, err := r.Resolve(10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(0xccc), dataID)

	dataID, _, ok, err = r.Resolve(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(0xaaa), dataID)
}

func TestResolveZeroEntriesIsFatal(t *testing.T) {
	empty := buildLeafNode32(nil)
	source := &fakeNodeSource{nodes: map[uint64][]byte{0x1: empty}}
	r := localdesc.NewResolver(source, 0x1, false)

	_, _, _, err := r.Resolve(1)
	require.Error(t, err)
}

func TestResolveBadSignature(t *testing.T) {
	bad := []byte{0x99, 0x00, 0x00, 0x00}
	source := &fakeNodeSource{nodes: map[uint64][]byte{0x1: bad}}
	r := localdesc.NewResolver(source, 0x1, false)

	_, _, _, err := r.Resolve(1)
	require.Error(t, err)
}
