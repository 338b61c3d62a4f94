package datastream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libyal/go-libpff-table/internal/datastream"
	"github.com/libyal/go-libpff-table/internal/lru"
)

type memSource struct {
	blocks map[uint64][]byte
}

func (m *memSource) ReadBlock(dataID uint64) ([]byte, error) {
	b, ok := m.blocks[dataID]
	if !ok {
		return nil, errNotFound
	}
	return b, nil
}

var errNotFound = errNotFoundType{}

type errNotFoundType struct{}

func (errNotFoundType) Error() string { return "block not found" }

func TestListReadAtAcrossBlocks(t *testing.T) {
	source := &memSource{blocks: map[uint64][]byte{
		1: []byte("hello "),
		2: []byte("world"),
	}}
	list := datastream.NewList(source, lru.New(16), []uint64{1, 2}, false)

	buf := make([]byte, 11)
	n, err := list.ReadAt(0, buf)
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, "hello world", string(buf))
}

func TestListReadAtMidBlock(t *testing.T) {
	source := &memSource{blocks: map[uint64][]byte{
		1: []byte("hello "),
		2: []byte("world"),
	}}
	list := datastream.NewList(source, lru.New(16), []uint64{1, 2}, false)

	buf := make([]byte, 5)
	n, err := list.ReadAt(6, buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))
}

func TestListSize(t *testing.T) {
	source := &memSource{blocks: map[uint64][]byte{
		1: []byte("abc"),
		2: []byte("de"),
	}}
	list := datastream.NewList(source, lru.New(16), []uint64{1, 2}, false)
	require.Equal(t, int64(5), list.Size())
}

func TestListClosedUnmanagedIsNoop(t *testing.T) {
	source := &memSource{blocks: map[uint64][]byte{1: []byte("x")}}
	cache := lru.New(16)
	list := datastream.NewList(source, cache, []uint64{1}, false)
	_, _ = list.ReadAt(0, make([]byte, 1))
	require.NoError(t, list.Close())
	require.Greater(t, cache.Len(), 0)
}

func TestListClosedManagedResetsCache(t *testing.T) {
	source := &memSource{blocks: map[uint64][]byte{1: []byte("x")}}
	cache := lru.New(16)
	list := datastream.NewList(source, cache, []uint64{1}, true)
	_, _ = list.ReadAt(0, make([]byte, 1))
	require.NoError(t, list.Close())
	require.Equal(t, 0, cache.Len())
}

func TestDecryptXORRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox")
	enc := datastream.Encrypt(data, datastream.FlagEncryptionXOR)
	dec := datastream.Decrypt(enc, datastream.FlagEncryptionXOR)
	require.Equal(t, data, dec)
}

func TestDecryptCyclicRoundTrip(t *testing.T) {
	data := []byte("jumps over the lazy dog")
	enc := datastream.Encrypt(data, datastream.FlagEncryptionCyclic)
	dec := datastream.Decrypt(enc, datastream.FlagEncryptionCyclic)
	require.Equal(t, data, dec)
}

func TestDecryptNoneIsIdentity(t *testing.T) {
	data := []byte("unchanged")
	require.Equal(t, data, datastream.Decrypt(data, datastream.FlagEncryptionNone))
}

func TestFlateRoundTrip(t *testing.T) {
	data := []byte("compress me compress me compress me")
	compressed, err := datastream.FlateCompress(data)
	require.NoError(t, err)

	dec := datastream.FlateDecompressor{}
	out, err := dec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestNoCompressionIdentity(t *testing.T) {
	data := []byte("raw")
	out, err := datastream.NoCompression{}.Decompress(data)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestFileBlockSourceReadsThroughIndex(t *testing.T) {
	raw := &fakeRawSource{data: []byte("0123456789abcdef")}
	index := datastream.NewStaticIndex(map[uint64]datastream.IndexEntry{
		0x10: {Offset: 4, Size: 6, Flags: datastream.FlagEncryptionNone},
	})
	src := datastream.NewFileBlockSource(raw, index, nil)

	out, err := src.ReadBlock(0x10)
	require.NoError(t, err)
	require.Equal(t, "456789", string(out))
}

func TestFileBlockSourceMissingIndexEntry(t *testing.T) {
	raw := &fakeRawSource{data: []byte("0123456789")}
	index := datastream.NewStaticIndex(map[uint64]datastream.IndexEntry{})
	src := datastream.NewFileBlockSource(raw, index, nil)

	_, err := src.ReadBlock(0xff)
	require.Error(t, err)
}

type fakeRawSource struct {
	data []byte
}

func (f *fakeRawSource) ReadRangeAt(offset int64, size uint32) ([]byte, error) {
	end := offset + int64(size)
	if offset < 0 || end > int64(len(f.data)) {
		return nil, errNotFound
	}
	return f.data[offset:end], nil
}
