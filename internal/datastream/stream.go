// Package datastream provides the default descriptor-data-stream
// collaborators consumed by the table subsystem: an offsets index mapping a
// 64-bit data identifier to a physical block's (offset, size, flags), a
// block source that turns that into decrypted/decompressed bytes, and a
// lazy concatenation of the resulting blocks exposed as a single
// byte-addressable stream (spec.md §1 "External collaborators", §3
// "Descriptor data stream").
//
// None of this is part of the table subsystem's own invariants — the
// wire format of physical blocks and how they chain together is explicitly
// a collaborator concern (spec.md §4.2) — but the core needs a concrete,
// exercised implementation rather than a bare interface, the same way the
// teacher always pairs an interface with a real default (hive/dirty's
// FlushableTracker, internal/mmfile's platform Map).
//
// Grounded on hive/bigdata/db.go's chained-block model: a descriptor's data
// is a sequence of block identifiers (there, an in-cell "db" blocklist;
// here, an in-memory chain built when the table is opened) that are read
// and concatenated lazily, never materialized up front.
package datastream

import (
	"fmt"
	"io"

	"github.com/libyal/go-libpff-table/internal/lru"
)

// BlockFlags describes the on-disk encoding of one physical block.
type BlockFlags uint16

const (
	// FlagEncryptionNone marks a block stored without encryption.
	FlagEncryptionNone BlockFlags = 0
	// FlagEncryptionXOR marks a block using the "compressible encryption"
	// substitution scheme (crypt.go).
	FlagEncryptionXOR BlockFlags = 1 << 0
	// FlagEncryptionCyclic marks a block using the cyclic substitution
	// scheme (crypt.go).
	FlagEncryptionCyclic BlockFlags = 1 << 1
	// FlagCompressed marks a block whose on-disk bytes must be inflated
	// (compress.go) before use.
	FlagCompressed BlockFlags = 1 << 2
)

// IndexEntry is one offsets-index record: the location, size, and encoding
// flags of a single physical block.
type IndexEntry struct {
	Offset int64
	Size   uint32
	Flags  BlockFlags
}

// StaticIndex is a default OffsetsIndex backed by an in-memory map, built
// once when a file's descriptor table is opened.
type StaticIndex struct {
	entries map[uint64]IndexEntry
}

// NewStaticIndex builds a StaticIndex from a pre-resolved set of entries.
func NewStaticIndex(entries map[uint64]IndexEntry) *StaticIndex {
	return &StaticIndex{entries: entries}
}

// Lookup implements table.OffsetsIndex. Flags are returned as a plain
// uint16 (rather than the package's BlockFlags) so the method signature
// matches the collaborator interface exactly without either package
// importing the other.
func (idx *StaticIndex) Lookup(dataID uint64) (offset int64, size uint32, flags uint16, ok bool) {
	e, ok := idx.entries[dataID]
	if !ok {
		return 0, 0, 0, false
	}
	return e.Offset, e.Size, uint16(e.Flags), true
}

// RawSource reads raw, still-encoded bytes for a given absolute byte range.
// A FileBlockSource is built over one of these (the mmap'd file in the
// common case).
type RawSource interface {
	ReadRangeAt(offset int64, size uint32) ([]byte, error)
}

// FileBlockSource is the default BlockSource: it resolves a data identifier
// through an OffsetsIndex, reads the raw range from a RawSource, then
// decrypts and optionally decompresses it.
type FileBlockSource struct {
	raw   RawSource
	index *StaticIndex
	decom Decompressor
}

// NewFileBlockSource builds a FileBlockSource. decom may be nil, in which
// case NoCompression{} is used and blocks flagged as compressed are returned
// as stored (decrypted, not decompressed).
func NewFileBlockSource(raw RawSource, index *StaticIndex, decom Decompressor) *FileBlockSource {
	if decom == nil {
		decom = NoCompression{}
	}
	return &FileBlockSource{raw: raw, index: index, decom: decom}
}

// ReadBlock implements table.BlockSource: returns the fully decrypted and
// decompressed bytes of the physical block identified by dataID.
func (s *FileBlockSource) ReadBlock(dataID uint64) ([]byte, error) {
	offset, size, rawFlags, ok := s.index.Lookup(dataID)
	if !ok {
		return nil, fmt.Errorf("datastream: no offsets-index entry for data id %#x", dataID)
	}
	flags := BlockFlags(rawFlags)
	raw, err := s.raw.ReadRangeAt(offset, size)
	if err != nil {
		return nil, fmt.Errorf("datastream: read block %#x: %w", dataID, err)
	}
	decrypted := Decrypt(raw, flags)
	if flags&FlagCompressed == 0 {
		return decrypted, nil
	}
	out, err := s.decom.Decompress(decrypted)
	if err != nil {
		return nil, fmt.Errorf("datastream: decompress block %#x: %w", dataID, err)
	}
	return out, nil
}

// List is the default DescriptorDataList: a lazily-read, cached
// concatenation of the physical blocks named by chain, addressed as one
// logical byte stream.
//
// managed tracks whether List owns cache (spec.md §3 Lifecycle, "a data
// handle for the descriptor-data stream is marked managed when it owns its
// backing list+cache"); Close is a no-op unless managed is true.
type List struct {
	source BlockSource
	cache  *lru.Cache
	chain  []uint64 // data identifiers of each physical block, in order
	sizes  []int64  // uncompressed size of each block, filled in lazily
	total  int64     // -1 until every block has been sized at least once
	managed bool
}

// BlockSource is the minimal collaborator List needs: turn a data
// identifier into fully decoded bytes. Concrete implementations (like
// FileBlockSource above) may do much more.
type BlockSource interface {
	ReadBlock(dataID uint64) ([]byte, error)
}

// NewList builds a List over the given chain of data identifiers. When
// managed is true, Close resets cache; when false (the common case — a
// table borrows a longer-lived cache shared across many streams), Close is
// a no-op.
func NewList(source BlockSource, cache *lru.Cache, chain []uint64, managed bool) *List {
	return &List{
		source:  source,
		cache:   cache,
		chain:   chain,
		sizes:   make([]int64, len(chain)),
		total:   -1,
		managed: managed,
	}
}

// blockAt returns the decoded bytes of the i-th physical block, consulting
// and populating the cache.
func (l *List) blockAt(i int) ([]byte, error) {
	id := l.chain[i]
	if v, ok := l.cache.Lookup(id); ok {
		return v.([]byte), nil
	}
	data, err := l.source.ReadBlock(id)
	if err != nil {
		return nil, err
	}
	l.cache.Store(id, data)
	l.sizes[i] = int64(len(data))
	return data, nil
}

// BlockCount returns the number of physical blocks backing this stream,
// the unit collaborator A ("Data-block reader") addresses directly (spec.md
// §2 component A).
func (l *List) BlockCount() int {
	return len(l.chain)
}

// Block returns the fully decoded bytes of the N-th physical block,
// consulting and populating the shared cache. This is the table core's
// only way to see block boundaries; ReadAt/Size treat the same blocks as
// one flat stream.
func (l *List) Block(i int) ([]byte, error) {
	if i < 0 || i >= len(l.chain) {
		return nil, fmt.Errorf("datastream: block index %d out of range [0,%d)", i, len(l.chain))
	}
	return l.blockAt(i)
}

// Size returns the total uncompressed size of the concatenated stream,
// reading every block at most once to learn it.
func (l *List) Size() int64 {
	if l.total >= 0 {
		return l.total
	}
	var total int64
	for i := range l.chain {
		data, err := l.blockAt(i)
		if err != nil {
			// Size is advisory; a read failure here surfaces again (and
			// propagates properly) on the next real ReadAt.
			return total
		}
		total += int64(len(data))
	}
	l.total = total
	return total
}

// ReadAt reads from the logical concatenation of blocks
// (table.DescriptorDataList), never materializing the full stream. Unlike
// io.ReaderAt, a short read returns a nil error: when the stream ends, or a
// block read fails, after some bytes were copied, ReadAt returns that count.
// It returns io.EOF only when offset is at or past the end of the stream.
func (l *List) ReadAt(offset int64, buf []byte) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("datastream: negative offset %d", offset)
	}
	var (
		read    int
		skipped int64
	)
	for i := range l.chain {
		data, err := l.blockAt(i)
		if err != nil {
			if read > 0 {
				return read, nil
			}
			return 0, err
		}
		blockLen := int64(len(data))
		if skipped+blockLen <= offset {
			skipped += blockLen
			continue
		}
		start := int64(0)
		if offset > skipped {
			start = offset - skipped
		}
		n := copy(buf[read:], data[start:])
		read += n
		skipped += blockLen
		offset += int64(n)
		if read == len(buf) {
			return read, nil
		}
	}
	if read == 0 {
		return 0, io.EOF
	}
	return read, nil
}

// Close releases the stream's backing cache when List owns it (managed ==
// true); otherwise it is a no-op, since the cache is borrowed from a
// longer-lived Table (spec.md §3 Lifecycle, §5 Resource acquisition).
func (l *List) Close() error {
	if l.managed && l.cache != nil {
		l.cache.Reset()
	}
	return nil
}
