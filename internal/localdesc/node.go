// Package localdesc implements the default local-descriptors tree reader:
// parsing one local-descriptor node's on-disk layout (spec.md §6) and
// walking the tree to resolve a 32-bit descriptor identifier to
// (data_identifier, local_descriptors_identifier) (spec.md §1 "External
// collaborators", §9 "LocalDescriptorResolver::get(id)").
//
// Grounded structurally on hive/li.go/hive/ri.go (a count-prefixed flat
// array of fixed-width child references); semantics grounded on
// original_source/libpff/libpff_local_descriptor_node.c (leaf entries carry
// {identifier, data_identifier, local_descriptors_identifier}, branch
// entries carry {identifier, sub_node_identifier}).
package localdesc

import (
	"fmt"

	"github.com/libyal/go-libpff-table/internal/format"
)

// Node is a parsed view over one local-descriptor node's raw bytes. It
// never copies the entries array; callers needing to retain bytes across
// cache evictions must clone explicitly, matching the heap-reader
// convention in spec.md §4.1.
type Node struct {
	buf      []byte
	is64Bit  bool
	level    uint8
	numEntry uint16
}

// Parse validates the node prefix and entries-array bounds.
func Parse(buf []byte, is64Bit bool) (Node, error) {
	prefixSize := format.LocalDescriptorNodePrefixSize32
	if is64Bit {
		prefixSize = format.LocalDescriptorNodePrefixSize64
	}
	if len(buf) < prefixSize {
		return Node{}, fmt.Errorf("localdesc: node truncated: have=%d need=%d", len(buf), prefixSize)
	}
	if buf[format.LocalDescriptorNodeSignatureOff] != format.LocalDescriptorNodeSignature {
		return Node{}, fmt.Errorf("localdesc: bad signature 0x%02x", buf[format.LocalDescriptorNodeSignatureOff])
	}
	level := buf[format.LocalDescriptorNodeLevelOff]
	numEntries, err := format.CheckedReadU16(buf, format.LocalDescriptorNodeNumEntOff)
	if err != nil {
		return Node{}, fmt.Errorf("localdesc: %w", err)
	}

	n := Node{buf: buf, is64Bit: is64Bit, level: level, numEntry: numEntries}
	need := prefixSize + int(numEntries)*n.entrySize()
	if len(buf) < need {
		return Node{}, fmt.Errorf("localdesc: entries truncated: have=%d need=%d", len(buf), need)
	}
	return n, nil
}

// IsLeaf reports whether this node's entries resolve directly to data, as
// opposed to pointing at child nodes.
func (n Node) IsLeaf() bool {
	return n.level == format.LocalDescriptorNodeLevelLeaf
}

// Count returns the number of entries in the node.
func (n Node) Count() int {
	return int(n.numEntry)
}

func (n Node) prefixSize() int {
	if n.is64Bit {
		return format.LocalDescriptorNodePrefixSize64
	}
	return format.LocalDescriptorNodePrefixSize32
}

func (n Node) entrySize() int {
	switch {
	case n.IsLeaf() && n.is64Bit:
		return format.LocalDescriptorLeafEntrySize64
	case n.IsLeaf():
		return format.LocalDescriptorLeafEntrySize32
	case n.is64Bit:
		return format.LocalDescriptorBranchEntrySize64
	default:
		return format.LocalDescriptorBranchEntrySize32
	}
}

func (n Node) fieldAt(entryIndex int, fieldOffset int) (uint64, error) {
	base := n.prefixSize() + entryIndex*n.entrySize() + fieldOffset
	if n.is64Bit {
		return format.CheckedReadU64(n.buf, base)
	}
	v, err := format.CheckedReadU32(n.buf, base)
	return uint64(v), err
}

func (n Node) fieldWidth() int {
	if n.is64Bit {
		return 8
	}
	return 4
}

// LeafIdentifierAt returns entry i's descriptor identifier (leaf nodes
// only).
func (n Node) LeafIdentifierAt(i int) (uint64, error) {
	return n.fieldAt(i, 0)
}

// LeafDataIdentifierAt returns entry i's data identifier (leaf nodes only).
func (n Node) LeafDataIdentifierAt(i int) (uint64, error) {
	return n.fieldAt(i, n.fieldWidth())
}

// LeafLocalDescriptorsIdentifierAt returns entry i's nested
// local-descriptors identifier (leaf nodes only); zero means the entry has
// no further sub-node tree of its own.
func (n Node) LeafLocalDescriptorsIdentifierAt(i int) (uint64, error) {
	return n.fieldAt(i, 2*n.fieldWidth())
}

// BranchIdentifierAt returns entry i's key identifier (branch nodes only):
// descent picks the first entry whose identifier is >= the search key.
func (n Node) BranchIdentifierAt(i int) (uint64, error) {
	return n.fieldAt(i, 0)
}

// BranchSubNodeIdentifierAt returns entry i's child node identifier (branch
// nodes only).
func (n Node) BranchSubNodeIdentifierAt(i int) (uint64, error) {
	return n.fieldAt(i, n.fieldWidth())
}
