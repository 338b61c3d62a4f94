package localdesc

import (
	"fmt"
)

// maxDepth bounds the recursive node walk the same way spec.md §9 asks the
// BTH walk to be depth-guarded (table depth is bounded in practice).
const maxDepth = 32

// NodeSource fetches the raw bytes of a local-descriptor tree node given its
// node identifier. A node identifier is itself resolved the same way any
// other data identifier is (through a BlockSource/OffsetsIndex pair); the
// resolver only needs the result.
type NodeSource interface {
	ReadNode(nodeID uint64) ([]byte, error)
}

// Resolver is the default LocalDescriptorResolver (spec.md §9): given a
// root node identifier, it walks the tree to resolve a descriptor
// identifier to (data_identifier, local_descriptors_identifier).
type Resolver struct {
	source  NodeSource
	rootID  uint64
	is64Bit bool
}

// NewResolver builds a Resolver rooted at rootID.
func NewResolver(source NodeSource, rootID uint64, is64Bit bool) *Resolver {
	return &Resolver{source: source, rootID: rootID, is64Bit: is64Bit}
}

// Resolve implements table.LocalDescriptorResolver: looks up id in the
// tree, returning its data identifier and nested local-descriptors
// identifier. ok is false when id is absent from the tree (a non-fatal
// condition the table core turns into a MissingDataDescriptor flag); err is
// non-nil only on a genuine I/O or format failure.
func (r *Resolver) Resolve(id uint32) (dataID uint64, localDescriptorsID uint32, ok bool, err error) {
	return r.resolve(r.rootID, uint64(id), 0)
}

func (r *Resolver) resolve(nodeID uint64, target uint64, depth int) (uint64, uint32, bool, error) {
	if depth > maxDepth {
		return 0, 0, false, fmt.Errorf("localdesc: recursion depth exceeded at node %#x", nodeID)
	}
	raw, err := r.source.ReadNode(nodeID)
	if err != nil {
		return 0, 0, false, fmt.Errorf("localdesc: read node %#x: %w", nodeID, err)
	}
	node, err := Parse(raw, r.is64Bit)
	if err != nil {
		return 0, 0, false, err
	}
	if node.Count() == 0 {
		return 0, 0, false, fmt.Errorf("localdesc: node %#x has zero entries", nodeID)
	}

	if node.IsLeaf() {
		for i := 0; i < node.Count(); i++ {
			ident, err := node.LeafIdentifierAt(i)
			if err != nil {
				return 0, 0, false, err
			}
			if ident != target {
				continue
			}
			dataID, err := node.LeafDataIdentifierAt(i)
			if err != nil {
				return 0, 0, false, err
			}
			localID, err := node.LeafLocalDescriptorsIdentifierAt(i)
			if err != nil {
				return 0, 0, false, err
			}
			return dataID, uint32(localID), true, nil
		}
		return 0, 0, false, nil
	}

	for i := 0; i < node.Count(); i++ {
		ident, err := node.BranchIdentifierAt(i)
		if err != nil {
			return 0, 0, false, err
		}
		if ident < target && i != node.Count()-1 {
			continue
		}
		child, err := node.BranchSubNodeIdentifierAt(i)
		if err != nil {
			return 0, 0, false, err
		}
		return r.resolve(child, target, depth+1)
	}
	return 0, 0, false, nil
}
