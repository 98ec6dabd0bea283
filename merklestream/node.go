package merklestream

import "github.com/forestrie/go-merklestream/flattree"

// Node is a finalised vertex of the tree. The generator never modifies a node
// after emitting it. Nodes from Next are independent copies; those from
// Generator.Roots share Hash and Data with the generator and are read only.
type Node struct {
	// Index is the flat tree position of the node
	Index uint64
	// Parent is the flat tree position of the node's parent
	Parent uint64
	Hash   []byte
	// Data is the block content for leaves and nil for interior nodes. An empty
	// block has non nil, zero length, Data.
	Data []byte
	// Size is the block length for leaves, and the sum of both children's
	// sizes for interior nodes.
	Size uint64
}

// IsLeaf is true if the node was created directly from an appended block.
func (n Node) IsLeaf() bool {
	return flattree.IsLeaf(n.Index)
}

// Clone returns a deep copy of n which shares no storage with it.
func (n Node) Clone() Node {
	c := n
	c.Hash = cloneBytes(n.Hash)
	c.Data = cloneBytes(n.Data)
	return c
}

// cloneBytes copies b, preserving the distinction between nil and empty.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
