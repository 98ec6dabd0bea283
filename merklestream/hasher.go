package merklestream

// Hasher produces the digests for new nodes. Implementations must be
// deterministic: the same inputs always give the same digest.
//
// A Hasher may fail, for example when it is backed by an external
// cryptographic provider. Failures abort the append that triggered them and
// leave the generator as it was.
type Hasher interface {
	// HashLeaf returns the digest of a new leaf. leaf.Hash is not yet set.
	// roots is the forest as it was before the leaf was added, and is
	// provided so that schemes which bind a leaf to its position in the tree
	// can do so. Neither argument may be retained or modified.
	HashLeaf(leaf Node, roots []Node) ([]byte, error)

	// HashParent returns the digest of the parent of two sibling nodes, left
	// being the lower positioned.
	HashParent(left, right Node) ([]byte, error)
}

// HasherFuncs adapts a pair of ordinary functions to the Hasher interface.
type HasherFuncs struct {
	Leaf   func(leaf Node, roots []Node) ([]byte, error)
	Parent func(left, right Node) ([]byte, error)
}

func (h HasherFuncs) HashLeaf(leaf Node, roots []Node) ([]byte, error) {
	return h.Leaf(leaf, roots)
}

func (h HasherFuncs) HashParent(left, right Node) ([]byte, error) {
	return h.Parent(left, right)
}
