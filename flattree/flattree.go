package flattree

// Index returns the flat position of the node at depth with the given offset.
// Offsets count nodes at the same depth from the left, starting at zero.
func Index(depth, offset uint64) uint64 {
	return offset<<(depth+1) | (uint64(1)<<depth - 1)
}

// Depth returns the height of the node at position i. Leaves are depth 0.
func Depth(i uint64) uint64 {
	return TrailingOnes(i)
}

// Offset returns the left to right position of i amongst nodes of the same
// depth.
func Offset(i uint64) uint64 {
	return i >> (Depth(i) + 1)
}

// IsLeaf is true for the even positions.
func IsLeaf(i uint64) bool {
	return i&1 == 0
}

// Parent returns the position of the parent of i.
//
// This is the indexing function the stream generator depends on: Parent(a) ==
// Parent(b) if and only if a and b are siblings.
//
//	Parent(0) == 1, Parent(2) == 1, Parent(1) == 3, Parent(5) == 3
func Parent(i uint64) uint64 {
	depth := Depth(i)
	return Index(depth+1, (i>>(depth+1))>>1)
}

// Sibling returns the position of the other child of Parent(i)
func Sibling(i uint64) uint64 {
	depth := Depth(i)
	return Index(depth, (i>>(depth+1))^1)
}

// Children returns the left and right child positions of i. ok is false for
// leaves, which have no children.
func Children(i uint64) (left uint64, right uint64, ok bool) {
	if IsLeaf(i) {
		return 0, 0, false
	}
	depth := Depth(i)
	offset := Offset(i) * 2
	return Index(depth-1, offset), Index(depth-1, offset+1), true
}

// LeftSpan returns the left most leaf position covered by the subtree rooted
// at i. For leaves this is i.
func LeftSpan(i uint64) uint64 {
	depth := Depth(i)
	if depth == 0 {
		return i
	}
	return Offset(i) * (uint64(2) << depth)
}

// RightSpan returns the right most leaf position covered by the subtree rooted
// at i. For leaves this is i.
func RightSpan(i uint64) uint64 {
	depth := Depth(i)
	if depth == 0 {
		return i
	}
	return (Offset(i)+1)*(uint64(2)<<depth) - 2
}

// Spans returns LeftSpan(i) and RightSpan(i)
func Spans(i uint64) (uint64, uint64) {
	return LeftSpan(i), RightSpan(i)
}

// Count returns the number of nodes, interior and leaf, in the subtree rooted
// at i.
func Count(i uint64) uint64 {
	return (uint64(2) << Depth(i)) - 1
}

// LeafCount returns the number of leaves in the subtree rooted at i.
func LeafCount(i uint64) uint64 {
	return uint64(1) << Depth(i)
}

// FullRoots returns the roots of the minimal forest of perfect subtrees that
// covers every leaf strictly before position i. The roots are listed in
// ascending position order, which is also descending height order. i must be
// a leaf position, typically 2 * (number of leaves).
//
// Given the tree below, FullRoots(10) returns [3, 8]
//
//	2        3
//	       /   \
//	1    1       5      9
//	    / \     / \    / \
//	0  0   2   4   6  8   10
func FullRoots(i uint64) ([]uint64, error) {
	if !IsLeaf(i) {
		return nil, ErrNotLeaf
	}

	leaves := i >> 1
	var roots []uint64
	offset := uint64(0)
	for leaves > 0 {
		// the largest perfect tree that fits in the remaining leaves
		factor := uint64(1) << Log2Uint64(leaves)
		roots = append(roots, offset+factor-1)
		offset += 2 * factor
		leaves -= factor
	}
	return roots, nil
}
