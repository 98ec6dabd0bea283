package flattree

/*

# Flat tree numbering

A flat tree lays a left balanced binary tree out as a single sequence of
positions. Leaves take the even positions, in append order, and every interior
node sits in the gap between the two halves it covers:

	3              7
	             /   \
	2        3             11
	       /   \          /   \
	1    1       5      9       13
	    / \     / \    / \     /  \
	0  0   2   4   6  8   10  12   14

Reading the positions in binary shows why no pointers are needed. The depth of
a node is the count of trailing 1 bits in its position, and the remaining high
bits are its offset: the left to right count of nodes at that depth.

	index(depth, offset) = offset << (depth + 1) | (1 << depth) - 1

So 5 is 0b101, depth 1 offset 1. Its parent is at depth 2, offset 0, which is
position 3. Its sibling is at depth 1 offset 0, position 1.

Two positions share a parent exactly when they are siblings. Appending to a
tree therefore only needs to compare parent positions of adjacent subtree
roots, never the structure of the tree itself.

Compared with the post order numbering of an MMR, a flat tree position is
independent of the tree size: the position of a leaf is always twice its leaf
index, and adding leaves never moves an existing node.

## Full roots

FullRoots(2n) lists the roots of the smallest forest of perfect subtrees that
covers the first n leaves. The number of roots is the number of set bits in n,
and their depths are the positions of those bits, largest first.

For n = 5 (0b101), the forest is the depth 2 tree rooted at 3 plus the single
leaf at 8:

	FullRoots(10) == [3, 8]

*/
