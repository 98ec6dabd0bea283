// Package merklestream incrementally builds a binary merkle tree over a
// stream of appended blocks.
//
// Each block becomes a leaf at flat tree position 2 * blockIndex (see package
// flattree). The Generator keeps the roots of the perfect subtrees that cover
// every block appended so far. When the two right most roots share a parent
// position they are combined and the parent takes their place, repeatedly, in
// the same way a carry ripples through a binary counter:
//
//	blocks  roots
//	1       [0]
//	2       [1]        <- 0 and 2 merge into 1
//	3       [1, 4]
//	4       [3]        <- 4 and 6 merge into 5, then 1 and 5 merge into 3
//	5       [3, 8]
//
// Every node is emitted exactly once, at the moment it becomes determinable,
// and is never revisited. The number of roots after n blocks is the number of
// set bits in n.
//
// Hashing is delegated to a Hasher. The generator does no I/O, never blocks
// and holds no locks. Callers appending from more than one goroutine must
// serialise the calls themselves.
package merklestream
