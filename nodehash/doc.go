// Package nodehash provides the digest schemes used to hash stream nodes.
//
// Plain hashes leaves as H(data) and parents as H(left || right). It has no
// domain separation and exists for compatibility with simple trees.
//
// Typed commits every digest to the node kind and the number of bytes the
// node covers:
//
//	leaf   = H(0x00 || u64be(size) || data)
//	parent = H(0x01 || u64be(left.size + right.size) || left.hash || right.hash)
//	tree   = H(0x02 || for each root: root.hash || u64be(root.index) || u64be(root.size))
//
// The tree hash commits to the whole forest, and so to every block appended
// so far, in a single digest.
package nodehash
