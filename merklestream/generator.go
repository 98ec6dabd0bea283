package merklestream

import (
	"fmt"

	"github.com/forestrie/go-merklestream/flattree"
)

// Generator turns a stream of blocks into tree nodes. The zero value is not
// usable, see NewGenerator.
type Generator struct {
	hasher      Hasher
	parentIndex func(uint64) uint64

	// roots are the current forest, ordered by position. No two adjacent
	// entries share a parent between calls to Next.
	roots  []Node
	blocks uint64
}

func NewGenerator(hasher Hasher, opts ...Option) (*Generator, error) {
	if hasher == nil {
		return nil, ErrNilHasher
	}

	options := Options{parentIndex: flattree.Parent}
	for _, o := range opts {
		o(&options)
	}
	if options.parentIndex == nil {
		options.parentIndex = flattree.Parent
	}

	g := &Generator{
		hasher:      hasher,
		parentIndex: options.parentIndex,
	}
	if len(options.roots) == 0 {
		return g, nil
	}

	blocks, err := g.checkRoots(options.roots)
	if err != nil {
		return nil, err
	}
	g.roots = append(make([]Node, 0, len(options.roots)), options.roots...)
	g.blocks = blocks
	return g, nil
}

// checkRoots confirms roots form the full roots forest of some block count
// and returns that count.
func (g *Generator) checkRoots(roots []Node) (uint64, error) {
	last := roots[len(roots)-1]
	blocks := flattree.RightSpan(last.Index)/2 + 1

	want, err := flattree.FullRoots(2 * blocks)
	if err != nil {
		return 0, err
	}
	if len(want) != len(roots) {
		return 0, fmt.Errorf("%w: have %d roots, %d blocks needs %d", ErrInvalidRoots, len(roots), blocks, len(want))
	}
	for i, root := range roots {
		if root.Index != want[i] {
			return 0, fmt.Errorf("%w: root %d is at %d, expected %d", ErrInvalidRoots, i, root.Index, want[i])
		}
		if root.Parent != g.parentIndex(root.Index) {
			return 0, fmt.Errorf("%w: root %d has parent %d, expected %d", ErrInvalidRoots, root.Index, root.Parent, g.parentIndex(root.Index))
		}
		if root.IsLeaf() != (root.Data != nil) {
			return 0, fmt.Errorf("%w: root %d data does not match its kind", ErrInvalidRoots, root.Index)
		}
	}
	return blocks, nil
}

// Next appends one block and returns every node it completes: the new leaf
// first, then any parents in ascending height order.
//
// data is copied, so the caller may reuse its buffer. The returned nodes are
// the caller's own: they share no storage with the generator. If the hasher fails,
// an error wrapping ErrHashFailed is returned and the generator is exactly as
// it was before the call, so the same block may simply be appended again.
func (g *Generator) Next(data []byte) ([]Node, error) {

	index := 2 * g.blocks

	leaf := Node{
		Index:  index,
		Parent: g.parentIndex(index),
		Data:   append(make([]byte, 0, len(data)), data...),
		Size:   uint64(len(data)),
	}

	hash, err := g.hasher.HashLeaf(leaf, g.roots[:len(g.roots):len(g.roots)])
	if err != nil {
		return nil, fmt.Errorf("%w: leaf %d: %w", ErrHashFailed, index, err)
	}
	leaf.Hash = hash

	// The merges are applied to a private copy of the stack, capacity is
	// clipped so the append below never writes into g.roots. The copy is only
	// committed once every parent has been hashed.
	roots := append(g.roots[:len(g.roots):len(g.roots)], leaf)
	nodes := []Node{leaf.Clone()}

	for len(roots) > 1 {
		left := roots[len(roots)-2]
		right := roots[len(roots)-1]
		if left.Parent != right.Parent {
			break
		}

		hash, err := g.hasher.HashParent(left, right)
		if err != nil {
			return nil, fmt.Errorf("%w: parent %d: %w", ErrHashFailed, left.Parent, err)
		}

		parent := Node{
			Index:  left.Parent,
			Parent: g.parentIndex(left.Parent),
			Hash:   hash,
			Size:   left.Size + right.Size,
		}
		roots = append(roots[:len(roots)-2], parent)
		nodes = append(nodes, parent.Clone())
	}

	g.roots = roots
	g.blocks++
	return nodes, nil
}

// Roots returns the current forest, ordered by position. The slice is a copy
// but the nodes' byte slices are shared and must not be modified.
func (g *Generator) Roots() []Node {
	return append([]Node(nil), g.roots...)
}

// Blocks returns the number of blocks successfully appended, including any
// accounted for by WithRoots.
func (g *Generator) Blocks() uint64 {
	return g.blocks
}
