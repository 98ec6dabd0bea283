package merklestream

// Option configures a Generator at construction
type Option func(*Options)

type Options struct {
	roots       []Node
	parentIndex func(uint64) uint64
}

// WithRoots resumes a generator from the roots of a previously built forest,
// for example one read back from storage. The roots must be exactly the
// nodes at flattree.FullRoots(2 * blocks), in ascending position order, for
// some block count.
func WithRoots(roots []Node) Option {
	return func(o *Options) {
		o.roots = roots
	}
}

// WithParentIndex replaces the function used to find a node's parent
// position. The default is flattree.Parent. Any replacement must give equal
// results for two positions exactly when they are siblings.
func WithParentIndex(parentIndex func(uint64) uint64) Option {
	return func(o *Options) {
		o.parentIndex = parentIndex
	}
}
