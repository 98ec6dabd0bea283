package merklestream

import "errors"

var (
	ErrNilHasher    = errors.New("a hasher is required")
	ErrHashFailed   = errors.New("the hasher failed to produce a digest")
	ErrInvalidRoots = errors.New("the provided roots are not the full roots of any block count")
)
