package nodehash

import "errors"

var (
	ErrUnknownScheme = errors.New("unknown hash scheme")
	ErrNoRoots       = errors.New("a tree hash requires at least one root")
)
