package flattree

import "errors"

var ErrNotLeaf = errors.New("full roots can only be computed for leaf (even) positions")
