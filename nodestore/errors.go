package nodestore

import "errors"

var (
	ErrNotFound       = errors.New("node not found")
	ErrStreamNotFound = errors.New("stream not found")
	ErrStreamExists   = errors.New("stream already exists")
	ErrNodeExists     = errors.New("a node is already stored at that position")
	ErrBlocksRegress  = errors.New("the block count can not go backwards")
)
