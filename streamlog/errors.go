package streamlog

import "errors"

var (
	ErrNoRootSigner   = errors.New("a root signer was not configured for this log")
	ErrSchemeMismatch = errors.New("the stream was built with a different hash scheme")
)
