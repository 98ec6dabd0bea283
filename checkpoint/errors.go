package checkpoint

import "errors"

var (
	ErrRootHashMissing  = errors.New("the state has no root hash to sign")
	ErrPublicKeyMissing = errors.New("a public key is required for the confirmation claim")
	ErrStateMismatch    = errors.New("the roots provided do not cover the signed block count")
)
