package nodehash

import (
	"fmt"
	"hash"

	"github.com/forestrie/go-merklestream/merklestream"
	"golang.org/x/crypto/blake2b"
)

const (
	SchemeSHA256      = "sha256"
	SchemeSHA256Typed = "sha256-typed"
	SchemeBLAKE2b     = "blake2b"
)

// HashFactory returns a new, reset, hasher
type HashFactory func() hash.Hash

// Scheme is a node hasher which can also commit to a whole forest.
type Scheme interface {
	merklestream.Hasher
	TreeHash(roots []merklestream.Node) ([]byte, error)

	// Name is the name ByName resolves to this scheme. Stores record it so
	// that a stream is only ever resumed with the scheme that built it.
	Name() string
}

func newBLAKE2b256() hash.Hash {
	// an unkeyed blake2b never fails to initialise
	h, _ := blake2b.New256(nil)
	return h
}

// ByName returns the scheme registered under name
func ByName(name string) (Scheme, error) {
	switch name {
	case SchemeSHA256:
		return NewPlainSHA256(), nil
	case SchemeSHA256Typed:
		return NewTypedSHA256(), nil
	case SchemeBLAKE2b:
		return NewTypedBLAKE2b256(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// Names lists the schemes ByName accepts
func Names() []string {
	return []string{SchemeSHA256, SchemeSHA256Typed, SchemeBLAKE2b}
}
