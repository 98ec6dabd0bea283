package nodehash

import (
	"crypto/sha256"

	"github.com/forestrie/go-merklestream/merklestream"
)

// Node type prefixes, each digest starts with exactly one of these.
const (
	LeafType   = byte(0x00)
	ParentType = byte(0x01)
	RootType   = byte(0x02)
)

// Typed is the domain separated scheme described in the package docs
type Typed struct {
	New  HashFactory
	name string
}

func NewTypedSHA256() Typed {
	return Typed{New: sha256.New, name: SchemeSHA256Typed}
}

func NewTypedBLAKE2b256() Typed {
	return Typed{New: newBLAKE2b256, name: SchemeBLAKE2b}
}

func (t Typed) Name() string { return t.name }

func (t Typed) HashLeaf(leaf merklestream.Node, _ []merklestream.Node) ([]byte, error) {
	h := t.New()
	h.Write([]byte{LeafType})
	hashWriteUint64(h, leaf.Size)
	h.Write(leaf.Data)
	return h.Sum(nil), nil
}

func (t Typed) HashParent(left, right merklestream.Node) ([]byte, error) {
	if left.Index > right.Index {
		left, right = right, left
	}
	h := t.New()
	h.Write([]byte{ParentType})
	hashWriteUint64(h, left.Size+right.Size)
	h.Write(left.Hash)
	h.Write(right.Hash)
	return h.Sum(nil), nil
}

func (t Typed) TreeHash(roots []merklestream.Node) ([]byte, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	h := t.New()
	h.Write([]byte{RootType})
	for _, r := range roots {
		h.Write(r.Hash)
		hashWriteUint64(h, r.Index)
		hashWriteUint64(h, r.Size)
	}
	return h.Sum(nil), nil
}
