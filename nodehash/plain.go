package nodehash

import (
	"crypto/sha256"

	"github.com/forestrie/go-merklestream/merklestream"
)

// Plain hashes leaves as H(data) and parents as H(left.hash || right.hash)
type Plain struct {
	New  HashFactory
	name string
}

func NewPlainSHA256() Plain {
	return Plain{New: sha256.New, name: SchemeSHA256}
}

func (p Plain) Name() string { return p.name }

func (p Plain) HashLeaf(leaf merklestream.Node, _ []merklestream.Node) ([]byte, error) {
	h := p.New()
	h.Write(leaf.Data)
	return h.Sum(nil), nil
}

func (p Plain) HashParent(left, right merklestream.Node) ([]byte, error) {
	h := p.New()
	h.Write(left.Hash)
	h.Write(right.Hash)
	return h.Sum(nil), nil
}

// TreeHash returns the hash of a single root unchanged, otherwise the hash
// of the root hashes concatenated in position order.
func (p Plain) TreeHash(roots []merklestream.Node) ([]byte, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	if len(roots) == 1 {
		return append([]byte(nil), roots[0].Hash...), nil
	}
	h := p.New()
	for _, r := range roots {
		h.Write(r.Hash)
	}
	return h.Sum(nil), nil
}
