package nodehash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

// The typed scheme commits to sizes and positions as 8 byte big endian
// values, which must be identical across platforms.
func TestHashWriteUint64(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{1, []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{0x0102, []byte{0, 0, 0, 0, 0, 0, 1, 2}},
		{0xff00000000000001, []byte{0xff, 0, 0, 0, 0, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(hex.EncodeToString(tt.want), func(t *testing.T) {
			h := sha256.New()
			hashWriteUint64(h, tt.value)
			assert.Equal(t, sum256(tt.want), h.Sum(nil))
		})
	}
}

func sum256(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func appendAll(t *testing.T, s Scheme, blocks ...string) *merklestream.Generator {
	g, err := merklestream.NewGenerator(s)
	require.NoError(t, err)
	for _, b := range blocks {
		_, err := g.Next([]byte(b))
		require.NoError(t, err)
	}
	return g
}

func TestPlain(t *testing.T) {
	g, err := merklestream.NewGenerator(NewPlainSHA256())
	require.NoError(t, err)

	nodes, err := g.Next([]byte("Hello"))
	require.NoError(t, err)
	assert.Equal(t, sum256([]byte("Hello")), nodes[0].Hash)

	nodes, err = g.Next([]byte("World"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, sum256([]byte("World")), nodes[0].Hash)
	assert.Equal(t, sum256(sum256([]byte("Hello")), sum256([]byte("World"))), nodes[1].Hash)

	root, err := NewPlainSHA256().TreeHash(g.Roots())
	require.NoError(t, err)
	assert.Equal(t, nodes[1].Hash, root)
}

func TestPlain_TreeHashMultipleRoots(t *testing.T) {
	g := appendAll(t, NewPlainSHA256(), "a", "b", "c")
	roots := g.Roots()
	require.Len(t, roots, 2)

	got, err := NewPlainSHA256().TreeHash(roots)
	require.NoError(t, err)
	assert.Equal(t, sum256(roots[0].Hash, roots[1].Hash), got)
}

func TestTyped(t *testing.T) {
	typed := NewTypedSHA256()
	g := appendAll(t, typed, "Hello")

	leaf := g.Roots()[0]
	assert.Equal(t,
		sum256([]byte{LeafType}, []byte{0, 0, 0, 0, 0, 0, 0, 5}, []byte("Hello")),
		leaf.Hash)

	nodes, err := g.Next([]byte("World!"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	parent := nodes[1]
	assert.Equal(t,
		sum256([]byte{ParentType}, []byte{0, 0, 0, 0, 0, 0, 0, 11}, leaf.Hash, nodes[0].Hash),
		parent.Hash)

	// argument order does not matter, the lower position is always first
	swapped, err := typed.HashParent(nodes[0], leaf)
	require.NoError(t, err)
	assert.Equal(t, parent.Hash, swapped)

	tree, err := typed.TreeHash(g.Roots())
	require.NoError(t, err)
	assert.Equal(t,
		sum256([]byte{RootType}, parent.Hash,
			[]byte{0, 0, 0, 0, 0, 0, 0, 1},
			[]byte{0, 0, 0, 0, 0, 0, 0, 11}),
		tree)
}

func TestTyped_DomainSeparation(t *testing.T) {
	// a leaf whose content is the preimage of a parent collides with that
	// parent under the plain scheme, but not under the typed one
	tests := []struct {
		name    string
		scheme  Scheme
		collide bool
	}{
		{"plain", NewPlainSHA256(), true},
		{"typed", NewTypedSHA256(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := appendAll(t, tt.scheme, "a").Next([]byte("b"))
			require.NoError(t, err)
			require.Len(t, nodes, 2)
			parent := nodes[1]

			left := appendAll(t, tt.scheme, "a").Roots()[0]
			preimage := append(append([]byte{}, left.Hash...), nodes[0].Hash...)
			forged := appendAll(t, tt.scheme, string(preimage)).Roots()[0]

			assert.Equal(t, tt.collide, bytes.Equal(forged.Hash, parent.Hash))
		})
	}
}

func TestTypedBLAKE2b(t *testing.T) {
	g := appendAll(t, NewTypedBLAKE2b256(), "Hello")
	leaf := g.Roots()[0]

	h, err := blake2b.New256(nil)
	require.NoError(t, err)
	h.Write([]byte{LeafType})
	h.Write([]byte{0, 0, 0, 0, 0, 0, 0, 5})
	h.Write([]byte("Hello"))
	assert.Equal(t, h.Sum(nil), leaf.Hash)
	assert.Len(t, leaf.Hash, 32)
}

func TestTreeHash_TracksEveryBlock(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(name)
			require.NoError(t, err)

			a, err := s.TreeHash(appendAll(t, s, "a", "b", "c", "d", "e").Roots())
			require.NoError(t, err)
			b, err := s.TreeHash(appendAll(t, s, "a", "b", "c", "d", "E").Roots())
			require.NoError(t, err)
			c, err := s.TreeHash(appendAll(t, s, "a", "b", "c", "d", "e").Roots())
			require.NoError(t, err)

			assert.NotEqual(t, a, b)
			assert.Equal(t, a, c)

			_, err = s.TreeHash(nil)
			assert.ErrorIs(t, err, ErrNoRoots)
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Scheme
		wantErr error
	}{
		{SchemeSHA256, NewPlainSHA256(), nil},
		{SchemeSHA256Typed, NewTypedSHA256(), nil},
		{SchemeBLAKE2b, NewTypedBLAKE2b256(), nil},
		{"md5", nil, ErrUnknownScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.name)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			assert.Equal(t, tt.name, got.Name())
		})
	}
}
