package nodestore

import (
	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/forestrie/go-merklestream/merklestream"
)

// nodeRecord is the stored form of a node. Integer keys keep the encoding
// compact.
type nodeRecord struct {
	Index  uint64 `cbor:"1,keyasint"`
	Parent uint64 `cbor:"2,keyasint"`
	Hash   []byte `cbor:"3,keyasint"`
	Data   []byte `cbor:"4,keyasint,omitempty"`
	Size   uint64 `cbor:"5,keyasint"`
}

// Codec encodes nodes as deterministic CBOR, the same node always produces
// the same bytes.
type Codec struct {
	cbor dtcbor.CBORCodec
}

func NewCodec() (Codec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return Codec{}, err
	}
	return Codec{cbor: codec}, nil
}

func (c *Codec) EncodeNode(n merklestream.Node) ([]byte, error) {
	return c.cbor.MarshalCBOR(nodeRecord{
		Index:  n.Index,
		Parent: n.Parent,
		Hash:   n.Hash,
		Data:   n.Data,
		Size:   n.Size,
	})
}

func (c *Codec) DecodeNode(b []byte) (merklestream.Node, error) {
	var rec nodeRecord
	if err := c.cbor.UnmarshalInto(b, &rec); err != nil {
		return merklestream.Node{}, err
	}
	n := merklestream.Node{
		Index:  rec.Index,
		Parent: rec.Parent,
		Hash:   rec.Hash,
		Data:   rec.Data,
		Size:   rec.Size,
	}
	// empty blocks are omitted from the record, but leaves always have data
	if n.IsLeaf() && n.Data == nil {
		n.Data = []byte{}
	}
	return n, nil
}
