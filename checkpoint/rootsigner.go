// Package checkpoint produces and checks signed commitments to the state of a
// stream: how many blocks it holds and the tree hash of its roots.
package checkpoint

import (
	"crypto/ecdsa"
	"crypto/rand"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

// TreeState defines the details included in a signed commitment to a stream.
type TreeState struct {
	// The block count fixes the shape of the forest, so a verifier can find
	// the roots this state commits to: flattree.FullRoots(2 * Blocks).
	Blocks   uint64 `cbor:"1,keyasint"`
	RootHash []byte `cbor:"2,keyasint"`
	// Timestamp is the unix time (milliseconds) read at the time the root was
	// signed. Including it allows for the same root to be re-signed.
	Timestamp int64  `cbor:"3,keyasint"`
	StreamID  string `cbor:"4,keyasint"`
}

// RootSigner produces signatures over stream states.
type RootSigner struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewRootSigner(issuer string, cborCodec dtcbor.CBORCodec) RootSigner {
	rs := RootSigner{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
	return rs
}

// Sign1 signs the provided state and returns the encoded COSE Sign1 message.
// The CWT claims in the protected header carry the issuer, the subject and
// publicKey as the confirmation key, so the message can be checked without
// any other record of the signing key.
//
// The root hash is signed but then removed from the published payload, so
// verifiers are forced to recompute it from the stream itself.
func (rs RootSigner) Sign1(
	coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey, subject string, state TreeState, external []byte,
) ([]byte, error) {
	if len(state.RootHash) == 0 {
		return nil, ErrRootHashMissing
	}
	if publicKey == nil {
		return nil, ErrPublicKeyMissing
	}
	payload, err := rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}

	coseHeaders := cose.Headers{
		Protected: cose.ProtectedHeader{
			cose.HeaderLabelAlgorithm: coseSigner.Algorithm(),
			dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
				rs.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
		},
	}

	msg := cose.Sign1Message{
		Headers: coseHeaders,
		Payload: payload,
	}
	err = msg.Sign(rand.Reader, external, coseSigner)
	if err != nil {
		return nil, err
	}

	state.RootHash = nil
	payload, err = rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}
	msg.Payload = payload

	return msg.MarshalCBOR()
}

func NewRootSignerCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}

func newCheckpointDecOptions() []dtcose.SignOption {
	return []dtcose.SignOption{dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts())}
}
