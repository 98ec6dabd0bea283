package checkpoint

import (
	"crypto"
	"fmt"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/forestrie/go-merklestream/flattree"
	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/veraison/go-cose"
)

// TreeHasher computes the single digest committing to a forest of roots
type TreeHasher interface {
	TreeHash(roots []merklestream.Node) ([]byte, error)
}

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// DecodeSignedState decodes the TreeState values from the signed message.
// See VerifySignedState for a description of how to verify it.
func DecodeSignedState(
	codec dtcbor.CBORCodec, msg []byte,
) (*dtcose.CoseSign1Message, TreeState, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(msg, newCheckpointDecOptions()...)
	if err != nil {
		return nil, TreeState{}, err
	}

	var unverifiedState TreeState
	err = codec.UnmarshalInto(signed.Payload, &unverifiedState)
	if err != nil {
		return nil, TreeState{}, err
	}
	return signed, unverifiedState, nil
}

// VerifySignedState applies the provided state to the signed message and
// verifies the result.
//
// Verification of a signed state is a 3 step process:
//  1. Use DecodeSignedState to obtain the TreeState from the signed message.
//     This state will not verify as the root hash was removed after signing.
//  2. Use TreeState.Blocks to obtain the roots of the stream at that size and
//     compute their tree hash.
//  3. Set TreeState.RootHash and call this function to complete the verification.
//
// keyProvider is typically dtcose.NewCWTPublicKeyProvider(signed), which
// uses the key from the message's own CWT claims, or
// dtcose.NewPublicKeyProvider(signed, key) for a key known by other means.
// VerifyFromRoots does steps 2 and 3 given the roots.
func VerifySignedState(
	codec dtcbor.CBORCodec, keyProvider publicKeyProvider, signed *dtcose.CoseSign1Message,
	unverifiedState TreeState, external []byte) error {

	var err error
	signed.Payload, err = codec.MarshalCBOR(unverifiedState)
	if err != nil {
		return err
	}
	return signed.VerifyWithProvider(keyProvider, external)
}

// VerifyFromRoots checks roots are the full roots for the signed block count,
// recomputes the root hash from them and verifies the signature. It returns
// the verified state.
//
// If publicKey is nil the confirmation key in the message's CWT claims is
// used. That only shows the message is intact, the caller must still trust
// the key for the issuer.
func VerifyFromRoots(
	codec dtcbor.CBORCodec, publicKey crypto.PublicKey, msg []byte,
	hasher TreeHasher, roots []merklestream.Node, external []byte) (TreeState, error) {

	signed, state, err := DecodeSignedState(codec, msg)
	if err != nil {
		return TreeState{}, err
	}

	want, err := flattree.FullRoots(2 * state.Blocks)
	if err != nil {
		return TreeState{}, err
	}
	if len(want) != len(roots) {
		return TreeState{}, fmt.Errorf("%w: %d roots for %d blocks", ErrStateMismatch, len(roots), state.Blocks)
	}
	for i, r := range roots {
		if r.Index != want[i] {
			return TreeState{}, fmt.Errorf("%w: root %d at %d, expected %d", ErrStateMismatch, i, r.Index, want[i])
		}
	}

	state.RootHash, err = hasher.TreeHash(roots)
	if err != nil {
		return TreeState{}, err
	}

	var keyProvider publicKeyProvider = dtcose.NewCWTPublicKeyProvider(signed)
	if publicKey != nil {
		keyProvider = dtcose.NewPublicKeyProvider(signed, publicKey)
	}
	if err = VerifySignedState(codec, keyProvider, signed, state, external); err != nil {
		return TreeState{}, err
	}
	return state, nil
}
