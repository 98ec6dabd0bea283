package checkpoint

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veraison/go-cose"
)

// TestGenerateECKey returns a fresh key for tests which need to sign states
func TestGenerateECKey(t *testing.T, curve elliptic.Curve) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

// TestNewSigner returns an ES256 signer and its public key
func TestNewSigner(t *testing.T) (cose.Signer, *ecdsa.PublicKey) {
	key := TestGenerateECKey(t, elliptic.P256())
	signer, err := cose.NewSigner(cose.AlgorithmES256, key)
	require.NoError(t, err)
	return signer, &key.PublicKey
}

func TestNewRootSigner(t *testing.T, issuer string) RootSigner {
	codec, err := NewRootSignerCodec()
	require.NoError(t, err)
	return NewRootSigner(issuer, codec)
}
