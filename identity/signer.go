package identity

import (
	"context"
	"strings"

	"tidal-client/types"

	"github.com/ethereum/go-ethereum/crypto"
)

// Signer produces a signature over a record checksum on behalf of the
// publisher identity. Implementations must fail on an invalid credential
// rather than returning a garbage signature.
type Signer interface {
	Sign(ctx context.Context, digest []byte, credential string) ([]byte, error)
}

// KeySigner signs with a local secp256k1 private key supplied as the
// credential (hex encoded, 0x prefix optional).
type KeySigner struct{}

func NewKeySigner() KeySigner {
	return KeySigner{}
}

func (KeySigner) Sign(ctx context.Context, digest []byte, credential string) ([]byte, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(credential, "0x"))
	if err != nil {
		return nil, types.Wrap(types.ErrSigningFailed, err)
	}
	sig, err := crypto.Sign(crypto.Keccak256(digest), key)
	if err != nil {
		return nil, types.Wrap(types.ErrSigningFailed, err)
	}
	return sig, nil
}

// Recover returns the address that produced sig over digest.
func Recover(digest []byte, sig []byte) (string, error) {
	pub, err := crypto.SigToPub(crypto.Keccak256(digest), sig)
	if err != nil {
		return "", types.Wrap(types.ErrProofMismatch, err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// AddressOf derives the address controlled by a private key credential.
func AddressOf(credential string) (string, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(credential, "0x"))
	if err != nil {
		return "", types.Wrap(types.ErrSigningFailed, err)
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}
