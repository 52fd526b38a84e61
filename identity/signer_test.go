package identity

import (
	"context"
	"encoding/hex"
	"testing"

	"tidal-client/types"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	credential := "0x" + hex.EncodeToString(crypto.FromECDSA(key))

	signer := NewKeySigner()
	digest := []byte("bafy-checksum-of-record")

	sig, err := signer.Sign(context.Background(), digest, credential)
	require.NoError(t, err)

	addr, err := Recover(digest, sig)
	require.NoError(t, err)

	expected, err := AddressOf(credential)
	require.NoError(t, err)
	require.Equal(t, expected, addr)

	// tampered digest recovers a different identity
	other, err := Recover([]byte("some-other-checksum"), sig)
	require.NoError(t, err)
	require.NotEqual(t, expected, other)
}

func TestSignInvalidCredential(t *testing.T) {
	signer := NewKeySigner()
	_, err := signer.Sign(context.Background(), []byte("digest"), "not-a-key")
	require.ErrorIs(t, err, types.ErrSigningFailed)

	_, err = AddressOf("")
	require.ErrorIs(t, err, types.ErrSigningFailed)
}
