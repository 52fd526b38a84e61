package did

import (
	"encoding/hex"
	"strings"

	"tidal-client/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	Method = "tidal"
	Prefix = "did:" + Method + ":"
)

// Derive maps a token contract address to its decentralized identifier. The
// mapping is deterministic: the same address always yields the same DID.
func Derive(tokenAddress string) (string, error) {
	if !common.IsHexAddress(tokenAddress) {
		return "", types.Wrapf(types.ErrInvalidAddress, "%s", tokenAddress)
	}
	addr := common.HexToAddress(tokenAddress)
	digest := crypto.Keccak256(addr.Bytes())
	return Prefix + hex.EncodeToString(digest), nil
}

// Parse returns the method-specific identifier of a DID.
func Parse(did string) (string, error) {
	if !strings.HasPrefix(did, Prefix) {
		return "", types.Wrapf(types.ErrInvalidAddress, "not a %s DID: %s", Method, did)
	}
	id := strings.TrimPrefix(did, Prefix)
	if _, err := hex.DecodeString(id); err != nil || len(id) != 64 {
		return "", types.Wrapf(types.ErrInvalidAddress, "malformed DID identifier: %s", did)
	}
	return id, nil
}

func IsValid(did string) bool {
	_, err := Parse(did)
	return err == nil
}
