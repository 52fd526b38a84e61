package utils

import (
	"github.com/ipfs/go-cid"
	jsoniter "github.com/json-iterator/go"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/xerrors"
)

// map keys must serialize in a stable order so checksums are reproducible
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(obj interface{}) ([]byte, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, xerrors.Errorf("marshal: %w", err)
	}
	return b, nil
}

func Unmarshal(data []byte, obj interface{}) error {
	if err := json.Unmarshal(data, obj); err != nil {
		return xerrors.Errorf("unmarshal: %w", err)
	}
	return nil
}

// Canonicalize rewrites a JSON document into its canonical form: object
// keys sorted, no insignificant whitespace. A record checksummed before
// storage and after a round trip through the index must hash identically.
func Canonicalize(data []byte) ([]byte, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, xerrors.Errorf("canonicalize: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, xerrors.Errorf("canonicalize: %w", err)
	}
	return b, nil
}

func GenerateNonce() string {
	return uuid.NewV4().String()
}

// CalculateChecksum derives the canonical content id of a serialized record.
func CalculateChecksum(content []byte) (cid.Cid, error) {
	pref := cid.Prefix{
		Version:  1,
		Codec:    uint64(multicodec.Raw),
		MhType:   multihash.SHA2_256,
		MhLength: -1, // default length
	}

	contentCid, err := pref.Sum(content)
	if err != nil {
		return cid.Undef, err
	}

	return contentCid, nil
}
