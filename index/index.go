package index

import (
	"context"

	"tidal-client/types"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("index")

// Index is the searchable store of published asset records.
type Index interface {
	// Publish stores a new record under its DID, keyed by the owner identity.
	Publish(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error

	// Update overwrites the record stored under an existing DID.
	Update(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error

	// Resolve fetches the record stored under a DID.
	Resolve(ctx context.Context, didStr string) (*types.AssetRecord, error)
}
