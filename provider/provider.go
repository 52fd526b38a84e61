package provider

import (
	"context"

	"tidal-client/types"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("provider")

// Provider is the off-chain collaborator that encrypts file references,
// quotes service access and hands off decrypted content after payment.
type Provider interface {
	// Encrypt seals the declared file references and returns the opaque
	// blob stored verbatim in the metadata service descriptor.
	Encrypt(ctx context.Context, assetID string, files []types.FileMeta, publisher string) (string, error)

	// Initialize obtains a price quote for one service. A nil quote with a
	// nil error signals the service is unavailable.
	Initialize(ctx context.Context, didStr string, serviceIndex int, serviceType types.ServiceType, consumer string) (*types.OrderQuote, error)

	// Download retrieves the paid content. Transport failures propagate to
	// the caller.
	Download(ctx context.Context, req *types.DownloadRequest) error
}
