package ledger

import (
	"context"
	"time"

	"tidal-client/types"

	"cosmossdk.io/math"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("ledger")

// Ledger is the value-transfer and token-issuance collaborator. The
// orchestration core only depends on this narrow contract; transaction
// signing internals live behind the implementation.
type Ledger interface {
	// CreateToken mints a new token contract seeded with a blob referencing
	// the metadata index location. The returned address is syntactically
	// valid or the call errors.
	CreateToken(ctx context.Context, blob string, creator string, economics types.TokenEconomics) (string, error)

	// BalanceOf returns the consumer balance in token base units.
	BalanceOf(ctx context.Context, token string, address string) (math.Int, error)

	// PreviousValidOrder returns a reusable receipt for the same
	// (did, service index, consumer), or nil when no order is inside its
	// validity window.
	PreviousValidOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, timeout time.Duration, consumer string) (*types.OrderReceipt, error)

	// StartOrder commits the payment and returns its receipt.
	StartOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, feeCollector string, consumer string) (*types.OrderReceipt, error)
}
