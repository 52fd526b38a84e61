package asset

import (
	"context"
	"sync"

	"tidal-client/document"
	"tidal-client/identity"
	"tidal-client/index"
	"tidal-client/ledger"
	"tidal-client/provider"
	"tidal-client/types"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("asset")

// Identity is the publisher or consumer acting in a workflow.
type Identity struct {
	Address    string
	Credential string
}

// AssetSvcApi is the orchestration surface over the publish, order and
// consume workflows spanning the ledger, provider and metadata index.
type AssetSvcApi interface {
	Publish(ctx context.Context, req PublishRequest) (<-chan types.PublishEvent, <-chan types.PublishResult)
	Order(ctx context.Context, req OrderRequest) (*types.OrderReceipt, error)
	Consume(ctx context.Context, req ConsumeRequest) (string, error)
	ConsumeDirect(ctx context.Context, req DirectConsumeRequest) error
	Resolve(ctx context.Context, didStr string) (*types.AssetRecord, error)
	UpdateMetadata(ctx context.Context, didStr string, attrs map[string]interface{}, publisher Identity) (*types.AssetRecord, error)
	UpdateComputePrivacy(ctx context.Context, didStr string, serviceIndex int, privacy types.ComputePrivacy, publisher Identity) (*types.AssetRecord, error)
}

type AssetSvc struct {
	ledger   ledger.Ledger
	provider provider.Provider
	index    index.Index
	signer   identity.Signer

	indexLocation   string
	strictProof     bool
	serializeOrders bool
	orderLks        keyedMutex
}

type Option func(*AssetSvc)

// WithIndexLocation sets the blob referencing the metadata index location
// that seeds token creation.
func WithIndexLocation(location string) Option {
	return func(s *AssetSvc) { s.indexLocation = location }
}

// WithStrictProof makes resolution fail on a proof mismatch instead of
// logging and proceeding.
func WithStrictProof() Option {
	return func(s *AssetSvc) { s.strictProof = true }
}

// WithOrderSerialization installs a per-(did, service index, consumer) lock
// around the reuse check and the payment. Without it two concurrent orders
// for the same key can both pay, matching the historical behavior.
func WithOrderSerialization() Option {
	return func(s *AssetSvc) { s.serializeOrders = true }
}

func NewAssetSvc(l ledger.Ledger, p provider.Provider, x index.Index, signer identity.Signer, opts ...Option) *AssetSvc {
	s := &AssetSvc{
		ledger:   l,
		provider: p,
		index:    x,
		signer:   signer,
		orderLks: keyedMutex{locks: make(map[string]*keyedLock)},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve fetches an asset record and applies the configured proof
// strictness.
func (s *AssetSvc) Resolve(ctx context.Context, didStr string) (*types.AssetRecord, error) {
	record, err := s.index.Resolve(ctx, didStr)
	if err != nil {
		return nil, err
	}
	if err := document.CheckProof(record, s.strictProof); err != nil {
		return nil, err
	}
	return record, nil
}

// keyedMutex hands out one mutex per order key. Entries are reference
// counted and dropped once the last holder unlocks, so the map stays
// bounded by the number of in-flight orders.
type keyedMutex struct {
	lk    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.lk.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedLock{}
		k.locks[key] = e
	}
	e.refs++
	k.lk.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.lk.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.lk.Unlock()
	}
}
