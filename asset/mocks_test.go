package asset

import (
	"context"
	"sync"
	"time"

	"tidal-client/types"

	"cosmossdk.io/math"
	"golang.org/x/xerrors"
)

type fakeLedger struct {
	lk sync.Mutex

	createAddr  string
	createErr   error
	createCalls int

	balance math.Int

	prev       *types.OrderReceipt
	recordPrev bool // mimic a ledger that reports committed orders back

	startErr   error
	startCalls int
}

func (f *fakeLedger) CreateToken(ctx context.Context, blob string, creator string, economics types.TokenEconomics) (string, error) {
	f.lk.Lock()
	defer f.lk.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createAddr, nil
}

func (f *fakeLedger) BalanceOf(ctx context.Context, token string, address string) (math.Int, error) {
	f.lk.Lock()
	defer f.lk.Unlock()
	return f.balance, nil
}

func (f *fakeLedger) PreviousValidOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, timeout time.Duration, consumer string) (*types.OrderReceipt, error) {
	f.lk.Lock()
	defer f.lk.Unlock()
	if f.prev != nil && f.prev.Did == didStr && f.prev.ServiceIndex == serviceIndex && f.prev.Consumer == consumer {
		receipt := *f.prev
		return &receipt, nil
	}
	return nil, nil
}

func (f *fakeLedger) StartOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, feeCollector string, consumer string) (*types.OrderReceipt, error) {
	f.lk.Lock()
	defer f.lk.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	receipt := &types.OrderReceipt{
		TxHash:       xid(f.startCalls),
		Did:          didStr,
		ServiceIndex: serviceIndex,
		Consumer:     consumer,
		Amount:       amount,
		Timeout:      time.Hour,
		CreatedAt:    time.Now(),
	}
	if f.recordPrev {
		f.prev = receipt
	}
	return receipt, nil
}

func xid(n int) string {
	return "0xtx-" + string(rune('0'+n))
}

type initCall struct {
	did          string
	serviceIndex int
	serviceType  types.ServiceType
	consumer     string
}

type fakeProvider struct {
	encryptBlob  string
	encryptErr   error
	encryptCalls int

	quote    *types.OrderQuote
	quoteErr error
	lastInit *initCall

	downloadErr   error
	downloadCalls int
	lastDownload  *types.DownloadRequest
}

func (f *fakeProvider) Encrypt(ctx context.Context, assetID string, files []types.FileMeta, publisher string) (string, error) {
	f.encryptCalls++
	if f.encryptErr != nil {
		return "", f.encryptErr
	}
	return f.encryptBlob, nil
}

func (f *fakeProvider) Initialize(ctx context.Context, didStr string, serviceIndex int, serviceType types.ServiceType, consumer string) (*types.OrderQuote, error) {
	f.lastInit = &initCall{did: didStr, serviceIndex: serviceIndex, serviceType: serviceType, consumer: consumer}
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	if f.quote == nil {
		return nil, nil
	}
	quote := *f.quote
	return &quote, nil
}

func (f *fakeProvider) Download(ctx context.Context, req *types.DownloadRequest) error {
	f.downloadCalls++
	f.lastDownload = req
	return f.downloadErr
}

type fakeIndex struct {
	records      map[string]*types.AssetRecord
	publishErr   error
	publishCalls int
	updateCalls  int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{records: make(map[string]*types.AssetRecord)}
}

func (f *fakeIndex) Publish(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error {
	f.publishCalls++
	if f.publishErr != nil {
		return f.publishErr
	}
	clone := *record
	f.records[didStr] = &clone
	return nil
}

func (f *fakeIndex) Update(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error {
	f.updateCalls++
	if _, ok := f.records[didStr]; !ok {
		return xerrors.Errorf("no record for %s", didStr)
	}
	clone := *record
	f.records[didStr] = &clone
	return nil
}

func (f *fakeIndex) Resolve(ctx context.Context, didStr string) (*types.AssetRecord, error) {
	record, ok := f.records[didStr]
	if !ok {
		return nil, types.Wrapf(types.ErrResolveFailed, "no record for %s", didStr)
	}
	clone := *record
	return &clone, nil
}
