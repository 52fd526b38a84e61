package ledger

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"tidal-client/types"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MemoryLedger is an in-process ledger used by the dev mode of the CLI and
// by workflow tests. Token addresses and tx hashes are derived
// deterministically from a creation counter.
type MemoryLedger struct {
	lk       sync.Mutex
	nonce    uint64
	balances map[string]map[string]math.Int
	orders   []types.OrderReceipt
	now      func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]map[string]math.Int),
		now:      time.Now,
	}
}

func (m *MemoryLedger) nextDigest(tag string) []byte {
	m.nonce++
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], m.nonce)
	return crypto.Keccak256([]byte(tag), seed[:])
}

func (m *MemoryLedger) CreateToken(ctx context.Context, blob string, creator string, economics types.TokenEconomics) (string, error) {
	m.lk.Lock()
	defer m.lk.Unlock()

	addr := common.BytesToAddress(m.nextDigest("token" + creator + blob)).Hex()
	m.balances[addr] = map[string]math.Int{
		creator: economics.Cap,
	}
	log.Debugf("created token %s (%s) for %s", addr, economics.Symbol, creator)
	return addr, nil
}

// Mint credits a balance directly, for funding dev accounts.
func (m *MemoryLedger) Mint(token string, address string, amount math.Int) {
	m.lk.Lock()
	defer m.lk.Unlock()

	if m.balances[token] == nil {
		m.balances[token] = make(map[string]math.Int)
	}
	cur, ok := m.balances[token][address]
	if !ok {
		cur = math.ZeroInt()
	}
	m.balances[token][address] = cur.Add(amount)
}

func (m *MemoryLedger) BalanceOf(ctx context.Context, token string, address string) (math.Int, error) {
	m.lk.Lock()
	defer m.lk.Unlock()

	holders, ok := m.balances[token]
	if !ok {
		return math.Int{}, types.Wrapf(types.ErrTxProcessFailed, "unknown token %s", token)
	}
	bal, ok := holders[address]
	if !ok {
		return math.ZeroInt(), nil
	}
	return bal, nil
}

func (m *MemoryLedger) PreviousValidOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, timeout time.Duration, consumer string) (*types.OrderReceipt, error) {
	m.lk.Lock()
	defer m.lk.Unlock()

	now := m.now()
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if o.Did != didStr || o.ServiceIndex != serviceIndex || o.Consumer != consumer {
			continue
		}
		if !o.Amount.Equal(amount) {
			continue
		}
		// the service timeout overrides the receipt's own window when given
		window := timeout
		if window == 0 {
			window = o.Timeout
		}
		if now.Before(o.CreatedAt.Add(window)) {
			receipt := o
			return &receipt, nil
		}
	}
	return nil, nil
}

func (m *MemoryLedger) StartOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, feeCollector string, consumer string) (*types.OrderReceipt, error) {
	m.lk.Lock()
	defer m.lk.Unlock()

	holders, ok := m.balances[token]
	if !ok {
		return nil, types.Wrapf(types.ErrTxProcessFailed, "unknown token %s", token)
	}
	bal, ok := holders[consumer]
	if !ok || bal.LT(amount) {
		return nil, types.Wrapf(types.ErrTxProcessFailed, "transfer of %s from %s exceeds balance", amount, consumer)
	}
	holders[consumer] = bal.Sub(amount)
	if feeCollector != "" {
		cur, ok := holders[feeCollector]
		if !ok {
			cur = math.ZeroInt()
		}
		holders[feeCollector] = cur.Add(amount)
	}

	receipt := types.OrderReceipt{
		TxHash:       "0x" + hex.EncodeToString(m.nextDigest("order"+didStr+consumer)),
		Did:          didStr,
		ServiceIndex: serviceIndex,
		Consumer:     consumer,
		Amount:       amount,
		Timeout:      DefaultOrderTimeout,
		CreatedAt:    m.now(),
	}
	m.orders = append(m.orders, receipt)
	return &receipt, nil
}

// DefaultOrderTimeout bounds the reuse window of dev mode receipts.
var DefaultOrderTimeout = time.Hour
