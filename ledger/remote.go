package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"tidal-client/types"
	"tidal-client/utils"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// RemoteLedger talks to a ledger gateway over HTTP. The gateway holds the
// keys and signs the underlying transactions; this client only sequences the
// calls the workflows need.
type RemoteLedger struct {
	base   string
	client *http.Client
}

func NewRemoteLedger(base string, timeout time.Duration) *RemoteLedger {
	return &RemoteLedger{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

type createTokenReq struct {
	Blob    string `json:"blob"`
	Creator string `json:"creator"`
	Cap     string `json:"cap"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	// Nonce lets the gateway deduplicate retried submissions.
	Nonce string `json:"nonce"`
}

type createTokenResp struct {
	Address string `json:"address"`
}

type balanceResp struct {
	Balance string `json:"balance"`
}

type orderReq struct {
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	Did          string `json:"did"`
	ServiceIndex int    `json:"serviceIndex"`
	Timeout      int64  `json:"timeoutSeconds,omitempty"`
	FeeCollector string `json:"feeCollector,omitempty"`
	Consumer     string `json:"consumer"`
	Nonce        string `json:"nonce,omitempty"`
}

type orderResp struct {
	Receipt *receiptBody `json:"receipt"`
}

type receiptBody struct {
	TxHash       string `json:"txHash"`
	Did          string `json:"did"`
	ServiceIndex int    `json:"serviceIndex"`
	Consumer     string `json:"consumer"`
	Amount       string `json:"amount"`
	Timeout      int64  `json:"timeoutSeconds"`
	CreatedAt    int64  `json:"createdAt"`
}

func (r *receiptBody) toReceipt() (*types.OrderReceipt, error) {
	amount, ok := math.NewIntFromString(r.Amount)
	if !ok {
		return nil, types.Wrapf(types.ErrTxProcessFailed, "bad amount in receipt %s: %s", r.TxHash, r.Amount)
	}
	return &types.OrderReceipt{
		TxHash:       r.TxHash,
		Did:          r.Did,
		ServiceIndex: r.ServiceIndex,
		Consumer:     r.Consumer,
		Amount:       amount,
		Timeout:      time.Duration(r.Timeout) * time.Second,
		CreatedAt:    time.Unix(r.CreatedAt, 0),
	}, nil
}

func (l *RemoteLedger) post(ctx context.Context, path string, in interface{}, out interface{}) error {
	body, err := utils.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.base+path, bytes.NewReader(body))
	if err != nil {
		return types.Wrap(types.ErrTxProcessFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return types.Wrap(types.ErrTxProcessFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Wrap(types.ErrTxProcessFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Wrapf(types.ErrTxProcessFailed, "%s returned %d: %s", path, resp.StatusCode, data)
	}
	return utils.Unmarshal(data, out)
}

func (l *RemoteLedger) CreateToken(ctx context.Context, blob string, creator string, economics types.TokenEconomics) (string, error) {
	var out createTokenResp
	err := l.post(ctx, "/api/v1/ledger/token", &createTokenReq{
		Blob:    blob,
		Creator: creator,
		Cap:     economics.Cap.String(),
		Name:    economics.Name,
		Symbol:  economics.Symbol,
		Nonce:   utils.GenerateNonce(),
	}, &out)
	if err != nil {
		return "", err
	}
	if !common.IsHexAddress(out.Address) {
		return "", types.Wrapf(types.ErrTokenCreateFailed, "gateway returned %q", out.Address)
	}
	return out.Address, nil
}

func (l *RemoteLedger) BalanceOf(ctx context.Context, token string, address string) (math.Int, error) {
	var out balanceResp
	path := fmt.Sprintf("/api/v1/ledger/balance?token=%s&address=%s", token, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.base+path, nil)
	if err != nil {
		return math.Int{}, types.Wrap(types.ErrTxProcessFailed, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return math.Int{}, types.Wrap(types.ErrTxProcessFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return math.Int{}, types.Wrap(types.ErrTxProcessFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return math.Int{}, types.Wrapf(types.ErrTxProcessFailed, "balance query returned %d: %s", resp.StatusCode, data)
	}
	if err := utils.Unmarshal(data, &out); err != nil {
		return math.Int{}, err
	}
	bal, ok := math.NewIntFromString(out.Balance)
	if !ok {
		return math.Int{}, types.Wrapf(types.ErrTxProcessFailed, "bad balance %q for %s", out.Balance, address)
	}
	return bal, nil
}

func (l *RemoteLedger) PreviousValidOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, timeout time.Duration, consumer string) (*types.OrderReceipt, error) {
	var out orderResp
	err := l.post(ctx, "/api/v1/ledger/order/previous", &orderReq{
		Token:        token,
		Amount:       amount.String(),
		Did:          didStr,
		ServiceIndex: serviceIndex,
		Timeout:      int64(timeout.Seconds()),
		Consumer:     consumer,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Receipt == nil {
		return nil, nil
	}
	return out.Receipt.toReceipt()
}

func (l *RemoteLedger) StartOrder(ctx context.Context, token string, amount math.Int, didStr string, serviceIndex int, feeCollector string, consumer string) (*types.OrderReceipt, error) {
	var out orderResp
	err := l.post(ctx, "/api/v1/ledger/order/start", &orderReq{
		Token:        token,
		Amount:       amount.String(),
		Did:          didStr,
		ServiceIndex: serviceIndex,
		FeeCollector: feeCollector,
		Consumer:     consumer,
		Nonce:        utils.GenerateNonce(),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Receipt == nil {
		return nil, types.Wrapf(types.ErrTxProcessFailed, "order start returned no receipt")
	}
	log.Debugf("order started: tx=%s did=%s service=%d", out.Receipt.TxHash, didStr, serviceIndex)
	return out.Receipt.toReceipt()
}
