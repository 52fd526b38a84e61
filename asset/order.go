package asset

import (
	"context"
	"fmt"
	"time"

	"tidal-client/types"
)

// OrderRequest identifies the service to pay for. Exactly one of
// ServiceType and ServiceIndex must be supplied; when the index is given
// the service type is read back from the record.
type OrderRequest struct {
	Did          string
	ServiceType  types.ServiceType
	ServiceIndex *int
	Consumer     string
	FeeCollector string
}

// Order resolves the requested service, obtains a quote, reuses a prior
// valid payment when one exists and otherwise commits a new one. The reuse
// check and the payment are not atomic with respect to the ledger unless
// the service was built WithOrderSerialization.
func (s *AssetSvc) Order(ctx context.Context, req OrderRequest) (receipt *types.OrderReceipt, err error) {
	defer func() { observe("order", err) }()

	if (req.ServiceType == "") == (req.ServiceIndex == nil) {
		return nil, types.Wrapf(types.ErrServiceNotFound,
			"exactly one of service type and service index must be given for %s", req.Did)
	}

	record, err := s.Resolve(ctx, req.Did)
	if err != nil {
		return nil, err
	}

	// (1) resolve the target service
	var svc *types.ServiceDescriptor
	if req.ServiceIndex != nil {
		svc = record.ServiceByIndex(*req.ServiceIndex)
	} else {
		svc = record.ServiceByType(req.ServiceType)
	}
	if svc == nil {
		return nil, types.Wrapf(types.ErrServiceNotFound, "no service for request on %s", req.Did)
	}

	if s.serializeOrders {
		unlock := s.orderLks.lock(orderKey(req.Did, svc.Index, req.Consumer))
		defer unlock()
	}

	// (2) quote
	quote, err := s.provider.Initialize(ctx, req.Did, svc.Index, svc.Type, req.Consumer)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, types.Wrapf(types.ErrQuoteUnavailable, "service %d of %s", svc.Index, req.Did)
	}

	// (3) reuse a prior payment inside its validity window
	timeout := serviceTimeout(svc)
	prev, err := s.ledger.PreviousValidOrder(ctx, quote.TokenAddress, quote.NumTokens, req.Did, svc.Index, timeout, req.Consumer)
	if err != nil {
		return nil, types.Wrap(types.ErrTxProcessFailed, err)
	}
	if prev != nil {
		log.Debugf("reusing order %s for %s/%d/%s", prev.TxHash, req.Did, svc.Index, req.Consumer)
		return prev, nil
	}

	// (4) balance precondition: strictly greater than the cost
	balance, err := s.ledger.BalanceOf(ctx, quote.TokenAddress, req.Consumer)
	if err != nil {
		return nil, types.Wrap(types.ErrTxProcessFailed, err)
	}
	if !balance.GT(quote.NumTokens) {
		log.Warnf("order rejected: balance %s of %s does not exceed cost %s",
			balance, req.Consumer, quote.NumTokens)
		return nil, types.Wrapf(types.ErrInsufficientBalance, "balance %s, cost %s", balance, quote.NumTokens)
	}

	// (5) commit the payment
	receipt, err = s.ledger.StartOrder(ctx, quote.TokenAddress, quote.NumTokens, req.Did, svc.Index, req.FeeCollector, req.Consumer)
	if err != nil {
		return nil, types.Wrap(types.ErrTxProcessFailed, err)
	}
	log.Infof("order committed: tx=%s did=%s service=%d", receipt.TxHash, req.Did, svc.Index)
	return receipt, nil
}

func orderKey(didStr string, serviceIndex int, consumer string) string {
	return fmt.Sprintf("%s/%d/%s", didStr, serviceIndex, consumer)
}

// serviceTimeout reads the reuse window declared by a service descriptor,
// in seconds. Zero means the descriptor declares none.
func serviceTimeout(svc *types.ServiceDescriptor) time.Duration {
	raw, ok := svc.Attributes["timeout"]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return time.Duration(v) * time.Second
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	default:
		return 0
	}
}
