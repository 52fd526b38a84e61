package index

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"tidal-client/types"
	"tidal-client/utils"
)

// HttpIndex talks to a metadata index service over its REST surface.
type HttpIndex struct {
	base   string
	client *http.Client
}

func NewHttpIndex(base string, timeout time.Duration) *HttpIndex {
	return &HttpIndex{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

type storeReq struct {
	Did    string             `json:"did"`
	Record *types.AssetRecord `json:"record"`
	Owner  string             `json:"owner"`
	// Nonce lets the index deduplicate retried submissions.
	Nonce string `json:"nonce"`
}

func (x *HttpIndex) store(ctx context.Context, method string, path string, didStr string, record *types.AssetRecord, owner string) error {
	body, err := utils.Marshal(&storeReq{Did: didStr, Record: record, Owner: owner, Nonce: utils.GenerateNonce()})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, x.base+path, bytes.NewReader(body))
	if err != nil {
		return types.Wrap(types.ErrPublishFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return types.Wrap(types.ErrPublishFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.Wrapf(types.ErrPublishFailed, "%s %s returned %d: %s", method, path, resp.StatusCode, data)
	}
	log.Debugf("stored record %s for %s", didStr, owner)
	return nil
}

func (x *HttpIndex) Publish(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error {
	return x.store(ctx, http.MethodPost, "/api/v1/assets/record", didStr, record, owner)
}

func (x *HttpIndex) Update(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error {
	return x.store(ctx, http.MethodPut, "/api/v1/assets/record/"+url.PathEscape(didStr), didStr, record, owner)
}

func (x *HttpIndex) Resolve(ctx context.Context, didStr string) (*types.AssetRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, x.base+"/api/v1/assets/record/"+url.PathEscape(didStr), nil)
	if err != nil {
		return nil, types.Wrap(types.ErrResolveFailed, err)
	}
	resp, err := x.client.Do(req)
	if err != nil {
		return nil, types.Wrap(types.ErrResolveFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.Wrap(types.ErrResolveFailed, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, types.Wrapf(types.ErrResolveFailed, "no record for %s", didStr)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.Wrapf(types.ErrResolveFailed, "resolve returned %d: %s", resp.StatusCode, data)
	}
	var record types.AssetRecord
	if err := utils.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, types.Wrapf(types.ErrResolveFailed, "empty record for %s", didStr)
	}
	return &record, nil
}
