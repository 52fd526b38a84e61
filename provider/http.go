package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"tidal-client/types"
	"tidal-client/utils"

	"cosmossdk.io/math"
)

// HttpProvider talks to a provider gateway over its REST surface.
type HttpProvider struct {
	base   string
	client *http.Client
}

func NewHttpProvider(base string, timeout time.Duration) *HttpProvider {
	return &HttpProvider{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

type encryptReq struct {
	AssetID   string           `json:"assetId"`
	Files     []types.FileMeta `json:"files"`
	Publisher string           `json:"publisher"`
}

type encryptResp struct {
	EncryptedDocument string `json:"encryptedDocument"`
}

type initializeResp struct {
	TokenAddress string `json:"tokenAddress"`
	NumTokens    string `json:"numTokens"`
	ServiceIndex int    `json:"serviceIndex"`
}

func (p *HttpProvider) Encrypt(ctx context.Context, assetID string, files []types.FileMeta, publisher string) (string, error) {
	body, err := utils.Marshal(&encryptReq{
		AssetID:   assetID,
		Files:     files,
		Publisher: publisher,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/api/v1/services/encrypt", bytes.NewReader(body))
	if err != nil {
		return "", types.Wrap(types.ErrEncryptFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", types.Wrap(types.ErrEncryptFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.Wrap(types.ErrEncryptFailed, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", types.Wrapf(types.ErrEncryptFailed, "encrypt returned %d: %s", resp.StatusCode, data)
	}
	var out encryptResp
	if err := utils.Unmarshal(data, &out); err != nil {
		return "", err
	}
	if out.EncryptedDocument == "" {
		return "", types.Wrapf(types.ErrEncryptFailed, "empty encrypted document for %s", assetID)
	}
	return out.EncryptedDocument, nil
}

func (p *HttpProvider) Initialize(ctx context.Context, didStr string, serviceIndex int, serviceType types.ServiceType, consumer string) (*types.OrderQuote, error) {
	q := url.Values{}
	q.Set("did", didStr)
	q.Set("serviceIndex", fmt.Sprintf("%d", serviceIndex))
	q.Set("serviceType", string(serviceType))
	q.Set("consumerAddress", consumer)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/api/v1/services/initialize?"+q.Encode(), nil)
	if err != nil {
		return nil, types.Wrap(types.ErrTransportFailed, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, types.Wrap(types.ErrTransportFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		// the provider does not serve this service right now
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.Wrap(types.ErrTransportFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.Wrapf(types.ErrTransportFailed, "initialize returned %d: %s", resp.StatusCode, data)
	}
	var out initializeResp
	if err := utils.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	numTokens, ok := math.NewIntFromString(out.NumTokens)
	if !ok {
		return nil, types.Wrapf(types.ErrTransportFailed, "bad quote amount %q for %s", out.NumTokens, didStr)
	}
	return &types.OrderQuote{
		TokenAddress: out.TokenAddress,
		NumTokens:    numTokens,
		ServiceIndex: out.ServiceIndex,
	}, nil
}

func (p *HttpProvider) Download(ctx context.Context, dreq *types.DownloadRequest) error {
	endpoint := dreq.Endpoint
	if endpoint == "" {
		endpoint = p.base + "/api/v1/services/consume"
	}
	q := url.Values{}
	q.Set("did", dreq.Did)
	q.Set("transferTxId", dreq.TxHash)
	q.Set("dataToken", dreq.TokenAddress)
	q.Set("serviceType", string(dreq.ServiceType))
	q.Set("serviceIndex", fmt.Sprintf("%d", dreq.ServiceIndex))
	q.Set("consumerAddress", dreq.Consumer)

	for i := range dreq.Files {
		q.Set("fileIndex", fmt.Sprintf("%d", dreq.Files[i].Index))
		if err := p.fetchFile(ctx, endpoint+"?"+q.Encode(), dreq.Destination, dreq.Files[i].Index); err != nil {
			return err
		}
	}
	if len(dreq.Files) == 0 {
		return p.fetchFile(ctx, endpoint+"?"+q.Encode(), dreq.Destination, 0)
	}
	return nil
}

func (p *HttpProvider) fetchFile(ctx context.Context, rawURL string, destination string, fileIndex int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return types.Wrap(types.ErrTransportFailed, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return types.Wrap(types.ErrTransportFailed, err)
	}
	defer resp.Body.Close() //nolint: errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.Wrapf(types.ErrTransportFailed, "consume returned %d: %s", resp.StatusCode, body)
	}

	if err = os.MkdirAll(destination, 0755); err != nil { //nolint: gosec
		return types.Wrap(types.ErrTransportFailed, err)
	}
	name := fileName(resp, fileIndex)
	f, err := os.Create(filepath.Join(destination, name))
	if err != nil {
		return types.Wrap(types.ErrTransportFailed, err)
	}
	if _, err = io.Copy(f, resp.Body); err != nil {
		f.Close() //nolint: errcheck
		return types.Wrap(types.ErrTransportFailed, err)
	}
	if err = f.Close(); err != nil {
		return types.Wrap(types.ErrTransportFailed, err)
	}
	log.Debugf("downloaded %s to %s", name, destination)
	return nil
}

func fileName(resp *http.Response, fileIndex int) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name, ok := params["filename"]; ok && name != "" {
				return filepath.Base(name)
			}
		}
	}
	return fmt.Sprintf("file-%d", fileIndex)
}
