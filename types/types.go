package types

import (
	"time"

	"cosmossdk.io/math"
)

// ServiceType identifies one kind of offering attached to an asset.
type ServiceType string

const (
	ServiceMetadata ServiceType = "metadata"
	ServiceAccess   ServiceType = "access"
	ServiceCompute  ServiceType = "compute"
)

// ServiceDescriptor is one service entry of an asset record. Indices are
// unique within a record and assigned densely starting at 0.
type ServiceDescriptor struct {
	Type            ServiceType            `json:"type"`
	Index           int                    `json:"index"`
	ServiceEndpoint string                 `json:"serviceEndpoint,omitempty"`
	Attributes      map[string]interface{} `json:"attributes,omitempty"`
}

// ProofRecord binds a record checksum to the publisher identity.
type ProofRecord struct {
	Created        string `json:"created"`
	Checksum       string `json:"checksum"`
	Creator        string `json:"creator"`
	SignatureValue string `json:"signatureValue"`
}

// AssetRecord is the signed document describing an asset's services. It is
// named by a DID derived from the backing token contract address and stored
// in the metadata index. Updates are re-published under the same identifier.
type AssetRecord struct {
	ID           string              `json:"id"`
	TokenAddress string              `json:"tokenAddress"`
	Created      string              `json:"created"`
	Services     []ServiceDescriptor `json:"service"`
	Proof        *ProofRecord        `json:"proof,omitempty"`
}

// ServiceByType returns the first service of the given type, or nil.
func (r *AssetRecord) ServiceByType(st ServiceType) *ServiceDescriptor {
	for i := range r.Services {
		if r.Services[i].Type == st {
			return &r.Services[i]
		}
	}
	return nil
}

// ServiceByIndex returns the service with the given index, or nil.
func (r *AssetRecord) ServiceByIndex(index int) *ServiceDescriptor {
	for i := range r.Services {
		if r.Services[i].Index == index {
			return &r.Services[i]
		}
	}
	return nil
}

// OrderQuote is a provider-issued price for consuming one service. It is
// obtained per order attempt and never persisted.
type OrderQuote struct {
	TokenAddress string   `json:"tokenAddress"`
	NumTokens    math.Int `json:"numTokens"`
	ServiceIndex int      `json:"serviceIndex"`
}

// OrderReceipt is proof of a committed payment. It is reusable for a
// subsequent order of the same (did, service index, consumer) while
// now < CreatedAt + Timeout.
type OrderReceipt struct {
	TxHash       string        `json:"txHash"`
	Did          string        `json:"did"`
	ServiceIndex int           `json:"serviceIndex"`
	Consumer     string        `json:"consumer"`
	Amount       math.Int      `json:"amount"`
	Timeout      time.Duration `json:"timeout"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Reusable reports whether the receipt is still inside its validity window.
func (r *OrderReceipt) Reusable(now time.Time) bool {
	return now.Before(r.CreatedAt.Add(r.Timeout))
}

// TokenEconomics seeds creation of a new token contract.
type TokenEconomics struct {
	Cap    math.Int
	Name   string
	Symbol string
}

// FileMeta describes one file declared by a publisher. The URL never makes
// it into the published record, only into the encrypted blob.
type FileMeta struct {
	URL           string `json:"url,omitempty"`
	Index         int    `json:"index"`
	ContentType   string `json:"contentType,omitempty"`
	ContentLength string `json:"contentLength,omitempty"`
	Checksum      string `json:"checksum,omitempty"`
}

// ComputePrivacy captures the privacy terms of a compute service.
type ComputePrivacy struct {
	AllowRawAlgorithm  bool     `json:"allowRawAlgorithm"`
	AllowNetworkAccess bool     `json:"allowNetworkAccess"`
	TrustedAlgorithms  []string `json:"trustedAlgorithms,omitempty"`
	TrustedPublishers  []string `json:"trustedPublishers,omitempty"`
}

// DownloadRequest carries everything the provider needs to hand off content
// for a paid service.
type DownloadRequest struct {
	Did          string
	TxHash       string
	TokenAddress string
	ServiceType  ServiceType
	ServiceIndex int
	Endpoint     string
	Destination  string
	Consumer     string
	Files        []FileMeta
}
