package config

import (
	"bytes"
	"time"

	"tidal-client/types"

	"github.com/BurntSushi/toml"
)

// client config
type Client struct {
	Ledger   Ledger
	Provider Provider
	Index    Index
	Order    Order
	Resolve  Resolve
}

// Ledger contains configs for the ledger gateway connection. An empty
// Remote selects the in-process dev ledger.
type Ledger struct {
	Remote  string
	Timeout time.Duration
}

// Provider contains configs for the provider gateway connection
type Provider struct {
	Remote  string
	Timeout time.Duration
}

// Index contains configs for the metadata index connection. An empty
// Remote selects the in-process dev index.
type Index struct {
	Remote  string
	Timeout time.Duration
}

// Order contains configs for the order workflow
type Order struct {
	// serialize concurrent orders sharing (did, service index, consumer)
	Serialize bool

	// fee collector address attached to payments, optional
	FeeCollector string
}

// Resolve contains configs for record resolution
type Resolve struct {
	// reject records whose proof does not verify
	StrictProof bool
}

func DefaultClient() *Client {
	return &Client{
		Ledger: Ledger{
			Remote:  "",
			Timeout: 30 * time.Second,
		},
		Provider: Provider{
			Remote:  "http://127.0.0.1:8030",
			Timeout: 30 * time.Second,
		},
		Index: Index{
			Remote:  "http://127.0.0.1:5000",
			Timeout: 30 * time.Second,
		},
		Order: Order{
			Serialize:    false,
			FeeCollector: "",
		},
		Resolve: Resolve{
			StrictProof: false,
		},
	}
}

func ClientBytes(cfg interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	e := toml.NewEncoder(buf)
	if err := e.Encode(cfg); err != nil {
		return nil, types.Wrap(types.ErrEncodeConfigFailed, err)
	}

	return buf.Bytes(), nil
}
