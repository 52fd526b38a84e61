package config

import (
	"io"
	"os"

	"tidal-client/types"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// FromFile loads config from a file, falling back to def when it does not
// exist.
func FromFile(path string, def *Client) (*Client, error) {
	file, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		cfg := *def
		return &cfg, nil
	case err != nil:
		return nil, types.Wrap(types.ErrDecodeConfigFailed, err)
	}
	defer file.Close() //nolint: errcheck

	return FromReader(file, def)
}

// FromReader loads config from a reader instance.
func FromReader(reader io.Reader, def *Client) (*Client, error) {
	cfg := *def
	_, err := toml.NewDecoder(reader).Decode(&cfg)
	if err != nil {
		return nil, types.Wrap(types.ErrDecodeConfigFailed, err)
	}

	err = envconfig.Process("TIDAL", &cfg)
	if err != nil {
		return nil, types.Wrapf(types.ErrInvalidConfig, "processing env vars overrides: %v", err)
	}

	return &cfg, nil
}
