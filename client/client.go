package client

import (
	"context"
	"os"
	"path/filepath"

	"tidal-client/asset"
	"tidal-client/config"
	"tidal-client/identity"
	"tidal-client/index"
	"tidal-client/ledger"
	"tidal-client/provider"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
)

var log = logging.Logger("client")

// TidalClient wires the workflow service from a repo directory holding a
// config.toml. A missing repo is created with the default config on first
// use.
type TidalClient struct {
	Cfg  *config.Client
	Svc  *asset.AssetSvc
	repo string
}

func NewTidalClient(ctx context.Context, repo string) (*TidalClient, error) {
	cliPath, err := homedir.Expand(repo)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(cliPath, "config.toml")
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		if err = os.MkdirAll(cliPath, 0755); err != nil && !os.IsExist(err) { //nolint: gosec
			return nil, err
		}
		dc, err := config.ConfigComment(config.DefaultClient())
		if err != nil {
			return nil, err
		}
		if err = os.WriteFile(configPath, dc, 0644); err != nil { //nolint: gosec
			return nil, err
		}
		log.Infof("initialized repo at %s", cliPath)
	}

	cfg, err := config.FromFile(configPath, config.DefaultClient())
	if err != nil {
		return nil, err
	}

	var l ledger.Ledger
	if cfg.Ledger.Remote == "" {
		l = ledger.NewMemoryLedger()
		log.Warn("no ledger remote configured, using the in-process dev ledger")
	} else {
		l = ledger.NewRemoteLedger(cfg.Ledger.Remote, cfg.Ledger.Timeout)
	}
	p := provider.NewHttpProvider(cfg.Provider.Remote, cfg.Provider.Timeout)

	var x index.Index
	if cfg.Index.Remote == "" {
		x = index.NewMemoryIndex()
		log.Warn("no index remote configured, using the in-process dev index")
	} else {
		x = index.NewHttpIndex(cfg.Index.Remote, cfg.Index.Timeout)
	}

	opts := []asset.Option{asset.WithIndexLocation(cfg.Index.Remote)}
	if cfg.Order.Serialize {
		opts = append(opts, asset.WithOrderSerialization())
	}
	if cfg.Resolve.StrictProof {
		opts = append(opts, asset.WithStrictProof())
	}

	return &TidalClient{
		Cfg:  cfg,
		Svc:  asset.NewAssetSvc(l, p, x, identity.NewKeySigner(), opts...),
		repo: cliPath,
	}, nil
}

// SaveConfig persists the current config back into the repo, keeping the
// default-valued lines commented out.
func (tc *TidalClient) SaveConfig(cfg *config.Client) error {
	dc, err := config.ConfigUpdate(cfg, config.DefaultClient(), true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(tc.repo, "config.toml"), dc, 0644) //nolint: gosec
}
