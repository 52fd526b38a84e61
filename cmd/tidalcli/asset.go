package main

import (
	"fmt"

	"tidal-client/asset"
	"tidal-client/client"
	"tidal-client/identity"
	"tidal-client/types"
	"tidal-client/utils"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

func actingIdentity(cctx *cli.Context) (asset.Identity, error) {
	credential := cctx.String("credential")
	if credential == "" {
		return asset.Identity{}, xerrors.Errorf("missing credential, set --credential or TIDAL_CREDENTIAL")
	}
	address, err := identity.AddressOf(credential)
	if err != nil {
		return asset.Identity{}, err
	}
	return asset.Identity{Address: address, Credential: credential}, nil
}

var publishCmd = &cli.Command{
	Name:  "publish",
	Usage: "publish a new asset record",
	Flags: []cli.Flag{
		FlagCredential,
		&cli.StringFlag{
			Name:     "name",
			Usage:    "asset name stored in the metadata service",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "file",
			Usage: "file URL backing the asset, repeatable",
		},
		&cli.StringFlag{
			Name:  "token-address",
			Usage: "existing token contract to reuse instead of creating one",
		},
		&cli.StringFlag{
			Name:  "access-endpoint",
			Usage: "retrieval endpoint of the access service",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		publisher, err := actingIdentity(cctx)
		if err != nil {
			return err
		}

		tc, err := client.NewTidalClient(ctx, cctx.String("repo"))
		if err != nil {
			return err
		}

		var files []types.FileMeta
		for i, u := range cctx.StringSlice("file") {
			files = append(files, types.FileMeta{URL: u, Index: i})
		}
		var services []types.ServiceDescriptor
		if ep := cctx.String("access-endpoint"); ep != "" {
			services = append(services, types.ServiceDescriptor{
				Type:            types.ServiceAccess,
				ServiceEndpoint: ep,
			})
		}

		events, result := tc.Svc.Publish(ctx, asset.PublishRequest{
			Metadata:     map[string]interface{}{"name": cctx.String("name")},
			Files:        files,
			Services:     services,
			Publisher:    publisher,
			TokenAddress: cctx.String("token-address"),
		})
		for ev := range events {
			log.Infof("publish step: %s", ev.Step)
		}
		res := <-result
		if res.Err != nil {
			return res.Err
		}
		fmt.Println(res.Record.ID)
		return nil
	},
}

var orderCmd = &cli.Command{
	Name:  "order",
	Usage: "pay for access to an asset service",
	Flags: []cli.Flag{
		FlagCredential,
		&cli.StringFlag{
			Name:     "did",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "service-type",
			Usage: "service type to order, e.g. access",
		},
		&cli.IntFlag{
			Name:  "service-index",
			Usage: "explicit service index, alternative to --service-type",
			Value: -1,
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		consumer, err := actingIdentity(cctx)
		if err != nil {
			return err
		}

		tc, err := client.NewTidalClient(ctx, cctx.String("repo"))
		if err != nil {
			return err
		}

		req := asset.OrderRequest{
			Did:          cctx.String("did"),
			Consumer:     consumer.Address,
			FeeCollector: tc.Cfg.Order.FeeCollector,
		}
		if idx := cctx.Int("service-index"); idx >= 0 {
			req.ServiceIndex = &idx
		} else {
			req.ServiceType = types.ServiceType(cctx.String("service-type"))
		}

		receipt, err := tc.Svc.Order(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(receipt.TxHash)
		return nil
	},
}

var consumeCmd = &cli.Command{
	Name:  "consume",
	Usage: "download the content of a paid service",
	Flags: []cli.Flag{
		FlagCredential,
		&cli.StringFlag{
			Name:     "did",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "tx",
			Usage:    "transaction hash of the order payment",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "dest",
			Usage: "destination directory",
			Value: ".",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		consumer, err := actingIdentity(cctx)
		if err != nil {
			return err
		}

		tc, err := client.NewTidalClient(ctx, cctx.String("repo"))
		if err != nil {
			return err
		}

		dest, err := tc.Svc.Consume(ctx, asset.ConsumeRequest{
			Did:         cctx.String("did"),
			TxHash:      cctx.String("tx"),
			Consumer:    consumer.Address,
			Destination: cctx.String("dest"),
		})
		if err != nil {
			return err
		}
		fmt.Println(dest)
		return nil
	},
}

var resolveCmd = &cli.Command{
	Name:  "resolve",
	Usage: "fetch the record stored under a DID",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "did",
			Required: true,
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		tc, err := client.NewTidalClient(ctx, cctx.String("repo"))
		if err != nil {
			return err
		}

		record, err := tc.Svc.Resolve(ctx, cctx.String("did"))
		if err != nil {
			return err
		}
		b, err := utils.Marshal(record)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

var updateCmd = &cli.Command{
	Name:  "update",
	Usage: "edit the metadata of a published asset",
	Flags: []cli.Flag{
		FlagCredential,
		&cli.StringFlag{
			Name:     "did",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "metadata",
			Usage:    "metadata attributes as a JSON object",
			Required: true,
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		publisher, err := actingIdentity(cctx)
		if err != nil {
			return err
		}

		tc, err := client.NewTidalClient(ctx, cctx.String("repo"))
		if err != nil {
			return err
		}

		var attrs map[string]interface{}
		if err := utils.Unmarshal([]byte(cctx.String("metadata")), &attrs); err != nil {
			return err
		}

		record, err := tc.Svc.UpdateMetadata(ctx, cctx.String("did"), attrs, publisher)
		if err != nil {
			return err
		}
		fmt.Println(record.ID)
		return nil
	},
}
