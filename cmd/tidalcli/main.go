package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("tidalcli")

// IsVeryVerbose is a global var signalling if the CLI is running in very
// verbose mode or not (default: false).
var IsVeryVerbose bool

var FlagVeryVerbose = &cli.BoolFlag{
	Name:        "vv",
	Usage:       "enables very verbose mode, useful for debugging the CLI",
	Destination: &IsVeryVerbose,
}

var FlagRepo = &cli.StringFlag{
	Name:    "repo",
	Usage:   "repo directory for the client",
	EnvVars: []string{"TIDAL_CLIENT_REPO"},
	Value:   "~/.tidal",
}

var FlagCredential = &cli.StringFlag{
	Name:    "credential",
	Usage:   "hex encoded signing key of the acting identity",
	EnvVars: []string{"TIDAL_CREDENTIAL"},
}

func before(cctx *cli.Context) error {
	_ = logging.SetLogLevel("tidalcli", "INFO")
	_ = logging.SetLogLevel("asset", "INFO")
	_ = logging.SetLogLevel("client", "INFO")

	if IsVeryVerbose {
		_ = logging.SetLogLevel("tidalcli", "DEBUG")
		_ = logging.SetLogLevel("asset", "DEBUG")
		_ = logging.SetLogLevel("ledger", "DEBUG")
		_ = logging.SetLogLevel("provider", "DEBUG")
		_ = logging.SetLogLevel("index", "DEBUG")
	}

	return nil
}

func main() {
	app := &cli.App{
		Name:                 "tidalcli",
		Usage:                "cli client for publishing, ordering and consuming data assets",
		EnableBashCompletion: true,
		Before:               before,
		Flags: []cli.Flag{
			FlagVeryVerbose,
			FlagRepo,
		},
		Commands: []*cli.Command{
			publishCmd,
			orderCmd,
			consumeCmd,
			resolveCmd,
			updateCmd,
		},
	}
	app.Setup()

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
