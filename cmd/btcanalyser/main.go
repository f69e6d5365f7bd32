package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "btcanalyser",
		Usage: "Analyze recent Bitcoin transactions from the command line",
		Description: `A Bitcoin CLI tool to view the last 'n' unconfirmed transactions,
inspect a transaction by hash, and inspect a transaction address.

Data comes from the public blockchain.info explorer API; amounts are
annotated with their USD value at the current ticker rate.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			unconfirmedCommand(),
			inspectCommand(),
			addressCommand(),
		},
		// Global flags available to all commands
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the blockchain explorer API",
				EnvVars: []string{"BTC_ANALYSER_API_URL"},
				Value:   "https://blockchain.info",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "HTTP timeout for explorer requests",
				EnvVars: []string{"BTC_ANALYSER_TIMEOUT"},
				Value:   defaultTimeout,
			},
			&cli.BoolFlag{
				// The NO_COLOR env convention is presence-based and is
				// handled by fatih/color itself; only the flag lives here.
				Name:  "no-color",
				Usage: "Disable ANSI colors in table output",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output raw records as JSON instead of tables",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "gojq expression applied to --json output",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		// Runs when no subcommand matched: a missing or unknown mode is a
		// usage error surfaced through Run's error return, after printing
		// usage to stderr.
		Action: func(c *cli.Context) error {
			cli.HelpPrinter(os.Stderr, cli.AppHelpTemplate, c.App)
			if mode := c.Args().First(); mode != "" {
				return fmt.Errorf("unknown exploration mode %q", mode)
			}
			return fmt.Errorf("an exploration mode is required")
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
