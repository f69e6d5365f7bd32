package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"github.com/ArchivexBlasich/BTC-Analyser/explorer"
	"github.com/ArchivexBlasich/BTC-Analyser/render"
)

const (
	defaultTimeout = 30 * time.Second

	// The explorer's unconfirmed feed returns at most 100 entries.
	defaultUnconfirmedCount = 100

	// Default number of transactions shown for an address.
	defaultAddressCount = 50
)

func unconfirmedCommand() *cli.Command {
	return &cli.Command{
		Name:    "unconfirmed-transactions",
		Aliases: []string{"unconfirmed"},
		Usage:   "List the most recent unconfirmed transactions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "number",
				Aliases: []string{"n"},
				Usage:   "Number of transactions to show",
				Value:   defaultUnconfirmedCount,
			},
		},
		Action: func(c *cli.Context) error {
			n := c.Int("number")
			if n <= 0 {
				return fmt.Errorf("number of transactions must be positive, got %d", n)
			}

			ctx, stop := signalContext()
			defer stop()

			cl := newExplorerClient(c)
			txs, rate, err := cl.UnconfirmedSnapshot(ctx, n)
			if err != nil {
				return fmt.Errorf("failed to fetch unconfirmed transactions: %w", err)
			}

			if c.Bool("json") {
				return outputJSON(txs, c.String("jq"))
			}

			rows := render.TransactionRows(txs)
			tbl, err := render.TransactionTable(rows, rate)
			if err != nil {
				return err
			}
			totals, err := render.GrandTotalTable(rows, rate)
			if err != nil {
				return err
			}

			fmt.Println(tbl.Render(render.Yellow))
			fmt.Println(totals.Render(render.Magenta))
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect a single transaction by hash",
		ArgsUsage: "TX_HASH",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("requires exactly one argument: transaction hash " +
					"(e.g. 136937e5a742645ce873f079f8668aefdc2d06b8172e903d031a8bfb48969450)")
			}
			hash := c.Args().Get(0)

			ctx, stop := signalContext()
			defer stop()

			cl := newExplorerClient(c)
			tx, err := cl.Transaction(ctx, hash)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return outputJSON(tx, c.String("jq"))
			}

			inputs := make([]explorer.Output, 0, len(tx.Inputs))
			for _, in := range tx.Inputs {
				inputs = append(inputs, in.PrevOut)
			}

			fmt.Println(render.TransferTotalsTable(tx.InputTotal(), tx.OutputTotal()).Render(render.BoldYellow))
			fmt.Println(render.FlowTable("Address (input)", inputs).Render(render.Green))
			fmt.Println()
			fmt.Println(render.FlowTable("Address (output)", tx.Out).Render(render.Green))
			return nil
		},
	}
}

func addressCommand() *cli.Command {
	return &cli.Command{
		Name:      "address",
		Usage:     "Inspect a Bitcoin address and its recent transactions",
		ArgsUsage: "ADDRESS",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "number",
				Aliases: []string{"n"},
				Usage:   "Number of transactions to show",
				Value:   defaultAddressCount,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("requires exactly one argument: bitcoin address")
			}
			addr := c.Args().Get(0)
			n := c.Int("number")
			if n <= 0 {
				return fmt.Errorf("number of transactions must be positive, got %d", n)
			}

			ctx, stop := signalContext()
			defer stop()

			cl := newExplorerClient(c)
			summary, rate, err := cl.AddressSnapshot(ctx, addr, n)
			if err != nil {
				return fmt.Errorf("failed to fetch address: %w", err)
			}

			if c.Bool("json") {
				return outputJSON(summary, c.String("jq"))
			}

			rows := render.TransactionRows(summary.Txs)
			tbl, err := render.TransactionTable(rows, rate)
			if err != nil {
				return err
			}
			totals, err := render.GrandTotalTable(rows, rate)
			if err != nil {
				return err
			}

			fmt.Println(render.AddressSummaryTable(summary).Render(render.Cyan))
			fmt.Println(tbl.Render(render.Yellow))
			fmt.Println(totals.Render(render.Magenta))
			return nil
		},
	}
}

// newExplorerClient builds the explorer client from global flags.
func newExplorerClient(c *cli.Context) *explorer.Client {
	level := slog.LevelError
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	httpClient := &http.Client{Timeout: c.Duration("timeout")}
	return explorer.NewClient(c.String("api-url"), httpClient, logger)
}

// signalContext returns a context canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// outputJSON writes v to stdout as indented JSON, optionally piped through a
// gojq expression first.
func outputJSON(v any, jqExpr string) error {
	if jqExpr == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	query, err := gojq.Parse(jqExpr)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}

	// Round-trip through encoding/json so gojq sees plain maps and slices.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal output: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	iter := code.Run(data)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := result.(error); isErr {
			return fmt.Errorf("jq evaluation failed: %w", err)
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return nil
}
