package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/colchain/colchain/daemon"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/ulogger"
	"github.com/colchain/colchain/util"
	"github.com/google/uuid"
	"github.com/ordishs/gocore"
	"github.com/urfave/cli/v2"
)

const progname = "colchain"

var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	logger := ulogger.New(progname)
	tSettings := settings.NewSettings()

	tableFlag := &cli.StringFlag{
		Name:  "table",
		Usage: "ledger table (optionally keyspace-qualified)",
		Value: tSettings.Ledger.DefaultTable,
	}

	var d *daemon.Daemon

	app := &cli.App{
		Name:  progname,
		Usage: "hash-chained ledger on top of a wide-column store",
		Before: func(c *cli.Context) error {
			var err error

			d, err = daemon.New(c.Context, logger, tSettings)

			return err
		},
		After: func(c *cli.Context) error {
			if d != nil {
				d.Close(c.Context)
			}

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "create-ledger",
				Usage: "Create (or reset) a ledger table",
				Flags: []cli.Flag{tableFlag},
				Action: func(c *cli.Context) error {
					return d.Ledger.CreateLedger(c.Context, resolveTable(tSettings, c))
				},
			},
			{
				Name:  "append",
				Usage: "Append a transfer to the chain",
				Flags: []cli.Flag{
					tableFlag,
					&cli.StringFlag{Name: "source", Usage: "paying account (omit to mint)"},
					&cli.StringFlag{Name: "destination", Required: true},
					&cli.Int64Flag{Name: "amount", Required: true},
					&cli.BoolFlag{Name: "sign", Usage: "sign as the source account"},
				},
				Action: func(c *cli.Context) error {
					return appendEntry(c.Context, d, resolveTable(tSettings, c),
						c.String("source"), c.String("destination"), c.Int64("amount"), c.Bool("sign"))
				},
			},
			{
				Name:  "balance",
				Usage: "Print an account's balance on the canonical chain",
				Flags: []cli.Flag{
					tableFlag,
					&cli.StringFlag{Name: "account", Required: true},
				},
				Action: func(c *cli.Context) error {
					balance, err := d.Ledger.Balance(c.Context, resolveTable(tSettings, c), c.String("account"))
					if err != nil {
						return err
					}

					fmt.Printf("%s: %d\n", c.String("account"), balance)

					return nil
				},
			},
			{
				Name:  "verify",
				Usage: "Recompute every digest and check the chain",
				Flags: []cli.Flag{
					tableFlag,
					&cli.BoolFlag{Name: "recursive", Usage: "use the recursive verifier"},
				},
				Action: func(c *cli.Context) error {
					return verifyChain(c.Context, d, resolveTable(tSettings, c), c.Bool("recursive"))
				},
			},
			{
				Name:      "register-contract",
				Usage:     "Register a CONTRACT IF ... statement",
				ArgsUsage: "<contract text>",
				Action: func(c *cli.Context) error {
					contract, err := d.Contracts.Register(joinArgs(c))
					if err != nil {
						return err
					}

					fmt.Printf("registered: %s\n", contract.Text)

					return nil
				},
			},
			{
				Name:      "identity",
				Usage:     "Ensure a signing identity exists for a user",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					created, err := d.Signer.GetOrCreateIdentity(c.Context, c.Args().First())
					if err != nil {
						return err
					}

					if created {
						fmt.Println("created")
					} else {
						fmt.Println("exists")
					}

					return nil
				},
			},
			{
				Name:  "head",
				Usage: "Print the chain head and its digest",
				Action: func(c *cli.Context) error {
					return printHead(c.Context, d)
				},
			},
			{
				Name:  "tree",
				Usage: "Print the fork tree of a table",
				Flags: []cli.Flag{tableFlag},
				Action: func(c *cli.Context) error {
					tree, err := d.Ledger.Tree(c.Context, resolveTable(tSettings, c))
					if err != nil {
						return err
					}

					fmt.Print(tree.String())

					return nil
				},
			},
			{
				Name:  "shell",
				Usage: "Interactive session keeping signer and contract state",
				Flags: []cli.Flag{tableFlag},
				Action: func(c *cli.Context) error {
					return shell(c.Context, d, resolveTable(tSettings, c))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func resolveTable(tSettings *settings.Settings, c *cli.Context) string {
	return util.ResolveTableName(tSettings.Ledger.Keyspace, c.String("table"))
}

func joinArgs(c *cli.Context) string {
	args := c.Args().Slice()
	if len(args) == 0 {
		return ""
	}

	text := args[0]
	for _, arg := range args[1:] {
		text += " " + arg
	}

	return text
}

func appendEntry(ctx context.Context, d *daemon.Daemon, table, source, destination string, amount int64, sign bool) error {
	fields := map[string][]byte{
		model.ColumnDestination: []byte(destination),
		model.ColumnAmount:      model.AmountBytes(amount),
	}

	if source != "" {
		fields[model.ColumnSource] = []byte(source)

		if sign {
			if _, err := d.Signer.GetOrCreateIdentity(ctx, source); err != nil {
				return err
			}

			d.Signer.SignNext(source)
		}
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return err
	}

	digest, err := d.Ledger.Append(ctx, table, id, 0, fields)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", id, digest)

	return nil
}

func verifyChain(ctx context.Context, d *daemon.Daemon, table string, recursive bool) error {
	var (
		digest string
		err    error
	)

	if recursive {
		digest, err = d.Ledger.VerifyRecursive(ctx, table)
	} else {
		digest, err = d.Ledger.VerifyIterative(ctx, table)
	}

	if err != nil {
		return err
	}

	preHash, err := d.Ledger.PredecessorHash(ctx)
	if err != nil {
		return err
	}

	if digest != preHash {
		return fmt.Errorf("head digest %s does not match recorded %s", digest, preHash)
	}

	fmt.Printf("ok %s\n", digest)

	return nil
}

func printHead(ctx context.Context, d *daemon.Daemon) error {
	head, err := d.Ledger.ChainHead(ctx)
	if err != nil {
		return err
	}

	preHash, err := d.Ledger.PredecessorHash(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", head, preHash)

	return nil
}

func parseAmountArg(arg string) (int64, error) {
	return strconv.ParseInt(arg, 10, 64)
}
