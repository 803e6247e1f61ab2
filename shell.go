package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/colchain/colchain/daemon"
	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// shell runs an interactive session. Signer arming and registered
// contracts live for the whole session, which a one-shot command cannot
// offer.
func shell(ctx context.Context, d *daemon.Daemon, table string) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if interactive {
		fmt.Printf("table %s, type help for commands\n", table)
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		if interactive {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "exit", "quit":
			return nil

		case "help":
			printShellHelp()

		case "sign":
			if len(tokens) != 2 {
				fmt.Println("usage: sign <name>")
				continue
			}

			if _, err := d.Signer.GetOrCreateIdentity(ctx, tokens[1]); err != nil {
				fmt.Println(err)
				continue
			}

			d.Signer.SignNext(tokens[1])
			fmt.Printf("next append will be signed by %s\n", tokens[1])

		case "mint":
			if len(tokens) != 3 {
				fmt.Println("usage: mint <destination> <amount>")
				continue
			}

			shellAppend(ctx, d, table, "", tokens[1], tokens[2])

		case "pay":
			if len(tokens) != 4 {
				fmt.Println("usage: pay <source> <destination> <amount>")
				continue
			}

			shellAppend(ctx, d, table, tokens[1], tokens[2], tokens[3])

		case "balance":
			if len(tokens) != 2 {
				fmt.Println("usage: balance <account>")
				continue
			}

			balance, err := d.Ledger.Balance(ctx, table, tokens[1])
			if err != nil {
				fmt.Println(err)
				continue
			}

			fmt.Printf("%s: %d\n", tokens[1], balance)

		case "contract":
			contract, err := d.Contracts.Register(strings.Join(tokens[1:], " "))
			if err != nil {
				fmt.Println(err)
				continue
			}

			fmt.Printf("registered: %s\n", contract.Text)

		case "verify":
			if err := verifyChain(ctx, d, table, false); err != nil {
				fmt.Println(err)
			}

		case "head":
			if err := printHead(ctx, d); err != nil {
				fmt.Println(err)
			}

		case "tree":
			tree, err := d.Ledger.Tree(ctx, table)
			if err != nil {
				fmt.Println(err)
				continue
			}

			fmt.Print(tree.String())

		case "debug":
			if len(tokens) != 2 || (tokens[1] != "on" && tokens[1] != "off") {
				fmt.Println("usage: debug on|off")
				continue
			}

			d.Ledger.SetDebugMode(tokens[1] == "on")

		default:
			fmt.Printf("unknown command %q, type help\n", tokens[0])
		}
	}
}

func shellAppend(ctx context.Context, d *daemon.Daemon, table, source, destination, amountArg string) {
	amount, err := parseAmountArg(amountArg)
	if err != nil {
		fmt.Printf("invalid amount %q\n", amountArg)
		return
	}

	fields := map[string][]byte{
		model.ColumnDestination: []byte(destination),
		model.ColumnAmount:      model.AmountBytes(amount),
	}

	if source != "" {
		fields[model.ColumnSource] = []byte(source)
	}

	id, err := uuid.NewUUID()
	if err != nil {
		fmt.Println(err)
		return
	}

	digest, err := d.Ledger.Append(ctx, table, id, 0, fields)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%s %s\n", id, digest)
}

func printShellHelp() {
	fmt.Println("commands:")
	fmt.Println("  mint <destination> <amount>        append a minting entry")
	fmt.Println("  pay <source> <destination> <amount> append a transfer")
	fmt.Println("  sign <name>                        sign the next append as <name>")
	fmt.Println("  balance <account>                  canonical-chain balance")
	fmt.Println("  contract CONTRACT IF ...           register a contract")
	fmt.Println("  verify                             recompute and check the chain")
	fmt.Println("  head                               print chain head and digest")
	fmt.Println("  tree                               print the fork tree")
	fmt.Println("  debug on|off                       relaxed store writes")
	fmt.Println("  exit")
}
