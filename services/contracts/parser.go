// Package contracts implements the contract trigger language.
//
// A contract watches transfers and, when one matches, synthesizes a
// follow-up payment:
//
//	CONTRACT IF <user> (RECEIVES|PAYS) <amount1> SEND <amount2> FROM <user1> TO <user2> [ONLY <times>]
//
// FROM defaults to the trigger user, ONLY to unlimited. A contract sending
// more than its trigger threshold is rejected, it would re-trigger itself
// forever.
package contracts

import (
	"strconv"
	"strings"

	"github.com/colchain/colchain/errors"
)

type Direction int

const (
	Receives Direction = iota
	Pays
)

func (d Direction) String() string {
	if d == Pays {
		return "PAYS"
	}

	return "RECEIVES"
}

// Contract is the parsed form. Text keeps the original string, which is
// also the durable execution counter key.
type Contract struct {
	TriggerUser string
	Direction   Direction
	Threshold   int64
	Transfer    int64
	FromUser    string
	ToUser      string
	Limit       int
	Text        string
}

// Parse tokenizes contract text into a Contract.
func Parse(text string) (*Contract, error) {
	if text == "" {
		return nil, errors.NewContractParseError("empty contract text")
	}

	tokens := strings.Fields(text)
	if !strings.EqualFold(tokens[0], "CONTRACT") {
		return nil, errors.NewContractParseError("no CONTRACT keyword found")
	}

	c := &Contract{
		Threshold: -1,
		Transfer:  -1,
		Text:      text,
	}

	for i := 1; i+1 < len(tokens); i += 2 {
		keyword := strings.ToUpper(tokens[i])
		value := tokens[i+1]

		switch keyword {
		case "IF":
			c.TriggerUser = value

		case "RECEIVES", "PAYS":
			c.Direction = Receives
			if keyword == "PAYS" {
				c.Direction = Pays
			}

			amount, err := parseAmount(keyword, value)
			if err != nil {
				return nil, err
			}

			c.Threshold = amount

		case "SEND":
			amount, err := parseAmount(keyword, value)
			if err != nil {
				return nil, err
			}

			c.Transfer = amount

		case "FROM":
			c.FromUser = value

		case "TO":
			c.ToUser = value

		case "ONLY":
			times, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.NewContractParseError("ONLY needs a number, got %q", value, err)
			}

			c.Limit = times

		default:
			return nil, errors.NewContractParseError("unknown keyword %q", tokens[i])
		}
	}

	if c.TriggerUser == "" {
		return nil, errors.NewContractParseError("trigger user not set")
	}

	if c.FromUser == "" {
		c.FromUser = c.TriggerUser
	}

	if c.ToUser == "" {
		return nil, errors.NewContractParseError("TO user not set")
	}

	if c.Threshold == -1 {
		return nil, errors.NewContractParseError("trigger amount not set")
	}

	if c.Transfer == -1 {
		return nil, errors.NewContractParseError("transfer amount not set")
	}

	if c.Transfer > c.Threshold {
		return nil, errors.NewContractParseError("transfer %d exceeds the trigger threshold %d, the contract would trigger itself", c.Transfer, c.Threshold)
	}

	return c, nil
}

func parseAmount(keyword, value string) (int64, error) {
	amount, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.NewContractParseError("%s needs a number, got %q", keyword, value, err)
	}

	return amount, nil
}

// Matches reports whether a transfer triggers this contract.
func (c *Contract) Matches(source, destination []byte, amount int64) bool {
	if amount < c.Threshold {
		return false
	}

	if c.Direction == Receives {
		return string(destination) == c.TriggerUser
	}

	return string(source) == c.TriggerUser
}
