// Package validator enforces the transaction constraints before an entry
// is appended: non-negative amounts, sufficient balance on the canonical
// chain, and a valid signature when money leaves an account.
package validator

import (
	"bytes"
	"context"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/ulogger"
	"github.com/google/uuid"
)

// ChainView is the part of the ledger the validator reads: the canonical
// path of a table and the entries on it.
type ChainView interface {
	CanonicalPath(ctx context.Context, table string) ([]uuid.UUID, error)
	GetEntry(ctx context.Context, table string, id uuid.UUID) (*model.LedgerEntry, error)
}

// SignatureVerifier checks a signature over transaction cells.
type SignatureVerifier interface {
	Verify(ctx context.Context, name string, signature []byte, values ...[]byte) bool
}

type Validator struct {
	logger     ulogger.Logger
	chain      ChainView
	signatures SignatureVerifier
}

func New(logger ulogger.Logger, chain ChainView, signatures SignatureVerifier) *Validator {
	return &Validator{
		logger:     logger,
		chain:      chain,
		signatures: signatures,
	}
}

// ValidateAmount rejects negative amounts. Entries without an amount cell
// pass, they move no money.
func (v *Validator) ValidateAmount(entry *model.LedgerEntry) error {
	amount := entry.Amount()
	if amount < 0 {
		return errors.NewNegativeAmountError("amount %d is negative", amount)
	}

	return nil
}

// ValidateBalance checks that the source can afford the transfer. A
// transaction without a source mints money and always passes. The balance
// is computed from the canonical path only, so entries on abandoned forks
// do not count.
func (v *Validator) ValidateBalance(ctx context.Context, table string, entry *model.LedgerEntry) error {
	source := entry.Source()
	if source == nil {
		return nil
	}

	amount := entry.Amount()

	balance, err := v.Balance(ctx, table, source)
	if err != nil {
		return err
	}

	if balance < amount {
		return errors.NewInsufficientBalanceError("%s has %d, cannot spend %d", string(source), balance, amount)
	}

	return nil
}

// Balance sums the transfers touching user along the canonical path.
func (v *Validator) Balance(ctx context.Context, table string, user []byte) (int64, error) {
	path, err := v.chain.CanonicalPath(ctx, table)
	if err != nil {
		return 0, err
	}

	var balance int64

	for _, id := range path {
		if id == model.NullSentinel {
			continue
		}

		entry, err := v.chain.GetEntry(ctx, table, id)
		if err != nil {
			return 0, err
		}

		amount := entry.Amount()

		if bytes.Equal(entry.Destination(), user) {
			balance += amount
		}

		if bytes.Equal(entry.Source(), user) {
			balance -= amount
		}
	}

	return balance, nil
}

// ValidateSignature checks the entry's signature against the source's
// public key. Minting transactions carry no source and need no signature.
func (v *Validator) ValidateSignature(ctx context.Context, entry *model.LedgerEntry) error {
	source := entry.Source()
	if source == nil {
		return nil
	}

	signature := entry.Signature()
	if signature == nil {
		return errors.NewMissingSignatureError("%s sent money without a signature", string(source))
	}

	values := [][]byte{
		source,
		entry.Destination(),
		entry.Fields[model.ColumnAmount],
		model.TimestampBytes(entry.Timestamp),
	}

	if !v.signatures.Verify(ctx, string(source), signature, values...) {
		return errors.NewSignatureInvalidError("signature of %s does not verify", string(source))
	}

	return nil
}

// Validate runs all constraint checks in order.
func (v *Validator) Validate(ctx context.Context, table string, entry *model.LedgerEntry) error {
	if err := v.ValidateAmount(entry); err != nil {
		return err
	}

	if err := v.ValidateBalance(ctx, table, entry); err != nil {
		return err
	}

	return v.ValidateSignature(ctx, entry)
}
