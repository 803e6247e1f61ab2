// Package ledger defines the row-store collaborator the chain is built on:
// read by primary key, full-table scan, insert, chain-head state and the
// durable contract execution counters.
package ledger

import (
	"context"

	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
)

type Store interface {
	// GetEntry reads one row by primary key. Returns a NOT_FOUND error if
	// the id is not present.
	GetEntry(ctx context.Context, table string, id uuid.UUID) (*model.LedgerEntry, error)

	// ScanEntries reads every row of the table. Order is unspecified.
	ScanEntries(ctx context.Context, table string) ([]*model.LedgerEntry, error)

	// InsertEntry writes one row. The entry is immutable once written.
	InsertEntry(ctx context.Context, table string, entry *model.LedgerEntry) error

	// GetChainState reads the durable chain head. A fresh store returns the
	// null-sentinel state, never an error.
	GetChainState(ctx context.Context) (*model.ChainState, error)

	// SetChainState persists the chain head after an accepted write.
	SetChainState(ctx context.Context, state *model.ChainState) error

	// CreateLedger provisions the table schema and resets the chain head.
	// Idempotent.
	CreateLedger(ctx context.Context, table string) error

	// ContractExecutions returns the durable execution count for a contract,
	// keyed by its canonical text. Unknown contracts return 0.
	ContractExecutions(ctx context.Context, contract string) (int, error)

	// IncrementContractExecutions adds one to the durable execution count.
	IncrementContractExecutions(ctx context.Context, contract string) error

	// SetDebug routes writes through a non-replicated path where the backend
	// supports one. Used for testing only.
	SetDebug(debug bool)

	Close() error
}
