package contracts

import (
	"context"
	"sync"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/ulogger"
)

// CounterStore is the durable per-contract execution counter, keyed by the
// contract text so every node counts the same executions.
type CounterStore interface {
	ContractExecutions(ctx context.Context, contract string) (int, error)
	IncrementContractExecutions(ctx context.Context, contract string) error
}

// EmitFunc appends the payment a fired contract produces. It is supplied
// by the ledger after construction.
type EmitFunc func(ctx context.Context, table string, destination string, amount int64) error

type Engine struct {
	logger        ulogger.Logger
	counters      CounterStore
	maxRegistered int

	mu        sync.RWMutex
	contracts []*Contract
	emit      EmitFunc
}

func NewEngine(logger ulogger.Logger, tSettings *settings.Settings, counters CounterStore) *Engine {
	return &Engine{
		logger:        logger,
		counters:      counters,
		maxRegistered: tSettings.Contract.MaxRegistered,
	}
}

// SetEmitter wires the append path fired contracts use.
func (e *Engine) SetEmitter(emit EmitFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.emit = emit
}

// Register parses and stores a contract.
func (e *Engine) Register(text string) (*Contract, error) {
	contract, err := Parse(text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.maxRegistered > 0 && len(e.contracts) >= e.maxRegistered {
		return nil, errors.NewContractParseError("contract registry is full (%d contracts)", e.maxRegistered)
	}

	e.contracts = append(e.contracts, contract)
	e.logger.Infof("registered contract: %s", contract.Text)

	return contract, nil
}

// Contracts returns the registered contracts in registration order.
func (e *Engine) Contracts() []*Contract {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]*Contract, len(e.contracts))
	copy(result, e.contracts)

	return result
}

// Reset drops every registered contract. The ledger calls it when a ledger
// is created or rebuilt so stale contracts cannot fire against the new chain.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.contracts = nil
}

// Match returns the first registered contract triggered by the transfer,
// or nil.
func (e *Engine) Match(source, destination []byte, amount int64) *Contract {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, contract := range e.contracts {
		if contract.Matches(source, destination, amount) {
			return contract
		}
	}

	return nil
}

// Execute fires a contract: when the execution limit is not exhausted it
// appends the contract's payment to the table and increments the durable
// counter. An exhausted contract is a no-op.
func (e *Engine) Execute(ctx context.Context, table string, contract *Contract) error {
	e.mu.RLock()
	emit := e.emit
	e.mu.RUnlock()

	if emit == nil {
		return errors.NewProcessingError("contract engine has no emitter")
	}

	if contract.Limit > 0 {
		count, err := e.counters.ContractExecutions(ctx, contract.Text)
		if err != nil {
			return err
		}

		if count >= contract.Limit {
			e.logger.Debugf("contract exhausted after %d executions: %s", count, contract.Text)
			return nil
		}
	}

	if err := emit(ctx, table, contract.ToUser, contract.Transfer); err != nil {
		return err
	}

	return e.counters.IncrementContractExecutions(ctx, contract.Text)
}
