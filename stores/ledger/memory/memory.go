// Package memory is the non-replicated debug path: a process-local ledger
// store used by tests and by debug mode.
package memory

import (
	"context"
	"sync"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/ulogger"
	"github.com/google/uuid"
)

type Memory struct {
	mu         sync.RWMutex
	logger     ulogger.Logger
	tables     map[string]map[uuid.UUID]*model.LedgerEntry
	state      *model.ChainState
	executions map[string]int
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger:     logger,
		tables:     make(map[string]map[uuid.UUID]*model.LedgerEntry),
		state:      model.NewChainState(),
		executions: make(map[string]int),
	}
}

func (m *Memory) GetEntry(_ context.Context, table string, id uuid.UUID) (*model.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.tables[table]
	if !ok {
		return nil, errors.NewNotFoundError("table %s not found", table)
	}

	entry, ok := rows[id]
	if !ok {
		return nil, errors.NewNotFoundError("entry %s not found in %s", id, table)
	}

	return copyEntry(entry), nil
}

func (m *Memory) ScanEntries(_ context.Context, table string) ([]*model.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*model.LedgerEntry, 0, len(m.tables[table]))
	for _, entry := range m.tables[table] {
		entries = append(entries, copyEntry(entry))
	}

	return entries, nil
}

func (m *Memory) InsertEntry(_ context.Context, table string, entry *model.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		rows = make(map[uuid.UUID]*model.LedgerEntry)
		m.tables[table] = rows
	}

	if _, exists := rows[entry.ID]; exists {
		return errors.NewStorageError("entry %s already exists in %s", entry.ID, table)
	}

	rows[entry.ID] = copyEntry(entry)

	return nil
}

func (m *Memory) GetChainState(_ context.Context) (*model.ChainState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := *m.state

	return &state, nil
}

func (m *Memory) SetChainState(_ context.Context, state *model.ChainState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *state
	m.state = &s

	return nil
}

func (m *Memory) CreateLedger(_ context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[table] = make(map[uuid.UUID]*model.LedgerEntry)
	m.state = model.NewChainState()
	m.executions = make(map[string]int)

	return nil
}

func (m *Memory) ContractExecutions(_ context.Context, contract string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.executions[contract], nil
}

func (m *Memory) IncrementContractExecutions(_ context.Context, contract string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.executions[contract]++

	return nil
}

func (m *Memory) SetDebug(_ bool) {}

func (m *Memory) Close() error {
	return nil
}

func copyEntry(entry *model.LedgerEntry) *model.LedgerEntry {
	fields := make(map[string][]byte, len(entry.Fields))
	for name, value := range entry.Fields {
		if value == nil {
			fields[name] = nil
			continue
		}

		v := make([]byte, len(value))
		copy(v, value)
		fields[name] = v
	}

	return &model.LedgerEntry{
		ID:          entry.ID,
		Predecessor: entry.Predecessor,
		Hash:        entry.Hash,
		Timestamp:   entry.Timestamp,
		Fields:      fields,
	}
}
