// Package memory is a process-local key store for tests and debug mode.
package memory

import (
	"context"
	"sync"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/ulogger"
)

type Memory struct {
	mu     sync.RWMutex
	logger ulogger.Logger
	keys   map[string]*model.KeyRecord
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger: logger,
		keys:   make(map[string]*model.KeyRecord),
	}
}

func (m *Memory) GetKey(_ context.Context, name string) (*model.KeyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.keys[name]
	if !ok {
		return nil, errors.NewNotFoundError("key %s not found", name)
	}

	r := *record

	return &r, nil
}

func (m *Memory) PutKeyIfAbsent(_ context.Context, record *model.KeyRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[record.Name]; exists {
		return false, nil
	}

	r := *record
	m.keys[record.Name] = &r

	return true, nil
}

func (m *Memory) Close() error {
	return nil
}
