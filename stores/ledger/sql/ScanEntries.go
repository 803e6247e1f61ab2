package sql

import (
	"context"
	"fmt"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/util"
	"github.com/google/uuid"
)

func (s *SQL) ScanEntries(ctx context.Context, table string) ([]*model.LedgerEntry, error) {
	if !util.ValidTableName(table) {
		return nil, errors.NewInvalidArgumentError("invalid table name: %q", table)
	}

	q := fmt.Sprintf(`
		SELECT
			e.blockchainid
			,e.predecessor
			,e.hash
			,e.ts
		FROM %s e
	`, table)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.NewStorageError("error scanning %s", table, err)
	}
	defer rows.Close()

	entryByID := make(map[uuid.UUID]*model.LedgerEntry)
	entries := make([]*model.LedgerEntry, 0)

	for rows.Next() {
		var (
			idBytes  []byte
			preBytes []byte
			hash     string
			ts       int64
		)

		if err = rows.Scan(&idBytes, &preBytes, &hash, &ts); err != nil {
			return nil, errors.NewStorageError("error scanning entry row in %s", table, err)
		}

		id, err := uuid.FromBytes(idBytes)
		if err != nil {
			return nil, errors.NewStorageError("malformed entry id in %s", table, err)
		}

		pre, err := uuid.FromBytes(preBytes)
		if err != nil {
			return nil, errors.NewStorageError("malformed predecessor for entry %s in %s", id, table, err)
		}

		entry := &model.LedgerEntry{
			ID:          id,
			Predecessor: pre,
			Hash:        hash,
			Timestamp:   ts,
			Fields:      make(map[string][]byte),
		}

		entryByID[id] = entry
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("error iterating %s", table, err)
	}

	if err = s.scanFields(ctx, table, entryByID); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *SQL) scanFields(ctx context.Context, table string, entryByID map[uuid.UUID]*model.LedgerEntry) error {
	q := fmt.Sprintf(`
		SELECT
			f.entry_id
			,f.name
			,f.value
		FROM %s_fields f
	`, table)

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return errors.NewStorageError("error scanning %s_fields", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idBytes []byte
			name    string
			value   []byte
		)

		if err = rows.Scan(&idBytes, &name, &value); err != nil {
			return errors.NewStorageError("error scanning field row in %s_fields", table, err)
		}

		id, err := uuid.FromBytes(idBytes)
		if err != nil {
			return errors.NewStorageError("malformed entry id in %s_fields", table, err)
		}

		if entry, ok := entryByID[id]; ok {
			entry.Fields[name] = value
		}
	}

	return rows.Err()
}
