package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/util"
	"github.com/google/uuid"
)

func (s *SQL) GetEntry(ctx context.Context, table string, id uuid.UUID) (*model.LedgerEntry, error) {
	if !util.ValidTableName(table) {
		return nil, errors.NewInvalidArgumentError("invalid table name: %q", table)
	}

	q := fmt.Sprintf(`
		SELECT
			e.predecessor
			,e.hash
			,e.ts
		FROM %s e
		WHERE e.blockchainid = $1
	`, table)

	var (
		predecessor []byte
		hash        string
		ts          int64
	)

	if err := s.db.QueryRowContext(ctx, q, id[:]).Scan(
		&predecessor,
		&hash,
		&ts,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("entry %s not found in %s", id, table)
		}

		return nil, errors.NewStorageError("error reading entry %s from %s", id, table, err)
	}

	pre, err := uuid.FromBytes(predecessor)
	if err != nil {
		return nil, errors.NewStorageError("entry %s in %s has a malformed predecessor", id, table, err)
	}

	fields, err := s.readFields(ctx, table, id)
	if err != nil {
		return nil, err
	}

	return &model.LedgerEntry{
		ID:          id,
		Predecessor: pre,
		Hash:        hash,
		Timestamp:   ts,
		Fields:      fields,
	}, nil
}

func (s *SQL) readFields(ctx context.Context, table string, id uuid.UUID) (map[string][]byte, error) {
	q := fmt.Sprintf(`
		SELECT
			f.name
			,f.value
		FROM %s_fields f
		WHERE f.entry_id = $1
	`, table)

	rows, err := s.db.QueryContext(ctx, q, id[:])
	if err != nil {
		return nil, errors.NewStorageError("error reading fields for entry %s from %s", id, table, err)
	}
	defer rows.Close()

	fields := make(map[string][]byte)

	for rows.Next() {
		var (
			name  string
			value []byte
		)

		if err = rows.Scan(&name, &value); err != nil {
			return nil, errors.NewStorageError("error scanning field row for entry %s", id, err)
		}

		fields[name] = value
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("error iterating fields for entry %s", id, err)
	}

	return fields, nil
}
