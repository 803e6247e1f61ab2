package sql

import (
	"context"
	"fmt"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/util"
)

func (s *SQL) InsertEntry(ctx context.Context, table string, entry *model.LedgerEntry) error {
	if !util.ValidTableName(table) {
		return errors.NewInvalidArgumentError("invalid table name: %q", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("error starting insert transaction for %s", table, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	q := fmt.Sprintf(`
		INSERT INTO %s (blockchainid, predecessor, hash, ts)
		VALUES ($1, $2, $3, $4)
	`, table)

	if _, err = tx.ExecContext(ctx, q, entry.ID[:], entry.Predecessor[:], entry.Hash, entry.Timestamp); err != nil {
		return errors.NewStorageError("error inserting entry %s into %s", entry.ID, table, err)
	}

	fq := fmt.Sprintf(`
		INSERT INTO %s_fields (entry_id, name, value)
		VALUES ($1, $2, $3)
	`, table)

	for name, value := range entry.Fields {
		if value == nil {
			continue
		}

		if _, err = tx.ExecContext(ctx, fq, entry.ID[:], name, value); err != nil {
			return errors.NewStorageError("error inserting field %s for entry %s", name, entry.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.NewStorageError("error committing entry %s into %s", entry.ID, table, err)
	}

	return nil
}
