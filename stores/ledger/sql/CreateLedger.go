package sql

import (
	"context"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/util"
)

// CreateLedger provisions the table schema and resets the chain head to the
// null sentinel. Contract execution counters are cleared so that a rebuilt
// ledger starts with a clean slate. Existing rows in other ledger tables are
// untouched; the target table is recreated empty when it already exists.
func (s *SQL) CreateLedger(ctx context.Context, table string) error {
	if !util.ValidTableName(table) {
		return errors.NewInvalidArgumentError("invalid table name: %q", table)
	}

	if err := s.createStateSchema(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+"_fields;"); err != nil {
		return errors.NewStorageError("could not drop table %s_fields", table, err)
	}

	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+";"); err != nil {
		return errors.NewStorageError("could not drop table %s", table, err)
	}

	if err := s.createTableSchema(ctx, table); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM contract_executions;"); err != nil {
		return errors.NewStorageError("could not clear contract executions", err)
	}

	return s.SetChainState(ctx, model.NewChainState())
}
