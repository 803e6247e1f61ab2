package sql

import (
	"context"
	"database/sql"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/util"
)

func (s *SQL) ContractExecutions(ctx context.Context, contract string) (int, error) {
	q := `
		SELECT
			executions
		FROM contract_executions
		WHERE contract = $1
	`

	var executions int

	if err := s.db.QueryRowContext(ctx, q, contract).Scan(&executions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, errors.NewStorageError("error reading contract executions", err)
	}

	return executions, nil
}

func (s *SQL) IncrementContractExecutions(ctx context.Context, contract string) error {
	var q string

	if s.engine == util.Postgres {
		q = `
			INSERT INTO contract_executions (contract, executions)
			VALUES ($1, 1)
			ON CONFLICT (contract) DO UPDATE SET executions = contract_executions.executions + 1
		`
	} else {
		q = `
			INSERT INTO contract_executions (contract, executions)
			VALUES ($1, 1)
			ON CONFLICT (contract) DO UPDATE SET executions = executions + 1
		`
	}

	if _, err := s.db.ExecContext(ctx, q, contract); err != nil {
		return errors.NewStorageError("error incrementing contract executions", err)
	}

	return nil
}
