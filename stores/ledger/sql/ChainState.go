package sql

import (
	"context"
	"database/sql"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/util"
	"github.com/google/uuid"
)

func (s *SQL) GetChainState(ctx context.Context) (*model.ChainState, error) {
	q := `
		SELECT
			head
			,hash
		FROM ledger_state
		WHERE nullblock = $1
	`

	var (
		head []byte
		hash string
	)

	if err := s.db.QueryRowContext(ctx, q, nullSentinelBytes()).Scan(
		&head,
		&hash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// fresh store, empty chain
			return model.NewChainState(), nil
		}

		return nil, errors.NewStorageError("error reading chain state", err)
	}

	headID, err := uuid.FromBytes(head)
	if err != nil {
		return nil, errors.NewStorageError("chain state head is malformed", err)
	}

	return &model.ChainState{
		Head:            headID,
		PredecessorHash: hash,
	}, nil
}

func (s *SQL) SetChainState(ctx context.Context, state *model.ChainState) error {
	var q string

	if s.engine == util.Postgres {
		q = `
			INSERT INTO ledger_state (nullblock, head, hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (nullblock) DO UPDATE SET head = EXCLUDED.head, hash = EXCLUDED.hash
		`
	} else {
		q = `
			INSERT OR REPLACE INTO ledger_state (nullblock, head, hash)
			VALUES ($1, $2, $3)
		`
	}

	if _, err := s.db.ExecContext(ctx, q, nullSentinelBytes(), state.Head[:], state.PredecessorHash); err != nil {
		return errors.NewStorageError("error writing chain state", err)
	}

	return nil
}
