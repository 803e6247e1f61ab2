package aerospike

import (
	"context"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
)

// CreateLedger truncates the set backing the table, clears the contract
// execution counters and resets the chain state to the null sentinel.
func (s *Store) CreateLedger(ctx context.Context, table string) error {
	if aErr := s.client.Truncate(nil, s.namespace, table, nil); aErr != nil {
		return errors.NewStorageError("failed to truncate %s", table, aErr)
	}

	if aErr := s.client.Truncate(nil, s.namespace, contractSet, nil); aErr != nil {
		return errors.NewStorageError("failed to truncate %s", contractSet, aErr)
	}

	return s.SetChainState(ctx, model.NewChainState())
}
