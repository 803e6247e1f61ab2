package aerospike

import (
	"context"

	"github.com/aerospike/aerospike-client-go/v8"
	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
)

func (s *Store) GetEntry(_ context.Context, table string, id uuid.UUID) (*model.LedgerEntry, error) {
	key, err := s.entryKey(table, id)
	if err != nil {
		return nil, err
	}

	record, aErr := s.client.Get(nil, key)
	if aErr != nil {
		if errors.Is(aErr, aerospike.ErrKeyNotFound) {
			return nil, errors.NewNotFoundError("entry %s not found in %s", id, table)
		}

		return nil, errors.NewStorageError("failed to get entry %s from %s", id, table, aErr)
	}

	return entryFromBins(id, record.Bins)
}
