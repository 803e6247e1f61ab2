package aerospike

import (
	"context"

	"github.com/aerospike/aerospike-client-go/v8"
	"github.com/aerospike/aerospike-client-go/v8/types"
	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
)

func (s *Store) InsertEntry(_ context.Context, table string, entry *model.LedgerEntry) error {
	key, err := s.entryKey(table, entry.ID)
	if err != nil {
		return err
	}

	bins := aerospike.BinMap{
		model.ColumnID: entry.ID[:],
		binPredecessor: entry.Predecessor[:],
		binHash:        entry.Hash,
		binTimestamp:   entry.Timestamp,
	}

	for name, value := range entry.Fields {
		if value == nil {
			continue
		}

		bins[name] = value
	}

	policy := s.writePolicy()
	policy.RecordExistsAction = aerospike.CREATE_ONLY

	if aErr := s.client.Put(policy, key, bins); aErr != nil {
		if aErr.Matches(types.KEY_EXISTS_ERROR) {
			return errors.NewStorageError("entry %s already exists in %s", entry.ID, table, aErr)
		}

		return errors.NewStorageError("failed to insert entry %s into %s", entry.ID, table, aErr)
	}

	return nil
}
