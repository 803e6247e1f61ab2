package aerospike

import (
	"context"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
)

func (s *Store) ScanEntries(ctx context.Context, table string) ([]*model.LedgerEntry, error) {
	recordset, aErr := s.client.ScanAll(nil, s.namespace, table)
	if aErr != nil {
		return nil, errors.NewStorageError("failed to scan %s", table, aErr)
	}
	defer recordset.Close()

	var entries []*model.LedgerEntry

	for result := range recordset.Results() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if result.Err != nil {
			return nil, errors.NewStorageError("scan of %s failed", table, result.Err)
		}

		idValue, ok := result.Record.Bins[model.ColumnID].([]byte)
		if !ok {
			return nil, errors.NewStorageError("scan of %s returned a record without an id bin", table)
		}

		id, err := uuid.FromBytes(idValue)
		if err != nil {
			return nil, errors.NewStorageError("scan of %s returned an invalid entry id", table, err)
		}

		entry, err := entryFromBins(id, result.Record.Bins)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
