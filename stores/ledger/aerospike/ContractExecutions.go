package aerospike

import (
	"context"

	"github.com/aerospike/aerospike-client-go/v8"
	"github.com/colchain/colchain/errors"
)

func (s *Store) contractKey(contract string) (*aerospike.Key, error) {
	key, aErr := aerospike.NewKey(s.namespace, contractSet, contract)
	if aErr != nil {
		return nil, errors.NewStorageError("failed to create contract key", aErr)
	}

	return key, nil
}

func (s *Store) ContractExecutions(_ context.Context, contract string) (int, error) {
	key, err := s.contractKey(contract)
	if err != nil {
		return 0, err
	}

	record, aErr := s.client.Get(nil, key, binCount)
	if aErr != nil {
		if errors.Is(aErr, aerospike.ErrKeyNotFound) {
			return 0, nil
		}

		return 0, errors.NewStorageError("failed to get contract execution count", aErr)
	}

	count, ok := record.Bins[binCount].(int)
	if !ok {
		return 0, errors.NewStorageError("contract execution record has no count bin")
	}

	return count, nil
}

func (s *Store) IncrementContractExecutions(_ context.Context, contract string) error {
	key, err := s.contractKey(contract)
	if err != nil {
		return err
	}

	if _, aErr := s.client.Operate(s.writePolicy(), key, aerospike.AddOp(aerospike.NewBin(binCount, 1))); aErr != nil {
		return errors.NewStorageError("failed to increment contract execution count", aErr)
	}

	return nil
}
