package aerospike

import (
	"context"

	"github.com/aerospike/aerospike-client-go/v8"
	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
)

func (s *Store) stateKey() (*aerospike.Key, error) {
	key, aErr := aerospike.NewKey(s.namespace, stateSet, model.NullSentinel[:])
	if aErr != nil {
		return nil, errors.NewStorageError("failed to create chain state key", aErr)
	}

	return key, nil
}

func (s *Store) GetChainState(_ context.Context) (*model.ChainState, error) {
	key, err := s.stateKey()
	if err != nil {
		return nil, err
	}

	record, aErr := s.client.Get(nil, key)
	if aErr != nil {
		if errors.Is(aErr, aerospike.ErrKeyNotFound) {
			return model.NewChainState(), nil
		}

		return nil, errors.NewStorageError("failed to get chain state", aErr)
	}

	headValue, ok := record.Bins[binHead].([]byte)
	if !ok {
		return nil, errors.NewStorageError("chain state record has no head bin")
	}

	head, err := uuid.FromBytes(headValue)
	if err != nil {
		return nil, errors.NewStorageError("chain state record has an invalid head", err)
	}

	preHash, ok := record.Bins[binPreHash].(string)
	if !ok {
		return nil, errors.NewStorageError("chain state record has no predecessor hash bin")
	}

	return &model.ChainState{
		Head:            head,
		PredecessorHash: preHash,
	}, nil
}

func (s *Store) SetChainState(_ context.Context, state *model.ChainState) error {
	key, err := s.stateKey()
	if err != nil {
		return err
	}

	bins := aerospike.BinMap{
		binHead:    state.Head[:],
		binPreHash: state.PredecessorHash,
	}

	if aErr := s.client.Put(s.writePolicy(), key, bins); aErr != nil {
		return errors.NewStorageError("failed to set chain state", aErr)
	}

	return nil
}
