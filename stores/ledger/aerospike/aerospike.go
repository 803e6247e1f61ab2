// Package aerospike implements the ledger store on an Aerospike cluster.
//
// Each ledger table maps to an Aerospike set in the configured namespace.
// Entries are stored one record per blockchain id, with the reserved columns
// and every payload field as individual bins. The chain state lives in a
// dedicated set keyed by the null sentinel, and contract execution counters
// in another set keyed by the contract text.
package aerospike

import (
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aerospike/aerospike-client-go/v8"
	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/ulogger"
	"github.com/google/uuid"
)

const (
	stateSet    = "ledger_state"
	contractSet = "contract_executions"

	binPredecessor = "predecessor"
	binHash        = "hash"
	binTimestamp   = "timestamp"
	binHead        = "head"
	binPreHash     = "prehash"
	binCount       = "count"
)

type Store struct {
	logger    ulogger.Logger
	client    *aerospike.Client
	namespace string
	debug     atomic.Bool
}

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*Store, error) {
	namespace := tSettings.Store.AerospikeNamespace
	if len(storeURL.Path) > 1 {
		namespace = storeURL.Path[1:]
	}

	if namespace == "" {
		return nil, errors.NewConfigurationError("aerospike store: no namespace in %s", storeURL)
	}

	port := 3000

	if portValue := storeURL.Port(); portValue != "" {
		p, err := strconv.Atoi(portValue)
		if err != nil {
			return nil, errors.NewConfigurationError("aerospike store: invalid port %s", portValue, err)
		}

		port = p
	}

	policy := aerospike.NewClientPolicy()
	policy.LimitConnectionsToQueueSize = true
	policy.Timeout = 5 * time.Second

	client, aErr := aerospike.NewClientWithPolicy(policy, storeURL.Hostname(), port)
	if aErr != nil {
		return nil, errors.NewStorageError("aerospike store: failed to connect to %s", storeURL.Host, aErr)
	}

	logger.Infof("connected to aerospike at %s, namespace %s", storeURL.Host, namespace)

	return &Store{
		logger:    logger,
		client:    client,
		namespace: namespace,
	}, nil
}

// SetDebug relaxes the commit level so writes are acknowledged by the master
// node only, instead of waiting for all replicas.
func (s *Store) SetDebug(debug bool) {
	s.debug.Store(debug)
}

func (s *Store) writePolicy() *aerospike.WritePolicy {
	policy := aerospike.NewWritePolicy(0, aerospike.TTLDontExpire)

	if s.debug.Load() {
		policy.CommitLevel = aerospike.COMMIT_MASTER
	} else {
		policy.CommitLevel = aerospike.COMMIT_ALL
	}

	return policy
}

func (s *Store) entryKey(table string, id uuid.UUID) (*aerospike.Key, error) {
	key, aErr := aerospike.NewKey(s.namespace, table, id[:])
	if aErr != nil {
		return nil, errors.NewStorageError("aerospike store: failed to create key for %s", id, aErr)
	}

	return key, nil
}

func entryFromBins(id uuid.UUID, bins aerospike.BinMap) (*model.LedgerEntry, error) {
	entry := &model.LedgerEntry{
		ID:     id,
		Fields: make(map[string][]byte),
	}

	for name, value := range bins {
		switch name {
		case model.ColumnID:
			// stored as a bin because scans do not return user keys

		case binPredecessor:
			b, ok := value.([]byte)
			if !ok {
				return nil, errors.NewStorageError("aerospike store: predecessor bin of %s is not bytes", id)
			}

			predecessor, err := uuid.FromBytes(b)
			if err != nil {
				return nil, errors.NewStorageError("aerospike store: invalid predecessor of %s", id, err)
			}

			entry.Predecessor = predecessor

		case binHash:
			h, ok := value.(string)
			if !ok {
				return nil, errors.NewStorageError("aerospike store: hash bin of %s is not a string", id)
			}

			entry.Hash = h

		case binTimestamp:
			ts, ok := value.(int)
			if !ok {
				return nil, errors.NewStorageError("aerospike store: timestamp bin of %s is not an integer", id)
			}

			entry.Timestamp = int64(ts)

		default:
			b, ok := value.([]byte)
			if !ok {
				return nil, errors.NewStorageError("aerospike store: field bin %s of %s is not bytes", name, id)
			}

			entry.Fields[name] = b
		}
	}

	return entry, nil
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}
