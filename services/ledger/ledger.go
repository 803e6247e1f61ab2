// Package ledger chains table writes into a hash-linked history and owns
// the mutable chain head.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/services/contracts"
	"github.com/colchain/colchain/services/signer"
	"github.com/colchain/colchain/services/validator"
	"github.com/colchain/colchain/settings"
	ledgerstore "github.com/colchain/colchain/stores/ledger"
	"github.com/colchain/colchain/ulogger"
	"github.com/colchain/colchain/util"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/kpango/fastime"
)

// Ledger serializes appends per process. The head read, validation, digest
// computation and head write form one critical section; two writers racing
// on the same head would fork the chain.
type Ledger struct {
	logger    ulogger.Logger
	settings  *settings.Settings
	store     ledgerstore.Store
	signer    *signer.Signer
	validator *validator.Validator
	contracts *contracts.Engine

	mu    sync.Mutex
	state *model.ChainState
	trees *ttlcache.Cache[string, *Tree]
}

func New(logger ulogger.Logger, tSettings *settings.Settings, store ledgerstore.Store, sign *signer.Signer, engine *contracts.Engine) *Ledger {
	initPrometheusMetrics()

	l := &Ledger{
		logger:    logger,
		settings:  tSettings,
		store:     store,
		signer:    sign,
		contracts: engine,
		trees: ttlcache.New[string, *Tree](
			ttlcache.WithTTL[string, *Tree](tSettings.Ledger.TreeTTL),
		),
	}

	l.validator = validator.New(logger, l, sign)

	engine.SetEmitter(l.emitContractPayment)

	go l.trees.Start()

	return l
}

// Append validates, chains and persists one entry, advances the chain head
// and fires any matching contract. The entry's timestamp is set to now
// when zero. It returns the digest the entry produced.
func (l *Ledger) Append(ctx context.Context, table string, id uuid.UUID, timestamp int64, fields map[string][]byte) (string, error) {
	if !util.ValidTableName(table) {
		return "", errors.NewInvalidArgumentError("invalid table name %q", table)
	}

	if timestamp == 0 {
		timestamp = fastime.Now().UnixMilli()
	}

	if fields == nil {
		fields = map[string][]byte{}
	}

	entry := &model.LedgerEntry{
		ID:        id,
		Timestamp: timestamp,
		Fields:    fields,
	}

	if err := l.maybeSign(ctx, entry); err != nil {
		return "", err
	}

	digest, err := l.append(ctx, table, entry)
	if err != nil {
		return "", err
	}

	prometheusLedgerAppend.Inc()

	if contract := l.contracts.Match(entry.Source(), entry.Destination(), entry.Amount()); contract != nil {
		// outside the head lock: firing appends another entry
		if err := l.contracts.Execute(ctx, table, contract); err != nil {
			l.logger.Errorf("contract execution failed for %q: %v", contract.Text, err)
		} else {
			prometheusContractExecutions.Inc()
		}
	}

	return digest, nil
}

func (l *Ledger) append(ctx context.Context, table string, entry *model.LedgerEntry) (string, error) {
	start := fastime.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.stateLocked(ctx)
	if err != nil {
		return "", err
	}

	if err := l.validator.Validate(ctx, table, entry); err != nil {
		return "", err
	}

	digest := CalculateHash(l.settings.Ledger.Delimiter, entry.ID, entry.Timestamp, entry.PayloadValues(), state.PredecessorHash)

	entry.Predecessor = state.Head
	entry.Hash = digest

	if err := l.store.InsertEntry(ctx, table, entry); err != nil {
		return "", err
	}

	newState := &model.ChainState{
		Head:            entry.ID,
		PredecessorHash: digest,
	}

	if err := l.store.SetChainState(ctx, newState); err != nil {
		return "", err
	}

	l.state = newState
	l.trees.Delete(table)

	prometheusLedgerAppendDuration.Observe(time.Since(start).Seconds())

	return digest, nil
}

// maybeSign fills in the signature cell when the signer was armed with
// SignNext and the entry has none yet.
func (l *Ledger) maybeSign(ctx context.Context, entry *model.LedgerEntry) error {
	if entry.Signature() != nil {
		return nil
	}

	sig, err := l.signer.MaybeSign(ctx, entry.Source(),
		entry.Source(),
		entry.Destination(),
		entry.Fields[model.ColumnAmount],
		model.TimestampBytes(entry.Timestamp),
	)
	if err != nil {
		return err
	}

	if sig != nil {
		entry.Fields[model.ColumnSignature] = sig
	}

	return nil
}

func (l *Ledger) emitContractPayment(ctx context.Context, table string, destination string, amount int64) error {
	id, err := uuid.NewUUID()
	if err != nil {
		return errors.NewProcessingError("failed to generate entry id", err)
	}

	_, err = l.Append(ctx, table, id, 0, map[string][]byte{
		model.ColumnDestination: []byte(destination),
		model.ColumnAmount:      model.AmountBytes(amount),
	})

	return err
}

// stateLocked returns the chain state, restoring it from the store on
// first use. The caller holds l.mu.
func (l *Ledger) stateLocked(ctx context.Context) (*model.ChainState, error) {
	if l.state != nil {
		return l.state, nil
	}

	state, err := l.store.GetChainState(ctx)
	if err != nil {
		return nil, err
	}

	l.state = state

	return state, nil
}

// ChainHead returns the id of the most recently accepted entry, or the
// null sentinel for an empty ledger.
func (l *Ledger) ChainHead(ctx context.Context) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.stateLocked(ctx)
	if err != nil {
		return uuid.UUID{}, err
	}

	return state.Head, nil
}

// PredecessorHash returns the digest the next appended entry must chain to.
func (l *Ledger) PredecessorHash(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.stateLocked(ctx)
	if err != nil {
		return "", err
	}

	return state.PredecessorHash, nil
}

// NullSentinel returns the reserved no-predecessor id.
func (l *Ledger) NullSentinel() uuid.UUID {
	return model.NullSentinel
}

// GetEntry reads one entry from the store.
func (l *Ledger) GetEntry(ctx context.Context, table string, id uuid.UUID) (*model.LedgerEntry, error) {
	return l.store.GetEntry(ctx, table, id)
}

// CreateLedger provisions the table and resets the chain head, the cached
// fork tree and the contract state. Idempotent: recreating an existing
// ledger empties it.
func (l *Ledger) CreateLedger(ctx context.Context, table string) error {
	if !util.ValidTableName(table) {
		return errors.NewInvalidArgumentError("invalid table name %q", table)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.CreateLedger(ctx, table); err != nil {
		return err
	}

	l.state = model.NewChainState()
	l.trees.Delete(table)
	l.contracts.Reset()

	l.logger.Infof("created ledger table %s", table)

	return nil
}

// SetDebugMode routes store writes through the relaxed, non-replicated
// path used for testing.
func (l *Ledger) SetDebugMode(debug bool) {
	l.store.SetDebug(debug)
	l.logger.Warnf("debug mode set to %v", debug)
}

// Tree returns the fork tree of a table, cached between appends.
func (l *Ledger) Tree(ctx context.Context, table string) (*Tree, error) {
	if item := l.trees.Get(table); item != nil {
		return item.Value(), nil
	}

	entries, err := l.store.ScanEntries(ctx, table)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(model.NullSentinel, entries)
	if err != nil {
		return nil, err
	}

	l.trees.Set(table, tree, ttlcache.DefaultTTL)

	return tree, nil
}

// CanonicalPath returns the authoritative history of a table: root to
// deepest leaf, forks broken by smallest id.
func (l *Ledger) CanonicalPath(ctx context.Context, table string) ([]uuid.UUID, error) {
	tree, err := l.Tree(ctx, table)
	if err != nil {
		return nil, err
	}

	return tree.CanonicalPath(), nil
}

// Balance computes a user's balance along the canonical path.
func (l *Ledger) Balance(ctx context.Context, table string, user string) (int64, error) {
	return l.validator.Balance(ctx, table, []byte(user))
}

// Validator exposes the constraint checks for pre-write hooks.
func (l *Ledger) Validator() *validator.Validator {
	return l.validator
}

func (l *Ledger) Close() {
	l.trees.Stop()
}
