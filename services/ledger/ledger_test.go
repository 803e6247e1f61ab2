package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/services/contracts"
	"github.com/colchain/colchain/services/signer"
	"github.com/colchain/colchain/settings"
	keymemory "github.com/colchain/colchain/stores/keystore/memory"
	ledgerstore "github.com/colchain/colchain/stores/ledger"
	ledgermemory "github.com/colchain/colchain/stores/ledger/memory"
	"github.com/colchain/colchain/ulogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = "transactions"

func testSettings() *settings.Settings {
	tSettings := &settings.Settings{}
	tSettings.Ledger.Delimiter = "|"
	tSettings.Ledger.TreeTTL = time.Minute

	return tSettings
}

type testLedger struct {
	*Ledger
	store  ledgerstore.Store
	signer *signer.Signer
	engine *contracts.Engine
}

func newTestLedger(t *testing.T) *testLedger {
	logger := ulogger.TestLogger{}
	tSettings := testSettings()

	store := ledgermemory.New(logger)

	sign, err := signer.New(context.Background(), logger, tSettings, keymemory.New(logger))
	require.NoError(t, err)

	engine := contracts.NewEngine(logger, tSettings, store)

	l := New(logger, tSettings, store, sign, engine)
	t.Cleanup(l.Close)

	require.NoError(t, l.CreateLedger(context.Background(), testTable))

	return &testLedger{Ledger: l, store: store, signer: sign, engine: engine}
}

func mint(t *testing.T, l *testLedger, dest string, amount int64) uuid.UUID {
	id := uuid.New()

	_, err := l.Append(context.Background(), testTable, id, 0, map[string][]byte{
		model.ColumnDestination: []byte(dest),
		model.ColumnAmount:      model.AmountBytes(amount),
	})
	require.NoError(t, err)

	return id
}

func transfer(l *testLedger, source, dest string, amount int64) error {
	l.signer.SignNext(source)

	_, err := l.Append(context.Background(), testTable, uuid.New(), 0, map[string][]byte{
		model.ColumnSource:      []byte(source),
		model.ColumnDestination: []byte(dest),
		model.ColumnAmount:      model.AmountBytes(amount),
	})

	return err
}

func TestAppendAdvancesTheChainHead(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	head, err := l.ChainHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.NullSentinel, head)

	id := mint(t, l, "alice", 100)

	head, err = l.ChainHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, head)

	entry, err := l.GetEntry(ctx, testTable, id)
	require.NoError(t, err)
	assert.Equal(t, model.NullSentinel, entry.Predecessor)

	preHash, err := l.PredecessorHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry.Hash, preHash)
}

func TestTransfersAndBalances(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.signer.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)
	_, err = l.signer.GetOrCreateIdentity(ctx, "bob")
	require.NoError(t, err)

	mint(t, l, "alice", 100)
	require.NoError(t, transfer(l, "alice", "bob", 30))

	balance, err := l.Balance(ctx, testTable, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)

	balance, err = l.Balance(ctx, testTable, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	err = transfer(l, "bob", "alice", 31)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientBalance))

	// the rejected transfer changed nothing
	balance, err = l.Balance(ctx, testTable, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)
}

func TestFreshLedgerBalanceValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	zero := &model.LedgerEntry{
		ID: uuid.New(),
		Fields: map[string][]byte{
			model.ColumnSource: []byte("carol"),
			model.ColumnAmount: model.AmountBytes(0),
		},
	}

	require.NoError(t, l.Validator().ValidateBalance(ctx, testTable, zero))

	one := &model.LedgerEntry{
		ID: uuid.New(),
		Fields: map[string][]byte{
			model.ColumnSource: []byte("carol"),
			model.ColumnAmount: model.AmountBytes(1),
		},
	}

	err := l.Validator().ValidateBalance(ctx, testTable, one)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientBalance))
}

func TestAppendRejectsNegativeAmount(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Append(context.Background(), testTable, uuid.New(), 0, map[string][]byte{
		model.ColumnDestination: []byte("alice"),
		model.ColumnAmount:      model.AmountBytes(-1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNegativeAmount))
}

func TestAppendRejectsUnsignedSpend(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.signer.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	mint(t, l, "alice", 100)

	_, err = l.Append(ctx, testTable, uuid.New(), 0, map[string][]byte{
		model.ColumnSource:      []byte("alice"),
		model.ColumnDestination: []byte("bob"),
		model.ColumnAmount:      model.AmountBytes(10),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingSignature))
}

func TestAppendRejectsForgedSignature(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.signer.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	mint(t, l, "alice", 100)

	// signed over the wrong amount
	sig, err := l.signer.Sign(ctx, "alice",
		[]byte("alice"), []byte("bob"), model.AmountBytes(1), model.TimestampBytes(42))
	require.NoError(t, err)

	_, err = l.Append(ctx, testTable, uuid.New(), 42, map[string][]byte{
		model.ColumnSource:      []byte("alice"),
		model.ColumnDestination: []byte("bob"),
		model.ColumnAmount:      model.AmountBytes(10),
		model.ColumnSignature:   sig,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSignatureInvalid))
}

func TestVerifyAlgorithmsAgree(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.signer.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	mint(t, l, "alice", 100)
	require.NoError(t, transfer(l, "alice", "bob", 30))
	mint(t, l, "bob", 5)

	iterative, err := l.VerifyIterative(ctx, testTable)
	require.NoError(t, err)

	recursive, err := l.VerifyRecursive(ctx, testTable)
	require.NoError(t, err)

	assert.Equal(t, iterative, recursive)

	preHash, err := l.PredecessorHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, preHash, iterative)

	ok, err := l.Verify(ctx, testTable)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mint(t, l, "alice", 100)
	tampered := mint(t, l, "bob", 20)
	mint(t, l, "carol", 5)

	// rebuild the table with one amount altered
	entries, err := l.store.ScanEntries(ctx, testTable)
	require.NoError(t, err)

	copyStore := ledgermemory.New(ulogger.TestLogger{})
	require.NoError(t, copyStore.CreateLedger(ctx, testTable))

	for _, entry := range entries {
		if entry.ID == tampered {
			entry.Fields[model.ColumnAmount] = model.AmountBytes(2000)
		}

		require.NoError(t, copyStore.InsertEntry(ctx, testTable, entry))
	}

	state, err := l.store.GetChainState(ctx)
	require.NoError(t, err)
	require.NoError(t, copyStore.SetChainState(ctx, state))

	sign, err := signer.New(ctx, ulogger.TestLogger{}, testSettings(), keymemory.New(ulogger.TestLogger{}))
	require.NoError(t, err)

	tamperedLedger := New(ulogger.TestLogger{}, testSettings(), copyStore, sign, contracts.NewEngine(ulogger.TestLogger{}, testSettings(), copyStore))
	t.Cleanup(tamperedLedger.Close)

	_, err = tamperedLedger.VerifyIterative(ctx, testTable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrChainBroken))

	_, err = tamperedLedger.VerifyRecursive(ctx, testTable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrChainBroken))

	ok, err := tamperedLedger.Verify(ctx, testTable)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContractFiresOnceThroughAppend(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.engine.Register("CONTRACT IF alice RECEIVES 100 SEND 10 FROM alice TO bob ONLY 1")
	require.NoError(t, err)

	mint(t, l, "alice", 100)

	balance, err := l.Balance(ctx, testTable, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance, "the contract paid bob")

	// further qualifying events do not fire the exhausted contract
	mint(t, l, "alice", 100)
	mint(t, l, "alice", 100)

	balance, err = l.Balance(ctx, testTable, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	ok, err := l.Verify(ctx, testTable)
	require.NoError(t, err)
	assert.True(t, ok, "contract payments are chained like any entry")
}

func TestCreateLedgerResetsState(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	mint(t, l, "alice", 100)
	require.NoError(t, l.CreateLedger(ctx, testTable))

	head, err := l.ChainHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.NullSentinel, head)

	balance, err := l.Balance(ctx, testTable, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestCreateLedgerResetsContractState(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	contract, err := l.engine.Register("CONTRACT IF alice RECEIVES 100 SEND 10 FROM alice TO bob ONLY 1")
	require.NoError(t, err)

	mint(t, l, "alice", 100)

	count, err := l.store.ContractExecutions(ctx, contract.Text)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, l.CreateLedger(ctx, testTable))

	assert.Empty(t, l.engine.Contracts(), "registered contracts do not survive a reset")

	count, err = l.store.ContractExecutions(ctx, contract.Text)
	require.NoError(t, err)
	assert.Zero(t, count, "execution counters do not survive a reset")

	// a qualifying event on the fresh chain must not fire the old contract
	mint(t, l, "alice", 100)

	balance, err := l.Balance(ctx, testTable, "bob")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestAppendRejectsInvalidTableName(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Append(context.Background(), "bad;drop", uuid.New(), 0, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}
