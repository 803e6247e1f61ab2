package validator

import (
	"context"
	"testing"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/ulogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	path    []uuid.UUID
	entries map[uuid.UUID]*model.LedgerEntry
}

func (f *fakeChain) CanonicalPath(_ context.Context, _ string) ([]uuid.UUID, error) {
	return f.path, nil
}

func (f *fakeChain) GetEntry(_ context.Context, _ string, id uuid.UUID) (*model.LedgerEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, errors.NewNotFoundError("entry %s not found", id)
	}

	return entry, nil
}

type fakeVerifier struct {
	result bool
}

func (f *fakeVerifier) Verify(_ context.Context, _ string, _ []byte, _ ...[]byte) bool {
	return f.result
}

func transfer(source, dest string, amount int64) *model.LedgerEntry {
	entry := &model.LedgerEntry{
		ID:     uuid.New(),
		Fields: map[string][]byte{},
	}

	if source != "" {
		entry.Fields[model.ColumnSource] = []byte(source)
	}

	if dest != "" {
		entry.Fields[model.ColumnDestination] = []byte(dest)
	}

	entry.Fields[model.ColumnAmount] = model.AmountBytes(amount)

	return entry
}

func chainOf(entries ...*model.LedgerEntry) *fakeChain {
	chain := &fakeChain{
		path:    []uuid.UUID{model.NullSentinel},
		entries: map[uuid.UUID]*model.LedgerEntry{},
	}

	for _, entry := range entries {
		chain.path = append(chain.path, entry.ID)
		chain.entries[entry.ID] = entry
	}

	return chain
}

func TestValidateAmount(t *testing.T) {
	v := New(ulogger.TestLogger{}, chainOf(), &fakeVerifier{result: true})

	require.NoError(t, v.ValidateAmount(transfer("", "alice", 100)))
	require.NoError(t, v.ValidateAmount(transfer("alice", "bob", 0)))

	err := v.ValidateAmount(transfer("alice", "bob", -1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNegativeAmount))
}

func TestValidateBalance(t *testing.T) {
	chain := chainOf(
		transfer("", "alice", 100),
		transfer("alice", "bob", 30),
	)

	v := New(ulogger.TestLogger{}, chain, &fakeVerifier{result: true})
	ctx := context.Background()

	// alice has 70 left
	require.NoError(t, v.ValidateBalance(ctx, "transactions", transfer("alice", "bob", 70)))

	err := v.ValidateBalance(ctx, "transactions", transfer("alice", "bob", 71))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientBalance))

	// bob has 30
	require.NoError(t, v.ValidateBalance(ctx, "transactions", transfer("bob", "alice", 30)))

	err = v.ValidateBalance(ctx, "transactions", transfer("bob", "alice", 31))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientBalance))
}

func TestValidateBalanceMintingAlwaysPasses(t *testing.T) {
	v := New(ulogger.TestLogger{}, chainOf(), &fakeVerifier{result: true})

	require.NoError(t, v.ValidateBalance(context.Background(), "transactions", transfer("", "alice", 1000000)))
}

func TestBalanceIgnoresEntriesOffTheCanonicalPath(t *testing.T) {
	onPath := transfer("", "alice", 100)
	offPath := transfer("", "alice", 500)

	chain := chainOf(onPath)
	chain.entries[offPath.ID] = offPath // stored but not on the path

	v := New(ulogger.TestLogger{}, chain, &fakeVerifier{result: true})

	balance, err := v.Balance(context.Background(), "transactions", []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestValidateSignature(t *testing.T) {
	ctx := context.Background()

	t.Run("minting needs no signature", func(t *testing.T) {
		v := New(ulogger.TestLogger{}, chainOf(), &fakeVerifier{result: false})
		require.NoError(t, v.ValidateSignature(ctx, transfer("", "alice", 10)))
	})

	t.Run("missing signature", func(t *testing.T) {
		v := New(ulogger.TestLogger{}, chainOf(), &fakeVerifier{result: true})

		err := v.ValidateSignature(ctx, transfer("alice", "bob", 10))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrMissingSignature))
	})

	t.Run("invalid signature", func(t *testing.T) {
		v := New(ulogger.TestLogger{}, chainOf(), &fakeVerifier{result: false})

		entry := transfer("alice", "bob", 10)
		entry.Fields[model.ColumnSignature] = []byte{1, 2, 3}

		err := v.ValidateSignature(ctx, entry)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSignatureInvalid))
	})

	t.Run("valid signature", func(t *testing.T) {
		v := New(ulogger.TestLogger{}, chainOf(), &fakeVerifier{result: true})

		entry := transfer("alice", "bob", 10)
		entry.Fields[model.ColumnSignature] = []byte{1, 2, 3}

		require.NoError(t, v.ValidateSignature(ctx, entry))
	})
}
