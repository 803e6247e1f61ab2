package contracts

import (
	"context"
	"testing"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/stores/ledger/memory"
	"github.com/colchain/colchain/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("CONTRACT IF Alice RECEIVES 100 SEND 10 FROM Alice TO Bob ONLY 1")
	require.NoError(t, err)

	assert.Equal(t, "Alice", c.TriggerUser)
	assert.Equal(t, Receives, c.Direction)
	assert.Equal(t, int64(100), c.Threshold)
	assert.Equal(t, int64(10), c.Transfer)
	assert.Equal(t, "Alice", c.FromUser)
	assert.Equal(t, "Bob", c.ToUser)
	assert.Equal(t, 1, c.Limit)
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse("CONTRACT IF alice PAYS 50 SEND 5 TO bob")
	require.NoError(t, err)

	assert.Equal(t, Pays, c.Direction)
	assert.Equal(t, "alice", c.FromUser, "FROM defaults to the trigger user")
	assert.Equal(t, 0, c.Limit, "ONLY defaults to unlimited")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no contract keyword", "IF alice RECEIVES 100 SEND 10 TO bob"},
		{"unknown keyword", "CONTRACT IF alice GIVES 100 SEND 10 TO bob"},
		{"missing trigger user", "CONTRACT RECEIVES 100 SEND 10 TO bob"},
		{"missing to user", "CONTRACT IF alice RECEIVES 100 SEND 10"},
		{"missing trigger amount", "CONTRACT IF alice SEND 10 TO bob"},
		{"missing transfer amount", "CONTRACT IF alice RECEIVES 100 TO bob"},
		{"non-numeric amount", "CONTRACT IF alice RECEIVES lots SEND 10 TO bob"},
		{"transfer exceeds threshold", "CONTRACT IF Alice RECEIVES 10 SEND 20 FROM Alice TO Bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrContractParse))
		})
	}
}

func TestMatches(t *testing.T) {
	receives, err := Parse("CONTRACT IF alice RECEIVES 100 SEND 10 TO bob")
	require.NoError(t, err)

	assert.True(t, receives.Matches([]byte("carol"), []byte("alice"), 100))
	assert.True(t, receives.Matches(nil, []byte("alice"), 150))
	assert.False(t, receives.Matches([]byte("carol"), []byte("alice"), 99), "below threshold")
	assert.False(t, receives.Matches([]byte("alice"), []byte("carol"), 100), "alice pays, does not receive")

	pays, err := Parse("CONTRACT IF alice PAYS 100 SEND 10 TO bob")
	require.NoError(t, err)

	assert.True(t, pays.Matches([]byte("alice"), []byte("carol"), 100))
	assert.False(t, pays.Matches([]byte("carol"), []byte("alice"), 100))
}

type emitted struct {
	destination string
	amount      int64
}

func newTestEngine(t *testing.T, maxRegistered int) (*Engine, *[]emitted) {
	tSettings := &settings.Settings{}
	tSettings.Contract.MaxRegistered = maxRegistered

	engine := NewEngine(ulogger.TestLogger{}, tSettings, memory.New(ulogger.TestLogger{}))

	var payments []emitted

	engine.SetEmitter(func(_ context.Context, _ string, destination string, amount int64) error {
		payments = append(payments, emitted{destination: destination, amount: amount})
		return nil
	})

	return engine, &payments
}

func TestEngineMatchReturnsFirstRegistered(t *testing.T) {
	engine, _ := newTestEngine(t, 0)

	first, err := engine.Register("CONTRACT IF alice RECEIVES 100 SEND 10 TO bob")
	require.NoError(t, err)

	_, err = engine.Register("CONTRACT IF alice RECEIVES 50 SEND 5 TO carol")
	require.NoError(t, err)

	assert.Same(t, first, engine.Match(nil, []byte("alice"), 100))
	assert.Nil(t, engine.Match(nil, []byte("bob"), 100))
}

func TestEngineRegistryLimit(t *testing.T) {
	engine, _ := newTestEngine(t, 1)

	_, err := engine.Register("CONTRACT IF alice RECEIVES 100 SEND 10 TO bob")
	require.NoError(t, err)

	_, err = engine.Register("CONTRACT IF bob RECEIVES 100 SEND 10 TO alice")
	require.Error(t, err)
}

func TestEngineReset(t *testing.T) {
	engine, _ := newTestEngine(t, 0)

	_, err := engine.Register("CONTRACT IF alice RECEIVES 100 SEND 10 TO bob")
	require.NoError(t, err)

	engine.Reset()

	assert.Empty(t, engine.Contracts())
	assert.Nil(t, engine.Match(nil, []byte("alice"), 100))
}

func TestExecuteRespectsLimit(t *testing.T) {
	engine, payments := newTestEngine(t, 0)
	ctx := context.Background()

	contract, err := engine.Register("CONTRACT IF Alice RECEIVES 100 SEND 10 FROM Alice TO Bob ONLY 1")
	require.NoError(t, err)

	// ten qualifying events, the contract fires exactly once
	for i := 0; i < 10; i++ {
		require.NoError(t, engine.Execute(ctx, "transactions", contract))
	}

	require.Len(t, *payments, 1)
	assert.Equal(t, emitted{destination: "Bob", amount: 10}, (*payments)[0])
}

func TestExecuteUnlimited(t *testing.T) {
	engine, payments := newTestEngine(t, 0)
	ctx := context.Background()

	contract, err := engine.Register("CONTRACT IF alice RECEIVES 100 SEND 10 TO bob")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Execute(ctx, "transactions", contract))
	}

	assert.Len(t, *payments, 3)
}
