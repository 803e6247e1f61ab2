package signer

import (
	"context"
	"testing"

	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/stores/keystore/memory"
	"github.com/colchain/colchain/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	s, err := New(context.Background(), ulogger.TestLogger{}, &settings.Settings{}, memory.New(ulogger.TestLogger{}))
	require.NoError(t, err)

	return s
}

func TestSignAndVerify(t *testing.T) {
	s := newTestSigner(t)
	ctx := context.Background()

	created, err := s.GetOrCreateIdentity(ctx, "Alice")
	require.NoError(t, err)
	assert.True(t, created)

	values := [][]byte{[]byte("alice"), []byte("bob"), {0, 0, 0, 0, 0, 0, 0, 42}}

	sig, err := s.Sign(ctx, "alice", values...)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	assert.True(t, s.Verify(ctx, "alice", sig, values...))

	// input order must not matter
	assert.True(t, s.Verify(ctx, "ALICE", sig, values[2], values[0], values[1]))
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	s := newTestSigner(t)
	ctx := context.Background()

	_, err := s.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	sig, err := s.Sign(ctx, "alice", []byte("alice"), []byte("bob"))
	require.NoError(t, err)

	assert.False(t, s.Verify(ctx, "alice", sig, []byte("alice"), []byte("mallory")))
}

func TestVerifyUnknownUserReturnsFalse(t *testing.T) {
	s := newTestSigner(t)

	assert.False(t, s.Verify(context.Background(), "nobody", []byte{1, 2, 3}, []byte("x")))
}

func TestVerifyGarbageSignatureReturnsFalse(t *testing.T) {
	s := newTestSigner(t)
	ctx := context.Background()

	_, err := s.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	assert.False(t, s.Verify(ctx, "alice", []byte("not a signature"), []byte("x")))
}

func TestGetOrCreateIdentityIsIdempotent(t *testing.T) {
	s := newTestSigner(t)
	ctx := context.Background()

	created, err := s.GetOrCreateIdentity(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.GetOrCreateIdentity(ctx, "Bob")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMaybeSignIsOneShot(t *testing.T) {
	s := newTestSigner(t)
	ctx := context.Background()

	_, err := s.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	source := []byte("alice")
	values := [][]byte{source, []byte("bob")}

	// not armed
	sig, err := s.MaybeSign(ctx, source, values...)
	require.NoError(t, err)
	assert.Nil(t, sig)

	s.SignNext("alice")

	sig, err = s.MaybeSign(ctx, source, values...)
	require.NoError(t, err)
	require.NotEmpty(t, sig)
	assert.True(t, s.Verify(ctx, "alice", sig, values...))

	// disarmed again
	sig, err = s.MaybeSign(ctx, source, values...)
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestMaybeSignWithoutSourceProducesNothing(t *testing.T) {
	s := newTestSigner(t)
	ctx := context.Background()

	_, err := s.GetOrCreateIdentity(ctx, "alice")
	require.NoError(t, err)

	s.SignNext("alice")

	sig, err := s.MaybeSign(ctx, nil, []byte("bob"))
	require.NoError(t, err)
	assert.Nil(t, sig)

	// the trigger is consumed even when nothing was signed
	sig, err = s.MaybeSign(ctx, []byte("alice"), []byte("bob"))
	require.NoError(t, err)
	assert.Nil(t, sig)
}
