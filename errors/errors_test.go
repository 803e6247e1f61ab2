package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		err := New(ERR_NEGATIVE_AMOUNT, "amount %d is negative", -1)
		require.Error(t, err)
		assert.Equal(t, ERR_NEGATIVE_AMOUNT, err.Code())
		assert.Contains(t, err.Error(), "ERR_NEGATIVE_AMOUNT")
		assert.Contains(t, err.Error(), "amount -1 is negative")
	})

	t.Run("wraps trailing error", func(t *testing.T) {
		cause := fmt.Errorf("disk on fire")
		err := New(ERR_STORAGE_ERROR, "failed to insert row %q", "abc", cause)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `failed to insert row "abc"`)
		assert.Contains(t, err.Error(), "disk on fire")
		require.NotNil(t, err.Unwrap())
	})

	t.Run("invalid code", func(t *testing.T) {
		err := New(ERR(9999), "whatever")
		assert.Equal(t, "invalid error code", err.Message())
	})
}

func TestIs(t *testing.T) {
	t.Run("matches by code", func(t *testing.T) {
		err := NewInsufficientBalanceError("account bob: requested 31, available 30")
		assert.True(t, Is(err, ErrInsufficientBalance))
		assert.False(t, Is(err, ErrNegativeAmount))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := NewChainBrokenError("entry 42 does not match")
		outer := NewProcessingError("verification failed", inner)
		assert.True(t, Is(outer, ErrChainBroken))
	})
}

func TestAs(t *testing.T) {
	err := NewContractParseError("unknown keyword GIVETH")

	var tErr *Error
	require.True(t, As(err, &tErr))
	assert.Equal(t, ERR_CONTRACT_PARSE, tErr.Code())
	assert.Equal(t, "unknown keyword GIVETH", tErr.Message())
}

func TestNilReceiver(t *testing.T) {
	var err *Error
	assert.Equal(t, "<nil>", err.Error())
	assert.Equal(t, ERR_UNKNOWN, err.Code())
	assert.False(t, err.Is(ErrUnknown))
	assert.Nil(t, err.Unwrap())
}
