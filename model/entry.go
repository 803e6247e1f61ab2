package model

import (
	"github.com/google/uuid"
)

// Reserved column names. Every ledger table carries these four columns in
// addition to its payload columns.
const (
	ColumnID          = "blockchainid"
	ColumnPredecessor = "predecessor"
	ColumnHash        = "hash"
	ColumnTimestamp   = "timestamp"

	ColumnSource      = "source"
	ColumnDestination = "destination"
	ColumnAmount      = "amount"
	ColumnSignature   = "signature"
)

// NullSentinel is the reserved id meaning "no predecessor". It is the root
// of the fork tree and the predecessor of the first entry in a chain.
var NullSentinel = uuid.MustParse("00000000-0000-1000-8080-808080808080")

// LedgerEntry is one chained row. Created once by the write path and
// immutable afterwards; Hash and Predecessor are computed exactly once at
// creation time.
type LedgerEntry struct {
	ID          uuid.UUID
	Predecessor uuid.UUID
	Hash        string
	Timestamp   int64
	Fields      map[string][]byte
}

// PayloadValues returns the non-nil payload cell values, excluding the
// reserved id/predecessor/hash/timestamp columns. The result is unordered;
// hashing sorts it.
func (e *LedgerEntry) PayloadValues() [][]byte {
	values := make([][]byte, 0, len(e.Fields))

	for name, value := range e.Fields {
		if value == nil {
			continue
		}

		switch name {
		case ColumnID, ColumnPredecessor, ColumnHash, ColumnTimestamp:
			continue
		}

		values = append(values, value)
	}

	return values
}

// Source returns the sending user, or nil for minting transactions.
func (e *LedgerEntry) Source() []byte {
	return e.Fields[ColumnSource]
}

func (e *LedgerEntry) Destination() []byte {
	return e.Fields[ColumnDestination]
}

func (e *LedgerEntry) Amount() int64 {
	return AmountFromBytes(e.Fields[ColumnAmount])
}

func (e *LedgerEntry) Signature() []byte {
	return e.Fields[ColumnSignature]
}

// ChainState is the durable chain head: the most recently accepted entry's
// id paired with the digest it produced.
type ChainState struct {
	Head            uuid.UUID
	PredecessorHash string
}

// NewChainState returns the state of an empty ledger.
func NewChainState() *ChainState {
	return &ChainState{
		Head:            NullSentinel,
		PredecessorHash: "",
	}
}
