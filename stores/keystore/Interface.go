// Package keystore persists the signing identities of ledger users.
//
// Names are stored lowercased by the callers; the store treats them as
// opaque strings.
package keystore

import (
	"context"

	"github.com/colchain/colchain/model"
)

type Store interface {
	// GetKey returns the record for name, or a NotFound error.
	GetKey(ctx context.Context, name string) (*model.KeyRecord, error)

	// PutKeyIfAbsent stores the record unless one already exists for its
	// name. It returns true when the record was stored, false when an
	// existing record won.
	PutKeyIfAbsent(ctx context.Context, record *model.KeyRecord) (bool, error)

	Close() error
}
