package ledger

import (
	"net/url"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/stores/ledger/aerospike"
	"github.com/colchain/colchain/stores/ledger/memory"
	"github.com/colchain/colchain/stores/ledger/sql"
	"github.com/colchain/colchain/ulogger"
)

func NewStore(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (Store, error) {
	switch storeURL.Scheme {
	case "postgres":
		fallthrough
	case "sqlitememory":
		fallthrough
	case "sqlite":
		return sql.New(logger, storeURL, tSettings)
	case "aerospike":
		return aerospike.New(logger, storeURL, tSettings)
	case "memory":
		return memory.New(logger), nil
	}

	return nil, errors.NewConfigurationError("ledger store: unknown scheme: %s", storeURL.Scheme)
}
