package keystore

import (
	"net/url"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/stores/keystore/memory"
	"github.com/colchain/colchain/stores/keystore/sql"
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
	case "memory":
		return memory.New(logger), nil
	}

	return nil, errors.NewConfigurationError("key store: unknown scheme: %s", storeURL.Scheme)
}
