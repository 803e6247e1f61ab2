package settings

import (
	"net/url"
	"time"
)

type LedgerSettings struct {
	Keyspace                string
	DefaultTable            string
	Delimiter               string
	TreeTTL                 time.Duration
	ProvisionDemoIdentities bool
}

type StoreSettings struct {
	URL                  *url.URL
	AerospikeNamespace   string
	AerospikeWarmUp      bool
	PostgresMaxIdleConns int
	PostgresMaxOpenConns int
}

type KeyStoreSettings struct {
	URL *url.URL
}

type ContractSettings struct {
	MaxRegistered int
}

type Settings struct {
	ClientName        string
	DataFolder        string
	PrometheusAddress string

	Ledger   LedgerSettings
	Store    StoreSettings
	KeyStore KeyStoreSettings
	Contract ContractSettings
}
