package settings

import (
	"time"
)

func NewSettings() *Settings {
	treeTTLSeconds := getInt("ledger_treeTTL", 30)

	return &Settings{
		ClientName:        getString("clientName", "colchain"),
		DataFolder:        getString("dataFolder", "data"),
		PrometheusAddress: getString("prometheus_address", ""),

		Ledger: LedgerSettings{
			Keyspace:                getString("ledger_keyspace", "ledger"),
			DefaultTable:            getString("ledger_defaultTable", "transactions"),
			Delimiter:               getString("ledger_delimiter", "|"),
			TreeTTL:                 time.Duration(treeTTLSeconds) * time.Second,
			ProvisionDemoIdentities: getBool("ledger_provision_demo_identities", false),
		},
		Store: StoreSettings{
			URL:                  getURL("ledger_store", "sqlite:///ledger"),
			AerospikeNamespace:   getString("aerospike_namespace", "ledger"),
			AerospikeWarmUp:      getBool("aerospike_warmUp", true),
			PostgresMaxIdleConns: getInt("postgresMaxIdleConns", 10),
			PostgresMaxOpenConns: getInt("postgresMaxOpenConns", 80),
		},
		KeyStore: KeyStoreSettings{
			URL: getURL("key_store", "sqlite:///keys"),
		},
		Contract: ContractSettings{
			MaxRegistered: getInt("contract_maxRegistered", 1024),
		},
	}
}
