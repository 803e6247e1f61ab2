// Package daemon wires the stores and services into a running node.
package daemon

import (
	"context"
	"net/http"

	"github.com/colchain/colchain/services/contracts"
	"github.com/colchain/colchain/services/ledger"
	"github.com/colchain/colchain/services/signer"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/stores/keystore"
	ledgerstore "github.com/colchain/colchain/stores/ledger"
	"github.com/colchain/colchain/ulogger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Daemon struct {
	logger   ulogger.Logger
	settings *settings.Settings

	LedgerStore ledgerstore.Store
	KeyStore    keystore.Store
	Signer      *signer.Signer
	Contracts   *contracts.Engine
	Ledger      *ledger.Ledger

	metricsServer *http.Server
}

func New(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings) (*Daemon, error) {
	ledgerStore, err := ledgerstore.NewStore(logger, tSettings.Store.URL, tSettings)
	if err != nil {
		return nil, err
	}

	keyStore, err := keystore.NewStore(logger, tSettings.KeyStore.URL, tSettings)
	if err != nil {
		_ = ledgerStore.Close()
		return nil, err
	}

	sign, err := signer.New(ctx, logger, tSettings, keyStore)
	if err != nil {
		_ = keyStore.Close()
		_ = ledgerStore.Close()

		return nil, err
	}

	engine := contracts.NewEngine(logger, tSettings, ledgerStore)

	d := &Daemon{
		logger:      logger,
		settings:    tSettings,
		LedgerStore: ledgerStore,
		KeyStore:    keyStore,
		Signer:      sign,
		Contracts:   engine,
		Ledger:      ledger.New(logger, tSettings, ledgerStore, sign, engine),
	}

	if tSettings.PrometheusAddress != "" {
		d.startMetricsServer(tSettings.PrometheusAddress)
	}

	return d, nil
}

func (d *Daemon) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	d.metricsServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		d.logger.Infof("prometheus metrics on %s/metrics", addr)

		if err := d.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.logger.Errorf("metrics server: %v", err)
		}
	}()
}

func (d *Daemon) Close(ctx context.Context) {
	if d.metricsServer != nil {
		_ = d.metricsServer.Shutdown(ctx)
	}

	d.Ledger.Close()

	if err := d.LedgerStore.Close(); err != nil {
		d.logger.Errorf("closing ledger store: %v", err)
	}

	if err := d.KeyStore.Close(); err != nil {
		d.logger.Errorf("closing key store: %v", err)
	}
}
