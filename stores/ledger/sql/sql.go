package sql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/ulogger"
	"github.com/colchain/colchain/util"
)

// SQL stores ledger rows in two tables per ledger table: <name> for the id,
// predecessor, hash and timestamp columns, and <name>_fields for the
// variable payload columns. sqlite is the dev/test engine, postgres the
// durable one.
type SQL struct {
	db     *sql.DB
	engine util.SQLEngine
	logger ulogger.Logger
}

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to init sql db", err)
	}

	s := &SQL{
		db:     db,
		engine: util.SQLEngine(storeURL.Scheme),
		logger: logger,
	}

	if err = s.createStateSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQL) DB() *sql.DB {
	return s.db
}

func (s *SQL) Engine() util.SQLEngine {
	return s.engine
}

// SetDebug is a no-op: sql engines have no replication path to bypass.
func (s *SQL) SetDebug(_ bool) {}

func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) blobType() string {
	if s.engine == util.Postgres {
		return "BYTEA"
	}

	return "BLOB"
}

// createStateSchema provisions the tables that exist independently of any
// ledger table: the chain head and the contract execution counters.
func (s *SQL) createStateSchema() error {
	blob := s.blobType()

	if _, err := s.db.Exec(fmt.Sprintf(`
      CREATE TABLE IF NOT EXISTS ledger_state (
	    nullblock   %s PRIMARY KEY
	    ,head       %s NOT NULL
	    ,hash       TEXT NOT NULL
	  );
	`, blob, blob)); err != nil {
		return errors.NewStorageError("could not create ledger_state table", err)
	}

	if _, err := s.db.Exec(`
      CREATE TABLE IF NOT EXISTS contract_executions (
	    contract    TEXT PRIMARY KEY
	    ,executions INTEGER NOT NULL DEFAULT 0
	  );
	`); err != nil {
		return errors.NewStorageError("could not create contract_executions table", err)
	}

	return nil
}

func (s *SQL) createTableSchema(ctx context.Context, table string) error {
	if !util.ValidTableName(table) {
		return errors.NewInvalidArgumentError("invalid table name: %q", table)
	}

	blob := s.blobType()

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`
      CREATE TABLE IF NOT EXISTS %s (
	    blockchainid  %s PRIMARY KEY
	    ,predecessor  %s NOT NULL
	    ,hash         TEXT NOT NULL
	    ,ts           BIGINT NOT NULL
	  );
	`, table, blob, blob)); err != nil {
		return errors.NewStorageError("could not create table %s", table, err)
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`
      CREATE TABLE IF NOT EXISTS %s_fields (
	    entry_id  %s NOT NULL
	    ,name     TEXT NOT NULL
	    ,value    %s
	    ,PRIMARY KEY (entry_id, name)
	  );
	`, table, blob, blob)); err != nil {
		return errors.NewStorageError("could not create table %s_fields", table, err)
	}

	return nil
}

func nullSentinelBytes() []byte {
	return model.NullSentinel[:]
}
