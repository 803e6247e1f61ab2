// Package sql implements the key store on postgres or sqlite.
package sql

import (
	"context"
	"database/sql"
	"net/url"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/ulogger"
	"github.com/colchain/colchain/util"
)

type SQL struct {
	db     *sql.DB
	engine util.SQLEngine
	logger ulogger.Logger
}

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to init key store db", err)
	}

	s := &SQL{
		db:     db,
		engine: util.SQLEngine(storeURL.Scheme),
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQL) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS keys (
			name        TEXT PRIMARY KEY,
			p           TEXT NOT NULL,
			q           TEXT NOT NULL,
			g           TEXT NOT NULL,
			x           TEXT NOT NULL,
			y           TEXT NOT NULL,
			inserted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return errors.NewStorageError("failed to create keys table", err)
	}

	return nil
}

func (s *SQL) GetKey(ctx context.Context, name string) (*model.KeyRecord, error) {
	record := &model.KeyRecord{Name: name}

	err := s.db.QueryRowContext(ctx, `
		SELECT p, q, g, x, y
		FROM keys
		WHERE name = $1
	`, name).Scan(&record.P, &record.Q, &record.G, &record.X, &record.Y)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("key %s not found", name)
		}

		return nil, errors.NewStorageError("failed to get key %s", name, err)
	}

	return record, nil
}

func (s *SQL) PutKeyIfAbsent(ctx context.Context, record *model.KeyRecord) (bool, error) {
	q := `
		INSERT INTO keys (name, p, q, g, x, y)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING
	`
	if s.engine != util.Postgres {
		q = `
			INSERT OR IGNORE INTO keys (name, p, q, g, x, y)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
	}

	res, err := s.db.ExecContext(ctx, q, record.Name, record.P, record.Q, record.G, record.X, record.Y)
	if err != nil {
		return false, errors.NewStorageError("failed to put key %s", record.Name, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewStorageError("failed to get rows affected for key %s", record.Name, err)
	}

	return rows > 0, nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
