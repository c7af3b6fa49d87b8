package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/prism-insight/prism-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS datasets (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dataset_rows (
	dataset_id TEXT NOT NULL REFERENCES datasets(id),
	seq        INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	PRIMARY KEY (dataset_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateDataset(ctx context.Context, filename string, rows []model.Row) (*model.Dataset, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, filename, row_count, created_at) VALUES (?, ?, ?, ?)`,
		id, filename, len(rows), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert dataset")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_rows (dataset_id, seq, payload) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare row insert")
	}
	defer stmt.Close()

	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: marshal row %d", i)
		}
		if _, err := stmt.ExecContext(ctx, id, i, string(payload)); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert row %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}

	return &model.Dataset{
		ID:        id,
		Filename:  filename,
		Rows:      len(rows),
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetDataset(ctx context.Context, datasetID string) (*model.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, row_count, created_at FROM datasets WHERE id = ?`,
		datasetID,
	)

	var d model.Dataset
	err := row.Scan(&d.ID, &d.Filename, &d.Rows, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get dataset %s", datasetID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get dataset %s", datasetID)
	}
	return &d, nil
}

func (s *SQLiteStore) ListDatasets(ctx context.Context, filter ListFilter) ([]model.Dataset, error) {
	query := `SELECT id, filename, row_count, created_at FROM datasets ORDER BY created_at DESC`
	var args []any

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list datasets")
	}
	defer rows.Close()

	var datasets []model.Dataset
	for rows.Next() {
		var d model.Dataset
		if err := rows.Scan(&d.ID, &d.Filename, &d.Rows, &d.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan dataset")
		}
		datasets = append(datasets, d)
	}
	return datasets, eris.Wrap(rows.Err(), "sqlite: list datasets iterate")
}

func (s *SQLiteStore) GetRows(ctx context.Context, datasetID string) ([]model.Row, error) {
	// Existence check first so an empty dataset and a missing one stay
	// distinguishable.
	if _, err := s.GetDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM dataset_rows WHERE dataset_id = ? ORDER BY seq`,
		datasetID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get rows %s", datasetID)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		var r model.Row
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: get rows iterate")
}

func (s *SQLiteStore) DeleteDataset(ctx context.Context, datasetID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM dataset_rows WHERE dataset_id = ?`, datasetID,
	); err != nil {
		return eris.Wrapf(err, "sqlite: delete rows %s", datasetID)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, datasetID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete dataset %s", datasetID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "sqlite: delete dataset %s", datasetID)
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}
