package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prism-insight/prism-cli/internal/db"
	"github.com/prism-insight/prism-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_dataset": `INSERT INTO datasets (id, filename, row_count, created_at) VALUES ($1, $2, $3, $4)`,
	"get_dataset":    `SELECT id, filename, row_count, created_at FROM datasets WHERE id = $1`,
	"get_rows":       `SELECT payload FROM dataset_rows WHERE dataset_id = $1 ORDER BY seq`,
	"delete_rows":    `DELETE FROM dataset_rows WHERE dataset_id = $1`,
	"delete_dataset": `DELETE FROM datasets WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS datasets (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dataset_rows (
	dataset_id TEXT NOT NULL REFERENCES datasets(id),
	seq        INTEGER NOT NULL,
	payload    JSONB NOT NULL,
	PRIMARY KEY (dataset_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateDataset(ctx context.Context, filename string, rows []model.Row) (*model.Dataset, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO datasets (id, filename, row_count, created_at) VALUES ($1, $2, $3, $4)`,
		id, filename, len(rows), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert dataset")
	}

	copyRows := make([][]any, len(rows))
	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: marshal row %d", i)
		}
		copyRows[i] = []any{id, i, payload}
	}

	if _, err := db.CopyFrom(ctx, s.pool, "dataset_rows",
		[]string{"dataset_id", "seq", "payload"}, copyRows,
	); err != nil {
		// Keep metadata and rows consistent: drop the dataset record if the
		// bulk insert did not land.
		if _, delErr := s.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id); delErr != nil {
			zap.L().Warn("orphaned dataset record after failed row copy",
				zap.String("dataset_id", id), zap.Error(delErr))
		}
		return nil, eris.Wrap(err, "postgres: copy rows")
	}

	return &model.Dataset{
		ID:        id,
		Filename:  filename,
		Rows:      len(rows),
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) GetDataset(ctx context.Context, datasetID string) (*model.Dataset, error) {
	var d model.Dataset
	err := s.pool.QueryRow(ctx,
		`SELECT id, filename, row_count, created_at FROM datasets WHERE id = $1`,
		datasetID,
	).Scan(&d.ID, &d.Filename, &d.Rows, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get dataset %s", datasetID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get dataset %s", datasetID)
	}
	return &d, nil
}

func (s *PostgresStore) ListDatasets(ctx context.Context, filter ListFilter) ([]model.Dataset, error) {
	query := `SELECT id, filename, row_count, created_at FROM datasets ORDER BY created_at DESC`
	args := []any{}
	argIdx := 1

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list datasets")
	}
	defer rows.Close()

	var datasets []model.Dataset
	for rows.Next() {
		var d model.Dataset
		if err := rows.Scan(&d.ID, &d.Filename, &d.Rows, &d.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan dataset")
		}
		datasets = append(datasets, d)
	}
	return datasets, eris.Wrap(rows.Err(), "postgres: list datasets iterate")
}

func (s *PostgresStore) GetRows(ctx context.Context, datasetID string) ([]model.Row, error) {
	if _, err := s.GetDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM dataset_rows WHERE dataset_id = $1 ORDER BY seq`,
		datasetID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get rows %s", datasetID)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan row")
		}
		var r model.Row
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: get rows iterate")
}

func (s *PostgresStore) DeleteDataset(ctx context.Context, datasetID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM dataset_rows WHERE dataset_id = $1`, datasetID,
	); err != nil {
		return eris.Wrapf(err, "postgres: delete rows %s", datasetID)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, datasetID)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete dataset %s", datasetID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: delete dataset %s", datasetID)
	}
	return nil
}
