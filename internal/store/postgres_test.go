package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-insight/prism-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetDataset_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, filename, row_count, created_at FROM datasets WHERE id = \$1`).
		WithArgs("nonexistent-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetDataset(context.Background(), "nonexistent-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDataset(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, filename, row_count, created_at FROM datasets WHERE id = \$1`).
		WithArgs("ds-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "filename", "row_count", "created_at"}).
			AddRow("ds-1", "jobs.csv", 42, now))

	got, err := s.GetDataset(context.Background(), "ds-1")
	require.NoError(t, err)
	assert.Equal(t, "jobs.csv", got.Filename)
	assert.Equal(t, 42, got.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDataset_UsesCopy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO datasets`).
		WithArgs(pgxmock.AnyArg(), "jobs.csv", 2, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"dataset_rows"}, []string{"dataset_id", "seq", "payload"}).
		WillReturnResult(2)

	rows := []model.Row{
		{"Title": "Python開発"},
		{"Title": "PHP保守"},
	}
	created, err := s.CreateDataset(context.Background(), "jobs.csv", rows)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 2, created.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDataset_CleansUpOnCopyFailure(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO datasets`).
		WithArgs(pgxmock.AnyArg(), "jobs.csv", 1, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"dataset_rows"}, []string{"dataset_id", "seq", "payload"}).
		WillReturnError(assert.AnError)
	mock.ExpectExec(`DELETE FROM datasets WHERE id = \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	_, err := s.CreateDataset(context.Background(), "jobs.csv", []model.Row{{"Title": "x"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListDatasets(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, filename, row_count, created_at FROM datasets ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "filename", "row_count", "created_at"}).
			AddRow("ds-2", "second.csv", 5, now).
			AddRow("ds-1", "first.csv", 3, now.Add(-time.Hour)))

	datasets, err := s.ListDatasets(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "second.csv", datasets[0].Filename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRows(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, filename, row_count, created_at FROM datasets WHERE id = \$1`).
		WithArgs("ds-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "filename", "row_count", "created_at"}).
			AddRow("ds-1", "jobs.csv", 2, now))
	mock.ExpectQuery(`SELECT payload FROM dataset_rows WHERE dataset_id = \$1 ORDER BY seq`).
		WithArgs("ds-1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"Title":"Python開発"}`)).
			AddRow([]byte(`{"Title":"PHP保守","UnitPrice":"45万円"}`)))

	rows, err := s.GetRows(context.Background(), "ds-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Python開発", rows[0]["Title"])
	assert.Equal(t, "45万円", rows[1]["UnitPrice"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteDataset_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM dataset_rows WHERE dataset_id = \$1`).
		WithArgs("nonexistent-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM datasets WHERE id = \$1`).
		WithArgs("nonexistent-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteDataset(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
