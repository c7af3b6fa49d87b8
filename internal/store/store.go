// Package store persists uploaded datasets and their rows behind a backend
// switch: SQLite for single-binary local use, Postgres for shared deployments.
package store

import (
	"context"
	"errors"

	"github.com/prism-insight/prism-cli/internal/model"
)

// ErrNotFound reports a dataset ID with nothing stored under it. Backends
// wrap it with context; callers match with errors.Is.
var ErrNotFound = errors.New("dataset not found")

// ListFilter bounds dataset listings.
type ListFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines the persistence interface for datasets.
type Store interface {
	// CreateDataset stores the metadata and all rows of a newly ingested file
	// and returns the assigned dataset.
	CreateDataset(ctx context.Context, filename string, rows []model.Row) (*model.Dataset, error)
	GetDataset(ctx context.Context, datasetID string) (*model.Dataset, error)
	ListDatasets(ctx context.Context, filter ListFilter) ([]model.Dataset, error)
	// GetRows returns the dataset's rows in upload order.
	GetRows(ctx context.Context, datasetID string) ([]model.Row, error)
	DeleteDataset(ctx context.Context, datasetID string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
