// Package model defines the core domain types shared across ingestion,
// statistics, and comparison.
package model

import "time"

// Row is a single ingested record. Column presence varies per row: a key that
// is absent means the source row had no cell for that column, while an empty
// string means the cell existed but was blank. Profiling distinguishes the two.
type Row map[string]string

// Dataset is the stored metadata for one uploaded file.
type Dataset struct {
	ID        string    `json:"dataset_id"`
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}
