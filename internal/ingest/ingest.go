// Package ingest parses uploaded CSV and XLSX files into rows. The first
// record is always the header; every later record becomes one Row keyed by
// header name.
package ingest

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/prism-insight/prism-cli/internal/model"
)

var (
	// ErrEmptyDataset reports a file with a header but no data rows (or no
	// content at all).
	ErrEmptyDataset = errors.New("dataset has no data rows")
	// ErrNotUTF8 reports CSV content that is not valid UTF-8.
	ErrNotUTF8 = errors.New("file is not valid UTF-8")
	// ErrUnsupportedFormat reports a filename extension other than .csv/.xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ReadUpload dispatches on the filename extension. Only .csv and .xlsx are
// accepted.
func ReadUpload(filename string, data []byte) ([]model.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(data)
	case ".xlsx":
		return ReadXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// decodeRows turns raw records into Rows. A record shorter than the header
// leaves the trailing columns absent from the map; an empty cell within range
// is stored as "". Cells beyond the header width are dropped.
func decodeRows(header []string, records [][]string) []model.Row {
	rows := make([]model.Row, 0, len(records))
	for _, record := range records {
		row := make(model.Row, len(header))
		for i, cell := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
