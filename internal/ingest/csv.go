package ingest

import (
	"bytes"
	"encoding/csv"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/prism-insight/prism-cli/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses CSV content. Records may have fewer fields than the header;
// the missing cells stay absent so profiling can tell them apart from blanks.
func ReadCSV(data []byte) ([]model.Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		return nil, eris.Wrap(ErrNotUTF8, "csv: validate encoding")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read")
	}
	if len(records) < 2 {
		return nil, eris.Wrap(ErrEmptyDataset, "csv: validate rows")
	}

	return decodeRows(records[0], records[1:]), nil
}
