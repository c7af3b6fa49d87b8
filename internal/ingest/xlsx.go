package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/prism-insight/prism-cli/internal/model"
)

// ReadXLSX parses workbook content. The first sheet is used; its first row is
// the header.
func ReadXLSX(data []byte) ([]model.Row, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(ErrEmptyDataset, "xlsx: no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Wrap(ErrEmptyDataset, "xlsx: validate rows")
	}

	header := rowToStrings(sheet.Rows[0])
	records := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		records = append(records, rowToStrings(row))
	}

	return decodeRows(header, records), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
