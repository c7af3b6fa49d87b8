package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	data := []byte("Title,UnitPrice\nPython開発,80万円\nPHP保守,45万円\n")

	rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Python開発", rows[0]["Title"])
	assert.Equal(t, "80万円", rows[0]["UnitPrice"])
	assert.Equal(t, "45万円", rows[1]["UnitPrice"])
}

func TestReadCSV_BOMStripped(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)

	rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["a"])
}

func TestReadCSV_ShortRecordLeavesColumnAbsent(t *testing.T) {
	data := []byte("a,b,c\n1,2\n")

	rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "2", rows[0]["b"])
	_, ok := rows[0]["c"]
	assert.False(t, ok)
}

func TestReadCSV_EmptyCellIsPresent(t *testing.T) {
	data := []byte("a,b\n1,\n")

	rows, err := ReadCSV(data)
	require.NoError(t, err)
	val, ok := rows[0]["b"]
	assert.True(t, ok)
	assert.Empty(t, val)
}

func TestReadCSV_ExtraCellsDropped(t *testing.T) {
	data := []byte("a,b\n1,2,3,4\n")

	rows, err := ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 2)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	_, err := ReadCSV([]byte("a,b\n"))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestReadCSV_InvalidUTF8(t *testing.T) {
	// Shift_JIS bytes for "テスト".
	data := []byte{0x83, 0x65, 0x83, 0x58, 0x83, 0x67, '\n', '1', '\n'}
	_, err := ReadCSV(data)
	assert.ErrorIs(t, err, ErrNotUTF8)
}

func TestReadUpload_ExtensionDispatch(t *testing.T) {
	rows, err := ReadUpload("data.CSV", []byte("a\n1\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ReadUpload("data.txt", []byte("a\n1\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = ReadUpload("data", []byte("a\n1\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
