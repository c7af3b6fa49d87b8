package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-insight/prism-cli/internal/model"
)

func TestParseNumeric_Grammar(t *testing.T) {
	valid := map[string]float64{
		"100":    100,
		"-3.5":   -3.5,
		"+7":     7,
		".5":     0.5,
		"1e3":    1000,
		"2.5E-1": 0.25,
		"-.25":   -0.25,
		"0":      0,
	}
	for in, want := range valid {
		v, ok := parseNumeric(in)
		require.True(t, ok, "expected %q to parse", in)
		assert.InDelta(t, want, v, 1e-9, in)
	}

	invalid := []string{"", "abc", "12abc", "abc12", "1.2.3", "1,200", "1 00", "0x10", "--1", "1e", "."}
	for _, in := range invalid {
		_, ok := parseNumeric(in)
		assert.False(t, ok, "expected %q to be rejected", in)
	}
}

func TestProfileColumn_AllNumeric(t *testing.T) {
	rows := []model.Row{
		{"amount": "100"},
		{"amount": "200"},
		{"amount": "300"},
	}
	col := ProfileColumn(rows, "amount")

	assert.Equal(t, model.KindNumber, col.Kind)
	assert.Equal(t, 3, col.PresentCount)
	assert.Equal(t, 3, col.NonEmptyCount)
	require.NotNil(t, col.Numeric)
	assert.Equal(t, 3, col.Numeric.Count)
	assert.Equal(t, 100.0, col.Numeric.Min)
	assert.Equal(t, 300.0, col.Numeric.Max)
	assert.Equal(t, 200.0, col.Numeric.Avg)
	assert.Nil(t, col.TopValues)
}

func TestProfileColumn_StringColumn(t *testing.T) {
	rows := []model.Row{
		{"project": "案件A"},
		{"project": "案件B"},
		{"project": "案件A"},
		{"project": ""},
	}
	col := ProfileColumn(rows, "project")

	assert.Equal(t, model.KindString, col.Kind)
	assert.Equal(t, 4, col.PresentCount)
	assert.Equal(t, 3, col.NonEmptyCount)
	assert.Nil(t, col.Numeric)
	require.Len(t, col.TopValues, 2)
	assert.Equal(t, model.ValueCount{Value: "案件A", Count: 2}, col.TopValues[0])
	assert.Equal(t, model.ValueCount{Value: "案件B", Count: 1}, col.TopValues[1])
}

func TestProfileColumn_Mixed(t *testing.T) {
	rows := []model.Row{
		{"mixed": "1"},
		{"mixed": "x"},
		{"mixed": "2"},
		{"mixed": "3"},
	}
	col := ProfileColumn(rows, "mixed")

	assert.Equal(t, model.KindMixed, col.Kind)
	assert.Equal(t, 4, col.NonEmptyCount)
	require.NotNil(t, col.Numeric)
	assert.Equal(t, 3, col.Numeric.Count)
	assert.Equal(t, 1.0, col.Numeric.Min)
	assert.Equal(t, 3.0, col.Numeric.Max)
	assert.Equal(t, 2.0, col.Numeric.Avg)
	// Only the non-numeric value shows up in the histogram.
	require.Len(t, col.TopValues, 1)
	assert.Equal(t, "x", col.TopValues[0].Value)
}

func TestProfileColumn_Empty(t *testing.T) {
	rows := []model.Row{
		{"empty": ""},
		{"empty": "  "},
		{"other": "1"},
	}
	col := ProfileColumn(rows, "empty")

	assert.Equal(t, model.KindEmpty, col.Kind)
	assert.Equal(t, 2, col.PresentCount)
	assert.Equal(t, 0, col.NonEmptyCount)
	assert.Nil(t, col.Numeric)
	assert.Nil(t, col.TopValues)
}

func TestProfileColumn_AbsentKeysNotCounted(t *testing.T) {
	rows := []model.Row{
		{"a": "1"},
		{"b": "2"},
		{"a": ""},
	}
	col := ProfileColumn(rows, "a")
	assert.Equal(t, 2, col.PresentCount)
	assert.Equal(t, 1, col.NonEmptyCount)
}

func TestProfileColumn_TopValueOrderingAndCap(t *testing.T) {
	rows := []model.Row{
		{"c": "b"}, {"c": "b"},
		{"c": "a"}, {"c": "a"},
		{"c": "f"}, {"c": "e"}, {"c": "d"}, {"c": "g"}, {"c": "h"},
	}
	col := ProfileColumn(rows, "c")

	require.Len(t, col.TopValues, 5)
	// Count descending, ties broken by value ascending.
	assert.Equal(t, model.ValueCount{Value: "a", Count: 2}, col.TopValues[0])
	assert.Equal(t, model.ValueCount{Value: "b", Count: 2}, col.TopValues[1])
	assert.Equal(t, model.ValueCount{Value: "d", Count: 1}, col.TopValues[2])
	assert.Equal(t, model.ValueCount{Value: "e", Count: 1}, col.TopValues[3])
	assert.Equal(t, model.ValueCount{Value: "f", Count: 1}, col.TopValues[4])
}

func TestProfileColumn_CountInvariants(t *testing.T) {
	rows := []model.Row{
		{"v": "1"}, {"v": "x"}, {"v": ""}, {"w": "9"}, {"v": "2.5"},
	}
	col := ProfileColumn(rows, "v")

	assert.LessOrEqual(t, col.NonEmptyCount, col.PresentCount)
	require.NotNil(t, col.Numeric)
	assert.LessOrEqual(t, col.Numeric.Count, col.NonEmptyCount)
}

func TestProfileDataset_MixedColumns(t *testing.T) {
	rows := []model.Row{
		{"project": "案件A", "amount": "100", "score": "1.5", "mixed": "1", "empty": ""},
		{"project": "案件B", "amount": "200", "score": "2.5", "mixed": "x", "empty": ""},
		{"project": "案件A", "amount": "", "score": "3.0", "mixed": "2", "empty": ""},
		{"project": "", "amount": "300", "score": "", "mixed": "3", "empty": ""},
	}
	summary := ProfileDataset(rows)

	assert.Equal(t, 4, summary.Rows)
	require.Len(t, summary.Columns, 5)

	byName := make(map[string]model.ColumnSummary)
	for _, c := range summary.Columns {
		byName[c.Name] = c
	}

	assert.Equal(t, model.KindString, byName["project"].Kind)
	assert.Equal(t, model.KindNumber, byName["amount"].Kind)
	assert.Equal(t, model.KindNumber, byName["score"].Kind)
	assert.Equal(t, model.KindMixed, byName["mixed"].Kind)
	assert.Equal(t, model.KindEmpty, byName["empty"].Kind)

	score := byName["score"]
	require.NotNil(t, score.Numeric)
	assert.Equal(t, 3, score.Numeric.Count)
	assert.InDelta(t, (1.5+2.5+3.0)/3, score.Numeric.Avg, 1e-9)
}

func TestProfileDataset_ColumnsSortedByName(t *testing.T) {
	rows := []model.Row{{"z": "1", "a": "2", "m": "3"}}
	summary := ProfileDataset(rows)

	require.Len(t, summary.Columns, 3)
	assert.Equal(t, "a", summary.Columns[0].Name)
	assert.Equal(t, "m", summary.Columns[1].Name)
	assert.Equal(t, "z", summary.Columns[2].Name)
}

func TestProfileDataset_NoRows(t *testing.T) {
	summary := ProfileDataset(nil)
	assert.Equal(t, 0, summary.Rows)
	assert.Empty(t, summary.Columns)
}
