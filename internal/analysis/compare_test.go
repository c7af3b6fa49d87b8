package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-insight/prism-cli/internal/model"
)

func TestCompare_WiresAllSections(t *testing.T) {
	base := model.Dataset{ID: "base-id", Filename: "before.csv"}
	target := model.Dataset{ID: "target-id", Filename: "after.csv"}

	baseRows := []model.Row{
		{"Title": "PHP保守案件", "UnitPrice": "40万円"},
		{"Title": "Python開発", "UnitPrice": "60万円"},
	}
	targetRows := []model.Row{
		{"Title": "Python開発", "UnitPrice": "65万円"},
		{"Title": "AI導入支援", "UnitPrice": "90万円"},
		{"Title": "生成AI活用コンサル", "UnitPrice": "100万円"},
	}

	result, err := Compare(context.Background(), base, target, baseRows, targetRows, CompareOptions{})
	require.NoError(t, err)

	assert.Equal(t, base, result.BaseDataset)
	assert.Equal(t, target, result.TargetDataset)

	rows := result.Comparison.RowsChange
	assert.Equal(t, 2, rows.Base)
	assert.Equal(t, 3, rows.Target)
	assert.Equal(t, 1, rows.Diff)
	assert.InDelta(t, 50.0, rows.Percent, 0.01)

	require.NotNil(t, result.PriceRanges)
	assert.Equal(t, model.PriceBandCounts{High: 0, Mid: 1, Low: 1, Unknown: 0}, result.PriceRanges.Base)
	assert.Equal(t, model.PriceBandCounts{High: 2, Mid: 1, Low: 0, Unknown: 0}, result.PriceRanges.Target)

	require.NotNil(t, result.Keywords)
	assert.Equal(t, 2, result.Keywords.BaseTotal)
	assert.Equal(t, 3, result.Keywords.TargetTotal)
}

func TestCompare_CustomFields(t *testing.T) {
	baseRows := []model.Row{{"desc": "PHP案件", "rate": "30万円"}}
	targetRows := []model.Row{{"desc": "Rust案件", "rate": "95万円"}}

	result, err := Compare(context.Background(),
		model.Dataset{ID: "b"}, model.Dataset{ID: "t"},
		baseRows, targetRows,
		CompareOptions{PriceField: "rate", TextField: "desc", KeywordTopN: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, result.PriceRanges.Base.Low)
	assert.Equal(t, 1, result.PriceRanges.Target.High)
	assert.Contains(t, result.Keywords.NewKeywords, "Rust")
	assert.Contains(t, result.Keywords.DisappearedKeywords, "PHP")
}

func TestCompare_EmptyDatasets(t *testing.T) {
	result, err := Compare(context.Background(),
		model.Dataset{ID: "b"}, model.Dataset{ID: "t"}, nil, nil, CompareOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Comparison.RowsChange.Diff)
	assert.Equal(t, 0.0, result.Comparison.RowsChange.Percent)
	assert.Empty(t, result.Comparison.ColumnsChange)
	assert.Empty(t, result.Keywords.NewKeywords)
}
