package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prism-insight/prism-cli/internal/model"
)

func promptFixture() model.ComparisonResult {
	baseAvg, targetAvg, avgDiff := 60.0, 72.0, 12.0
	cmp := model.ComparisonResult{
		BaseDataset: model.Dataset{
			Filename:  "2025-01.csv",
			CreatedAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		TargetDataset: model.Dataset{
			Filename:  "2025-02.csv",
			CreatedAt: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		Comparison: model.StatsDiff{
			RowsChange: model.RowsChange{Base: 200, Target: 240, Diff: 40, Percent: 20},
			ColumnsChange: []model.ColumnDiff{
				{
					Name: "UnitPrice", Kind: model.KindNumber,
					Base:   &model.NumericSnapshot{Avg: &baseAvg},
					Target: &model.NumericSnapshot{Avg: &targetAvg},
					Diff:   &model.NumericSnapshot{Avg: &avgDiff},
				},
				{Name: "Title", Kind: model.KindString},
			},
		},
		PriceRanges: &model.PriceRangeComparison{
			Base:   model.PriceBandCounts{High: 10, Mid: 20, Low: 5, Unknown: 3},
			Target: model.PriceBandCounts{High: 15, Mid: 18, Low: 6, Unknown: 1},
			Changes: map[string]model.BandChange{
				"high":    {Diff: 5, Percent: 50},
				"mid":     {Diff: -2, Percent: -10},
				"low":     {Diff: 1, Percent: 20},
				"unknown": {Diff: -2, Percent: -66.7},
			},
		},
		Keywords: &model.KeywordComparison{
			BaseTotal:   200,
			TargetTotal: 240,
			IncreasedKeywords: []model.KeywordChange{
				{Keyword: "AI", Base: 10, Target: 30, Diff: 20},
				{Keyword: "Python", Base: 20, Target: 25, Diff: 5},
			},
			DecreasedKeywords: []model.KeywordChange{
				{Keyword: "PHP", Base: 30, Target: 18, Diff: -12},
			},
			NewKeywords:         []string{"RAG"},
			DisappearedKeywords: []string{"Delphi"},
		},
	}
	return cmp
}

func TestBuildComparisonPromptV1(t *testing.T) {
	prompt := BuildComparisonPrompt(promptFixture(), PromptV1)

	assert.Contains(t, prompt, "データアナリスト")
	assert.Contains(t, prompt, "ファイル名: 2025-01.csv")
	assert.Contains(t, prompt, "作成日時: 2025-01-15T00:00:00Z")
	assert.Contains(t, prompt, "- 行数: 200 → 240 (+40件, +20.0%)")
	assert.Contains(t, prompt, "- UnitPrice（数値）: 平均 60.0 → 72.0 (+12.0, +20.0%)")
	// String columns never produce diff lines.
	assert.NotContains(t, prompt, "Title（数値）")
	// v1 ignores the price/keyword sections entirely.
	assert.NotContains(t, prompt, "価格帯別")
	assert.NotContains(t, prompt, "キーワード")
	assert.Contains(t, prompt, "## 変化の概要")
}

func TestBuildComparisonPromptV1_ZeroCreatedAt(t *testing.T) {
	cmp := promptFixture()
	cmp.BaseDataset.CreatedAt = time.Time{}
	prompt := BuildComparisonPrompt(cmp, PromptV1)
	assert.Contains(t, prompt, "作成日時: 不明")
}

func TestBuildComparisonPromptV2(t *testing.T) {
	prompt := BuildComparisonPrompt(promptFixture(), PromptV2)

	assert.Contains(t, prompt, "ビジネスアナリスト")
	assert.Contains(t, prompt, "案件数の変化: +40件 (+20.0%)")
	assert.Contains(t, prompt, "- 高単価案件（80万円以上）: 10件 → 15件 (+5件, +50.0%)")
	assert.Contains(t, prompt, "- 中単価案件（50-80万円）: 20件 → 18件 (-2件, -10.0%)")
	assert.Contains(t, prompt, "- 低単価案件（50万円未満）: 5件 → 6件 (+1件, +20.0%)")
	assert.Contains(t, prompt, "- 価格不明案件: 3件 → 1件 (-2件, -66.7%)")
	assert.Contains(t, prompt, "増加キーワード（Top5）:")
	assert.Contains(t, prompt, "  - AI: 10件 → 30件 (+20件)")
	assert.Contains(t, prompt, "減少キーワード（Top5）:")
	assert.Contains(t, prompt, "  - PHP: 30件 → 18件 (-12件)")
	assert.Contains(t, prompt, "新規出現キーワード: RAG")
	assert.Contains(t, prompt, "消失キーワード: Delphi")
	assert.Contains(t, prompt, "## 推奨アクション")
}

func TestBuildComparisonPromptV2_MissingSections(t *testing.T) {
	cmp := promptFixture()
	cmp.PriceRanges = nil
	cmp.Keywords = nil

	prompt := BuildComparisonPrompt(cmp, PromptV2)
	assert.Contains(t, prompt, "価格帯分析データがありません")
	assert.Contains(t, prompt, "キーワード分析データがありません")
}

func TestBuildComparisonPrompt_UnknownVersionFallsBackToV1(t *testing.T) {
	v1 := BuildComparisonPrompt(promptFixture(), PromptV1)
	other := BuildComparisonPrompt(promptFixture(), PromptVersion("v9"))
	assert.Equal(t, v1, other)
}
