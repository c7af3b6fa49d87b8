package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/prism-insight/prism-cli/internal/model"
)

// timestamp formats the generation instant as RFC3339 UTC so results sort
// textually.
func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// TemplateSummary produces the deterministic, LLM-free summary of one dataset.
func TemplateSummary(summary model.DatasetSummary) model.AnalysisResult {
	return templateSummaryAt(summary, time.Now())
}

func templateSummaryAt(summary model.DatasetSummary, now time.Time) model.AnalysisResult {
	kindCounts := map[model.Kind]int{}
	var numericCols, stringCols []string
	for _, col := range summary.Columns {
		kindCounts[col.Kind]++
		if col.Kind == model.KindNumber || col.Kind == model.KindMixed {
			numericCols = append(numericCols, col.Name)
		}
		if col.Kind == model.KindString || col.Kind == model.KindMixed {
			stringCols = append(stringCols, col.Name)
		}
	}

	lines := []string{
		"これは統計（stats）から自動生成した簡易要約です（LLM未接続）。",
		fmt.Sprintf("行数: %d / カラム数: %d", summary.Rows, len(summary.Columns)),
		fmt.Sprintf("カラム種別: number=%d, string=%d, mixed=%d, empty=%d",
			kindCounts[model.KindNumber], kindCounts[model.KindString],
			kindCounts[model.KindMixed], kindCounts[model.KindEmpty]),
	}
	if len(numericCols) > 0 {
		lines = append(lines, "数値として扱える列（mixed含む）: "+strings.Join(numericCols, ", "))
	}
	if len(stringCols) > 0 {
		lines = append(lines, "文字列として扱える列（mixed含む）: "+strings.Join(stringCols, ", "))
	}

	return model.AnalysisResult{
		GeneratedAt: timestamp(now),
		Text:        strings.Join(lines, "\n"),
	}
}

// TemplateComparisonSummary produces the deterministic summary of a dataset
// comparison: rows-changed section, columns whose average moved, and a trend
// direction from the sign of the row delta.
func TemplateComparisonSummary(cmp model.ComparisonResult) model.AnalysisResult {
	return templateComparisonSummaryAt(cmp, time.Now())
}

func templateComparisonSummaryAt(cmp model.ComparisonResult, now time.Time) model.AnalysisResult {
	rows := cmp.Comparison.RowsChange

	var changedCols []string
	for _, col := range cmp.Comparison.ColumnsChange {
		if col.Diff != nil && col.Diff.Avg != nil && *col.Diff.Avg != 0 {
			changedCols = append(changedCols, col.Name)
		}
	}
	if len(changedCols) > 5 {
		changedCols = changedCols[:5]
	}

	lines := []string{
		"これは比較結果から自動生成した簡易要約です（LLM未接続）。",
		"",
		"## 変化の概要",
		fmt.Sprintf("- 基準データ: %s (%d行)", cmp.BaseDataset.Filename, rows.Base),
		fmt.Sprintf("- 比較対象データ: %s (%d行)", cmp.TargetDataset.Filename, rows.Target),
		fmt.Sprintf("- 行数の変化: %+d件 (%+.1f%%)", rows.Diff, rows.Percent),
		"",
		"## 注目すべき変化",
	}
	if len(changedCols) > 0 {
		lines = append(lines, "- 数値カラムの変化: "+strings.Join(changedCols, ", "))
	} else {
		lines = append(lines, "- 有意な数値変化は検出されませんでした")
	}

	lines = append(lines, "", "## トレンド分析")
	switch {
	case rows.Diff > 0:
		lines = append(lines, "- データ件数が増加傾向にあります")
	case rows.Diff < 0:
		lines = append(lines, "- データ件数が減少傾向にあります")
	default:
		lines = append(lines, "- データ件数に変化はありません")
	}

	lines = append(lines, "",
		"## 前提・限界",
		"- この要約はテンプレートベースで生成されており、深い洞察は含まれません",
		"- 詳細な分析には LLM を有効化してください",
	)

	return model.AnalysisResult{
		GeneratedAt: timestamp(now),
		Text:        strings.Join(lines, "\n"),
	}
}
