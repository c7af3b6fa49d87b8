package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/prism-insight/prism-cli/internal/model"
)

// PromptVersion selects which comparison prompt to build.
type PromptVersion string

const (
	// PromptV1 is the stats-diff focused prompt.
	PromptV1 PromptVersion = "v1"
	// PromptV2 reframes the comparison around business signals: price bands
	// and keyword trends, with technical columns demoted.
	PromptV2 PromptVersion = "v2"
)

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return "不明"
	}
	return t.UTC().Format(time.RFC3339)
}

// BuildComparisonPrompt renders the comparison into an LLM prompt for the
// requested version. Unknown versions fall back to v1.
func BuildComparisonPrompt(cmp model.ComparisonResult, version PromptVersion) string {
	if version == PromptV2 {
		return buildComparisonPromptV2(cmp)
	}
	return buildComparisonPromptV1(cmp)
}

func buildComparisonPromptV1(cmp model.ComparisonResult) string {
	rows := cmp.Comparison.RowsChange

	diffLines := []string{
		fmt.Sprintf("- 行数: %d → %d (%+d件, %+.1f%%)", rows.Base, rows.Target, rows.Diff, rows.Percent),
	}

	for _, col := range cmp.Comparison.ColumnsChange {
		if col.Kind != model.KindNumber && col.Kind != model.KindMixed {
			continue
		}
		if col.Base == nil || col.Target == nil || col.Diff == nil {
			continue
		}

		if col.Base.Avg != nil && col.Target.Avg != nil && col.Diff.Avg != nil {
			percent := 0.0
			if *col.Base.Avg != 0 {
				percent = *col.Diff.Avg / *col.Base.Avg * 100
			}
			diffLines = append(diffLines, fmt.Sprintf(
				"- %s（数値）: 平均 %.1f → %.1f (%+.1f, %+.1f%%)",
				col.Name, *col.Base.Avg, *col.Target.Avg, *col.Diff.Avg, percent,
			))
		}
		if col.Base.Min != nil && col.Target.Min != nil && col.Diff.Min != nil && *col.Diff.Min != 0 {
			diffLines = append(diffLines, fmt.Sprintf(
				"- %s（数値）: 最小値 %.1f → %.1f (%+.1f)",
				col.Name, *col.Base.Min, *col.Target.Min, *col.Diff.Min,
			))
		}
		if col.Base.Max != nil && col.Target.Max != nil && col.Diff.Max != nil && *col.Diff.Max != 0 {
			diffLines = append(diffLines, fmt.Sprintf(
				"- %s（数値）: 最大値 %.1f → %.1f (%+.1f)",
				col.Name, *col.Base.Max, *col.Target.Max, *col.Diff.Max,
			))
		}
	}

	diffSummary := strings.Join(diffLines, "\n")
	if diffSummary == "" {
		diffSummary = "- 有意な変化はありません"
	}

	return "あなたはデータアナリストです。以下の2つのデータセットの統計差分を分析し、\n" +
		"変化の要点を簡潔に報告してください。\n" +
		"\n" +
		"【基準データ】\n" +
		"ファイル名: " + cmp.BaseDataset.Filename + "\n" +
		"作成日時: " + formatCreatedAt(cmp.BaseDataset.CreatedAt) + "\n" +
		fmt.Sprintf("行数: %d\n", rows.Base) +
		"\n" +
		"【比較対象データ】\n" +
		"ファイル名: " + cmp.TargetDataset.Filename + "\n" +
		"作成日時: " + formatCreatedAt(cmp.TargetDataset.CreatedAt) + "\n" +
		fmt.Sprintf("行数: %d\n", rows.Target) +
		"\n" +
		"【統計差分】\n" +
		diffSummary + "\n" +
		"\n" +
		"制約:\n" +
		"- 統計差分に根拠がないことは断定しない。推測する場合は推測と明記する。\n" +
		"- 過度な断定を避け、控えめな表現を使う。\n" +
		"- 数値の変化率を具体的に指摘する。\n" +
		"- 個人情報・機微情報の可能性がある値を、必要以上に繰り返さない。\n" +
		"\n" +
		"出力フォーマット（必ずこの順で）:\n" +
		"## 変化の概要\n" +
		"- ...\n" +
		"## 注目すべき変化\n" +
		"- ...\n" +
		"## トレンド分析\n" +
		"- ...\n" +
		"## 前提・限界\n" +
		"- ...\n"
}

func buildComparisonPromptV2(cmp model.ComparisonResult) string {
	rows := cmp.Comparison.RowsChange

	priceSection := "価格帯分析データがありません。"
	if pr := cmp.PriceRanges; pr != nil {
		bands := []struct {
			label        string
			base, target int
			change       model.BandChange
		}{
			{"高単価案件（80万円以上）", pr.Base.High, pr.Target.High, pr.Changes["high"]},
			{"中単価案件（50-80万円）", pr.Base.Mid, pr.Target.Mid, pr.Changes["mid"]},
			{"低単価案件（50万円未満）", pr.Base.Low, pr.Target.Low, pr.Changes["low"]},
			{"価格不明案件", pr.Base.Unknown, pr.Target.Unknown, pr.Changes["unknown"]},
		}
		lines := []string{"【価格帯別の案件数】"}
		for _, b := range bands {
			lines = append(lines, fmt.Sprintf(
				"- %s: %d件 → %d件 (%+d件, %+.1f%%)",
				b.label, b.base, b.target, b.change.Diff, b.change.Percent,
			))
		}
		priceSection = strings.Join(lines, "\n")
	}

	keywordSection := "キーワード分析データがありません。"
	if kw := cmp.Keywords; kw != nil {
		lines := []string{"【案件内容のキーワード変化】"}
		if len(kw.IncreasedKeywords) > 0 {
			lines = append(lines, "", "増加キーワード（Top5）:")
			for _, k := range headKeywords(kw.IncreasedKeywords, 5) {
				lines = append(lines, fmt.Sprintf("  - %s: %d件 → %d件 (%+d件)", k.Keyword, k.Base, k.Target, k.Diff))
			}
		}
		if len(kw.DecreasedKeywords) > 0 {
			lines = append(lines, "", "減少キーワード（Top5）:")
			for _, k := range headKeywords(kw.DecreasedKeywords, 5) {
				lines = append(lines, fmt.Sprintf("  - %s: %d件 → %d件 (%+d件)", k.Keyword, k.Base, k.Target, k.Diff))
			}
		}
		if len(kw.NewKeywords) > 0 {
			lines = append(lines, "", "新規出現キーワード: "+strings.Join(headStrings(kw.NewKeywords, 10), ", "))
		}
		if len(kw.DisappearedKeywords) > 0 {
			lines = append(lines, "", "消失キーワード: "+strings.Join(headStrings(kw.DisappearedKeywords, 10), ", "))
		}
		keywordSection = strings.Join(lines, "\n")
	}

	return "あなたはフリーランスエンジニア市場のビジネスアナリストです。\n" +
		"以下の2つのデータセットの比較結果を分析し、**ビジネス的に価値のある示唆**を提供してください。\n" +
		"\n" +
		"【基準データ】\n" +
		"ファイル名: " + cmp.BaseDataset.Filename + "\n" +
		"作成日時: " + formatCreatedAt(cmp.BaseDataset.CreatedAt) + "\n" +
		fmt.Sprintf("案件数: %d件\n", rows.Base) +
		"\n" +
		"【比較対象データ】\n" +
		"ファイル名: " + cmp.TargetDataset.Filename + "\n" +
		"作成日時: " + formatCreatedAt(cmp.TargetDataset.CreatedAt) + "\n" +
		fmt.Sprintf("案件数: %d件\n", rows.Target) +
		fmt.Sprintf("案件数の変化: %+d件 (%+.1f%%)\n", rows.Diff, rows.Percent) +
		"\n" +
		priceSection + "\n" +
		"\n" +
		keywordSection + "\n" +
		"\n" +
		"分析の指針:\n" +
		"- **ビジネス視点**: 価格帯の変化、技術トレンドの変化から市場動向を読み取る\n" +
		"- **アクション指向**: フリーランスエンジニアが「次に何をすべきか」を提案する\n" +
		"- **根拠の明確化**: データに基づく分析と推測を区別する\n" +
		"- **技術トレンド**: 増加/減少キーワードから技術の需要変化を分析する\n" +
		"\n" +
		"出力フォーマット（必ずこの順で、各セクションを含める）:\n" +
		"\n" +
		"## ビジネス動向サマリー\n" +
		"[1-2文で全体像を述べる。価格帯とキーワードの変化から見える市場のトレンド]\n" +
		"\n" +
		"## 価格動向\n" +
		"[高/中/低単価案件の変化を分析。ビジネス的な示唆を述べる]\n" +
		"\n" +
		"## 案件内容のトレンド\n" +
		"[キーワードの増減から技術トレンドを分析]\n" +
		"\n" +
		"## 推奨アクション\n" +
		"[フリーランスエンジニアが取るべき具体的なアクション3-5つ]\n" +
		"\n" +
		"## 前提・限界\n" +
		"[この分析の前提条件、注意点、限界を明記]\n"
}

func headKeywords(list []model.KeywordChange, n int) []model.KeywordChange {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func headStrings(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
