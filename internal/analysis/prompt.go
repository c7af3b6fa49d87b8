package analysis

import (
	"encoding/json"
	"sort"
	"unicode/utf8"

	"github.com/prism-insight/prism-cli/internal/model"
)

// PromptOptions bounds the rendered prompt. MaxPromptChars is a hard limit
// counted in runes (prompt text is Japanese; byte counts would overshoot).
type PromptOptions struct {
	MaxColumns            int
	MaxTopValuesPerColumn int
	MaxPromptChars        int
}

const (
	defaultMaxColumns   = 30
	defaultMaxTopValues = 3
	defaultMaxChars     = 9000

	// Tier 2 keeps only this many columns of the tier-1 set.
	tier2ColumnLimit = 10
	// Tier 3 caps each column name to this many runes.
	tier3NameRunes = 64
	// Tier 3 never lists more than this many column names.
	tier3MaxNames = 50
)

func (o PromptOptions) withDefaults() PromptOptions {
	if o.MaxColumns == 0 {
		o.MaxColumns = defaultMaxColumns
	}
	if o.MaxTopValuesPerColumn == 0 {
		o.MaxTopValuesPerColumn = defaultMaxTopValues
	}
	if o.MaxPromptChars == 0 {
		o.MaxPromptChars = defaultMaxChars
	}
	return o
}

// statsInstructions is the fixed analysis instruction block for single-dataset
// prompts. Output format and constraints mirror what the frontend renders.
const statsInstructions = "あなたはデータ分析アシスタントです。以下のデータセット統計（JSON）だけを根拠に、" +
	"注目点と控えめな仮説を日本語で出力してください。\n" +
	"\n" +
	"制約:\n" +
	"- 統計（stats）に根拠がないことは断定しない。推測する場合は推測と明記する。\n" +
	"- 個人情報・機微情報の可能性がある値を、必要以上に繰り返さない。\n" +
	"- 不確実な点は「追加で確認したいこと」に回す。\n" +
	"\n" +
	"出力フォーマット（必ずこの順で）:\n" +
	"## 注目点\n" +
	"- ...\n" +
	"## 仮説（控えめ）\n" +
	"- ...\n" +
	"## 追加で確認したいこと\n" +
	"- ...\n" +
	"## 前提・限界\n" +
	"- ...\n"

// truncationNote is appended whenever any detail was dropped to fit the
// budget, so the consumer does not assert claims the truncated stats cannot
// support.
const truncationNote = "\n\n注意: 入力サイズ上限のため、statsの一部（列や頻出値など）を省略しています。\n" +
	"省略により根拠が不足する場合は、断定せず「要確認」としてください。"

// promptColumn is the compressed per-column payload embedded in prompts.
type promptColumn struct {
	Name          string                `json:"name"`
	Kind          model.Kind            `json:"kind"`
	PresentCount  int                   `json:"present_count"`
	NonEmptyCount int                   `json:"non_empty_count"`
	Numeric       *model.NumericSummary `json:"numeric"`
	TopValues     []model.ValueCount    `json:"top_values"`
}

// promptSummary is the tier 0-2 payload shape.
type promptSummary struct {
	Rows                 int            `json:"rows"`
	ColumnsCount         int            `json:"columns_count"`
	IncludedColumnsCount int            `json:"included_columns_count"`
	Columns              []promptColumn `json:"columns"`
}

// promptNameSummary is the tier 3 payload shape: structured column data is
// gone, only identity survives.
type promptNameSummary struct {
	Rows                 int      `json:"rows"`
	ColumnsCount         int      `json:"columns_count"`
	IncludedColumnsCount int      `json:"included_columns_count"`
	ColumnNames          []string `json:"column_names"`
}

// compressSummary builds the tier-0 payload: columns ordered by non-empty
// count descending (name ascending on ties), capped at maxColumns, each
// histogram capped at maxTopValues.
func compressSummary(summary model.DatasetSummary, maxColumns, maxTopValues int) promptSummary {
	ordered := make([]model.ColumnSummary, len(summary.Columns))
	copy(ordered, summary.Columns)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].NonEmptyCount != ordered[j].NonEmptyCount {
			return ordered[i].NonEmptyCount > ordered[j].NonEmptyCount
		}
		return ordered[i].Name < ordered[j].Name
	})

	if maxColumns < 0 {
		maxColumns = 0
	}
	if len(ordered) > maxColumns {
		ordered = ordered[:maxColumns]
	}

	columns := make([]promptColumn, 0, len(ordered))
	for _, col := range ordered {
		item := promptColumn{
			Name:          col.Name,
			Kind:          col.Kind,
			PresentCount:  col.PresentCount,
			NonEmptyCount: col.NonEmptyCount,
			Numeric:       col.Numeric,
		}
		if col.TopValues != nil {
			limit := maxTopValues
			if limit < 0 {
				limit = 0
			}
			if limit > len(col.TopValues) {
				limit = len(col.TopValues)
			}
			item.TopValues = col.TopValues[:limit]
		}
		columns = append(columns, item)
	}

	return promptSummary{
		Rows:                 summary.Rows,
		ColumnsCount:         len(summary.Columns),
		IncludedColumnsCount: len(columns),
		Columns:              columns,
	}
}

// renderWithPayload assembles instructions + embedded JSON + optional
// truncation note. The JSON always marshals from a struct, so it stays valid
// at every tier.
func renderWithPayload(payload any, truncated bool) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload types are plain structs; this cannot fail in practice.
		data = []byte("{}")
	}
	note := ""
	if truncated {
		note = truncationNote
	}
	return statsInstructions + "\n\nstats_summary_json:\n" + string(data) + note + "\n"
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// RenderPrompt renders the dataset summary into an instruction document whose
// rune length never exceeds the budget. Detail is shed in fixed order:
// histograms first (highest volume, lowest marginal value), then column
// bodies, keeping column identity until nothing else fits.
func RenderPrompt(summary model.DatasetSummary, opts PromptOptions) string {
	opts = opts.withDefaults()
	full := compressSummary(summary, opts.MaxColumns, opts.MaxTopValuesPerColumn)

	tiers := []struct {
		truncated bool
		payload   func() promptSummary
	}{
		// Tier 0: the full compressed summary.
		{false, func() promptSummary { return full }},
		// Tier 1: drop all histograms, keep the column set.
		{true, func() promptSummary { return stripTopValues(full) }},
		// Tier 2: also shrink the column set.
		{true, func() promptSummary { return limitColumns(stripTopValues(full), tier2ColumnLimit) }},
	}
	for _, tier := range tiers {
		prompt := renderWithPayload(tier.payload(), tier.truncated)
		if runeLen(prompt) <= opts.MaxPromptChars {
			return prompt
		}
	}

	// Tier 3: column names only, iteratively halved until the render fits.
	names := make([]string, 0, len(summary.Columns))
	for _, col := range summary.Columns {
		if col.Name != "" {
			names = append(names, truncateRunes(col.Name, tier3NameRunes))
		}
	}
	sort.Strings(names)

	maxNames := opts.MaxColumns
	if maxNames < 0 {
		maxNames = 0
	}
	if maxNames > tier3MaxNames {
		maxNames = tier3MaxNames
	}
	if len(names) > maxNames {
		names = names[:maxNames]
	}

	payload := promptNameSummary{
		Rows:                 summary.Rows,
		ColumnsCount:         len(summary.Columns),
		IncludedColumnsCount: len(names),
		ColumnNames:          names,
	}

	for {
		prompt := renderWithPayload(payload, true)
		if runeLen(prompt) <= opts.MaxPromptChars {
			return prompt
		}
		if len(payload.ColumnNames) <= 1 {
			// Even a single name does not fit. Try the minimal summary with no
			// names at all before abandoning the JSON entirely.
			payload.ColumnNames = []string{}
			payload.IncludedColumnsCount = 0
			prompt = renderWithPayload(payload, true)
			if runeLen(prompt) <= opts.MaxPromptChars {
				return prompt
			}
			fallback := statsInstructions + "\n\n" +
				"注意: 入力サイズ上限のため、stats_summary_json は省略されました。\n" +
				"統計に基づく推論は行わず、必要な追加情報を列挙してください。\n"
			return truncateRunes(fallback, opts.MaxPromptChars)
		}
		half := len(payload.ColumnNames) / 2
		if half < 1 {
			half = 1
		}
		payload.ColumnNames = payload.ColumnNames[:half]
		payload.IncludedColumnsCount = half
	}
}

func stripTopValues(s promptSummary) promptSummary {
	columns := make([]promptColumn, len(s.Columns))
	copy(columns, s.Columns)
	for i := range columns {
		columns[i].TopValues = nil
	}
	s.Columns = columns
	return s
}

func limitColumns(s promptSummary, limit int) promptSummary {
	if len(s.Columns) > limit {
		s.Columns = s.Columns[:limit]
	}
	s.IncludedColumnsCount = len(s.Columns)
	return s
}
