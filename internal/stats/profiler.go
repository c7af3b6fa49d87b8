// Package stats profiles dataset columns and diffs two dataset summaries.
package stats

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/prism-insight/prism-cli/internal/model"
)

// topValueLimit caps the top-values histogram per column. Fixed policy, not
// caller-configurable; consumers that need fewer entries truncate downstream.
const topValueLimit = 5

// numericPattern is the strict decimal grammar: optional sign, digits with an
// optional fractional part (or a leading-dot fraction), optional exponent.
// Values must match in full; leading or trailing junk disqualifies them.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?$`)

// parseNumeric reports whether s satisfies the numeric grammar and returns its
// value when it does.
func parseNumeric(s string) (float64, bool) {
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ProfileColumn summarizes one column across all rows. A row where the column
// key is absent contributes to neither count; an explicit empty (or
// whitespace-only) value counts as present but not non-empty.
func ProfileColumn(rows []model.Row, name string) model.ColumnSummary {
	summary := model.ColumnSummary{Name: name}

	var (
		numericCount int
		numericMin   float64
		numericMax   float64
		numericSum   float64
		valueCounts  map[string]int
	)

	for _, row := range rows {
		raw, ok := row[name]
		if !ok {
			continue
		}
		summary.PresentCount++

		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		summary.NonEmptyCount++

		if v, ok := parseNumeric(value); ok {
			if numericCount == 0 || v < numericMin {
				numericMin = v
			}
			if numericCount == 0 || v > numericMax {
				numericMax = v
			}
			numericSum += v
			numericCount++
			continue
		}

		if valueCounts == nil {
			valueCounts = make(map[string]int)
		}
		valueCounts[value]++
	}

	switch {
	case summary.NonEmptyCount == 0:
		summary.Kind = model.KindEmpty
	case numericCount == summary.NonEmptyCount:
		summary.Kind = model.KindNumber
	case numericCount == 0:
		summary.Kind = model.KindString
	default:
		summary.Kind = model.KindMixed
	}

	if numericCount > 0 {
		summary.Numeric = &model.NumericSummary{
			Count: numericCount,
			Min:   numericMin,
			Max:   numericMax,
			Avg:   numericSum / float64(numericCount),
		}
	}

	if summary.Kind == model.KindString || summary.Kind == model.KindMixed {
		summary.TopValues = topValues(valueCounts)
	}

	return summary
}

// topValues ranks non-numeric values by count descending, then value
// ascending, and keeps the first topValueLimit entries.
func topValues(counts map[string]int) []model.ValueCount {
	ranked := make([]model.ValueCount, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, model.ValueCount{Value: value, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})
	if len(ranked) > topValueLimit {
		ranked = ranked[:topValueLimit]
	}
	return ranked
}

// ProfileDataset profiles every column that appears in any row. Columns are
// ordered by name for a stable summary.
func ProfileDataset(rows []model.Row) model.DatasetSummary {
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	columns := make([]model.ColumnSummary, 0, len(names))
	for _, name := range names {
		columns = append(columns, ProfileColumn(rows, name))
	}

	return model.DatasetSummary{Rows: len(rows), Columns: columns}
}
