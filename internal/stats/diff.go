package stats

import (
	"math"
	"sort"

	"github.com/prism-insight/prism-cli/internal/model"
)

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Diff computes the row and per-column changes between two dataset summaries.
// Column entries exist for the sorted union of both column sets. Only numeric
// data is snapshotted: a string-only column contributes nil on both sides even
// when present, so its diff stays nil.
func Diff(base, target model.DatasetSummary) model.StatsDiff {
	rowsDiff := target.Rows - base.Rows
	percent := 0.0
	if base.Rows > 0 {
		percent = round2(float64(rowsDiff) / float64(base.Rows) * 100)
	}

	baseCols := columnsByName(base)
	targetCols := columnsByName(target)

	names := make([]string, 0, len(baseCols)+len(targetCols))
	for name := range baseCols {
		names = append(names, name)
	}
	for name := range targetCols {
		if _, ok := baseCols[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	changes := make([]model.ColumnDiff, 0, len(names))
	for _, name := range names {
		baseCol, hasBase := baseCols[name]
		targetCol, hasTarget := targetCols[name]

		entry := model.ColumnDiff{Name: name}
		if hasTarget {
			entry.Kind = targetCol.Kind
		} else if hasBase {
			entry.Kind = baseCol.Kind
		}

		if hasBase && baseCol.Numeric != nil {
			entry.Base = snapshot(baseCol.Numeric)
		}
		if hasTarget && targetCol.Numeric != nil {
			entry.Target = snapshot(targetCol.Numeric)
		}
		if hasBase && hasTarget && entry.Base != nil && entry.Target != nil {
			entry.Diff = &model.NumericSnapshot{
				Min: delta(entry.Base.Min, entry.Target.Min),
				Max: delta(entry.Base.Max, entry.Target.Max),
				Avg: delta(entry.Base.Avg, entry.Target.Avg),
			}
		}

		changes = append(changes, entry)
	}

	return model.StatsDiff{
		RowsChange: model.RowsChange{
			Base:    base.Rows,
			Target:  target.Rows,
			Diff:    rowsDiff,
			Percent: percent,
		},
		ColumnsChange: changes,
	}
}

func columnsByName(summary model.DatasetSummary) map[string]model.ColumnSummary {
	byName := make(map[string]model.ColumnSummary, len(summary.Columns))
	for _, col := range summary.Columns {
		byName[col.Name] = col
	}
	return byName
}

func snapshot(n *model.NumericSummary) *model.NumericSnapshot {
	minV, maxV, avgV := n.Min, n.Max, n.Avg
	return &model.NumericSnapshot{Min: &minV, Max: &maxV, Avg: &avgV}
}

// delta returns target-base rounded to 2 decimals, or nil when either side is
// missing.
func delta(base, target *float64) *float64 {
	if base == nil || target == nil {
		return nil
	}
	d := round2(*target - *base)
	return &d
}
