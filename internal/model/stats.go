package model

// Kind classifies a column's value domain.
type Kind string

const (
	KindNumber Kind = "number"
	KindString Kind = "string"
	KindMixed  Kind = "mixed"
	KindEmpty  Kind = "empty"
)

// NumericSummary aggregates the values of a column that parse as decimal
// numbers. Count may be smaller than the column's non-empty count for mixed
// columns.
type NumericSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// ValueCount is one entry of a column's top-values histogram.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnSummary describes one column across a dataset.
//
// Invariants: NonEmptyCount <= PresentCount; Numeric is non-nil iff at least
// one value parsed numeric; TopValues is non-nil only for string/mixed kinds
// and holds non-numeric values only.
type ColumnSummary struct {
	Name          string          `json:"name"`
	Kind          Kind            `json:"kind"`
	PresentCount  int             `json:"present_count"`
	NonEmptyCount int             `json:"non_empty_count"`
	Numeric       *NumericSummary `json:"numeric"`
	TopValues     []ValueCount    `json:"top_values"`
}

// DatasetSummary is the immutable per-dataset statistics snapshot. It is
// recomputed from rows on every request and never cached.
type DatasetSummary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}
