package model

// RowsChange summarizes the row-count delta between two datasets.
// Percent is diff/base*100 rounded to 2 decimals, or 0 when base is 0.
type RowsChange struct {
	Base    int     `json:"base"`
	Target  int     `json:"target"`
	Diff    int     `json:"diff"`
	Percent float64 `json:"percent"`
}

// NumericSnapshot carries the min/max/avg of one side of a column diff.
// Diff snapshots only ever hold numeric data; string columns diff to nil.
type NumericSnapshot struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg *float64 `json:"avg"`
}

// ColumnDiff is the per-column comparison entry. One exists for every column
// name in the union of both summaries. Kind prefers the target's kind.
type ColumnDiff struct {
	Name   string           `json:"name"`
	Kind   Kind             `json:"kind"`
	Base   *NumericSnapshot `json:"base"`
	Target *NumericSnapshot `json:"target"`
	Diff   *NumericSnapshot `json:"diff"`
}

// StatsDiff bundles the row and column changes between two summaries.
type StatsDiff struct {
	RowsChange    RowsChange   `json:"rows_change"`
	ColumnsChange []ColumnDiff `json:"columns_change"`
}

// PriceBandCounts partitions a dataset's rows by price band. The four counts
// are mutually exclusive and sum to the row count.
type PriceBandCounts struct {
	High    int `json:"high"`
	Mid     int `json:"mid"`
	Low     int `json:"low"`
	Unknown int `json:"unknown"`
}

// BandChange is the per-band delta of a price-range comparison.
// Percent is rounded to 1 decimal, or 0 when the base count is 0.
type BandChange struct {
	Diff    int     `json:"diff"`
	Percent float64 `json:"percent"`
}

// PriceRangeComparison holds per-band counts for both datasets and the deltas.
type PriceRangeComparison struct {
	Base    PriceBandCounts       `json:"base"`
	Target  PriceBandCounts       `json:"target"`
	Changes map[string]BandChange `json:"changes"`
}

// KeywordChange records how one keyword's document-presence count moved.
type KeywordChange struct {
	Keyword string `json:"keyword"`
	Base    int    `json:"base"`
	Target  int    `json:"target"`
	Diff    int    `json:"diff"`
}

// KeywordComparison summarizes keyword-frequency movement between datasets.
// Increased/Decreased are truncated to the caller's top-N; New/Disappeared are
// sorted alphabetically and disjoint from keywords present in both datasets.
type KeywordComparison struct {
	BaseTotal           int             `json:"base_total"`
	TargetTotal         int             `json:"target_total"`
	IncreasedKeywords   []KeywordChange `json:"increased_keywords"`
	DecreasedKeywords   []KeywordChange `json:"decreased_keywords"`
	NewKeywords         []string        `json:"new_keywords"`
	DisappearedKeywords []string        `json:"disappeared_keywords"`
}

// ComparisonResult is the full output of comparing two datasets.
type ComparisonResult struct {
	BaseDataset   Dataset               `json:"base_dataset"`
	TargetDataset Dataset               `json:"target_dataset"`
	Comparison    StatsDiff             `json:"comparison"`
	PriceRanges   *PriceRangeComparison `json:"price_range_analysis"`
	Keywords      *KeywordComparison    `json:"keyword_analysis"`
}

// AnalysisResult is a generated summary, template- or LLM-produced.
// GeneratedAt is RFC3339 UTC ("Z" suffix) so results sort textually.
type AnalysisResult struct {
	GeneratedAt string `json:"generated_at"`
	Text        string `json:"analysis_text"`
}
