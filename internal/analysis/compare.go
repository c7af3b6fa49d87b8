package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/prism-insight/prism-cli/internal/model"
	"github.com/prism-insight/prism-cli/internal/stats"
)

// CompareOptions names the row fields the domain extractors read and bounds
// the keyword lists.
type CompareOptions struct {
	PriceField  string
	TextField   string
	KeywordTopN int
}

func (o CompareOptions) withDefaults() CompareOptions {
	if o.PriceField == "" {
		o.PriceField = "UnitPrice"
	}
	if o.TextField == "" {
		o.TextField = "Title"
	}
	if o.KeywordTopN == 0 {
		o.KeywordTopN = 10
	}
	return o
}

// Compare profiles both row sets, diffs the summaries, and layers the price
// band and keyword analyses on top. The two profiles run concurrently; all
// other work is cheap enough to stay sequential.
func Compare(ctx context.Context, base, target model.Dataset, baseRows, targetRows []model.Row, opts CompareOptions) (*model.ComparisonResult, error) {
	opts = opts.withDefaults()

	var baseSummary, targetSummary model.DatasetSummary
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		baseSummary = stats.ProfileDataset(baseRows)
		return nil
	})
	g.Go(func() error {
		targetSummary = stats.ProfileDataset(targetRows)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	diff := stats.Diff(baseSummary, targetSummary)
	prices := ComparePriceRanges(baseRows, targetRows, opts.PriceField)
	keywords := CompareKeywords(baseRows, targetRows, opts.TextField, opts.KeywordTopN)

	return &model.ComparisonResult{
		BaseDataset:   base,
		TargetDataset: target,
		Comparison:    diff,
		PriceRanges:   &prices,
		Keywords:      &keywords,
	}, nil
}
