// Package analysis extracts domain signals from raw rows, aggregates dataset
// comparisons, and renders size-bounded prompts and template summaries.
package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/prism-insight/prism-cli/internal/model"
)

// PriceBand is the coarse price bucket of a row.
type PriceBand string

const (
	BandHigh    PriceBand = "high"    // >= 80 man-yen
	BandMid     PriceBand = "mid"     // >= 50 man-yen
	BandLow     PriceBand = "low"     // > 0 man-yen
	BandUnknown PriceBand = "unknown" // unparseable or <= 0
)

var (
	// Range "50-60万円" (ASCII hyphen, tilde, or wave dash) or single "80万円".
	manYenPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-~〜]\s*(\d+(?:\.\d+)?)\s*万円|(\d+(?:\.\d+)?)\s*万円`)
	// Comma-grouped yen amount with optional currency prefix/suffix: "¥800,000", "800,000円".
	commaPattern = regexp.MustCompile(`[¥$]?\s*(\d{1,3}(?:,\d{3})+)(?:円)?`)
	// Bare number, last resort.
	barePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ExtractPrice parses a free-text price field into man-yen (units of 10,000
// yen), or nil when no pattern matches. Ranges return the midpoint. Raw yen
// amounts are converted: comma-grouped values >= 10,000 and bare numbers
// >= 1,000 are divided by 10,000. The bare-number threshold is a documented
// heuristic carried over from the source data: a unit-less "1200" meaning
// 1200 man-yen will be misread as 1200 yen. Do not change it without domain
// confirmation.
func ExtractPrice(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	// Fold full-width digits, tilde, and currency marks to their ASCII forms
	// so "８０万円" parses like "80万円".
	s = width.Fold.String(s)

	if m := manYenPattern.FindStringSubmatch(s); m != nil {
		if m[1] != "" && m[2] != "" {
			start, err1 := strconv.ParseFloat(m[1], 64)
			end, err2 := strconv.ParseFloat(m[2], 64)
			if err1 == nil && err2 == nil {
				v := round1((start + end) / 2)
				return &v
			}
		}
		if m[3] != "" {
			if v, err := strconv.ParseFloat(m[3], 64); err == nil {
				return &v
			}
		}
	}

	if m := commaPattern.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			if v >= 10000 {
				v = v / 10000
			}
			v = round1(v)
			return &v
		}
	}

	if m := barePattern.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if v >= 1000 {
				v = v / 10000
			}
			v = round1(v)
			return &v
		}
	}

	return nil
}

// ClassifyPriceRange buckets a man-yen price. Band edges are inclusive on the
// lower bound: 80 is high, 50 is mid.
func ClassifyPriceRange(price *float64) PriceBand {
	switch {
	case price == nil || *price <= 0:
		return BandUnknown
	case *price >= 80:
		return BandHigh
	case *price >= 50:
		return BandMid
	default:
		return BandLow
	}
}

// countPriceBands partitions rows by price band. Every row lands in exactly
// one band, so the counts sum to len(rows).
func countPriceBands(rows []model.Row, priceField string) model.PriceBandCounts {
	var counts model.PriceBandCounts
	for _, row := range rows {
		price := ExtractPrice(row[priceField])
		switch ClassifyPriceRange(price) {
		case BandHigh:
			counts.High++
		case BandMid:
			counts.Mid++
		case BandLow:
			counts.Low++
		default:
			counts.Unknown++
		}
	}
	return counts
}

// ComparePriceRanges tallies both row sets by price band and computes the
// per-band delta. Percent is relative to the base count, rounded to 1
// decimal, and 0 when the base count is 0.
func ComparePriceRanges(baseRows, targetRows []model.Row, priceField string) model.PriceRangeComparison {
	base := countPriceBands(baseRows, priceField)
	target := countPriceBands(targetRows, priceField)

	bandPairs := []struct {
		name         string
		base, target int
	}{
		{"high", base.High, target.High},
		{"mid", base.Mid, target.Mid},
		{"low", base.Low, target.Low},
		{"unknown", base.Unknown, target.Unknown},
	}

	changes := make(map[string]model.BandChange, len(bandPairs))
	for _, band := range bandPairs {
		diff := band.target - band.base
		percent := 0.0
		if band.base > 0 {
			percent = round1(float64(diff) / float64(band.base) * 100)
		}
		changes[band.name] = model.BandChange{Diff: diff, Percent: percent}
	}

	return model.PriceRangeComparison{Base: base, Target: target, Changes: changes}
}
