package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-insight/prism-cli/internal/model"
)

func TestExtractPrice_ManYen(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"80万円/月", 80.0},
		{"80万円", 80.0},
		{"50-60万円", 55.0},
		{"50~60万円", 55.0},
		{"50〜60万円", 55.0},
		{"70.5万円", 70.5},
		{"月額 100万円 程度", 100.0},
	}
	for _, tt := range tests {
		got := ExtractPrice(tt.in)
		require.NotNil(t, got, tt.in)
		assert.InDelta(t, tt.want, *got, 0.001, tt.in)
	}
}

func TestExtractPrice_FullWidthDigits(t *testing.T) {
	got := ExtractPrice("８０万円")
	require.NotNil(t, got)
	assert.Equal(t, 80.0, *got)
}

func TestExtractPrice_CommaGrouped(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"¥800,000", 80.0},
		{"800,000円", 80.0},
		{"$1,000,000", 100.0},
		{"1,234,567", 123.5}, // 1234567/10000 = 123.4567 → 123.5
		{"5,000", 5000.0},    // below 10000 the value is kept as-is
	}
	for _, tt := range tests {
		got := ExtractPrice(tt.in)
		require.NotNil(t, got, tt.in)
		assert.InDelta(t, tt.want, *got, 0.001, tt.in)
	}
}

func TestExtractPrice_BareNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"80", 80.0},
		{"999", 999.0},
		{"800000", 80.0}, // >= 1000 treated as raw yen
		{"1000", 0.1},    // threshold edge: converted
	}
	for _, tt := range tests {
		got := ExtractPrice(tt.in)
		require.NotNil(t, got, tt.in)
		assert.InDelta(t, tt.want, *got, 0.001, tt.in)
	}
}

func TestExtractPrice_Unparseable(t *testing.T) {
	for _, in := range []string{"", "   ", "応相談", "要相談", "スキル見合い"} {
		assert.Nil(t, ExtractPrice(in), "%q", in)
	}
}

func TestClassifyPriceRange_Bands(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, BandHigh, ClassifyPriceRange(f(100)))
	assert.Equal(t, BandHigh, ClassifyPriceRange(f(80)))
	assert.Equal(t, BandMid, ClassifyPriceRange(f(79.99)))
	assert.Equal(t, BandMid, ClassifyPriceRange(f(50)))
	assert.Equal(t, BandLow, ClassifyPriceRange(f(49.99)))
	assert.Equal(t, BandLow, ClassifyPriceRange(f(1)))
	assert.Equal(t, BandUnknown, ClassifyPriceRange(f(0)))
	assert.Equal(t, BandUnknown, ClassifyPriceRange(f(-5)))
	assert.Equal(t, BandUnknown, ClassifyPriceRange(nil))
}

func TestComparePriceRanges_CountsAndChanges(t *testing.T) {
	baseRows := []model.Row{
		{"UnitPrice": "100万円"},
		{"UnitPrice": "60万円"},
		{"UnitPrice": "60万円"},
		{"UnitPrice": "30万円"},
		{"UnitPrice": "応相談"},
	}
	targetRows := []model.Row{
		{"UnitPrice": "90万円"},
		{"UnitPrice": "85万円"},
		{"UnitPrice": "55万円"},
		{"UnitPrice": "20万円"},
	}

	cmp := ComparePriceRanges(baseRows, targetRows, "UnitPrice")

	assert.Equal(t, model.PriceBandCounts{High: 1, Mid: 2, Low: 1, Unknown: 1}, cmp.Base)
	assert.Equal(t, model.PriceBandCounts{High: 2, Mid: 1, Low: 1, Unknown: 0}, cmp.Target)

	assert.Equal(t, 1, cmp.Changes["high"].Diff)
	assert.InDelta(t, 100.0, cmp.Changes["high"].Percent, 0.01)
	assert.Equal(t, -1, cmp.Changes["mid"].Diff)
	assert.InDelta(t, -50.0, cmp.Changes["mid"].Percent, 0.01)
	assert.Equal(t, 0, cmp.Changes["low"].Diff)
	assert.Equal(t, -1, cmp.Changes["unknown"].Diff)
}

func TestComparePriceRanges_BandsPartitionRows(t *testing.T) {
	rows := []model.Row{
		{"UnitPrice": "80万円"},
		{"UnitPrice": "¥800,000"},
		{"UnitPrice": "xyz"},
		{"Other": "1"},
		{"UnitPrice": "10万円"},
	}
	cmp := ComparePriceRanges(rows, nil, "UnitPrice")

	total := cmp.Base.High + cmp.Base.Mid + cmp.Base.Low + cmp.Base.Unknown
	assert.Equal(t, len(rows), total)
}

func TestComparePriceRanges_ZeroBasePercent(t *testing.T) {
	cmp := ComparePriceRanges(nil, []model.Row{{"UnitPrice": "90万円"}}, "UnitPrice")
	assert.Equal(t, 1, cmp.Changes["high"].Diff)
	assert.Equal(t, 0.0, cmp.Changes["high"].Percent)
}
