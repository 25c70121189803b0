package render

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"TickerLens/internal/model"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 0, 1, 10))
	assert.Equal(t, "▁█", Sparkline([]float64{1, 2}, 1, 2, 10))
	assert.Equal(t, "▅▅▅", Sparkline([]float64{3, 3, 3}, 3, 3, 10))

	long := make([]float64, 100)
	for i := range long {
		long[i] = float64(i)
	}
	assert.Equal(t, 10, utf8.RuneCountInString(Sparkline(long, 0, 99, 10)))
}

func TestDownsample(t *testing.T) {
	assert.Equal(t, []float64{1.5, 3.5}, downsample([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, downsample([]float64{1, 2}, 5))
}

func TestBundle_NotFound(t *testing.T) {
	out := Bundle(model.ResponseBundle{
		Outcome:  model.OutcomeNotFoundOrError,
		NotFound: true,
		Notice:   model.NotFoundMessage,
	}, 80)
	assert.Contains(t, out, "Stock not found.")
}

func TestBundle_Idle(t *testing.T) {
	assert.Contains(t, Bundle(model.ResponseBundle{Outcome: model.OutcomeIdle}, 80), "Enter a ticker")
}

func TestBundle_Ready(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := model.ResponseBundle{
		Outcome:    model.OutcomeReady,
		Ticker:     "XYZ.NS",
		Range:      model.NewDateRange(day, day.AddDate(0, 0, 2)),
		Visibility: model.VisibilityFor(model.OutcomeReady, 0),
		PriceChart: model.Chart{
			Title:  "XYZ.NS Stock Price",
			YTitle: "Price (INR)",
			YMin:   100,
			YMax:   102,
			Lines: []model.Line{{Name: "XYZ.NS Close Price", Points: []model.Point{
				{X: day, Y: 100}, {X: day.AddDate(0, 0, 1), Y: 101}, {X: day.AddDate(0, 0, 2), Y: 102},
			}}},
		},
		ForecastChart: model.Chart{Title: "XYZ.NS Price Forecast"},
		FundamentalsBlock: model.TextBlock{
			Heading: "Key Fundamentals for XYZ.NS",
			Fields:  []model.Field{{Label: "P/E Ratio", Value: "N/A"}},
		},
		DescriptionBlock: model.TextBlock{Heading: "About XYZ.NS:", Body: "No description available"},
	}

	out := Bundle(b, 80)
	assert.Contains(t, out, "XYZ.NS Stock Price")
	assert.Contains(t, out, "Key Fundamentals for XYZ.NS")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "About XYZ.NS:")
	assert.NotContains(t, out, "Price Forecast")
}
