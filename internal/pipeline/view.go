package pipeline

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"

	"TickerLens/internal/model"
)

const unavailable = "N/A"

// assemble builds the immutable bundle for one outcome. Artifacts other than
// the outcome's own are replaced with their empty forms.
func assemble(id string, req model.Request, outcome model.Outcome, bars []model.Bar,
	f model.Fundamentals, forecast []model.ForecastPoint, opts Options) model.ResponseBundle {
	if bars == nil {
		bars = []model.Bar{}
	}
	if forecast == nil {
		forecast = []model.ForecastPoint{}
	}

	b := model.ResponseBundle{
		RequestID:    id,
		Outcome:      outcome,
		Ticker:       req.Ticker,
		Range:        req.Range,
		Prices:       bars,
		Fundamentals: f,
		Forecast:     forecast,
		Visibility:   model.VisibilityFor(outcome, len(forecast)),
	}

	switch outcome {
	case model.OutcomeEmpty, model.OutcomeNotFoundOrError:
		b.NotFound = true
		b.Notice = model.NotFoundMessage
	case model.OutcomeReady:
		b.PriceChart = priceChart(req.Ticker, opts.Currency, bars)
		b.ForecastChart = forecastChart(req.Ticker, opts.Currency, opts.Window, forecast)
		b.FundamentalsBlock = fundamentalsBlock(req.Ticker, opts.Currency, f)
		b.DescriptionBlock = model.TextBlock{
			Heading: fmt.Sprintf("About %s:", req.Ticker),
			Body:    f.Description,
		}
	}
	return b
}

func priceChart(ticker, currency string, bars []model.Bar) model.Chart {
	points := make([]model.Point, len(bars))
	for i, bar := range bars {
		points[i] = model.Point{X: bar.Date, Y: bar.Close}
	}
	c := model.Chart{
		Title:  fmt.Sprintf("%s Stock Price", ticker),
		XTitle: "Date",
		YTitle: fmt.Sprintf("Price (%s)", currency),
		Lines:  []model.Line{{Name: fmt.Sprintf("%s Close Price", ticker), Points: points}},
	}
	c.YMin, c.YMax = bounds(model.Closes(bars))
	return c
}

func forecastChart(ticker, currency string, window int, forecast []model.ForecastPoint) model.Chart {
	actual := make([]model.Point, len(forecast))
	predicted := make([]model.Point, len(forecast))
	values := make([]float64, 0, 2*len(forecast))
	for i, p := range forecast {
		actual[i] = model.Point{X: p.Date, Y: p.ActualClose}
		predicted[i] = model.Point{X: p.Date, Y: p.ForecastValue}
		values = append(values, p.ActualClose, p.ForecastValue)
	}
	c := model.Chart{
		Title:  fmt.Sprintf("%s Price Forecast", ticker),
		XTitle: "Date",
		YTitle: fmt.Sprintf("Price (%s)", currency),
		Lines: []model.Line{
			{Name: "Actual Close Price", Points: actual},
			{Name: fmt.Sprintf("%d-Day Moving Average Forecast", window), Points: predicted},
		},
	}
	c.YMin, c.YMax = bounds(values)
	return c
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}

func fundamentalsBlock(ticker, currency string, f model.Fundamentals) model.TextBlock {
	return model.TextBlock{
		Heading: fmt.Sprintf("Key Fundamentals for %s", ticker),
		Fields: []model.Field{
			{Label: "Market Cap", Value: formatMarketCap(f.MarketCap, currency)},
			{Label: "P/E Ratio", Value: formatDecimal(f.PERatio, 2)},
			{Label: "Dividend Yield", Value: formatDecimal(f.DividendYield, 4)},
			{Label: "Description", Value: f.Description},
		},
	}
}

// formatMarketCap renders e.g. "6,500,000,000,000 INR".
func formatMarketCap(v *float64, currency string) string {
	if v == nil {
		return unavailable
	}
	s := humanize.Comma(int64(math.Round(*v)))
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func formatDecimal(v *float64, places int32) string {
	if v == nil {
		return unavailable
	}
	return decimal.NewFromFloat(*v).Round(places).String()
}
