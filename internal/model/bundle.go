package model

import "time"

// Outcome classifies a pipeline run.
type Outcome string

const (
	OutcomeIdle            Outcome = "IDLE"
	OutcomeNotFoundOrError Outcome = "NOT_FOUND_OR_ERROR"
	OutcomeEmpty           Outcome = "EMPTY"
	OutcomeReady           Outcome = "READY"
)

// NotFoundMessage is the text of the blocking notice.
const NotFoundMessage = "Stock not found. Please enter a valid ticker."

// Visibility holds the panel flags derived from the outcome.
type Visibility struct {
	PriceChart    bool `json:"price_chart"`
	ForecastChart bool `json:"forecast_chart"`
	Description   bool `json:"description"`
	Fundamentals  bool `json:"fundamentals"`
}

// Point is one (x, y) sample of a chart line.
type Point struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// Line is a named chart trace.
type Line struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Chart describes a renderable line chart.
type Chart struct {
	Title  string  `json:"title"`
	XTitle string  `json:"x_title"`
	YTitle string  `json:"y_title"`
	YMin   float64 `json:"y_min"`
	YMax   float64 `json:"y_max"`
	Lines  []Line  `json:"lines"`
}

// Field is one labeled line of a text block.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TextBlock is a heading followed by labeled fields.
type TextBlock struct {
	Heading string  `json:"heading"`
	Fields  []Field `json:"fields,omitempty"`
	Body    string  `json:"body,omitempty"`
}

// ResponseBundle is the immutable per-request output handed to presentation.
type ResponseBundle struct {
	RequestID    string          `json:"request_id,omitempty"`
	Outcome      Outcome         `json:"outcome"`
	Ticker       string          `json:"ticker"`
	Range        DateRange       `json:"range"`
	Prices       []Bar           `json:"prices"`
	Fundamentals Fundamentals    `json:"fundamentals"`
	Forecast     []ForecastPoint `json:"forecast"`
	Visibility   Visibility      `json:"visibility"`
	NotFound     bool            `json:"not_found"`
	Notice       string          `json:"notice,omitempty"`

	PriceChart        Chart     `json:"price_chart"`
	ForecastChart     Chart     `json:"forecast_chart"`
	FundamentalsBlock TextBlock `json:"fundamentals_block"`
	DescriptionBlock  TextBlock `json:"description_block"`
}

// VisibilityFor derives panel flags from an outcome; the forecast panel also
// needs at least one forecast point.
func VisibilityFor(outcome Outcome, forecastPoints int) Visibility {
	if outcome != OutcomeReady {
		return Visibility{}
	}
	return Visibility{
		PriceChart:    true,
		ForecastChart: forecastPoints > 0,
		Description:   true,
		Fundamentals:  true,
	}
}
