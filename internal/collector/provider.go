package collector

import (
	"context"
	"errors"
	"time"

	"TickerLens/internal/model"
)

var (
	// ErrSymbolNotFound is returned when the provider does not know the ticker.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrMalformedResponse is returned when a provider payload cannot be interpreted.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Metadata is the provider's company record. Every field is independently optional.
type Metadata struct {
	MarketCap       *float64
	PERatio         *float64
	DividendYield   *float64
	LongDescription *string
}

// Provider is the market-data boundary.
type Provider interface {
	// DailyBars returns daily bars with dates in [start, end], inclusive.
	DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error)
	Metadata(ctx context.Context, ticker string) (*Metadata, error)
	Name() string
}
