package collector

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"TickerLens/internal/model"
)

// FundamentalsExtractor builds a best-effort snapshot from provider metadata.
type FundamentalsExtractor struct {
	Provider Provider
	Timeout  time.Duration
	log      zerolog.Logger
}

// NewFundamentalsExtractor creates a new FundamentalsExtractor.
func NewFundamentalsExtractor(p Provider, timeout time.Duration, log zerolog.Logger) *FundamentalsExtractor {
	return &FundamentalsExtractor{
		Provider: p,
		Timeout:  timeout,
		log:      log.With().Str("component", "fundamentals").Logger(),
	}
}

// Extract never fails: a provider error degrades the whole snapshot, a missing
// field degrades only itself.
func (e *FundamentalsExtractor) Extract(ctx context.Context, ticker string) model.Fundamentals {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	meta, err := e.Provider.Metadata(ctx, ticker)
	if err != nil || meta == nil {
		e.log.Warn().Err(err).Str("ticker", ticker).Msg("fundamentals unavailable, using N/A")
		return model.UnavailableFundamentals()
	}

	snap := model.UnavailableFundamentals()
	snap.MarketCap = finite(meta.MarketCap)
	snap.PERatio = finite(meta.PERatio)
	snap.DividendYield = finite(meta.DividendYield)
	if meta.LongDescription != nil && strings.TrimSpace(*meta.LongDescription) != "" {
		snap.Description = strings.TrimSpace(*meta.LongDescription)
	}
	return snap
}

// finite copies v, dropping NaN and infinities.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := *v
	return &out
}
