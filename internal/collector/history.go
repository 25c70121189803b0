package collector

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"TickerLens/internal/model"
)

// HistoryFetcher resolves a request into an ascending price series or an outcome.
type HistoryFetcher struct {
	Provider Provider
	Timeout  time.Duration
	log      zerolog.Logger
}

// NewHistoryFetcher creates a new HistoryFetcher.
func NewHistoryFetcher(p Provider, timeout time.Duration, log zerolog.Logger) *HistoryFetcher {
	return &HistoryFetcher{
		Provider: p,
		Timeout:  timeout,
		log:      log.With().Str("component", "history").Logger(),
	}
}

// Fetch makes at most one provider call. Every failure collapses into
// OutcomeNotFoundOrError; the cause is only logged.
func (f *HistoryFetcher) Fetch(ctx context.Context, req model.Request) ([]model.Bar, model.Outcome) {
	ticker := strings.TrimSpace(req.Ticker)
	if !req.Submitted || ticker == "" {
		return []model.Bar{}, model.OutcomeIdle
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	bars, err := f.Provider.DailyBars(ctx, ticker, req.Range.Start, req.Range.End)
	if err != nil {
		f.log.Warn().Err(err).Str("ticker", ticker).Str("provider", f.Provider.Name()).Msg("price history unavailable")
		return []model.Bar{}, model.OutcomeNotFoundOrError
	}
	if len(bars) == 0 {
		f.log.Info().Str("ticker", ticker).Str("range", req.Range.String()).Msg("no bars in range")
		return []model.Bar{}, model.OutcomeEmpty
	}
	return normalizeBars(bars), model.OutcomeReady
}

// normalizeBars sorts ascending and keeps the last bar for a repeated date.
func normalizeBars(bars []model.Bar) []model.Bar {
	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
