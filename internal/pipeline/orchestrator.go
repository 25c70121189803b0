// Package pipeline turns a (ticker, date range) request into a ResponseBundle.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
	"TickerLens/internal/recorder"
)

// PriceHistory resolves a request into bars and an outcome.
type PriceHistory interface {
	Fetch(ctx context.Context, req model.Request) ([]model.Bar, model.Outcome)
}

// FundamentalsSource builds a best-effort fundamentals snapshot.
type FundamentalsSource interface {
	Extract(ctx context.Context, ticker string) model.Fundamentals
}

// Options controls the forecast and the display currency.
type Options struct {
	Window   int
	Horizon  int
	Mode     calculator.ForecastMode
	Currency string
}

// DefaultOptions matches the reference 5-day overlay priced in INR.
func DefaultOptions() Options {
	return Options{
		Window:   calculator.DefaultWindow,
		Horizon:  calculator.DefaultHorizon,
		Mode:     calculator.ModeRetrospective,
		Currency: "INR",
	}
}

// Orchestrator sequences history, fundamentals and forecast. It keeps no
// per-request state, so Run may be called concurrently.
type Orchestrator struct {
	history      PriceHistory
	fundamentals FundamentalsSource
	recorder     recorder.Recorder
	opts         Options
	log          zerolog.Logger
	now          func() time.Time
}

// NewOrchestrator creates a new Orchestrator. A nil recorder disables the request log.
func NewOrchestrator(h PriceHistory, f FundamentalsSource, rec recorder.Recorder, opts Options, log zerolog.Logger) *Orchestrator {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Orchestrator{
		history:      h,
		fundamentals: f,
		recorder:     rec,
		opts:         opts,
		log:          log.With().Str("component", "pipeline").Logger(),
		now:          time.Now,
	}
}

// Run always returns a well-formed bundle; failures show up only as the outcome.
func (o *Orchestrator) Run(ctx context.Context, req model.Request) model.ResponseBundle {
	started := o.now()
	req.Ticker = strings.TrimSpace(req.Ticker)
	id := uuid.NewString()
	log := o.log.With().Str("request_id", id).Str("ticker", req.Ticker).Logger()

	bars, outcome := o.history.Fetch(ctx, req)
	if outcome == model.OutcomeIdle {
		// Nothing was submitted, nothing to record.
		return IdleBundle()
	}

	var (
		fundamentals = model.UnavailableFundamentals()
		forecast     = []model.ForecastPoint{}
	)
	if outcome == model.OutcomeReady {
		fundamentals = o.fundamentals.Extract(ctx, req.Ticker)
		forecast = calculator.ForecastWithMode(bars, o.opts.Window, o.opts.Horizon, o.opts.Mode)
	} else {
		bars = []model.Bar{}
	}

	bundle := assemble(id, req, outcome, bars, fundamentals, forecast, o.opts)
	elapsed := o.now().Sub(started)

	log.Info().
		Str("outcome", string(outcome)).
		Int("bars", len(bars)).
		Int("forecast_points", len(forecast)).
		Dur("elapsed", elapsed).
		Msg("request complete")

	if err := o.recorder.RecordRequest(&recorder.RequestEvent{
		ID:             id,
		Ticker:         req.Ticker,
		Start:          req.Range.Start,
		End:            req.Range.End,
		Outcome:        string(outcome),
		Bars:           len(bars),
		ForecastPoints: len(forecast),
		Duration:       elapsed,
	}); err != nil {
		log.Error().Err(err).Msg("record request")
	}
	return bundle
}

// IdleBundle is the bundle shown before any submission.
func IdleBundle() model.ResponseBundle {
	return assemble("", model.Request{}, model.OutcomeIdle, nil, model.UnavailableFundamentals(), nil, DefaultOptions())
}
