package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"TickerLens/internal/calculator"
	"TickerLens/internal/collector"
	"TickerLens/internal/config"
	"TickerLens/internal/logging"
	"TickerLens/internal/pipeline"
	"TickerLens/internal/recorder"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	provider collector.Provider
	recorder recorder.Recorder
	orch     *pipeline.Orchestrator
}

// loadConfig resolves the config path from the flag, then CONFIG_PATH.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config, withRecorder bool) (*app, error) {
	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", provider.Name()).Msg("data source")

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if withRecorder && cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return nil, err
	}
	orch := pipeline.NewOrchestrator(
		collector.NewHistoryFetcher(provider, cfg.Provider.Timeout, log),
		collector.NewFundamentalsExtractor(provider, cfg.Provider.Timeout, log),
		rec, opts, log,
	)

	return &app{cfg: cfg, log: log, provider: provider, recorder: rec, orch: orch}, nil
}

func (a *app) Close() error {
	return a.recorder.Close()
}

func newProvider(cfg *config.Config) (collector.Provider, error) {
	switch cfg.Provider.Name {
	case "yahoo":
		return collector.NewYahooProvider(collector.YahooOptions{
			BaseURL:   cfg.Provider.BaseURL,
			UserAgent: cfg.Provider.UserAgent,
			Timeout:   cfg.Provider.Timeout,
			Proxy:     cfg.Proxy,
		}), nil
	case "mock":
		return &collector.MockProvider{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

func pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	mode, err := calculator.ParseForecastMode(cfg.Forecast.Mode)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Window:   cfg.Forecast.Window,
		Horizon:  cfg.Forecast.Horizon,
		Mode:     mode,
		Currency: cfg.Provider.Currency,
	}, nil
}
