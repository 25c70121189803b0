package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/calculator"
	"TickerLens/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("testdata/does-not-exist.yaml")
	require.NoError(t, err)
	return cfg
}

func TestNewProvider(t *testing.T) {
	cfg := testConfig(t)

	cfg.Provider.Name = "yahoo"
	p, err := newProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "yahoo", p.Name())

	cfg.Provider.Name = "mock"
	p, err = newProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	cfg.Provider.Name = "bloomberg"
	_, err = newProvider(cfg)
	assert.Error(t, err)
}

func TestPipelineOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Forecast.Mode = "causal"
	cfg.Forecast.Window = 7

	opts, err := pipelineOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, calculator.ModeCausal, opts.Mode)
	assert.Equal(t, 7, opts.Window)
	assert.Equal(t, cfg.Provider.Currency, opts.Currency)

	cfg.Forecast.Mode = "psychic"
	_, err = pipelineOptions(cfg)
	assert.Error(t, err)
}

func TestLookupCommandWithMockProvider(t *testing.T) {
	t.Setenv("PROVIDER", "mock")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"lookup", "TCS.NS", "--config", "testdata/does-not-exist.yaml", "--start", "2024-01-01", "--end", "2024-03-01", "--json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"outcome": "READY"`)
	assert.Contains(t, out.String(), `"ticker": "TCS.NS"`)
}

func TestLookupCommandRejectsBadDate(t *testing.T) {
	t.Setenv("PROVIDER", "mock")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"lookup", "TCS.NS", "--config", "testdata/does-not-exist.yaml", "--start", "01/01/2024"})

	assert.Error(t, cmd.Execute())
}
