package collector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/model"
)

func ptr[T any](v T) *T { return &v }

func fullMetadata() *Metadata {
	return &Metadata{
		MarketCap:       ptr(6.5e12),
		PERatio:         ptr(27.4),
		DividendYield:   ptr(0.025),
		LongDescription: ptr("Infosys provides consulting services."),
	}
}

func TestFundamentalsExtractor_AllFields(t *testing.T) {
	e := NewFundamentalsExtractor(&MockProvider{Meta: fullMetadata()}, time.Second, zerolog.Nop())

	snap := e.Extract(context.Background(), "INFY.NS")
	require.NotNil(t, snap.MarketCap)
	require.NotNil(t, snap.PERatio)
	require.NotNil(t, snap.DividendYield)
	assert.Equal(t, 6.5e12, *snap.MarketCap)
	assert.Equal(t, 27.4, *snap.PERatio)
	assert.Equal(t, 0.025, *snap.DividendYield)
	assert.Equal(t, "Infosys provides consulting services.", snap.Description)
}

func TestFundamentalsExtractor_OneMissingField(t *testing.T) {
	drop := map[string]func(m *Metadata){
		"market cap":     func(m *Metadata) { m.MarketCap = nil },
		"pe ratio":       func(m *Metadata) { m.PERatio = nil },
		"dividend yield": func(m *Metadata) { m.DividendYield = nil },
		"description":    func(m *Metadata) { m.LongDescription = nil },
	}
	for name, fn := range drop {
		t.Run(name, func(t *testing.T) {
			meta := fullMetadata()
			fn(meta)
			e := NewFundamentalsExtractor(&MockProvider{Meta: meta}, time.Second, zerolog.Nop())
			snap := e.Extract(context.Background(), "INFY.NS")

			present := 0
			for _, v := range []*float64{snap.MarketCap, snap.PERatio, snap.DividendYield} {
				if v != nil {
					present++
				}
			}
			if name == "description" {
				assert.Equal(t, 3, present)
				assert.Equal(t, model.NoDescription, snap.Description)
			} else {
				assert.Equal(t, 2, present)
				assert.Equal(t, "Infosys provides consulting services.", snap.Description)
			}
		})
	}
}

func TestFundamentalsExtractor_ProviderFailure(t *testing.T) {
	e := NewFundamentalsExtractor(&MockProvider{MetaErr: errors.New("timeout")}, time.Second, zerolog.Nop())

	snap := e.Extract(context.Background(), "INFY.NS")
	assert.Equal(t, model.UnavailableFundamentals(), snap)
}

func TestFundamentalsExtractor_DropsNonFinite(t *testing.T) {
	meta := fullMetadata()
	meta.PERatio = ptr(math.Inf(1))
	meta.LongDescription = ptr("   ")
	e := NewFundamentalsExtractor(&MockProvider{Meta: meta}, time.Second, zerolog.Nop())

	snap := e.Extract(context.Background(), "INFY.NS")
	assert.Nil(t, snap.PERatio)
	assert.NotNil(t, snap.MarketCap)
	assert.Equal(t, model.NoDescription, snap.Description)
}
