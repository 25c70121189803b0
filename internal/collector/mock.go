package collector

import (
	"context"
	"sync"
	"time"

	"TickerLens/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// With Bars nil it synthesizes weekday bars around Price for the requested range.
type MockProvider struct {
	Price   float64
	Bars    []model.Bar
	BarsErr error
	Meta    *Metadata
	MetaErr error

	mu        sync.Mutex
	barCalls  int
	metaCalls int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) DailyBars(ctx context.Context, _ string, start, end time.Time) ([]model.Bar, error) {
	m.mu.Lock()
	m.barCalls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	if m.Bars != nil {
		out := make([]model.Bar, len(m.Bars))
		copy(out, m.Bars)
		return out, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

func (m *MockProvider) Metadata(ctx context.Context, _ string) (*Metadata, error) {
	m.mu.Lock()
	m.metaCalls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.MetaErr != nil {
		return nil, m.MetaErr
	}
	if m.Meta == nil {
		return &Metadata{}, nil
	}
	meta := *m.Meta
	return &meta, nil
}

// Calls reports how many bar and metadata requests were made.
func (m *MockProvider) Calls() (bars, meta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.barCalls, m.metaCalls
}

func generateMockBars(basePrice float64, start, end time.Time) []model.Bar {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.Bar
	i := 0
	for d := model.TruncateDay(start); !d.After(model.TruncateDay(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%20-10)*0.002)
		bars = append(bars, model.Bar{
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	if bars == nil {
		bars = []model.Bar{}
	}
	return bars
}
