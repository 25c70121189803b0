package calculator

import (
	"fmt"
	"math"

	"TickerLens/internal/model"
)

// ForecastMode selects how the trailing average is aligned to dates.
type ForecastMode string

const (
	// ModeRetrospective records the average through day d as the value of day d-horizon.
	ModeRetrospective ForecastMode = "retrospective"
	// ModeCausal records the average through day d as the value of day d+horizon.
	ModeCausal ForecastMode = "causal"
)

const (
	DefaultWindow  = 5
	DefaultHorizon = 5
)

// ParseForecastMode accepts "" as the retrospective default.
func ParseForecastMode(s string) (ForecastMode, error) {
	switch ForecastMode(s) {
	case "", ModeRetrospective:
		return ModeRetrospective, nil
	case ModeCausal:
		return ModeCausal, nil
	default:
		return "", fmt.Errorf("unknown forecast mode %q", s)
	}
}

// Forecast derives the retrospective moving-average overlay.
func Forecast(bars []model.Bar, window, horizon int) []model.ForecastPoint {
	return ForecastWithMode(bars, window, horizon, ModeRetrospective)
}

// ForecastWithMode keeps only bars that have a full window of history of their own
// and a shifted average, so a series of length L yields max(0, L-window-horizon+1) points.
func ForecastWithMode(bars []model.Bar, window, horizon int, mode ForecastMode) []model.ForecastPoint {
	if window < 1 || horizon < 0 || len(bars) < window+horizon {
		return []model.ForecastPoint{}
	}

	sma := TrailingSMA(model.Closes(bars), window)
	points := make([]model.ForecastPoint, 0, len(bars)-window-horizon+1)

	for i, bar := range bars {
		var src int
		if mode == ModeCausal {
			src = i - horizon
		} else {
			src = i + horizon
		}
		if i < window-1 || src < window-1 || src >= len(sma) {
			continue
		}
		value := sma[src]
		if math.IsNaN(value) {
			continue
		}
		points = append(points, model.ForecastPoint{
			Date:          bar.Date,
			ActualClose:   bar.Close,
			ForecastValue: value,
		})
	}
	return points
}
