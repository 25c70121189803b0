package model

import "time"

// ForecastPoint pairs a day's actual close with its moving-average forecast.
type ForecastPoint struct {
	Date          time.Time `json:"date"`
	ActualClose   float64   `json:"actual_close"`
	ForecastValue float64   `json:"forecast_value"`
}
