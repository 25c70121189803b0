package model

// NoDescription is shown when the provider has no business summary.
const NoDescription = "No description available"

// Fundamentals is a best-effort snapshot; a nil field means unavailable.
type Fundamentals struct {
	MarketCap     *float64 `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	DividendYield *float64 `json:"dividend_yield"`
	Description   string   `json:"description"`
}

// UnavailableFundamentals returns the fully degraded snapshot.
func UnavailableFundamentals() Fundamentals {
	return Fundamentals{Description: NoDescription}
}
