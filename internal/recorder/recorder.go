package recorder

import "time"

// RequestEvent is the metadata of one submitted lookup. Bars, fundamentals
// and bundles are never persisted.
type RequestEvent struct {
	ID             string
	Ticker         string
	Start          time.Time
	End            time.Time
	Outcome        string // "READY", "EMPTY", "NOT_FOUND_OR_ERROR"
	Bars           int
	ForecastPoints int
	Duration       time.Duration
}

// Recorder persists the request log for later analysis.
type Recorder interface {
	RecordRequest(evt *RequestEvent) error
	// Prune deletes events recorded before the cutoff and reports how many went.
	Prune(before time.Time) (int64, error)
	Close() error
}
