package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"TickerLens/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "tickerlens",
	})
}

// handleStock answers GET /api/v1/stocks/{ticker}?start=&end=. Lookup
// failures are reported through the bundle outcome with status 200; only
// unparsable dates are rejected.
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	// chi matches on the escaped path, so "M%26M.NS" arrives still encoded.
	ticker, err := url.PathUnescape(chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid ticker: %v", err))
		return
	}

	q := r.URL.Query()
	rng, err := model.ParseRange(q.Get("start"), q.Get("end"), s.now())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bundle := s.runner.Run(r.Context(), model.Request{
		Ticker:    ticker,
		Range:     rng,
		Submitted: true,
	})
	s.writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
