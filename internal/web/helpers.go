package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/heatmap"
)

// httpError maps domain errors to status codes. Only unexpected errors are
// logged.
func (s *Server) httpError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, heatmap.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidBill):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, heatmap.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrBillExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
