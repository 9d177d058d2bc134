package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abelal/pantrylog/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps tagged engine errors onto HTTP statuses. Unknown
// errors become a 500 without leaking internals.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnknownFoodItem):
		writeError(w, http.StatusBadRequest, "unknown food item")
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid quantity")
	case errors.Is(err, domain.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, "expiry date precedes purchase date")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "lot is in a terminal state")
	case errors.Is(err, domain.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "concurrent modification, retry")
	case errors.Is(err, domain.ErrItemInUse):
		writeError(w, http.StatusConflict, "food item referenced by available lots")
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		slog.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
