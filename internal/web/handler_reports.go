package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/abelal/pantrylog/internal/domain"
	"github.com/abelal/pantrylog/internal/report"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	history, err := s.reports.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if history == nil {
		history = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleExpiringSoon(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	expiring, err := s.reports.ListExpiringSoon(r.Context(), days)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if expiring == nil {
		expiring = []report.ExpiringLot{}
	}
	writeJSON(w, http.StatusOK, expiring)
}

func (s *Server) handleCatalogUsage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	usage, err := s.reports.CatalogUsage(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"food_item_id":       id,
		"available_quantity": usage,
	})
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	feed, err := s.reports.RecentActivity(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if feed == nil {
		feed = []domain.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	results, err := s.engine.ExpirySweep(r.Context(), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lots_expired": len(results),
		"results":      results,
	})
}
