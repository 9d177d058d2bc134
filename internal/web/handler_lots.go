package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/abelal/pantrylog/internal/domain"
	"github.com/abelal/pantrylog/internal/lifecycle"
)

type createLotRequest struct {
	FoodItemID  int64     `json:"food_item_id"`
	Quantity    int       `json:"quantity"`
	PurchasedAt time.Time `json:"purchased_at"`
	ExpiryAt    time.Time `json:"expiry_at"`
	Notes       string    `json:"notes"`
}

func (s *Server) handleCreateLot(w http.ResponseWriter, r *http.Request) {
	var req createLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.PurchasedAt.IsZero() || req.ExpiryAt.IsZero() {
		writeError(w, http.StatusBadRequest, "purchased_at and expiry_at are required")
		return
	}

	res, err := s.engine.CreateLot(r.Context(), s.actor(r), req.FoodItemID, req.Quantity, req.PurchasedAt, req.ExpiryAt, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := s.reports.ListLots(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if lots == nil {
		lots = []*domain.Lot{}
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) handleGetLot(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	lot, err := s.reports.GetLot(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

type adjustQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req adjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := s.engine.AdjustQuantity(r.Context(), s.actor(r), id, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMarkConsumed(w http.ResponseWriter, r *http.Request) {
	s.terminalTransition(w, r, s.engine.MarkConsumed)
}

func (s *Server) handleMarkExpired(w http.ResponseWriter, r *http.Request) {
	s.terminalTransition(w, r, s.engine.MarkExpired)
}

func (s *Server) handleRemoveLot(w http.ResponseWriter, r *http.Request) {
	s.terminalTransition(w, r, s.engine.Remove)
}

func (s *Server) terminalTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor string, lotID int64) (*lifecycle.Result, error)) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res, err := fn(r.Context(), s.actor(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
