package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abelal/pantrylog/internal/domain"
)

type foodItemRequest struct {
	Name                  string  `json:"name"`
	Category              string  `json:"category"`
	DefaultExpirationDays int     `json:"default_expiration_days"`
	CostPerUnit           float64 `json:"cost_per_unit"`
}

func (req *foodItemRequest) validate() (domain.Category, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "", "name is required"
	}
	category := domain.Category(req.Category)
	if !category.Valid() {
		return "", "unknown category"
	}
	if req.DefaultExpirationDays <= 0 {
		return "", "default_expiration_days must be positive"
	}
	if req.CostPerUnit < 0 {
		return "", "cost_per_unit must not be negative"
	}
	return category, ""
}

func (s *Server) handleCreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var req foodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	category, problem := req.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	item, err := s.catalog.Create(r.Context(), req.Name, category, req.DefaultExpirationDays, req.CostPerUnit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListFoodItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []*domain.FoodItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetFoodItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := s.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req foodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	category, problem := req.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	if err := s.catalog.Update(r.Context(), id, req.Name, category, req.DefaultExpirationDays, req.CostPerUnit); err != nil {
		writeDomainError(w, err)
		return
	}

	item, err := s.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.catalog.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
