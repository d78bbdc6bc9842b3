package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
)

// FeeHandler handles fee schedule requests
type FeeHandler struct {
	service *services.FeeService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(service *services.FeeService) *FeeHandler {
	return &FeeHandler{service: service}
}

// ListFees handles GET /api/fees
func (h *FeeHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.FeeFilter{
		HospitalID: query.Get("hospital_id"),
		Treatment:  query.Get("treatment"),
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	fees, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"fees":  fees,
		"total": total,
	})
}

// CreateFee handles POST /api/fees (admin)
func (h *FeeHandler) CreateFee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var fee entities.Fee
	if err := json.NewDecoder(r.Body).Decode(&fee); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Create(r.Context(), &fee, actor)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateFee handles PUT /api/fees/{id} (admin)
func (h *FeeHandler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "fee ID is required")
		return
	}

	var fee entities.Fee
	if err := json.NewDecoder(r.Body).Decode(&fee); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	fee.ID = id

	if err := h.service.Update(r.Context(), &fee, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, fee)
}

// DeleteFee handles DELETE /api/fees/{id} (admin)
func (h *FeeHandler) DeleteFee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "fee ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
