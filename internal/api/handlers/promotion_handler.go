package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// PromotionHandler handles promotion requests
type PromotionHandler struct {
	service *services.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(service *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// ListPromotions handles GET /api/promotions
func (h *PromotionHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	promotions, total, err := h.service.List(
		r.Context(),
		r.URL.Query().Get("hospital_id"),
		actor,
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"promotions": promotions,
		"total":      total,
	})
}

// CreatePromotion handles POST /api/promotions (admin)
func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var promotion entities.Promotion
	if err := json.NewDecoder(r.Body).Decode(&promotion); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Create(r.Context(), &promotion, actor)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// UpdatePromotion handles PUT /api/promotions/{id} (admin)
func (h *PromotionHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "promotion ID is required")
		return
	}

	var promotion entities.Promotion
	if err := json.NewDecoder(r.Body).Decode(&promotion); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	promotion.ID = id

	if err := h.service.Update(r.Context(), &promotion, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, promotion)
}

// DeletePromotion handles DELETE /api/promotions/{id} (admin)
func (h *PromotionHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "promotion ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
