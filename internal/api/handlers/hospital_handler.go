package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
)

// HospitalHandler handles hospital catalog requests
type HospitalHandler struct {
	service *services.HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(service *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{service: service}
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	hospital, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}

// ListHospitals handles GET /api/hospitals
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	h.search(w, r)
}

// SearchHospitals handles GET /api/hospitals/search
func (h *HospitalHandler) SearchHospitals(w http.ResponseWriter, r *http.Request) {
	h.search(w, r)
}

func (h *HospitalHandler) search(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	query := r.URL.Query()
	filter := repositories.HospitalFilter{
		Query:     query.Get("q"),
		Country:   query.Get("country"),
		Specialty: query.Get("specialty"),
		Limit:     parseIntQuery(r, "limit", 30),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	hospitals, total, err := h.service.Search(r.Context(), filter, actor)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"total":     total,
	})
}

// CreateHospital handles POST /api/hospitals (admin)
func (h *HospitalHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var hospital entities.Hospital
	if err := json.NewDecoder(r.Body).Decode(&hospital); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Create(r.Context(), &hospital, actor)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateHospital handles PUT /api/hospitals/{id} (admin)
func (h *HospitalHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	var hospital entities.Hospital
	if err := json.NewDecoder(r.Body).Decode(&hospital); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	hospital.ID = id

	if err := h.service.Update(r.Context(), &hospital, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}

// DeleteHospital handles DELETE /api/hospitals/{id} (admin)
func (h *HospitalHandler) DeleteHospital(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
