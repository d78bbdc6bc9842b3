package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// InterpreterHandler handles interpreter catalog requests
type InterpreterHandler struct {
	service *services.InterpreterService
}

// NewInterpreterHandler creates a new interpreter handler
func NewInterpreterHandler(service *services.InterpreterService) *InterpreterHandler {
	return &InterpreterHandler{service: service}
}

// ListInterpreters handles GET /api/interpreters
func (h *InterpreterHandler) ListInterpreters(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	interpreters, total, err := h.service.List(
		r.Context(),
		actor,
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interpreters": interpreters,
		"total":        total,
	})
}

// GetInterpreter handles GET /api/interpreters/{id}
func (h *InterpreterHandler) GetInterpreter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "interpreter ID is required")
		return
	}

	interpreter, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, interpreter)
}

// CreateInterpreter handles POST /api/interpreters (admin)
func (h *InterpreterHandler) CreateInterpreter(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var interpreter entities.Interpreter
	if err := json.NewDecoder(r.Body).Decode(&interpreter); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Create(r.Context(), &interpreter, actor)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateInterpreter handles PUT /api/interpreters/{id} (admin)
func (h *InterpreterHandler) UpdateInterpreter(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "interpreter ID is required")
		return
	}

	var interpreter entities.Interpreter
	if err := json.NewDecoder(r.Body).Decode(&interpreter); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	interpreter.ID = id

	if err := h.service.Update(r.Context(), &interpreter, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, interpreter)
}

// DeleteInterpreter handles DELETE /api/interpreters/{id} (admin)
func (h *InterpreterHandler) DeleteInterpreter(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "interpreter ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
