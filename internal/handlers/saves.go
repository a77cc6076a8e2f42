package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dconn.dev/realmgen/internal/services"
)

// SaveHandler handles save slot endpoints
type SaveHandler struct {
	gameService *services.GameService
}

// NewSaveHandler creates a new SaveHandler
func NewSaveHandler(gs *services.GameService) *SaveHandler {
	return &SaveHandler{gameService: gs}
}

// ListSaves handles GET /api/saves
func (h *SaveHandler) ListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.gameService.ListSaves(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saves)
}

// Save handles POST /api/saves; an omitted slot allocates a new one
func (h *SaveHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot string `json:"slot"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	meta, err := h.gameService.Save(r.Context(), req.Slot)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, meta)
}

// Load handles POST /api/saves/{id}/load
func (h *SaveHandler) Load(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameService.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/saves/{id}
func (h *SaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameService.DeleteSave(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
