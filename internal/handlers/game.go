package handlers

import (
	"net/http"
	"strconv"

	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/services"
)

// GameHandler handles session and battle endpoints
type GameHandler struct {
	gameService *services.GameService
	cfg         config.GameConfig
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gs *services.GameService, cfg config.GameConfig) *GameHandler {
	return &GameHandler{
		gameService: gs,
		cfg:         cfg,
	}
}

// NewGame handles POST /api/games
func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed string `json:"seed"`
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.gameService.NewGame(req.Seed, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetState handles GET /api/game
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	view, err := h.gameService.State()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetViewport handles GET /api/game/viewport
func (h *GameHandler) GetViewport(w http.ResponseWriter, r *http.Request) {
	// Parse viewport dimensions from query params
	width := parseIntParam(r, "width", h.cfg.ViewportWidth)
	height := parseIntParam(r, "height", h.cfg.ViewportHeight)

	// Clamp to reasonable values
	width = clamp(width, 10, 200)
	height = clamp(height, 10, 100)

	viewport, err := h.gameService.Viewport(width, height)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewport)
}

// GetFullMap handles GET /api/game/map - returns full map for client-side rendering
func (h *GameHandler) GetFullMap(w http.ResponseWriter, r *http.Request) {
	mapData, err := h.gameService.FullMap()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapData)
}

// Move handles POST /api/game/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
		Salt      string `json:"salt"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.gameService.Move(req.Direction, req.Salt)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetBattle handles GET /api/battle
func (h *GameHandler) GetBattle(w http.ResponseWriter, r *http.Request) {
	battle, err := h.gameService.Battle()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// Act handles POST /api/battle/action
func (h *GameHandler) Act(w http.ResponseWriter, r *http.Request) {
	var action models.BattleAction
	if err := decodeBody(r, &action); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	battle, err := h.gameService.Act(action)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// MonsterPhase handles POST /api/battle/monsters
func (h *GameHandler) MonsterPhase(w http.ResponseWriter, r *http.Request) {
	battle, err := h.gameService.MonsterPhase()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// parseIntParam parses an integer query parameter with a default value
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// clamp limits a value to a range
func clamp(val, lo, hi int) int {
	return min(max(val, lo), hi)
}
