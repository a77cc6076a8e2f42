package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/services"
)

// maxChunkArea caps how many tiles one chunk request may regenerate
const maxChunkArea = 128 * 128

// WorldHandler handles world, town and chunk endpoints
type WorldHandler struct {
	gameService *services.GameService
}

// NewWorldHandler creates a new WorldHandler
func NewWorldHandler(gs *services.GameService) *WorldHandler {
	return &WorldHandler{gameService: gs}
}

// GetWorld handles GET /api/world - returns the world parameters
func (h *WorldHandler) GetWorld(w http.ResponseWriter, r *http.Request) {
	world, err := h.gameService.World()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, world)
}

// GetChunk handles GET /api/world/chunk?x0=&y0=&x1=&y1= - regenerates a region
func (h *WorldHandler) GetChunk(w http.ResponseWriter, r *http.Request) {
	var coords [4]int
	for i, name := range []string{"x0", "y0", "x1", "y1"} {
		v, err := strconv.Atoi(r.URL.Query().Get(name))
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid "+name+" coordinate")
			return
		}
		coords[i] = v
	}

	b := generation.Bounds{MinX: coords[0], MinY: coords[1], MaxX: coords[2], MaxY: coords[3]}
	if b.Width() > 0 && b.Height() > 0 && b.Width()*b.Height() > maxChunkArea {
		respondError(w, http.StatusBadRequest, "Chunk too large")
		return
	}

	chunk, err := h.gameService.Chunk(b)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, chunk)
}

// ListTowns handles GET /api/world/towns
func (h *WorldHandler) ListTowns(w http.ResponseWriter, r *http.Request) {
	towns, err := h.gameService.Towns()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, towns)
}

// GetTown handles GET /api/world/towns/{id}
func (h *WorldHandler) GetTown(w http.ResponseWriter, r *http.Request) {
	town, err := h.gameService.Town(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, town)
}

// VisitTown handles POST /api/world/towns/{id}/visit
func (h *WorldHandler) VisitTown(w http.ResponseWriter, r *http.Request) {
	visit, err := h.gameService.VisitTown(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visit)
}

// ListRoads handles GET /api/world/roads; ?trunk=1 returns only the trunk roads
func (h *WorldHandler) ListRoads(w http.ResponseWriter, r *http.Request) {
	list := h.gameService.Roads
	if trunk, _ := strconv.ParseBool(r.URL.Query().Get("trunk")); trunk {
		list = h.gameService.TrunkRoads
	}
	roads, err := list()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roads)
}
