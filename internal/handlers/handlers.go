package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/services"
	"dconn.dev/realmgen/internal/storage"
)

// SetupRoutes configures all routes and returns the router
func SetupRoutes(games *services.GameService, cfg config.GameConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Initialize handlers
	gameHandler := NewGameHandler(games, cfg)
	worldHandler := NewWorldHandler(games)
	saveHandler := NewSaveHandler(games)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/games", gameHandler.NewGame)

		// Session endpoints
		r.Get("/game", gameHandler.GetState)
		r.Get("/game/viewport", gameHandler.GetViewport)
		r.Get("/game/map", gameHandler.GetFullMap)
		r.Post("/game/move", gameHandler.Move)

		// Battle endpoints
		r.Get("/battle", gameHandler.GetBattle)
		r.Post("/battle/action", gameHandler.Act)
		r.Post("/battle/monsters", gameHandler.MonsterPhase)

		// World endpoints
		r.Route("/world", func(r chi.Router) {
			r.Get("/", worldHandler.GetWorld)
			r.Get("/chunk", worldHandler.GetChunk)
			r.Get("/roads", worldHandler.ListRoads)
			r.Get("/towns", worldHandler.ListTowns)
			r.Get("/towns/{id}", worldHandler.GetTown)
			r.Post("/towns/{id}/visit", worldHandler.VisitTown)
		})

		// Save slots
		r.Get("/saves", saveHandler.ListSaves)
		r.Post("/saves", saveHandler.Save)
		r.Post("/saves/{id}/load", saveHandler.Load)
		r.Delete("/saves/{id}", saveHandler.Delete)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its status code
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNoGame),
		errors.Is(err, services.ErrNoBattle),
		errors.Is(err, services.ErrUnknownTown),
		errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrBattleActive),
		errors.Is(err, services.ErrBlocked):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidDirection),
		errors.Is(err, storage.ErrInvalidSlot),
		errors.Is(err, generation.ErrInvalidBounds),
		errors.Is(err, generation.ErrInvalidSeed):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("Error handling request: %v", err)
	}
	respondError(w, status, err.Error())
}

// decodeBody reads an optional JSON body; an empty body leaves v untouched
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}
