package handlers

import (
	"net/http"

	"prode-app-go/interfaces"
	"prode-app-go/models"

	"github.com/gorilla/mux"
)

// GameHandler schedules games and records results
type GameHandler struct {
	games interfaces.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(games interfaces.GameService) *GameHandler {
	return &GameHandler{games: games}
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListGames(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if games == nil {
		games = []*models.Game{}
	}
	respondJSON(w, http.StatusOK, games)
}

// Create schedules a game in the competition from the path
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.KickoffAt.IsZero() {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation failed",
			Fields: map[string]string{"kickoffAt": "This field is required"},
		})
		return
	}

	game, err := h.games.CreateGame(r.Context(), mux.Vars(r)["id"], req.HomeTeam, req.AwayTeam, req.KickoffAt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

// RecordResult stores the final score and returns the winner refresh
func (h *GameHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var req models.ResultRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	update, err := h.games.RecordResult(r.Context(), mux.Vars(r)["id"], *req.HomeScore, *req.AwayScore)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, update)
}
