package handlers

import (
	"net/http"

	"prode-app-go/interfaces"
	"prode-app-go/middleware"
	"prode-app-go/models"

	"github.com/gorilla/mux"
)

// BetHandler places and lists the current user's bets
type BetHandler struct {
	bets interfaces.BetService
}

// NewBetHandler creates a new bet handler
func NewBetHandler(bets interfaces.BetService) *BetHandler {
	return &BetHandler{bets: bets}
}

// Place creates or replaces the user's bet on the game from the path
func (h *BetHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceBetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := middleware.GetUserFromContext(r)
	bet, err := h.bets.PlaceBet(r.Context(), user.ID, mux.Vars(r)["id"], *req.HomeScore, *req.AwayScore)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bet)
}

// Mine lists the user's bets in the competition from the path
func (h *BetHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	bets, err := h.bets.UserBets(r.Context(), mux.Vars(r)["id"], user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if bets == nil {
		bets = []models.Bet{}
	}
	respondJSON(w, http.StatusOK, bets)
}
