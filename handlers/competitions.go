package handlers

import (
	"net/http"

	"prode-app-go/interfaces"
	"prode-app-go/middleware"
	"prode-app-go/models"

	"github.com/gorilla/mux"
)

// CompetitionHandler serves competitions, membership and standings
type CompetitionHandler struct {
	competitions interfaces.CompetitionService
	standings    interfaces.StandingsService
}

// NewCompetitionHandler creates a new competition handler
func NewCompetitionHandler(competitions interfaces.CompetitionService, standings interfaces.StandingsService) *CompetitionHandler {
	return &CompetitionHandler{competitions: competitions, standings: standings}
}

// StandingsResponse is the ranked table of a competition plus its stored winner.
// Me is the caller's own row when the request is authenticated and the caller has bet.
type StandingsResponse struct {
	CompetitionID string                 `json:"competitionId"`
	Status        models.Status          `json:"status"`
	WinnerID      *string                `json:"winnerId,omitempty"`
	Standings     []models.StandingEntry `json:"standings"`
	Me            *models.StandingEntry  `json:"me,omitempty"`
}

func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.competitions.ListCompetitions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if competitions == nil {
		competitions = []*models.Competition{}
	}
	respondJSON(w, http.StatusOK, competitions)
}

func (h *CompetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	competition, err := h.competitions.GetCompetition(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, competition)
}

// Create is admin only
func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCompetitionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	competition, err := h.competitions.CreateCompetition(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, competition)
}

// Join registers the current user
func (h *CompetitionHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if err := h.competitions.Join(r.Context(), mux.Vars(r)["id"], user.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompetitionHandler) Standings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	competition, err := h.competitions.GetCompetition(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	standings, err := h.standings.Standings(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if standings == nil {
		standings = []models.StandingEntry{}
	}

	response := StandingsResponse{
		CompetitionID: id,
		Status:        competition.Status,
		WinnerID:      competition.WinnerID,
		Standings:     standings,
	}
	if user := middleware.GetUserFromContext(r); user != nil {
		for i := range standings {
			if standings[i].User.ID == user.ID {
				response.Me = &standings[i]
				break
			}
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// Recompute refreshes the stored winner; ?dry_run=true only reports
func (h *CompetitionHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	refresh := h.standings.RefreshWinner
	if r.URL.Query().Get("dry_run") == "true" {
		refresh = h.standings.PreviewWinner
	}

	update, err := refresh(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, update)
}
