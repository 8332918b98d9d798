package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle state shared by games and competitions
type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusLive     Status = "LIVE"
	StatusFinished Status = "FINISHED"
)

// Game represents a fixture inside a competition
type Game struct {
	ID            string    `json:"id" bson:"_id"`
	CompetitionID string    `json:"competitionId" bson:"competition_id"`
	HomeTeam      string    `json:"homeTeam" bson:"home_team"`
	AwayTeam      string    `json:"awayTeam" bson:"away_team"`
	KickoffAt     time.Time `json:"kickoffAt" bson:"kickoff_at"`
	HomeScore     *int      `json:"homeScore,omitempty" bson:"home_score,omitempty"` // nil until a result is recorded
	AwayScore     *int      `json:"awayScore,omitempty" bson:"away_score,omitempty"`
	Status        Status    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// CreateGameRequest is the admin payload for scheduling a game
type CreateGameRequest struct {
	HomeTeam  string    `json:"homeTeam" validate:"required,max=64"`
	AwayTeam  string    `json:"awayTeam" validate:"required,max=64,nefield=HomeTeam"`
	KickoffAt time.Time `json:"kickoffAt"`
}

// ResultRequest is the admin payload for recording a final score
type ResultRequest struct {
	HomeScore *int `json:"homeScore" validate:"required,min=0,max=99"`
	AwayScore *int `json:"awayScore" validate:"required,min=0,max=99"`
}

// HasResult returns true once both scores are recorded
func (g *Game) HasResult() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// StatusAt derives the game status at the given instant.
// FINISHED needs both scores; LIVE means kickoff has passed without a full result.
func (g *Game) StatusAt(now time.Time) Status {
	if g.HasResult() {
		return StatusFinished
	}
	if !now.Before(g.KickoffAt) {
		return StatusLive
	}
	return StatusUpcoming
}

// AcceptsBets reports whether predictions can still be placed
func (g *Game) AcceptsBets(now time.Time) bool {
	return g.StatusAt(now) == StatusUpcoming
}

// SetResult records the final score
func (g *Game) SetResult(home, away int) error {
	if home < 0 || away < 0 {
		return fmt.Errorf("%w: %d-%d", ErrInvalidResult, home, away)
	}
	g.HomeScore = &home
	g.AwayScore = &away
	g.Status = StatusFinished
	g.UpdatedAt = time.Now()
	return nil
}

// ScoreString returns a formatted score string
func (g *Game) ScoreString() string {
	if !g.HasResult() {
		return "vs"
	}
	return fmt.Sprintf("%d-%d", *g.HomeScore, *g.AwayScore)
}

// CompetitionStatusFromGames derives a competition status from its games
func CompetitionStatusFromGames(games []*Game, now time.Time) Status {
	if len(games) == 0 {
		return StatusUpcoming
	}

	upcoming, finished := 0, 0
	for _, game := range games {
		switch game.StatusAt(now) {
		case StatusUpcoming:
			upcoming++
		case StatusFinished:
			finished++
		}
	}

	switch {
	case finished == len(games):
		return StatusFinished
	case upcoming == len(games):
		return StatusUpcoming
	default:
		return StatusLive
	}
}
