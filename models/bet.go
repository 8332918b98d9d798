package models

import "time"

// Points awarded per bet
const (
	PointsWrong   = 0
	PointsOutcome = 1
	PointsExact   = 3
)

// Bet is one user's prediction for one game. Points are written when the
// game result is recorded and are never recomputed by the standings code.
type Bet struct {
	ID            string    `json:"id" bson:"_id"`
	UserID        string    `json:"userId" bson:"user_id"`
	GameID        string    `json:"gameId" bson:"game_id"`
	CompetitionID string    `json:"competitionId" bson:"competition_id"`
	HomeScore     int       `json:"homeScore" bson:"home_score"`
	AwayScore     int       `json:"awayScore" bson:"away_score"`
	Points        int       `json:"points" bson:"points"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// PlaceBetRequest is the body of a prediction submission
type PlaceBetRequest struct {
	HomeScore *int `json:"homeScore" validate:"required,min=0,max=99"`
	AwayScore *int `json:"awayScore" validate:"required,min=0,max=99"`
}

// outcome returns 1 for a home win, -1 for an away win and 0 for a draw
func outcome(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}

// ScoreBet returns the points a prediction earns against a final score
func ScoreBet(predHome, predAway, home, away int) int {
	if predHome == home && predAway == away {
		return PointsExact
	}
	if outcome(predHome, predAway) == outcome(home, away) {
		return PointsOutcome
	}
	return PointsWrong
}

// Score applies ScoreBet to a finished game. Games without a result leave the bet untouched.
func (b *Bet) Score(game *Game) bool {
	if !game.HasResult() {
		return false
	}
	points := ScoreBet(b.HomeScore, b.AwayScore, *game.HomeScore, *game.AwayScore)
	if points == b.Points {
		return false
	}
	b.Points = points
	b.UpdatedAt = time.Now()
	return true
}

// IsValidPoints checks the 0/1/3 invariant
func IsValidPoints(points int) bool {
	return points == PointsWrong || points == PointsOutcome || points == PointsExact
}
