package interfaces

import (
	"context"
	"time"

	"prode-app-go/models"
	"prode-app-go/services"
)

// CompetitionService defines competition and membership operations used by handlers
type CompetitionService interface {
	CreateCompetition(ctx context.Context, name string) (*models.Competition, error)
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	ListCompetitions(ctx context.Context) ([]*models.Competition, error)
	Join(ctx context.Context, competitionID, userID string) error
}

// StandingsService defines ranking and winner operations
type StandingsService interface {
	Standings(ctx context.Context, competitionID string) ([]models.StandingEntry, error)
	RefreshWinner(ctx context.Context, competitionID string) (*services.WinnerUpdate, error)
	PreviewWinner(ctx context.Context, competitionID string) (*services.WinnerUpdate, error)
}

// GameService defines game scheduling and result recording
type GameService interface {
	CreateGame(ctx context.Context, competitionID, homeTeam, awayTeam string, kickoff time.Time) (*models.Game, error)
	ListGames(ctx context.Context, competitionID string) ([]*models.Game, error)
	RecordResult(ctx context.Context, gameID string, homeScore, awayScore int) (*services.WinnerUpdate, error)
}

// BetService defines prediction operations
type BetService interface {
	PlaceBet(ctx context.Context, userID, gameID string, homeScore, awayScore int) (*models.Bet, error)
	UserBets(ctx context.Context, competitionID, userID string) ([]models.Bet, error)
}

// AuthService defines account and token operations
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
}
