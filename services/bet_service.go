package services

import (
	"context"
	"fmt"
	"time"

	"prode-app-go/logging"
	"prode-app-go/models"
)

// BetService places predictions on upcoming games
type BetService struct {
	bets         BetRepository
	games        GameRepository
	competitions CompetitionRepository
	standings    *StandingsService
	logger       *logging.Logger
	now          func() time.Time
}

// NewBetService creates a new bet service
func NewBetService(bets BetRepository, games GameRepository, competitions CompetitionRepository, standings *StandingsService) *BetService {
	return &BetService{
		bets:         bets,
		games:        games,
		competitions: competitions,
		standings:    standings,
		logger:       logging.WithPrefix("bets"),
		now:          time.Now,
	}
}

// PlaceBet creates or replaces the user's prediction for a game.
// Only members may bet, and only before kickoff.
func (s *BetService) PlaceBet(ctx context.Context, userID, gameID string, homeScore, awayScore int) (*models.Bet, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, fmt.Errorf("%w: negative score %d-%d", models.ErrInvalidResult, homeScore, awayScore)
	}

	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	member, err := s.competitions.IsMember(ctx, game.CompetitionID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("user %s, competition %s: %w", userID, game.CompetitionID, models.ErrNotMember)
	}

	if !game.AcceptsBets(s.now()) {
		return nil, fmt.Errorf("game %s (%s): %w", gameID, game.StatusAt(s.now()), models.ErrBettingClosed)
	}

	bet := &models.Bet{
		UserID:        userID,
		GameID:        gameID,
		CompetitionID: game.CompetitionID,
		HomeScore:     homeScore,
		AwayScore:     awayScore,
		Points:        models.PointsWrong,
	}
	if err := s.bets.UpsertBet(ctx, bet); err != nil {
		return nil, err
	}

	s.standings.Invalidate(game.CompetitionID)
	s.logger.Debugf("User %s bet %d-%d on %s %s vs %s",
		userID, homeScore, awayScore, gameID, game.HomeTeam, game.AwayTeam)
	return bet, nil
}

// UserBets returns a user's bets in a competition
func (s *BetService) UserBets(ctx context.Context, competitionID, userID string) ([]models.Bet, error) {
	if _, err := s.competitions.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.bets.GetUserBets(ctx, competitionID, userID)
}
