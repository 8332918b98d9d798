package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"prode-app-go/logging"
	"prode-app-go/metrics"
	"prode-app-go/models"
)

// GameService schedules games and records their results. Recording a
// result scores every bet on the game and refreshes the competition winner.
type GameService struct {
	games        GameRepository
	bets         BetRepository
	competitions CompetitionRepository
	standings    *StandingsService
	logger       *logging.Logger
	now          func() time.Time
}

// NewGameService creates a new game service
func NewGameService(games GameRepository, bets BetRepository, competitions CompetitionRepository, standings *StandingsService) *GameService {
	return &GameService{
		games:        games,
		bets:         bets,
		competitions: competitions,
		standings:    standings,
		logger:       logging.WithPrefix("games"),
		now:          time.Now,
	}
}

// CreateGame schedules a game in a competition
func (s *GameService) CreateGame(ctx context.Context, competitionID, homeTeam, awayTeam string, kickoff time.Time) (*models.Game, error) {
	if _, err := s.competitions.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	if kickoff.IsZero() {
		return nil, fmt.Errorf("kickoff time is required")
	}

	game := &models.Game{
		CompetitionID: competitionID,
		HomeTeam:      strings.TrimSpace(homeTeam),
		AwayTeam:      strings.TrimSpace(awayTeam),
		KickoffAt:     kickoff.UTC(),
		Status:        models.StatusUpcoming,
	}
	if err := s.games.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	s.logger.Infof("Scheduled %s vs %s at %s in %s", game.HomeTeam, game.AwayTeam, game.KickoffAt.Format(time.RFC3339), competitionID)

	if _, err := s.syncCompetitionStatus(ctx, competitionID); err != nil {
		return nil, err
	}
	return game, nil
}

// ListGames returns a competition's games with their status at the current time
func (s *GameService) ListGames(ctx context.Context, competitionID string) ([]*models.Game, error) {
	if _, err := s.competitions.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	games, err := s.games.GetGamesByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, game := range games {
		game.Status = game.StatusAt(now)
	}
	return games, nil
}

// RecordResult stores the final score, re-scores every bet on the game,
// syncs the competition status and refreshes the winner. Recording a
// corrected score for a finished game re-scores again.
func (s *GameService) RecordResult(ctx context.Context, gameID string, homeScore, awayScore int) (*WinnerUpdate, error) {
	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := game.SetResult(homeScore, awayScore); err != nil {
		return nil, err
	}
	if err := s.games.UpdateResult(ctx, game); err != nil {
		return nil, err
	}
	s.logger.Infof("Result %s %s %s (%s)", game.HomeTeam, game.ScoreString(), game.AwayTeam, gameID)

	if err := s.scoreBets(ctx, game); err != nil {
		return nil, err
	}
	if _, err := s.syncCompetitionStatus(ctx, game.CompetitionID); err != nil {
		return nil, err
	}
	return s.standings.RefreshWinner(ctx, game.CompetitionID)
}

func (s *GameService) scoreBets(ctx context.Context, game *models.Game) error {
	bets, err := s.bets.GetBetsByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to get bets for game %s: %w", game.ID, err)
	}

	changed := make([]models.Bet, 0, len(bets))
	for i := range bets {
		if bets[i].Score(game) {
			changed = append(changed, bets[i])
		}
		metrics.BetsScored.WithLabelValues(strconv.Itoa(bets[i].Points)).Inc()
	}

	if err := s.bets.UpdatePoints(ctx, changed); err != nil {
		return fmt.Errorf("failed to store points for game %s: %w", game.ID, err)
	}
	s.standings.Invalidate(game.CompetitionID)
	s.logger.Debugf("Scored %d bets on game %s, %d changed", len(bets), game.ID, len(changed))
	return nil
}

// SyncStatuses stores the derived status of every unfinished competition.
// Kickoffs move competitions to LIVE without any write, so this runs on a timer.
func (s *GameService) SyncStatuses(ctx context.Context) (int, error) {
	competitions, err := s.competitions.ListCompetitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list competitions: %w", err)
	}

	changed := 0
	for _, competition := range competitions {
		if competition.Status == models.StatusFinished {
			continue
		}
		updated, err := s.syncCompetitionStatus(ctx, competition.ID)
		if err != nil {
			return changed, err
		}
		if updated {
			changed++
		}
	}
	return changed, nil
}

func (s *GameService) syncCompetitionStatus(ctx context.Context, competitionID string) (bool, error) {
	competition, err := s.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return false, err
	}
	games, err := s.games.GetGamesByCompetition(ctx, competitionID)
	if err != nil {
		return false, err
	}

	status := models.CompetitionStatusFromGames(games, s.now())
	if status == competition.Status {
		return false, nil
	}
	if err := s.competitions.SetStatus(ctx, competitionID, status); err != nil {
		return false, err
	}
	s.logger.Infof("Competition %s is now %s", competitionID, status)
	return true, nil
}
