package services

import (
	"context"
	"fmt"
	"strings"

	"prode-app-go/logging"
	"prode-app-go/models"
)

// CompetitionService manages competitions and their membership
type CompetitionService struct {
	competitions CompetitionRepository
	standings    *StandingsService
	logger       *logging.Logger
}

// NewCompetitionService creates a new competition service
func NewCompetitionService(competitions CompetitionRepository, standings *StandingsService) *CompetitionService {
	return &CompetitionService{
		competitions: competitions,
		standings:    standings,
		logger:       logging.WithPrefix("competitions"),
	}
}

// CreateCompetition creates an UPCOMING competition
func (s *CompetitionService) CreateCompetition(ctx context.Context, name string) (*models.Competition, error) {
	competition := &models.Competition{
		Name:   strings.TrimSpace(name),
		Status: models.StatusUpcoming,
	}
	if err := s.competitions.CreateCompetition(ctx, competition); err != nil {
		return nil, err
	}
	s.logger.Infof("Created competition %s (%s)", competition.Name, competition.ID)
	return competition, nil
}

func (s *CompetitionService) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	return s.competitions.GetCompetition(ctx, id)
}

func (s *CompetitionService) ListCompetitions(ctx context.Context) ([]*models.Competition, error) {
	return s.competitions.ListCompetitions(ctx)
}

// Join registers the user to the competition; joining twice is a no-op
func (s *CompetitionService) Join(ctx context.Context, competitionID, userID string) error {
	competition, err := s.competitions.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.Status == models.StatusFinished {
		return fmt.Errorf("competition %s is finished: %w", competitionID, models.ErrForbidden)
	}

	if err := s.competitions.AddMember(ctx, competitionID, userID); err != nil {
		return err
	}
	s.standings.Invalidate(competitionID)
	return nil
}
