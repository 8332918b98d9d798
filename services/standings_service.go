package services

import (
	"context"
	"fmt"
	"time"

	"prode-app-go/events"
	"prode-app-go/logging"
	"prode-app-go/metrics"
	"prode-app-go/models"
)

// StandingsService ranks competition participants and keeps the stored
// winner in sync with the ranking.
type StandingsService struct {
	store     PersistenceStore
	publisher events.Publisher
	cache     *standingsCache
	logger    *logging.Logger
}

// WinnerUpdate describes the outcome of a winner refresh
type WinnerUpdate struct {
	CompetitionID    string              `json:"competitionId"`
	PreviousWinnerID string              `json:"previousWinnerId,omitempty"`
	Winner           *models.Participant `json:"winner,omitempty"`
	TotalPoints      int                 `json:"totalPoints"`
	Changed          bool                `json:"changed"`
}

// NewStandingsService creates a standings service. A nil publisher only logs.
func NewStandingsService(store PersistenceStore, publisher events.Publisher, cacheConfig StandingsCacheConfig) *StandingsService {
	if publisher == nil {
		publisher = events.NewLogPublisher()
	}
	return &StandingsService{
		store:     store,
		publisher: publisher,
		cache:     newStandingsCache(cacheConfig),
		logger:    logging.WithPrefix("standings"),
	}
}

// Standings returns the ranked standings of a competition
func (s *StandingsService) Standings(ctx context.Context, competitionID string) ([]models.StandingEntry, error) {
	if cached, ok := s.cache.Get(competitionID); ok {
		metrics.StandingsComputations.WithLabelValues("hit").Inc()
		return cached, nil
	}

	if _, err := s.store.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}

	generation := s.cache.Generation(competitionID)
	standings, err := s.compute(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !s.cache.Set(competitionID, generation, standings) {
		s.logger.Debugf("Standings of %s changed while ranking, not cached", competitionID)
	}
	return standings, nil
}

func (s *StandingsService) compute(ctx context.Context, competitionID string) ([]models.StandingEntry, error) {
	start := time.Now()
	defer func() { metrics.StandingsDuration.Observe(time.Since(start).Seconds()) }()
	metrics.StandingsComputations.WithLabelValues("miss").Inc()

	participants, err := s.store.FetchMembership(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch membership of %s: %w", competitionID, err)
	}
	bets, err := s.store.FetchBets(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bets of %s: %w", competitionID, err)
	}

	standings := models.ComputeStandings(participants, bets)
	s.logger.Debugf("Ranked %d of %d participants from %d bets in %s",
		len(standings), len(participants), len(bets), competitionID)
	return standings, nil
}

// Invalidate drops cached standings after a write to the competition
func (s *StandingsService) Invalidate(competitionID string) {
	s.cache.Invalidate(competitionID)
}

// RefreshWinner recomputes standings from the store and writes the leader
// as winner when it differs from the stored one. Empty standings leave the
// stored winner untouched.
func (s *StandingsService) RefreshWinner(ctx context.Context, competitionID string) (*WinnerUpdate, error) {
	return s.refreshWinner(ctx, competitionID, true)
}

// PreviewWinner reports what RefreshWinner would change without writing.
// Changed is true when the stored winner is out of date.
func (s *StandingsService) PreviewWinner(ctx context.Context, competitionID string) (*WinnerUpdate, error) {
	return s.refreshWinner(ctx, competitionID, false)
}

func (s *StandingsService) refreshWinner(ctx context.Context, competitionID string, write bool) (*WinnerUpdate, error) {
	competition, err := s.store.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(competitionID)
	generation := s.cache.Generation(competitionID)
	standings, err := s.compute(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(competitionID, generation, standings)

	update := &WinnerUpdate{CompetitionID: competitionID}
	if competition.HasWinner() {
		update.PreviousWinnerID = *competition.WinnerID
	}

	winner := models.DetermineWinner(standings)
	if winner == nil {
		return update, nil
	}
	update.Winner = winner
	update.TotalPoints = standings[0].TotalPoints

	if competition.IsWinner(winner.ID) {
		return update, nil
	}
	if !write {
		update.Changed = true
		return update, nil
	}

	if err := s.store.SetWinner(ctx, competitionID, winner.ID); err != nil {
		return nil, fmt.Errorf("failed to set winner of %s: %w", competitionID, err)
	}
	update.Changed = true
	metrics.WinnerChanges.Inc()

	s.logger.WithField("competition", competitionID).
		Infof("Winner is now %s (%d pts), was %q", winner.Name, update.TotalPoints, update.PreviousWinnerID)

	event := events.WinnerChanged{
		CompetitionID:    competitionID,
		PreviousWinnerID: update.PreviousWinnerID,
		WinnerID:         winner.ID,
		WinnerName:       winner.Name,
		TotalPoints:      update.TotalPoints,
	}
	if err := s.publisher.PublishWinnerChanged(ctx, event); err != nil {
		// winner stays stored even when the notification is lost
		metrics.EventPublishErrors.Inc()
		s.logger.Errorf("Failed to publish winner change for %s: %v", competitionID, err)
	}

	return update, nil
}

// RefreshAllWinners refreshes every competition and returns the updates in
// listing order. With dryRun nothing is written.
func (s *StandingsService) RefreshAllWinners(ctx context.Context, competitions CompetitionLister, dryRun bool) ([]*WinnerUpdate, error) {
	list, err := competitions.ListCompetitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}

	updates := make([]*WinnerUpdate, 0, len(list))
	for _, competition := range list {
		update, err := s.refreshWinner(ctx, competition.ID, !dryRun)
		if err != nil {
			return updates, fmt.Errorf("refresh %s: %w", competition.ID, err)
		}
		updates = append(updates, update)
	}
	return updates, nil
}

// CompetitionLister lists competitions
type CompetitionLister interface {
	ListCompetitions(ctx context.Context) ([]*models.Competition, error)
}
