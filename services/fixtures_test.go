package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"prode-app-go/events"
	"prode-app-go/models"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 11, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.WinnerChanged
	err    error
}

func (p *recordingPublisher) PublishWinnerChanged(_ context.Context, e events.WinnerChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.WinnerChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.WinnerChanged(nil), p.events...)
}

// failingStore wraps a PersistenceStore and fails the selected operation
type failingStore struct {
	PersistenceStore
	failMembership bool
	failBets       bool
	failSetWinner  bool
}

var errStoreDown = errors.New("store down")

func (s *failingStore) FetchMembership(ctx context.Context, competitionID string) ([]models.User, error) {
	if s.failMembership {
		return nil, errStoreDown
	}
	return s.PersistenceStore.FetchMembership(ctx, competitionID)
}

func (s *failingStore) FetchBets(ctx context.Context, competitionID string) ([]models.Bet, error) {
	if s.failBets {
		return nil, errStoreDown
	}
	return s.PersistenceStore.FetchBets(ctx, competitionID)
}

func (s *failingStore) SetWinner(ctx context.Context, competitionID, userID string) error {
	if s.failSetWinner {
		return errStoreDown
	}
	return s.PersistenceStore.SetWinner(ctx, competitionID, userID)
}

// interleavingStore runs afterFetchBets once, after bets were read and
// before the caller ranks them
type interleavingStore struct {
	PersistenceStore
	afterFetchBets func()
}

func (s *interleavingStore) FetchBets(ctx context.Context, competitionID string) ([]models.Bet, error) {
	bets, err := s.PersistenceStore.FetchBets(ctx, competitionID)
	if hook := s.afterFetchBets; hook != nil {
		s.afterFetchBets = nil
		hook()
	}
	return bets, err
}

type fixture struct {
	ctx          context.Context
	store        *MemoryStore
	publisher    *recordingPublisher
	standings    *StandingsService
	competitions *CompetitionService
	games        *GameService
	bets         *BetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := NewMemoryStore()
	store.now = func() time.Time { return fixedNow }
	publisher := &recordingPublisher{}
	standings := NewStandingsService(NewPersistenceStore(store, store), publisher, DefaultStandingsCacheConfig())

	games := NewGameService(store, store, store, standings)
	games.now = func() time.Time { return fixedNow }
	bets := NewBetService(store, store, store, standings)
	bets.now = func() time.Time { return fixedNow }

	return &fixture{
		ctx:          context.Background(),
		store:        store,
		publisher:    publisher,
		standings:    standings,
		competitions: NewCompetitionService(store, standings),
		games:        games,
		bets:         bets,
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@prode.test"}
	require.NoError(t, f.store.CreateUser(f.ctx, user))
	return user
}

func (f *fixture) competition(t *testing.T, members ...*models.User) *models.Competition {
	t.Helper()
	competition, err := f.competitions.CreateCompetition(f.ctx, "World Cup")
	require.NoError(t, err)
	for _, member := range members {
		require.NoError(t, f.competitions.Join(f.ctx, competition.ID, member.ID))
	}
	return competition
}

func (f *fixture) game(t *testing.T, competitionID, home, away string) *models.Game {
	t.Helper()
	game, err := f.games.CreateGame(f.ctx, competitionID, home, away, fixedNow.Add(24*time.Hour))
	require.NoError(t, err)
	return game
}

func (f *fixture) bet(t *testing.T, user *models.User, game *models.Game, home, away int) {
	t.Helper()
	_, err := f.bets.PlaceBet(f.ctx, user.ID, game.ID, home, away)
	require.NoError(t, err)
}
