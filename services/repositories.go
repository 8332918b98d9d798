package services

import (
	"context"

	"prode-app-go/models"
)

// UserRepository interface for user data operations
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// PersistenceStore is everything the standings computation reads and writes.
// Lookups of missing records return an error wrapping models.ErrNotFound.
type PersistenceStore interface {
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	FetchMembership(ctx context.Context, competitionID string) ([]models.User, error)
	FetchBets(ctx context.Context, competitionID string) ([]models.Bet, error)
	SetWinner(ctx context.Context, competitionID, userID string) error
}

// CompetitionRepository interface for competitions and memberships
type CompetitionRepository interface {
	CreateCompetition(ctx context.Context, competition *models.Competition) error
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	ListCompetitions(ctx context.Context) ([]*models.Competition, error)
	SetStatus(ctx context.Context, competitionID string, status models.Status) error
	AddMember(ctx context.Context, competitionID, userID string) error
	IsMember(ctx context.Context, competitionID, userID string) (bool, error)
	FetchMembership(ctx context.Context, competitionID string) ([]models.User, error)
	SetWinner(ctx context.Context, competitionID, userID string) error
}

// GameRepository interface for game data operations
type GameRepository interface {
	CreateGame(ctx context.Context, game *models.Game) error
	GetGame(ctx context.Context, id string) (*models.Game, error)
	GetGamesByCompetition(ctx context.Context, competitionID string) ([]*models.Game, error)
	UpdateResult(ctx context.Context, game *models.Game) error
}

// BetRepository interface for prediction data operations
type BetRepository interface {
	UpsertBet(ctx context.Context, bet *models.Bet) error
	FetchBets(ctx context.Context, competitionID string) ([]models.Bet, error)
	GetBetsByGame(ctx context.Context, gameID string) ([]models.Bet, error)
	GetUserBets(ctx context.Context, competitionID, userID string) ([]models.Bet, error)
	UpdatePoints(ctx context.Context, bets []models.Bet) error
}

// repositoryStore joins a competition and a bet repository into a PersistenceStore
type repositoryStore struct {
	CompetitionRepository
	bets BetRepository
}

// NewPersistenceStore builds the standings store from the split repositories
func NewPersistenceStore(competitions CompetitionRepository, bets BetRepository) PersistenceStore {
	return &repositoryStore{CompetitionRepository: competitions, bets: bets}
}

func (s *repositoryStore) FetchBets(ctx context.Context, competitionID string) ([]models.Bet, error) {
	return s.bets.FetchBets(ctx, competitionID)
}

// Stores bundles the repositories one backend provides
type Stores struct {
	Backend      string
	Users        UserRepository
	Competitions CompetitionRepository
	Games        GameRepository
	Bets         BetRepository
	pinger       interface{ Ping(ctx context.Context) error }
	closer       func() error
	watch        func(ctx context.Context, onChange func(competitionID string))
}

// NewStores wraps a backend's repositories. closer may be nil.
func NewStores(backend string, users UserRepository, competitions CompetitionRepository, games GameRepository, bets BetRepository, pinger interface{ Ping(ctx context.Context) error }, closer func() error) *Stores {
	return &Stores{
		Backend:      backend,
		Users:        users,
		Competitions: competitions,
		Games:        games,
		Bets:         bets,
		pinger:       pinger,
		closer:       closer,
	}
}

// NewMemoryStores backs every repository with one MemoryStore
func NewMemoryStores() *Stores {
	store := NewMemoryStore()
	return NewStores("memory", store, store, store, store, store, nil)
}

// Persistence returns the store the standings computation reads
func (s *Stores) Persistence() PersistenceStore {
	return NewPersistenceStore(s.Competitions, s.Bets)
}

// Ping checks the backend is reachable
func (s *Stores) Ping(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}

// WithChangeWatch sets how the backend reports writes made by other processes
func (s *Stores) WithChangeWatch(watch func(ctx context.Context, onChange func(competitionID string))) *Stores {
	s.watch = watch
	return s
}

// WatchChanges calls onChange for each competition written by any process
// until ctx is done. Backends that cannot watch do nothing.
func (s *Stores) WatchChanges(ctx context.Context, onChange func(competitionID string)) {
	if s.watch != nil {
		s.watch(ctx, onChange)
	}
}

// Close releases the backend connection
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
