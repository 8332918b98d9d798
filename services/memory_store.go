package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"prode-app-go/models"
)

// MemoryStore implements every repository in memory. It backs the demo
// mode of the server when MongoDB is unreachable, and the tests.
type MemoryStore struct {
	mu           sync.RWMutex
	seq          int
	users        map[string]*models.User
	competitions map[string]*models.Competition
	memberships  map[string][]models.Membership
	games        map[string]*models.Game
	bets         map[string]*models.Bet
	now          func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*models.User),
		competitions: make(map[string]*models.Competition),
		memberships:  make(map[string][]models.Membership),
		games:        make(map[string]*models.Game),
		bets:         make(map[string]*models.Bet),
		now:          time.Now,
	}
}

func (s *MemoryStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

// GetUserByEmail retrieves a user by email (case-insensitive)
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

// GetUserByID retrieves a user by ID
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

// CreateUser stores a new user; emails are unique
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Email, models.ErrAlreadyExists)
		}
	}

	if user.ID == "" {
		user.ID = s.nextID("user-")
	}
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// CreateCompetition stores a new competition
func (s *MemoryStore) CreateCompetition(_ context.Context, competition *models.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if competition.ID == "" {
		competition.ID = s.nextID("competition-")
	}
	if competition.Status == "" {
		competition.Status = models.StatusUpcoming
	}
	competition.CreatedAt = s.now()
	competition.UpdatedAt = competition.CreatedAt
	clone := *competition
	s.competitions[competition.ID] = &clone
	return nil
}

// GetCompetition retrieves a competition by ID
func (s *MemoryStore) GetCompetition(_ context.Context, id string) (*models.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	competition, ok := s.competitions[id]
	if !ok {
		return nil, fmt.Errorf("competition %s: %w", id, models.ErrNotFound)
	}
	clone := *competition
	if competition.WinnerID != nil {
		winner := *competition.WinnerID
		clone.WinnerID = &winner
	}
	return &clone, nil
}

// ListCompetitions returns all competitions, newest first
func (s *MemoryStore) ListCompetitions(ctx context.Context) ([]*models.Competition, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.competitions))
	for id := range s.competitions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	competitions := make([]*models.Competition, 0, len(ids))
	for _, id := range ids {
		competition, err := s.GetCompetition(ctx, id)
		if err != nil {
			return nil, err
		}
		competitions = append(competitions, competition)
	}
	sort.Slice(competitions, func(i, j int) bool {
		if competitions[i].CreatedAt.Equal(competitions[j].CreatedAt) {
			return competitions[i].ID > competitions[j].ID
		}
		return competitions[i].CreatedAt.After(competitions[j].CreatedAt)
	})
	return competitions, nil
}

// SetWinner stores the competition winner
func (s *MemoryStore) SetWinner(_ context.Context, competitionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	competition, ok := s.competitions[competitionID]
	if !ok {
		return fmt.Errorf("competition %s: %w", competitionID, models.ErrNotFound)
	}
	winner := userID
	competition.WinnerID = &winner
	competition.UpdatedAt = s.now()
	return nil
}

// SetStatus stores the derived competition status
func (s *MemoryStore) SetStatus(_ context.Context, competitionID string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	competition, ok := s.competitions[competitionID]
	if !ok {
		return fmt.Errorf("competition %s: %w", competitionID, models.ErrNotFound)
	}
	competition.Status = status
	competition.UpdatedAt = s.now()
	return nil
}

// AddMember registers a user; joining twice keeps the first registration
func (s *MemoryStore) AddMember(_ context.Context, competitionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.memberships[competitionID] {
		if m.UserID == userID {
			return nil
		}
	}
	s.memberships[competitionID] = append(s.memberships[competitionID], models.Membership{
		CompetitionID: competitionID,
		UserID:        userID,
		JoinedAt:      s.now(),
	})
	return nil
}

// IsMember reports whether a user is registered to a competition
func (s *MemoryStore) IsMember(_ context.Context, competitionID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships[competitionID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// FetchMembership returns members in registration order
func (s *MemoryStore) FetchMembership(_ context.Context, competitionID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.memberships[competitionID]))
	for _, m := range s.memberships[competitionID] {
		if user, ok := s.users[m.UserID]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

// CreateGame stores a scheduled game
func (s *MemoryStore) CreateGame(_ context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if game.ID == "" {
		game.ID = s.nextID("game-")
	}
	game.CreatedAt = s.now()
	game.UpdatedAt = game.CreatedAt
	clone := *game
	s.games[game.ID] = &clone
	return nil
}

// GetGame retrieves a game by ID
func (s *MemoryStore) GetGame(_ context.Context, id string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, models.ErrNotFound)
	}
	clone := *game
	return &clone, nil
}

// GetGamesByCompetition returns a competition's games ordered by kickoff, then home team
func (s *MemoryStore) GetGamesByCompetition(_ context.Context, competitionID string) ([]*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []*models.Game
	for _, game := range s.games {
		if game.CompetitionID == competitionID {
			clone := *game
			games = append(games, &clone)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].KickoffAt.Equal(games[j].KickoffAt) {
			return games[i].KickoffAt.Before(games[j].KickoffAt)
		}
		return games[i].HomeTeam < games[j].HomeTeam
	})
	return games, nil
}

// UpdateResult stores the final score and status of a game
func (s *MemoryStore) UpdateResult(_ context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.games[game.ID]
	if !ok {
		return fmt.Errorf("game %s: %w", game.ID, models.ErrNotFound)
	}
	stored.HomeScore = game.HomeScore
	stored.AwayScore = game.AwayScore
	stored.Status = game.Status
	stored.UpdatedAt = s.now()
	return nil
}

// UpsertBet creates or replaces the user's prediction for a game
func (s *MemoryStore) UpsertBet(_ context.Context, bet *models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bets {
		if existing.UserID == bet.UserID && existing.GameID == bet.GameID {
			existing.HomeScore = bet.HomeScore
			existing.AwayScore = bet.AwayScore
			existing.Points = bet.Points
			existing.UpdatedAt = s.now()
			*bet = *existing
			return nil
		}
	}

	bet.ID = s.nextID("bet-")
	bet.CreatedAt = s.now()
	bet.UpdatedAt = bet.CreatedAt
	clone := *bet
	s.bets[bet.ID] = &clone
	return nil
}

func (s *MemoryStore) findBets(match func(*models.Bet) bool) []models.Bet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bets []models.Bet
	for _, bet := range s.bets {
		if match(bet) {
			bets = append(bets, *bet)
		}
	}
	sort.Slice(bets, func(i, j int) bool {
		if !bets[i].CreatedAt.Equal(bets[j].CreatedAt) {
			return bets[i].CreatedAt.Before(bets[j].CreatedAt)
		}
		return bets[i].ID < bets[j].ID
	})
	return bets
}

// FetchBets returns every bet placed in a competition
func (s *MemoryStore) FetchBets(_ context.Context, competitionID string) ([]models.Bet, error) {
	return s.findBets(func(b *models.Bet) bool { return b.CompetitionID == competitionID }), nil
}

// GetBetsByGame returns every bet placed on a game
func (s *MemoryStore) GetBetsByGame(_ context.Context, gameID string) ([]models.Bet, error) {
	return s.findBets(func(b *models.Bet) bool { return b.GameID == gameID }), nil
}

// GetUserBets returns a user's bets in a competition
func (s *MemoryStore) GetUserBets(_ context.Context, competitionID, userID string) ([]models.Bet, error) {
	return s.findBets(func(b *models.Bet) bool {
		return b.CompetitionID == competitionID && b.UserID == userID
	}), nil
}

// UpdatePoints writes scored points
func (s *MemoryStore) UpdatePoints(_ context.Context, bets []models.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, bet := range bets {
		stored, ok := s.bets[bet.ID]
		if !ok {
			return fmt.Errorf("bet %s: %w", bet.ID, models.ErrNotFound)
		}
		stored.Points = bet.Points
		stored.UpdatedAt = s.now()
	}
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
