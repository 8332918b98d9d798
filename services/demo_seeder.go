package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prode-app-go/logging"
	"prode-app-go/models"
)

// DemoSeeder fills an empty store with accounts, one competition and its
// fixtures so the demo server has something to bet on
type DemoSeeder struct {
	stores *Stores
	logger *logging.Logger
	now    func() time.Time
}

// NewDemoSeeder creates a new demo seeder
func NewDemoSeeder(stores *Stores) *DemoSeeder {
	return &DemoSeeder{
		stores: stores,
		logger: logging.WithPrefix("seed"),
		now:    time.Now,
	}
}

// DemoPassword is shared by every seeded account
const DemoPassword = "password123"

var demoUsers = []struct {
	Name    string
	Email   string
	IsAdmin bool
}{
	{"Admin", "admin@prode.local", true},
	{"Lucia", "lucia@prode.local", false},
	{"Mateo", "mateo@prode.local", false},
}

var demoFixtures = []struct {
	Home, Away string
	Offset     time.Duration
}{
	{"Argentina", "Brazil", 24 * time.Hour},
	{"Uruguay", "Chile", 48 * time.Hour},
	{"Colombia", "Peru", 72 * time.Hour},
}

// Seed creates the demo data. Existing accounts are left alone; the
// competition is only created when the store has none.
func (s *DemoSeeder) Seed(ctx context.Context) error {
	var existingCount, createdCount int
	userIDs := make([]string, 0, len(demoUsers))

	for _, data := range demoUsers {
		existing, err := s.stores.Users.GetUserByEmail(ctx, data.Email)
		if err == nil {
			existingCount++
			userIDs = append(userIDs, existing.ID)
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		user := &models.User{Name: data.Name, Email: data.Email, IsAdmin: data.IsAdmin}
		if err := user.HashPassword(DemoPassword); err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", data.Email, err)
		}
		if err := s.stores.Users.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", data.Email, err)
		}
		createdCount++
		userIDs = append(userIDs, user.ID)
	}
	s.logger.Infof("Seeded users - %d existing, %d created", existingCount, createdCount)

	competitions, err := s.stores.Competitions.ListCompetitions(ctx)
	if err != nil {
		return err
	}
	if len(competitions) > 0 {
		return nil
	}

	competition := &models.Competition{Name: "Demo Cup", Status: models.StatusUpcoming}
	if err := s.stores.Competitions.CreateCompetition(ctx, competition); err != nil {
		return err
	}
	// admins run the competition, players join it
	for i, data := range demoUsers {
		if data.IsAdmin {
			continue
		}
		if err := s.stores.Competitions.AddMember(ctx, competition.ID, userIDs[i]); err != nil {
			return err
		}
	}

	kickoffBase := s.now().UTC().Truncate(time.Hour)
	for _, fixture := range demoFixtures {
		game := &models.Game{
			CompetitionID: competition.ID,
			HomeTeam:      fixture.Home,
			AwayTeam:      fixture.Away,
			KickoffAt:     kickoffBase.Add(fixture.Offset),
			Status:        models.StatusUpcoming,
		}
		if err := s.stores.Games.CreateGame(ctx, game); err != nil {
			return err
		}
	}

	s.logger.Infof("Seeded competition %s with %d games", competition.ID, len(demoFixtures))
	return nil
}
