package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"prode-app-go/models"
	"prode-app-go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed stores a competition whose winner was never written, the state the
// old repair scripts had to patch by hand
func seed(t *testing.T, stores *services.Stores) (*models.Competition, *models.User) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Name: "Dana", Email: "dana@prode.test"}
	require.NoError(t, stores.Users.CreateUser(ctx, user))
	competition := &models.Competition{Name: "Mundial"}
	require.NoError(t, stores.Competitions.CreateCompetition(ctx, competition))
	require.NoError(t, stores.Competitions.AddMember(ctx, competition.ID, user.ID))

	game := &models.Game{CompetitionID: competition.ID, HomeTeam: "A", AwayTeam: "B", KickoffAt: time.Now().Add(-time.Hour)}
	require.NoError(t, stores.Games.CreateGame(ctx, game))
	bet := &models.Bet{UserID: user.ID, GameID: game.ID, CompetitionID: competition.ID, HomeScore: 1, AwayScore: 0, Points: models.PointsExact}
	require.NoError(t, stores.Bets.UpsertBet(ctx, bet))

	return competition, user
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()
	stores := services.NewMemoryStores()
	competition, user := seed(t, stores)
	standings := services.NewStandingsService(stores.Persistence(), nil, services.DefaultStandingsCacheConfig())

	var out bytes.Buffer
	require.NoError(t, recompute(ctx, standings, stores.Competitions, competition.ID, true, &out))
	assert.Contains(t, out.String(), "1 of 1 competitions would update")

	stored, err := stores.Competitions.GetCompetition(ctx, competition.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasWinner())

	out.Reset()
	require.NoError(t, recompute(ctx, standings, stores.Competitions, "", false, &out))
	assert.Contains(t, out.String(), "Dana")
	assert.Contains(t, out.String(), "1 of 1 competitions updated")

	stored, err = stores.Competitions.GetCompetition(ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinner(user.ID))

	out.Reset()
	require.NoError(t, recompute(ctx, standings, stores.Competitions, competition.ID, false, &out))
	assert.Contains(t, out.String(), "0 of 1 competitions updated")
}

func TestRecompute_UnknownCompetition(t *testing.T) {
	stores := services.NewMemoryStores()
	standings := services.NewStandingsService(stores.Persistence(), nil, services.DefaultStandingsCacheConfig())

	err := recompute(context.Background(), standings, stores.Competitions, "missing", false, &bytes.Buffer{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

type fixedLister []*models.Competition

func (l fixedLister) ListCompetitions(context.Context) ([]*models.Competition, error) {
	return l, nil
}

func TestRecompute_ReportsWritesBeforeFailure(t *testing.T) {
	ctx := context.Background()
	stores := services.NewMemoryStores()
	competition, user := seed(t, stores)
	standings := services.NewStandingsService(stores.Persistence(), nil, services.DefaultStandingsCacheConfig())

	var out bytes.Buffer
	err := recompute(ctx, standings, fixedLister{competition, {ID: "missing"}}, "", false, &out)
	require.ErrorIs(t, err, models.ErrNotFound)

	assert.Contains(t, out.String(), competition.ID+"\tDana")
	assert.Contains(t, out.String(), "1 of 1 competitions updated before failure")

	stored, err := stores.Competitions.GetCompetition(ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinner(user.ID))
}
