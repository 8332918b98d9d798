package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"prode-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandings_UnknownCompetition(t *testing.T) {
	f := newFixture(t)

	_, err := f.standings.Standings(f.ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.standings.RefreshWinner(f.ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStandings_CacheInvalidatedByWrites(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	competition := f.competition(t, alice)
	game := f.game(t, competition.ID, "Portugal", "Poland")
	f.bet(t, alice, game, 1, 0)

	standings, err := f.standings.Standings(f.ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, standings, 1)

	// mutating the returned slice must not leak into the cache
	standings[0].TotalPoints = 99
	again, err := f.standings.Standings(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again[0].TotalPoints)

	require.NoError(t, f.competitions.Join(f.ctx, competition.ID, bob.ID))
	f.bet(t, bob, game, 2, 0)

	standings, err = f.standings.Standings(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, standings, 2)
}

func TestStandings_WriteDuringComputeIsNotCached(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	competition := f.competition(t, alice, bob)
	game := f.game(t, competition.ID, "Mexico", "Poland")
	f.bet(t, alice, game, 0, 0)

	store := &interleavingStore{PersistenceStore: NewPersistenceStore(f.store, f.store)}
	service := NewStandingsService(store, f.publisher, DefaultStandingsCacheConfig())
	bets := NewBetService(f.store, f.store, f.store, service)
	bets.now = func() time.Time { return fixedNow }
	store.afterFetchBets = func() {
		_, err := bets.PlaceBet(f.ctx, bob.ID, game.ID, 1, 0)
		require.NoError(t, err)
	}

	first, err := service.Standings(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := service.Standings(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestStandingsCache_EmptyTableStaysNonNil(t *testing.T) {
	cache := newStandingsCache(DefaultStandingsCacheConfig())
	require.True(t, cache.Set("c1", cache.Generation("c1"), []models.StandingEntry{}))

	cached, ok := cache.Get("c1")
	require.True(t, ok)
	assert.NotNil(t, cached)
	assert.Empty(t, cached)
}

func TestStandingsCache_StaleGenerationRejected(t *testing.T) {
	cache := newStandingsCache(DefaultStandingsCacheConfig())
	generation := cache.Generation("c1")
	cache.Invalidate("c1")

	assert.False(t, cache.Set("c1", generation, []models.StandingEntry{{Rank: 1}}))
	_, ok := cache.Get("c1")
	assert.False(t, ok)

	assert.True(t, cache.Set("c1", cache.Generation("c1"), []models.StandingEntry{{Rank: 1}}))
	_, ok = cache.Get("c1")
	assert.True(t, ok)
}

func TestRefreshWinner_EmptyStandingsKeepStoredWinner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	competition := f.competition(t, alice)
	require.NoError(t, f.store.SetWinner(f.ctx, competition.ID, alice.ID))

	update, err := f.standings.RefreshWinner(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.Nil(t, update.Winner)
	assert.False(t, update.Changed)
	assert.Equal(t, alice.ID, update.PreviousWinnerID)

	stored, err := f.store.GetCompetition(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinner(alice.ID))
}

func TestPreviewWinner_DoesNotWrite(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	competition := f.competition(t, alice)
	game := f.game(t, competition.ID, "Senegal", "Netherlands")
	f.bet(t, alice, game, 0, 2)

	update, err := f.standings.PreviewWinner(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, update.Changed)
	assert.Equal(t, alice.ID, update.Winner.ID)

	stored, err := f.store.GetCompetition(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasWinner())
	assert.Empty(t, f.publisher.published())

	update, err = f.standings.RefreshWinner(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, update.Changed)
	require.Len(t, f.publisher.published(), 1)

	update, err = f.standings.PreviewWinner(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.False(t, update.Changed)
}

func TestRefreshWinner_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker unavailable")
	alice := f.user(t, "alice")
	competition := f.competition(t, alice)
	game := f.game(t, competition.ID, "Tunisia", "Denmark")
	f.bet(t, alice, game, 1, 1)

	update, err := f.standings.RefreshWinner(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, update.Changed)

	stored, err := f.store.GetCompetition(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinner(alice.ID))
}

func TestRefreshWinner_StoreErrorsPropagate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*failingStore)
	}{
		{"membership", func(s *failingStore) { s.failMembership = true }},
		{"bets", func(s *failingStore) { s.failBets = true }},
		{"set winner", func(s *failingStore) { s.failSetWinner = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			alice := f.user(t, "alice")
			competition := f.competition(t, alice)
			game := f.game(t, competition.ID, "Australia", "Croatia")
			f.bet(t, alice, game, 1, 0)

			store := &failingStore{PersistenceStore: NewPersistenceStore(f.store, f.store)}
			tt.setup(store)
			service := NewStandingsService(store, f.publisher, DefaultStandingsCacheConfig())

			_, err := service.RefreshWinner(context.Background(), competition.ID)
			assert.ErrorIs(t, err, errStoreDown)
			assert.Empty(t, f.publisher.published())
		})
	}
}

func TestRefreshAllWinners(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	first := f.competition(t, alice)
	second := f.competition(t, bob)
	f.bet(t, alice, f.game(t, first.ID, "Iran", "USA"), 0, 1)
	f.bet(t, bob, f.game(t, second.ID, "Cameroon", "Serbia"), 3, 3)

	updates, err := f.standings.RefreshAllWinners(f.ctx, f.store, true)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	for _, update := range updates {
		assert.True(t, update.Changed)
	}
	assert.Empty(t, f.publisher.published())

	updates, err = f.standings.RefreshAllWinners(f.ctx, f.store, false)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Len(t, f.publisher.published(), 2)

	for _, competition := range []*models.Competition{first, second} {
		stored, err := f.store.GetCompetition(f.ctx, competition.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasWinner())
	}
	stored, err := f.store.GetCompetition(f.ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinner(bob.ID))
}
