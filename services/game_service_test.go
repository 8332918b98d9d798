package services

import (
	"testing"
	"time"

	"prode-app-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResult_ScoresBetsAndCrownsLeader(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	competition := f.competition(t, alice, bob, carol)

	g1 := f.game(t, competition.ID, "Argentina", "Mexico")
	g2 := f.game(t, competition.ID, "Spain", "Japan")
	g3 := f.game(t, competition.ID, "France", "Brazil")

	f.bet(t, alice, g1, 1, 0)
	f.bet(t, alice, g2, 2, 0)
	f.bet(t, alice, g3, 0, 0)
	f.bet(t, bob, g1, 0, 2)
	f.bet(t, bob, g2, 3, 1)

	_, err := f.games.RecordResult(f.ctx, g1.ID, 2, 1)
	require.NoError(t, err)
	_, err = f.games.RecordResult(f.ctx, g2.ID, 1, 0)
	require.NoError(t, err)
	update, err := f.games.RecordResult(f.ctx, g3.ID, 0, 0)
	require.NoError(t, err)

	require.NotNil(t, update.Winner)
	assert.Equal(t, alice.ID, update.Winner.ID)
	assert.Equal(t, 5, update.TotalPoints)

	standings, err := f.standings.Standings(f.ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, standings, 2, "carol never bet and is not ranked")
	assert.Equal(t, alice.ID, standings[0].User.ID)
	assert.Equal(t, 5, standings[0].TotalPoints)
	assert.Equal(t, bob.ID, standings[1].User.ID)
	assert.Equal(t, 1, standings[1].TotalPoints)

	stored, err := f.store.GetCompetition(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinner(alice.ID))
	assert.Equal(t, models.StatusFinished, stored.Status)
}

func TestRecordResult_PublishesOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	competition := f.competition(t, alice, bob)
	g1 := f.game(t, competition.ID, "Germany", "Italy")
	g2 := f.game(t, competition.ID, "Uruguay", "Chile")

	f.bet(t, alice, g1, 1, 1)
	f.bet(t, bob, g1, 2, 0)
	f.bet(t, alice, g2, 0, 1)
	f.bet(t, bob, g2, 2, 2)

	update, err := f.games.RecordResult(f.ctx, g1.ID, 3, 0)
	require.NoError(t, err)
	assert.True(t, update.Changed)
	assert.Equal(t, bob.ID, update.Winner.ID)

	// correcting the score to the same outcome keeps bob on top
	update, err = f.games.RecordResult(f.ctx, g1.ID, 2, 0)
	require.NoError(t, err)
	assert.False(t, update.Changed)

	update, err = f.games.RecordResult(f.ctx, g2.ID, 0, 1)
	require.NoError(t, err)
	assert.True(t, update.Changed)
	assert.Equal(t, alice.ID, update.Winner.ID)
	assert.Equal(t, bob.ID, update.PreviousWinnerID)

	published := f.publisher.published()
	require.Len(t, published, 2)
	assert.Equal(t, bob.ID, published[0].WinnerID)
	assert.Equal(t, alice.ID, published[1].WinnerID)
	assert.Equal(t, bob.ID, published[1].PreviousWinnerID)
}

func TestRecordResult_CorrectionRescores(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	competition := f.competition(t, alice)
	game := f.game(t, competition.ID, "Ghana", "Peru")
	f.bet(t, alice, game, 1, 0)

	_, err := f.games.RecordResult(f.ctx, game.ID, 1, 0)
	require.NoError(t, err)
	bets, err := f.store.GetBetsByGame(f.ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PointsExact, bets[0].Points)

	_, err = f.games.RecordResult(f.ctx, game.ID, 0, 2)
	require.NoError(t, err)
	bets, err = f.store.GetBetsByGame(f.ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PointsWrong, bets[0].Points)
}

func TestRecordResult_Errors(t *testing.T) {
	f := newFixture(t)
	competition := f.competition(t)
	game := f.game(t, competition.ID, "Korea", "Ghana")

	_, err := f.games.RecordResult(f.ctx, "missing", 1, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.games.RecordResult(f.ctx, game.ID, -1, 0)
	assert.ErrorIs(t, err, models.ErrInvalidResult)
}

func TestRecordResult_NoBetsKeepsWinnerEmpty(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	competition := f.competition(t, alice)
	game := f.game(t, competition.ID, "Qatar", "Ecuador")

	update, err := f.games.RecordResult(f.ctx, game.ID, 0, 2)
	require.NoError(t, err)
	assert.Nil(t, update.Winner)
	assert.False(t, update.Changed)
	assert.Empty(t, f.publisher.published())
}

func TestCreateGame(t *testing.T) {
	f := newFixture(t)
	competition := f.competition(t)

	game, err := f.games.CreateGame(f.ctx, competition.ID, " Wales ", "Iran", fixedNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Wales", game.HomeTeam)
	assert.Equal(t, models.StatusUpcoming, game.Status)

	_, err = f.games.CreateGame(f.ctx, competition.ID, "Wales", "Iran", time.Time{})
	assert.Error(t, err)

	_, err = f.games.CreateGame(f.ctx, "missing", "Wales", "Iran", fixedNow)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListGames_StatusAtReadTime(t *testing.T) {
	f := newFixture(t)
	competition := f.competition(t)

	_, err := f.games.CreateGame(f.ctx, competition.ID, "Canada", "Morocco", fixedNow.Add(-30*time.Minute))
	require.NoError(t, err)
	upcoming := f.game(t, competition.ID, "Serbia", "Swiss")

	games, err := f.games.ListGames(f.ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, models.StatusLive, games[0].Status)
	assert.Equal(t, upcoming.ID, games[1].ID)
	assert.Equal(t, models.StatusUpcoming, games[1].Status)

	stored, err := f.store.GetCompetition(f.ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, stored.Status)
}
