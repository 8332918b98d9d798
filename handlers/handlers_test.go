package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prode-app-go/middleware"
	"prode-app-go/models"
	"prode-app-go/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	router *mux.Router
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	store := services.NewMemoryStore()
	auth := services.NewAuthService(store, "test-secret", time.Hour, []string{"admin@prode.test"})
	standings := services.NewStandingsService(services.NewPersistenceStore(store, store), nil, services.DefaultStandingsCacheConfig())

	rt := &Router{
		Auth:         NewAuthHandler(auth, time.Hour, false),
		Competitions: NewCompetitionHandler(services.NewCompetitionService(store, standings), standings),
		Games:        NewGameHandler(services.NewGameService(store, store, store, standings)),
		Bets:         NewBetHandler(services.NewBetService(store, store, store, standings)),
		Health:       NewHealthHandler(store, "memory"),
		AuthMW:       middleware.NewAuthMiddleware(auth),
	}
	return &apiClient{t: t, router: rt.Build()}
}

func (c *apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) register(name string) string {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/register", "", map[string]string{
		"name": name, "email": name + "@prode.test", "password": "secret1",
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var response models.AuthResponse
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAPI_FullCompetitionFlow(t *testing.T) {
	api := newAPI(t)
	admin := api.register("admin")
	alice := api.register("alice")
	bob := api.register("bob")

	rec := api.do(http.MethodPost, "/api/competitions", admin, map[string]string{"name": "World Cup"})
	require.Equal(t, http.StatusCreated, rec.Code)
	competition := decode[models.Competition](t, rec)

	base := "/api/competitions/" + competition.ID
	for _, token := range []string{alice, bob} {
		rec = api.do(http.MethodPost, base+"/join", token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec = api.do(http.MethodPost, base+"/games", admin, map[string]interface{}{
		"homeTeam": "Argentina", "awayTeam": "France", "kickoffAt": time.Now().Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	game := decode[models.Game](t, rec)

	rec = api.do(http.MethodPost, "/api/games/"+game.ID+"/bets", alice, map[string]int{"homeScore": 3, "awayScore": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPost, "/api/games/"+game.ID+"/bets", bob, map[string]int{"homeScore": 1, "awayScore": 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPut, "/api/games/"+game.ID+"/result", admin, map[string]int{"homeScore": 3, "awayScore": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	update := decode[services.WinnerUpdate](t, rec)
	assert.True(t, update.Changed)
	assert.Equal(t, "alice", update.Winner.Name)
	assert.Equal(t, models.PointsExact, update.TotalPoints)

	rec = api.do(http.MethodGet, base+"/standings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	table := decode[StandingsResponse](t, rec)
	require.Len(t, table.Standings, 2)
	assert.Equal(t, "alice", table.Standings[0].User.Name)
	assert.Equal(t, 0, table.Standings[1].TotalPoints)
	assert.Equal(t, models.StatusFinished, table.Status)
	require.NotNil(t, table.WinnerID)
	assert.Equal(t, table.Standings[0].User.ID, *table.WinnerID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodGet, base+"/bets/me", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]models.Bet](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, models.PointsWrong, mine[0].Points)

	rec = api.do(http.MethodPost, base+"/recompute?dry_run=true", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[services.WinnerUpdate](t, rec).Changed)
}

func TestAPI_ErrorMapping(t *testing.T) {
	api := newAPI(t)
	admin := api.register("admin")
	player := api.register("player")

	rec := api.do(http.MethodPost, "/api/competitions", admin, map[string]string{"name": "Euro"})
	require.Equal(t, http.StatusCreated, rec.Code)
	competition := decode[models.Competition](t, rec)

	rec = api.do(http.MethodPost, "/api/competitions/"+competition.ID+"/games", admin, map[string]interface{}{
		"homeTeam": "Spain", "awayTeam": "Italy", "kickoffAt": time.Now().Add(-time.Minute),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	started := decode[models.Game](t, rec)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"unknown competition", http.MethodGet, "/api/competitions/nope/standings", "", nil, http.StatusNotFound},
		{"anonymous bet", http.MethodPost, "/api/games/" + started.ID + "/bets", "", map[string]int{"homeScore": 1, "awayScore": 0}, http.StatusUnauthorized},
		{"not a member", http.MethodPost, "/api/games/" + started.ID + "/bets", player, map[string]int{"homeScore": 1, "awayScore": 0}, http.StatusForbidden},
		{"player creates competition", http.MethodPost, "/api/competitions", player, map[string]string{"name": "x"}, http.StatusForbidden},
		{"missing score", http.MethodPut, "/api/games/" + started.ID + "/result", admin, map[string]int{"homeScore": 1}, http.StatusBadRequest},
		{"score out of range", http.MethodPut, "/api/games/" + started.ID + "/result", admin, map[string]int{"homeScore": 1, "awayScore": 100}, http.StatusBadRequest},
		{"same teams", http.MethodPost, "/api/competitions/" + competition.ID + "/games", admin, map[string]interface{}{"homeTeam": "Spain", "awayTeam": "Spain", "kickoffAt": time.Now()}, http.StatusBadRequest},
		{"no kickoff", http.MethodPost, "/api/competitions/" + competition.ID + "/games", admin, map[string]string{"homeTeam": "Spain", "awayTeam": "Wales"}, http.StatusBadRequest},
		{"duplicate email", http.MethodPost, "/api/register", "", map[string]string{"name": "p", "email": "player@prode.test", "password": "secret1"}, http.StatusConflict},
		{"bad login", http.MethodPost, "/api/login", "", map[string]string{"email": "player@prode.test", "password": "wrong"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec = api.do(http.MethodPost, "/api/competitions/"+competition.ID+"/join", player, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodPost, "/api/games/"+started.ID+"/bets", player, map[string]int{"homeScore": 1, "awayScore": 0})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_StandingsHideAccountDetails(t *testing.T) {
	api := newAPI(t)
	admin := api.register("admin")
	alice := api.register("alice")

	rec := api.do(http.MethodPost, "/api/competitions", admin, map[string]string{"name": "Copa"})
	require.Equal(t, http.StatusCreated, rec.Code)
	competition := decode[models.Competition](t, rec)
	base := "/api/competitions/" + competition.ID

	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, base+"/join", alice, nil).Code)
	rec = api.do(http.MethodPost, base+"/games", admin, map[string]interface{}{
		"homeTeam": "Chile", "awayTeam": "Peru", "kickoffAt": time.Now().Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	game := decode[models.Game](t, rec)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/games/"+game.ID+"/bets", alice, map[string]int{"homeScore": 2, "awayScore": 1}).Code)

	rec = api.do(http.MethodGet, base+"/standings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "alice@prode.test")
	assert.NotContains(t, rec.Body.String(), "isAdmin")
	anonymous := decode[StandingsResponse](t, rec)
	require.Len(t, anonymous.Standings, 1)
	assert.Equal(t, "alice", anonymous.Standings[0].User.Name)
	assert.Nil(t, anonymous.Me)

	rec = api.do(http.MethodGet, base+"/standings", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "alice@prode.test")
	mine := decode[StandingsResponse](t, rec)
	require.NotNil(t, mine.Me)
	assert.Equal(t, 1, mine.Me.Rank)
	assert.Equal(t, "alice", mine.Me.User.Name)
}

func TestAPI_EmptyStandingsStableAcrossCache(t *testing.T) {
	api := newAPI(t)
	admin := api.register("admin")

	rec := api.do(http.MethodPost, "/api/competitions", admin, map[string]string{"name": "Quiet league"})
	require.Equal(t, http.StatusCreated, rec.Code)
	competition := decode[models.Competition](t, rec)

	first := api.do(http.MethodGet, "/api/competitions/"+competition.ID+"/standings", "", nil)
	second := api.do(http.MethodGet, "/api/competitions/"+competition.ID+"/standings", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Contains(t, first.Body.String(), `"standings":[]`)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestAPI_LoginAndLogoutCookies(t *testing.T) {
	api := newAPI(t)
	api.register("carol")

	rec := api.do(http.MethodPost, "/api/login", "", map[string]string{"email": "carol@prode.test", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	rec = api.do(http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies = rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Empty(t, cookies[0].Value)
}

func TestAPI_HealthAndSecurityHeaders(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "prode_http_requests_total")
}

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(&models.RegisterRequest{Email: "nope", Password: "123"})
	fields := FormatValidationError(err)

	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Must be at least 6", fields["password"])
}
