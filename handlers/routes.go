package handlers

import (
	"net/http"

	"prode-app-go/metrics"
	"prode-app-go/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router bundles the handlers served by the API
type Router struct {
	Auth         *AuthHandler
	Competitions *CompetitionHandler
	Games        *GameHandler
	Bets         *BetHandler
	Health       *HealthHandler
	AuthMW       *middleware.AuthMiddleware
	BehindProxy  bool
}

// Build registers every route on a new mux router
func (rt *Router) Build() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.NewSecurityMiddleware(rt.BehindProxy))
	r.Use(metrics.Middleware)

	r.HandleFunc("/healthz", rt.Health.Healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	user := rt.AuthMW.RequireAuth
	admin := rt.AuthMW.RequireAdmin
	optional := rt.AuthMW.OptionalAuth

	api.HandleFunc("/register", rt.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", rt.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", rt.Auth.Logout).Methods(http.MethodPost)

	api.HandleFunc("/competitions", rt.Competitions.List).Methods(http.MethodGet)
	api.Handle("/competitions", admin(http.HandlerFunc(rt.Competitions.Create))).Methods(http.MethodPost)
	api.HandleFunc("/competitions/{id}", rt.Competitions.Get).Methods(http.MethodGet)
	api.Handle("/competitions/{id}/join", user(http.HandlerFunc(rt.Competitions.Join))).Methods(http.MethodPost)
	api.Handle("/competitions/{id}/standings", optional(http.HandlerFunc(rt.Competitions.Standings))).Methods(http.MethodGet)
	api.Handle("/competitions/{id}/recompute", admin(http.HandlerFunc(rt.Competitions.Recompute))).Methods(http.MethodPost)
	api.HandleFunc("/competitions/{id}/games", rt.Games.List).Methods(http.MethodGet)
	api.Handle("/competitions/{id}/games", admin(http.HandlerFunc(rt.Games.Create))).Methods(http.MethodPost)
	api.Handle("/competitions/{id}/bets/me", user(http.HandlerFunc(rt.Bets.Mine))).Methods(http.MethodGet)

	api.Handle("/games/{id}/result", admin(http.HandlerFunc(rt.Games.RecordResult))).Methods(http.MethodPut)
	api.Handle("/games/{id}/bets", user(http.HandlerFunc(rt.Bets.Place))).Methods(http.MethodPost)

	return r
}
