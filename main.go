package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"prode-app-go/config"
	"prode-app-go/database"
	"prode-app-go/events"
	"prode-app-go/handlers"
	"prode-app-go/logging"
	"prode-app-go/middleware"
	"prode-app-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	cfg.LogConfiguration()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatalf("Storage unavailable: %v", err)
	}
	defer stores.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	standingsService := services.NewStandingsService(stores.Persistence(), publisher, cfg.ToStandingsCacheConfig())
	authService := services.NewAuthService(stores.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, cfg.Auth.AdminEmails)
	competitionService := services.NewCompetitionService(stores.Competitions, standingsService)
	gameService := services.NewGameService(stores.Games, stores.Bets, stores.Competitions, standingsService)
	betService := services.NewBetService(stores.Bets, stores.Games, stores.Competitions, standingsService)

	if cfg.Database.WatchChanges {
		stores.WatchChanges(ctx, standingsService.Invalidate)
	}
	statusUpdater := services.NewStatusUpdater(gameService, cfg.App.StatusSyncInterval)
	statusUpdater.Start(ctx)
	defer statusUpdater.Stop()

	router := (&handlers.Router{
		Auth:         handlers.NewAuthHandler(authService, cfg.Auth.TokenExpiry, cfg.Server.BehindProxy),
		Competitions: handlers.NewCompetitionHandler(competitionService, standingsService),
		Games:        handlers.NewGameHandler(gameService),
		Bets:         handlers.NewBetHandler(betService),
		Health:       handlers.NewHealthHandler(stores, stores.Backend),
		AuthMW:       middleware.NewAuthMiddleware(authService),
		BehindProxy:  cfg.Server.BehindProxy,
	}).Build()

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logging.Infof("Server starting on %s (store: %s)", server.Addr, stores.Backend)
		var err error
		if cfg.Server.UseTLS && !cfg.Server.BehindProxy {
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Graceful shutdown failed: %v", err)
	}
}

// openStores prefers MongoDB and falls back to the in-memory store when allowed
func openStores(ctx context.Context, cfg *config.Config) (*services.Stores, error) {
	stores, err := database.OpenStores(ctx, cfg.ToDatabaseConfig())
	if err == nil {
		return stores, nil
	}
	if !cfg.App.AllowDemoStore {
		return nil, err
	}

	logging.Warnf("Database connection failed: %v", err)
	logging.Warn("Continuing with the in-memory demo store, data is lost on restart")
	stores = services.NewMemoryStores()
	if err := services.NewDemoSeeder(stores).Seed(ctx); err != nil {
		return nil, err
	}
	return stores, nil
}

func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled() {
		return events.NewLogPublisher()
	}

	brokers := strings.Split(cfg.Events.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	logging.Infof("Publishing winner changes to %s on %v", cfg.Events.WinnerTopic, brokers)
	return events.NewKafkaPublisher(events.NewKafkaWriter(brokers, cfg.Events.WinnerTopic), cfg.Events.WinnerTopic)
}
