package database

import (
	"context"
	"fmt"

	"prode-app-go/services"
)

// OpenStores connects to MongoDB, ensures indexes and returns the Mongo-backed repositories
func OpenStores(ctx context.Context, config Config) (*services.Stores, error) {
	db, err := NewMongoConnection(config)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	users := NewMongoUserRepository(db)
	return services.NewStores("mongodb",
		users,
		NewMongoCompetitionRepository(db, users),
		NewMongoGameRepository(db),
		NewMongoBetRepository(db),
		db,
		db.Close,
	).WithChangeWatch(func(ctx context.Context, onChange func(string)) {
		NewChangeStreamWatcher(db, onChange).StartWatching(ctx)
	}), nil
}
