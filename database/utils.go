package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prode-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection        = "users"
	CompetitionsCollection = "competitions"
	MembershipsCollection  = "memberships"
	GamesCollection        = "games"
	BetsCollection         = "bets"
)

// Common timeout durations for database operations
const (
	ShortTimeout  = 5 * time.Second
	MediumTimeout = 10 * time.Second
)

// WithShortTimeout creates a context with ShortTimeout
func WithShortTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ShortTimeout)
}

// NewID returns a new opaque identifier
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// notFound maps mongo.ErrNoDocuments to models.ErrNotFound
func notFound(err error, what, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to find %s %s: %w", what, id, err)
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		MembershipsCollection: {
			{Keys: bson.D{{Key: "competition_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "competition_id", Value: 1}, {Key: "joined_at", Value: 1}}},
		},
		GamesCollection: {
			{Keys: bson.D{{Key: "competition_id", Value: 1}, {Key: "kickoff_at", Value: 1}}},
		},
		BetsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "game_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "competition_id", Value: 1}}},
			{Keys: bson.D{{Key: "game_id", Value: 1}}},
		},
	}
}
