package database

import (
	"context"
	"fmt"
	"time"

	"prode-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGameRepository struct {
	collection *mongo.Collection
}

func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	return &MongoGameRepository{
		collection: db.GetCollection(GamesCollection),
	}
}

// CreateGame inserts a scheduled game
func (r *MongoGameRepository) CreateGame(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = NewID()
	}
	game.CreatedAt = time.Now()
	game.UpdatedAt = game.CreatedAt

	if _, err := r.collection.InsertOne(ctx, game); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetGame retrieves a game by ID
func (r *MongoGameRepository) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game); err != nil {
		return nil, notFound(err, "game", id)
	}
	return &game, nil
}

// GetGamesByCompetition returns a competition's games ordered by kickoff, then home team
func (r *MongoGameRepository) GetGamesByCompetition(ctx context.Context, competitionID string) ([]*models.Game, error) {
	sortOptions := options.Find().SetSort(bson.D{
		{Key: "kickoff_at", Value: 1},
		{Key: "home_team", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"competition_id": competitionID}, sortOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find games for competition %s: %w", competitionID, err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}

// UpdateResult stores the final score and status of a game
func (r *MongoGameRepository) UpdateResult(ctx context.Context, game *models.Game) error {
	update := bson.M{
		"$set": bson.M{
			"home_score": game.HomeScore,
			"away_score": game.AwayScore,
			"status":     game.Status,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": game.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("game %s: %w", game.ID, models.ErrNotFound)
	}
	return nil
}
