package database

import (
	"context"
	"fmt"
	"time"

	"prode-app-go/logging"
	"prode-app-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBetRepository stores one prediction per user per game
type MongoBetRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoBetRepository creates a new MongoDB bet repository
func NewMongoBetRepository(db *MongoDB) *MongoBetRepository {
	return &MongoBetRepository{
		collection: db.GetCollection(BetsCollection),
		logger:     logging.WithPrefix("mongo_bet_repo"),
	}
}

// UpsertBet creates or replaces the user's prediction for a game
func (r *MongoBetRepository) UpsertBet(ctx context.Context, bet *models.Bet) error {
	now := time.Now()
	filter := bson.M{"user_id": bet.UserID, "game_id": bet.GameID}
	update := bson.M{
		"$set": bson.M{
			"home_score": bet.HomeScore,
			"away_score": bet.AwayScore,
			"points":     bet.Points,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":            NewID(),
			"competition_id": bet.CompetitionID,
			"created_at":     now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(bet); err != nil {
		return fmt.Errorf("failed to upsert bet for user %s game %s: %w", bet.UserID, bet.GameID, err)
	}
	return nil
}

// FetchBets returns every bet placed in a competition
func (r *MongoBetRepository) FetchBets(ctx context.Context, competitionID string) ([]models.Bet, error) {
	return r.find(ctx, bson.M{"competition_id": competitionID})
}

// GetBetsByGame returns every bet placed on a game
func (r *MongoBetRepository) GetBetsByGame(ctx context.Context, gameID string) ([]models.Bet, error) {
	return r.find(ctx, bson.M{"game_id": gameID})
}

// GetUserBets returns a user's bets in a competition
func (r *MongoBetRepository) GetUserBets(ctx context.Context, competitionID, userID string) ([]models.Bet, error) {
	return r.find(ctx, bson.M{"competition_id": competitionID, "user_id": userID})
}

func (r *MongoBetRepository) find(ctx context.Context, filter bson.M) ([]models.Bet, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find bets: %w", err)
	}
	defer cursor.Close(ctx)

	var bets []models.Bet
	if err := cursor.All(ctx, &bets); err != nil {
		return nil, fmt.Errorf("failed to decode bets: %w", err)
	}
	return bets, nil
}

// UpdatePoints writes scored points in one unordered bulk write
func (r *MongoBetRepository) UpdatePoints(ctx context.Context, bets []models.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	now := time.Now()
	operations := make([]mongo.WriteModel, 0, len(bets))
	for _, bet := range bets {
		operations = append(operations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": bet.ID}).
			SetUpdate(bson.M{"$set": bson.M{"points": bet.Points, "updated_at": now}}))
	}

	result, err := r.collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("bulk points update failed: %w", err)
	}

	r.logger.Debugf("Updated points on %d bets (%d modified)", len(bets), result.ModifiedCount)
	return nil
}
