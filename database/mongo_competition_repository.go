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

// MongoCompetitionRepository stores competitions and their memberships
type MongoCompetitionRepository struct {
	competitions *mongo.Collection
	memberships  *mongo.Collection
	users        *MongoUserRepository
	logger       *logging.Logger
}

// NewMongoCompetitionRepository creates a new MongoDB competition repository
func NewMongoCompetitionRepository(db *MongoDB, users *MongoUserRepository) *MongoCompetitionRepository {
	return &MongoCompetitionRepository{
		competitions: db.GetCollection(CompetitionsCollection),
		memberships:  db.GetCollection(MembershipsCollection),
		users:        users,
		logger:       logging.WithPrefix("mongo_competition_repo"),
	}
}

// CreateCompetition inserts a new competition
func (r *MongoCompetitionRepository) CreateCompetition(ctx context.Context, competition *models.Competition) error {
	if competition.ID == "" {
		competition.ID = NewID()
	}
	if competition.Status == "" {
		competition.Status = models.StatusUpcoming
	}
	competition.CreatedAt = time.Now()
	competition.UpdatedAt = competition.CreatedAt

	if _, err := r.competitions.InsertOne(ctx, competition); err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

// GetCompetition retrieves a competition by ID
func (r *MongoCompetitionRepository) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	var competition models.Competition
	if err := r.competitions.FindOne(ctx, bson.M{"_id": id}).Decode(&competition); err != nil {
		return nil, notFound(err, "competition", id)
	}
	return &competition, nil
}

// ListCompetitions returns all competitions, newest first
func (r *MongoCompetitionRepository) ListCompetitions(ctx context.Context) ([]*models.Competition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.competitions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find competitions: %w", err)
	}
	defer cursor.Close(ctx)

	var competitions []*models.Competition
	if err := cursor.All(ctx, &competitions); err != nil {
		return nil, fmt.Errorf("failed to decode competitions: %w", err)
	}
	return competitions, nil
}

// SetWinner stores the winner. Concurrent writers race; the last write wins.
func (r *MongoCompetitionRepository) SetWinner(ctx context.Context, competitionID, userID string) error {
	return r.update(ctx, competitionID, bson.M{"winner_id": userID})
}

// SetStatus stores the derived competition status
func (r *MongoCompetitionRepository) SetStatus(ctx context.Context, competitionID string, status models.Status) error {
	return r.update(ctx, competitionID, bson.M{"status": status})
}

func (r *MongoCompetitionRepository) update(ctx context.Context, competitionID string, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := r.competitions.UpdateOne(ctx, bson.M{"_id": competitionID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update competition %s: %w", competitionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("competition %s: %w", competitionID, models.ErrNotFound)
	}
	return nil
}

// AddMember registers a user to a competition. Joining twice keeps the original registration time.
func (r *MongoCompetitionRepository) AddMember(ctx context.Context, competitionID, userID string) error {
	filter := bson.M{"competition_id": competitionID, "user_id": userID}
	update := bson.M{
		"$setOnInsert": models.Membership{
			CompetitionID: competitionID,
			UserID:        userID,
			JoinedAt:      time.Now(),
		},
	}

	result, err := r.memberships.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add member %s to competition %s: %w", userID, competitionID, err)
	}
	if result.UpsertedCount > 0 {
		r.logger.Infof("User %s joined competition %s", userID, competitionID)
	}
	return nil
}

// IsMember reports whether a user is registered to a competition
func (r *MongoCompetitionRepository) IsMember(ctx context.Context, competitionID, userID string) (bool, error) {
	count, err := r.memberships.CountDocuments(ctx, bson.M{"competition_id": competitionID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// FetchMembership returns the registered users of a competition in registration order
func (r *MongoCompetitionRepository) FetchMembership(ctx context.Context, competitionID string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "user_id", Value: 1}})
	cursor, err := r.memberships.Find(ctx, bson.M{"competition_id": competitionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var memberships []models.Membership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, fmt.Errorf("failed to decode memberships: %w", err)
	}

	ids := make([]string, len(memberships))
	for i, m := range memberships {
		ids[i] = m.UserID
	}

	users, err := r.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	ordered := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, ok := byID[id]
		if !ok {
			r.logger.Warnf("Membership in %s references unknown user %s", competitionID, id)
			continue
		}
		ordered = append(ordered, user)
	}
	return ordered, nil
}
