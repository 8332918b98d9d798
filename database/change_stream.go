package database

import (
	"context"
	"time"

	"prode-app-go/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeStreamWatcher reports which competition a write touched, including
// writes made by other server replicas or the maintenance command.
// Change streams need MongoDB running as a replica set.
type ChangeStreamWatcher struct {
	db       *MongoDB
	onChange func(competitionID string)
	retry    time.Duration
	logger   *logging.Logger
}

// NewChangeStreamWatcher creates a new change stream watcher
func NewChangeStreamWatcher(db *MongoDB, onChange func(competitionID string)) *ChangeStreamWatcher {
	return &ChangeStreamWatcher{
		db:       db,
		onChange: onChange,
		retry:    5 * time.Second,
		logger:   logging.WithPrefix("ChangeStream"),
	}
}

// StartWatching watches every collection that feeds the standings until ctx is done
func (w *ChangeStreamWatcher) StartWatching(ctx context.Context) {
	for _, collection := range []string{CompetitionsCollection, MembershipsCollection, GamesCollection, BetsCollection} {
		go w.watchCollection(ctx, collection)
	}
}

func (w *ChangeStreamWatcher) watchCollection(ctx context.Context, collectionName string) {
	w.logger.Infof("Watching %s", collectionName)
	collection := w.db.GetCollection(collectionName)

	// deletes carry no document, and nothing here deletes
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	for {
		stream, err := collection.Watch(ctx, pipeline, opts)
		if err != nil {
			w.logger.Warnf("Error creating change stream for %s: %v", collectionName, err)
		} else {
			w.consume(ctx, stream, collectionName)
		}

		select {
		case <-ctx.Done():
			w.logger.Infof("Stopped watching %s", collectionName)
			return
		case <-time.After(w.retry):
			w.logger.Debugf("Reconnecting to %s", collectionName)
		}
	}
}

func (w *ChangeStreamWatcher) consume(ctx context.Context, stream *mongo.ChangeStream, collectionName string) {
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event struct {
			OperationType string `bson:"operationType"`
			FullDocument  bson.M `bson:"fullDocument"`
		}
		if err := stream.Decode(&event); err != nil {
			w.logger.Warnf("Error decoding change event from %s: %v", collectionName, err)
			continue
		}

		if competitionID := competitionOf(collectionName, event.FullDocument); competitionID != "" {
			w.logger.Debugf("%s %s in competition %s", collectionName, event.OperationType, competitionID)
			w.onChange(competitionID)
		}
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		w.logger.Warnf("Change stream error for %s: %v", collectionName, err)
	}
}

// competitionOf extracts the competition a changed document belongs to
func competitionOf(collection string, doc bson.M) string {
	key := "competition_id"
	if collection == CompetitionsCollection {
		key = "_id"
	}
	id, _ := doc[key].(string)
	return id
}
