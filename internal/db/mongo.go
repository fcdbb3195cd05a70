package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client is the shared MongoDB client, set by InitMongo.
var Client *mongo.Client

// InitMongo connects to MongoDB and verifies the connection. Fatal on
// failure: the service cannot run without its store.
func InitMongo(uri string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRetryWrites(true))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Could not reach MongoDB: %v", err)
	}

	Client = client
	log.Println("Connected to MongoDB")
}

// EnsureIndexes creates the indexes the engine's correctness depends on.
// The unique (quiz_id, letter_id) index on questions is load-bearing: it
// keeps concurrent generation from putting the same letter twice into one
// quiz. The rest are query-path indexes. All operations are idempotent.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("questions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "quiz_id", Value: 1}, {Key: "letter_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "quiz_id", Value: 1}, {Key: "chosen_option", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("letter_stats").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "letter_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "mastery_score", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "seen_count", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("quizzes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("level_transitions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "achieved_at", Value: -1}},
	})
	return err
}
