package repository

import (
	"context"

	"greek-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LevelRepository struct {
	Col *mongo.Collection
}

func NewLevelRepository(db *mongo.Database) *LevelRepository {
	return &LevelRepository{Col: db.Collection("level_transitions")}
}

func (r *LevelRepository) Create(ctx context.Context, transition *models.LevelTransition) error {
	_, err := r.Col.InsertOne(ctx, transition)
	return err
}

func (r *LevelRepository) FindByUser(ctx context.Context, userID string) ([]models.LevelTransition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "achieved_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var transitions []models.LevelTransition
	for cur.Next(ctx) {
		var t models.LevelTransition
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}
	return transitions, cur.Err()
}
