package repository

import (
	"context"
	"errors"

	"greek-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatRepository struct {
	Col *mongo.Collection
}

func NewStatRepository(db *mongo.Database) *StatRepository {
	return &StatRepository{Col: db.Collection("letter_stats")}
}

func (r *StatRepository) FindOne(ctx context.Context, userID string, letterID int) (*models.LetterStat, error) {
	var stat models.LetterStat
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "letter_id": letterID}).Decode(&stat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *StatRepository) FindByUser(ctx context.Context, userID string) ([]models.LetterStat, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var stats []models.LetterStat
	for cur.Next(ctx) {
		var s models.LetterStat
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, cur.Err()
}

// Upsert writes the stat, creating it on first exposure to a letter. The
// unique (user_id, letter_id) index keeps concurrent first exposures from
// producing duplicates.
func (r *StatRepository) Upsert(ctx context.Context, stat *models.LetterStat) error {
	filter := bson.M{"user_id": stat.UserID, "letter_id": stat.LetterID}
	_, err := r.Col.ReplaceOne(ctx, filter, stat, options.Replace().SetUpsert(true))
	return err
}

// FindWeakest returns the lowest-mastery stats for a user that have enough
// attempts to be meaningful, weakest first.
func (r *StatRepository) FindWeakest(ctx context.Context, userID string, minSeen int, maxMastery float64, limit int) ([]models.LetterStat, error) {
	filter := bson.M{
		"user_id":       userID,
		"seen_count":    bson.M{"$gte": minSeen},
		"mastery_score": bson.M{"$lt": maxMastery},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "mastery_score", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var stats []models.LetterStat
	for cur.Next(ctx) {
		var s models.LetterStat
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, cur.Err()
}
