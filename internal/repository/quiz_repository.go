package repository

import (
	"context"
	"errors"
	"time"

	"greek-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.QuizAttempt) error {
	_, err := r.Col.InsertOne(ctx, quiz)
	return err
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.QuizAttempt, error) {
	var quiz models.QuizAttempt
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) IncrementCorrect(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"correct_count": 1}})
	return err
}

// Finalize stamps completion exactly once: the completed_at guard in the
// filter makes a second finalization a no-op.
func (r *QuizRepository) Finalize(ctx context.Context, id string, at time.Time, accuracy float64) error {
	filter := bson.M{"_id": id, "completed_at": nil}
	update := bson.M{"$set": bson.M{"completed_at": at, "accuracy": accuracy}}
	_, err := r.Col.UpdateOne(ctx, filter, update)
	return err
}

func (r *QuizRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "completed_at": bson.M{"$ne": nil}})
	return int(n), err
}

// FindRecentCompleted returns the user's latest finalized quizzes, newest
// first.
func (r *QuizRepository) FindRecentCompleted(ctx context.Context, userID string, limit int) ([]models.QuizAttempt, error) {
	filter := bson.M{"user_id": userID, "completed_at": bson.M{"$ne": nil}}
	opts := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var quizzes []models.QuizAttempt
	for cur.Next(ctx) {
		var q models.QuizAttempt
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, cur.Err()
}
