package repository

import (
	"context"
	"errors"

	"greek-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []models.QuizQuestion) error {
	docs := make([]interface{}, len(questions))
	for i := range questions {
		docs[i] = questions[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.QuizQuestion, error) {
	var q models.QuizQuestion
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByQuiz returns the quiz's questions in presentation order.
func (r *QuestionRepository) FindByQuiz(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "question_number", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"quiz_id": quizID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.QuizQuestion
	for cur.Next(ctx) {
		var q models.QuizQuestion
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

// ClaimAnswer marks the question answered if and only if no answer has been
// recorded yet. The chosen_option guard in the filter is what makes duplicate
// and concurrent submissions score at most once: the losing call sees
// claimed=false and replays the stored result instead.
func (r *QuestionRepository) ClaimAnswer(ctx context.Context, id, chosen string, isCorrect bool) (bool, error) {
	filter := bson.M{"_id": id, "chosen_option": nil}
	update := bson.M{"$set": bson.M{"chosen_option": chosen, "is_correct": isCorrect}}
	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *QuestionRepository) CountAnswered(ctx context.Context, quizID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"quiz_id": quizID, "chosen_option": bson.M{"$ne": nil}})
	return int(n), err
}
