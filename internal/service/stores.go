package service

import (
	"context"
	"time"

	"greek-quiz-service/internal/models"
)

// Store interfaces the services depend on. internal/repository satisfies
// them with MongoDB; tests use in-memory implementations. Methods that run
// inside SubmitAnswer must honor the transaction carried by ctx.

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Touch(ctx context.Context, id string, at time.Time) error
}

type StatStore interface {
	FindOne(ctx context.Context, userID string, letterID int) (*models.LetterStat, error)
	FindByUser(ctx context.Context, userID string) ([]models.LetterStat, error)
	Upsert(ctx context.Context, stat *models.LetterStat) error
	FindWeakest(ctx context.Context, userID string, minSeen int, maxMastery float64, limit int) ([]models.LetterStat, error)
}

type QuizStore interface {
	Create(ctx context.Context, quiz *models.QuizAttempt) error
	FindByID(ctx context.Context, id string) (*models.QuizAttempt, error)
	IncrementCorrect(ctx context.Context, id string) error
	Finalize(ctx context.Context, id string, at time.Time, accuracy float64) error
	CountCompleted(ctx context.Context, userID string) (int, error)
	FindRecentCompleted(ctx context.Context, userID string, limit int) ([]models.QuizAttempt, error)
}

type QuestionStore interface {
	CreateBatch(ctx context.Context, questions []models.QuizQuestion) error
	FindByID(ctx context.Context, id string) (*models.QuizQuestion, error)
	FindByQuiz(ctx context.Context, quizID string) ([]models.QuizQuestion, error)
	ClaimAnswer(ctx context.Context, id, chosen string, isCorrect bool) (bool, error)
	CountAnswered(ctx context.Context, quizID string) (int, error)
}

type LevelStore interface {
	Create(ctx context.Context, transition *models.LevelTransition) error
	FindByUser(ctx context.Context, userID string) ([]models.LevelTransition, error)
}

// TxRunner runs fn as one atomic unit; on error every write inside fn is
// rolled back.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
