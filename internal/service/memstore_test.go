package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"greek-quiz-service/internal/models"
	"greek-quiz-service/internal/repository"
)

// memDB is an in-memory stand-in for MongoDB so the services can be
// exercised without a database. It mimics the store contracts the
// repositories provide, including the unique (quiz, letter) constraint and
// the claim-once answer update.
type memDB struct {
	users       map[string]models.User
	stats       map[string]models.LetterStat
	quizzes     map[string]models.QuizAttempt
	questions   map[string]models.QuizQuestion
	transitions []models.LevelTransition
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]models.User{},
		stats:     map[string]models.LetterStat{},
		quizzes:   map[string]models.QuizAttempt{},
		questions: map[string]models.QuizQuestion{},
	}
}

func statKey(userID string, letterID int) string {
	return fmt.Sprintf("%s/%d", userID, letterID)
}

type memUsers struct{ db *memDB }

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.db.users[id]
	if !ok {
		return nil, repository.ErrNoDocument
	}
	return &u, nil
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	if _, ok := m.db.users[user.ID]; ok {
		return fmt.Errorf("duplicate user %s", user.ID)
	}
	m.db.users[user.ID] = *user
	return nil
}

func (m *memUsers) Save(_ context.Context, user *models.User) error {
	m.db.users[user.ID] = *user
	return nil
}

func (m *memUsers) Touch(_ context.Context, id string, at time.Time) error {
	u, ok := m.db.users[id]
	if !ok {
		return repository.ErrNoDocument
	}
	u.LastActiveAt = at
	m.db.users[id] = u
	return nil
}

type memStats struct{ db *memDB }

func (m *memStats) FindOne(_ context.Context, userID string, letterID int) (*models.LetterStat, error) {
	s, ok := m.db.stats[statKey(userID, letterID)]
	if !ok {
		return nil, repository.ErrNoDocument
	}
	return &s, nil
}

func (m *memStats) FindByUser(_ context.Context, userID string) ([]models.LetterStat, error) {
	var out []models.LetterStat
	for _, s := range m.db.stats {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LetterID < out[j].LetterID })
	return out, nil
}

func (m *memStats) Upsert(_ context.Context, stat *models.LetterStat) error {
	m.db.stats[statKey(stat.UserID, stat.LetterID)] = *stat
	return nil
}

func (m *memStats) FindWeakest(_ context.Context, userID string, minSeen int, maxMastery float64, limit int) ([]models.LetterStat, error) {
	var out []models.LetterStat
	for _, s := range m.db.stats {
		if s.UserID == userID && s.SeenCount >= minSeen && s.MasteryScore < maxMastery {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MasteryScore < out[j].MasteryScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memQuizzes struct{ db *memDB }

func (m *memQuizzes) Create(_ context.Context, quiz *models.QuizAttempt) error {
	if _, ok := m.db.quizzes[quiz.ID]; ok {
		return fmt.Errorf("duplicate quiz %s", quiz.ID)
	}
	m.db.quizzes[quiz.ID] = *quiz
	return nil
}

func (m *memQuizzes) FindByID(_ context.Context, id string) (*models.QuizAttempt, error) {
	q, ok := m.db.quizzes[id]
	if !ok {
		return nil, repository.ErrNoDocument
	}
	return &q, nil
}

func (m *memQuizzes) IncrementCorrect(_ context.Context, id string) error {
	q, ok := m.db.quizzes[id]
	if !ok {
		return repository.ErrNoDocument
	}
	q.CorrectCount++
	m.db.quizzes[id] = q
	return nil
}

func (m *memQuizzes) Finalize(_ context.Context, id string, at time.Time, accuracy float64) error {
	q, ok := m.db.quizzes[id]
	if !ok {
		return repository.ErrNoDocument
	}
	if q.CompletedAt != nil {
		return nil
	}
	q.CompletedAt = &at
	q.Accuracy = &accuracy
	m.db.quizzes[id] = q
	return nil
}

func (m *memQuizzes) CountCompleted(_ context.Context, userID string) (int, error) {
	n := 0
	for _, q := range m.db.quizzes {
		if q.UserID == userID && q.CompletedAt != nil {
			n++
		}
	}
	return n, nil
}

func (m *memQuizzes) FindRecentCompleted(_ context.Context, userID string, limit int) ([]models.QuizAttempt, error) {
	var out []models.QuizAttempt
	for _, q := range m.db.quizzes {
		if q.UserID == userID && q.CompletedAt != nil {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(*out[j].CompletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memQuestions struct{ db *memDB }

func (m *memQuestions) CreateBatch(_ context.Context, questions []models.QuizQuestion) error {
	perQuiz := map[string]bool{}
	for _, q := range questions {
		key := fmt.Sprintf("%s/%d", q.QuizID, q.LetterID)
		if perQuiz[key] {
			return fmt.Errorf("duplicate letter %d in quiz %s", q.LetterID, q.QuizID)
		}
		perQuiz[key] = true
	}
	for _, q := range questions {
		m.db.questions[q.ID] = q
	}
	return nil
}

func (m *memQuestions) FindByID(_ context.Context, id string) (*models.QuizQuestion, error) {
	q, ok := m.db.questions[id]
	if !ok {
		return nil, repository.ErrNoDocument
	}
	return &q, nil
}

func (m *memQuestions) FindByQuiz(_ context.Context, quizID string) ([]models.QuizQuestion, error) {
	var out []models.QuizQuestion
	for _, q := range m.db.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func (m *memQuestions) ClaimAnswer(_ context.Context, id, chosen string, isCorrect bool) (bool, error) {
	q, ok := m.db.questions[id]
	if !ok {
		return false, repository.ErrNoDocument
	}
	if q.ChosenOption != nil {
		return false, nil
	}
	q.ChosenOption = &chosen
	q.IsCorrect = &isCorrect
	m.db.questions[id] = q
	return true, nil
}

func (m *memQuestions) CountAnswered(_ context.Context, quizID string) (int, error) {
	n := 0
	for _, q := range m.db.questions {
		if q.QuizID == quizID && q.ChosenOption != nil {
			n++
		}
	}
	return n, nil
}

type memLevels struct{ db *memDB }

func (m *memLevels) Create(_ context.Context, transition *models.LevelTransition) error {
	m.db.transitions = append(m.db.transitions, *transition)
	return nil
}

func (m *memLevels) FindByUser(_ context.Context, userID string) ([]models.LevelTransition, error) {
	var out []models.LevelTransition
	for _, t := range m.db.transitions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievedAt.After(out[j].AchievedAt) })
	return out, nil
}

// memTx runs the function directly; rollback behavior is not simulated.
type memTx struct{}

func (memTx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
