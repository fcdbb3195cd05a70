package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/mastery"
	"greek-quiz-service/internal/models"
	"greek-quiz-service/internal/progression"
	"greek-quiz-service/internal/repository"
	"greek-quiz-service/internal/srs"

	"github.com/google/uuid"
)

// UserService owns identity creation and the read-only bootstrap summary.
type UserService struct {
	users     UserStore
	stats     StatStore
	quizzes   QuizStore
	levels    LevelStore
	evaluator *progression.Evaluator
	scheduler *srs.Scheduler
	catalog   *catalog.Catalog
	cfg       *config.Quiz
	clock     func() time.Time
}

func NewUserService(users UserStore, stats StatStore, quizzes QuizStore, levels LevelStore, cat *catalog.Catalog, cfg *config.Quiz) *UserService {
	return &UserService{
		users:     users,
		stats:     stats,
		quizzes:   quizzes,
		levels:    levels,
		evaluator: progression.NewEvaluator(cfg),
		scheduler: srs.NewScheduler(cfg),
		catalog:   cat,
		cfg:       cfg,
		clock:     time.Now,
	}
}

// GetOrCreate resolves an identity: an empty id mints a fresh one, a known
// id refreshes last-active, an unknown id is (re)created so a client holding
// a stale key keeps working. Identities are opaque and carry no PII.
func (s *UserService) GetOrCreate(ctx context.Context, id string) (*models.User, error) {
	now := s.clock()

	if id != "" {
		user, err := s.users.FindByID(ctx, id)
		if err == nil {
			user.LastActiveAt = now
			if err := s.users.Touch(ctx, id, now); err != nil {
				return nil, fmt.Errorf("touch user: %w", err)
			}
			return user, nil
		}
		if !errors.Is(err, repository.ErrNoDocument) {
			return nil, fmt.Errorf("load user: %w", err)
		}
	}

	if id == "" {
		id = "gam_" + uuid.NewString()
	}
	user := &models.User{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
		CurrentLevel: 1,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// LetterMastery is one letter's standing in the bootstrap summary.
type LetterMastery struct {
	Name         string  `json:"name"`
	MasteryScore float64 `json:"mastery_score"`
	Accuracy     float64 `json:"accuracy"`
}

// MasterySummary buckets every seen letter by how well it is known.
type MasterySummary struct {
	Strong []LetterMastery `json:"strong"`
	OK     []LetterMastery `json:"ok"`
	Weak   []LetterMastery `json:"weak"`
}

// BootstrapData is the read-only session-start payload.
type BootstrapData struct {
	UserID          string                       `json:"user_id"`
	TotalQuizzes    int                          `json:"total_quizzes"`
	AverageAccuracy *float64                     `json:"average_accuracy,omitempty"`
	QuizHistory     []QuizScore                  `json:"quiz_history"`
	MasterySummary  MasterySummary               `json:"mastery_summary"`
	StrongLetters   []LetterMastery              `json:"strong_letters"`
	WeakLetters     []LetterMastery              `json:"weak_letters"`
	LevelProgress   progression.Progress         `json:"level_progress"`
	LevelInfo       progression.LevelDescription `json:"level_info"`
}

// Bootstrap returns the user's standing: recent scores, strongest and
// weakest letters, the full mastery bucketing, and level state. Overdue
// spaced-repetition decay is applied here, the one natural read point before
// a new quiz.
func (s *UserService) Bootstrap(ctx context.Context, id string) (*BootstrapData, error) {
	user, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	stats, err := s.stats.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load letter stats: %w", err)
	}
	for i := range stats {
		if s.scheduler.Decay(&stats[i], now) {
			if err := s.stats.Upsert(ctx, &stats[i]); err != nil {
				return nil, fmt.Errorf("save decayed stat: %w", err)
			}
		}
	}

	recent, err := s.quizzes.FindRecentCompleted(ctx, user.ID, s.cfg.RecentHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load quiz history: %w", err)
	}
	history := make([]QuizScore, 0, len(recent))
	var accSum float64
	var accCount int
	for _, q := range recent {
		history = append(history, QuizScore{QuizID: q.ID, CorrectCount: q.CorrectCount, Accuracy: q.Accuracy})
		if q.Accuracy != nil {
			accSum += *q.Accuracy
			accCount++
		}
	}
	var avg *float64
	if accCount > 0 {
		v := accSum / float64(accCount)
		avg = &v
	}

	total, err := s.quizzes.CountCompleted(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count completed quizzes: %w", err)
	}

	summary := s.bucketMastery(stats)
	data := &BootstrapData{
		UserID:          user.ID,
		TotalQuizzes:    total,
		AverageAccuracy: avg,
		QuizHistory:     history,
		MasterySummary:  summary,
		StrongLetters:   topN(summary.Strong, s.cfg.WeakSummaryCount),
		WeakLetters:     topN(summary.Weak, s.cfg.WeakSummaryCount),
		LevelProgress:   s.evaluator.ProgressFor(user),
		LevelInfo:       s.evaluator.Describe(user.CurrentLevel),
	}
	return data, nil
}

// LevelData is the level endpoint payload: where the user stands, what the
// level means mechanically, and every promotion so far.
type LevelData struct {
	LevelProgress progression.Progress         `json:"level_progress"`
	LevelInfo     progression.LevelDescription `json:"level_info"`
	Transitions   []models.LevelTransition     `json:"transitions"`
}

// Level returns the user's level standing and promotion history.
func (s *UserService) Level(ctx context.Context, id string) (*LevelData, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	transitions, err := s.levels.FindByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load level transitions: %w", err)
	}
	return &LevelData{
		LevelProgress: s.evaluator.ProgressFor(user),
		LevelInfo:     s.evaluator.Describe(user.CurrentLevel),
		Transitions:   transitions,
	}, nil
}

// bucketMastery sorts seen letters into strong/ok/weak. Mastered letters are
// strong; the rest split on mastery score. Strong and ok sort best first,
// weak sorts worst first.
func (s *UserService) bucketMastery(stats []models.LetterStat) MasterySummary {
	summary := MasterySummary{
		Strong: []LetterMastery{},
		OK:     []LetterMastery{},
		Weak:   []LetterMastery{},
	}
	for _, st := range stats {
		if st.SeenCount == 0 {
			continue
		}
		letter, err := s.catalog.ByID(st.LetterID)
		if err != nil {
			continue
		}
		entry := LetterMastery{
			Name:         letter.Name,
			MasteryScore: st.MasteryScore,
			Accuracy:     accuracyOf(st.CorrectCount, st.SeenCount),
		}
		state := mastery.Classify(st.SeenCount, st.CorrectCount, st.CurrentStreak)
		switch {
		case state == mastery.StateMastered:
			summary.Strong = append(summary.Strong, entry)
		case st.MasteryScore >= s.cfg.WeakMasteryCeiling:
			summary.OK = append(summary.OK, entry)
		default:
			summary.Weak = append(summary.Weak, entry)
		}
	}
	sort.Slice(summary.Strong, func(i, j int) bool { return summary.Strong[i].MasteryScore > summary.Strong[j].MasteryScore })
	sort.Slice(summary.OK, func(i, j int) bool { return summary.OK[i].MasteryScore > summary.OK[j].MasteryScore })
	sort.Slice(summary.Weak, func(i, j int) bool { return summary.Weak[i].MasteryScore < summary.Weak[j].MasteryScore })
	return summary
}

func topN(entries []LetterMastery, n int) []LetterMastery {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
