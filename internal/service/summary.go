package service

import (
	"context"
	"fmt"
	"sort"

	"greek-quiz-service/internal/models"
	"greek-quiz-service/internal/progression"
)

// QuizScore is one entry of the recent-result history.
type QuizScore struct {
	QuizID       string   `json:"quiz_id"`
	CorrectCount int      `json:"correct_count"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
}

// WeakLetter is a letter flagged as needing work, with the evidence.
type WeakLetter struct {
	Name         string  `json:"name"`
	MasteryScore float64 `json:"mastery_score"`
	Accuracy     float64 `json:"accuracy"`
}

// LevelUp reports a promotion that happened when the quiz finalized.
type LevelUp struct {
	FromLevel   int `json:"from_level"`
	ToLevel     int `json:"to_level"`
	StreakCount int `json:"streak_count"`
}

// QuizSummary is the terminal payload of a completed quiz.
type QuizSummary struct {
	QuizID             string               `json:"quiz_id"`
	CorrectCount       int                  `json:"correct_count"`
	QuestionCount      int                  `json:"question_count"`
	Accuracy           float64              `json:"accuracy"`
	AccuracyPercentage float64              `json:"accuracy_percentage"`
	StrongLetters      []string             `json:"strong_letters"`
	WeakLetters        []string             `json:"weak_letters"`
	QuizHistory        []QuizScore          `json:"quiz_history"`
	OverallWeakLetters []WeakLetter         `json:"overall_weak_letters"`
	LevelProgress      progression.Progress `json:"level_progress"`
	LevelUp            *LevelUp             `json:"level_up,omitempty"`
}

// Summary returns the terminal summary of a completed quiz.
func (s *QuizService) Summary(ctx context.Context, quizID, userID string) (*QuizSummary, error) {
	if quizID == "" || userID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidInput)
	}
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if !quiz.Completed() {
		return nil, fmt.Errorf("%w: quiz %s is not completed", ErrInvalidInput, quizID)
	}
	user, err := s.users.FindByID(ctx, quiz.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return s.buildSummary(ctx, quiz, user)
}

// buildSummary assembles the terminal summary from persisted state only, so
// the live finalization path and an idempotent replay produce the same
// document.
func (s *QuizService) buildSummary(ctx context.Context, quiz *models.QuizAttempt, user *models.User) (*QuizSummary, error) {
	questions, err := s.questions.FindByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	strong, weak := s.sessionStrengths(questions)

	recent, err := s.quizzes.FindRecentCompleted(ctx, user.ID, s.cfg.RecentHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load quiz history: %w", err)
	}
	history := make([]QuizScore, 0, len(recent))
	for _, q := range recent {
		history = append(history, QuizScore{QuizID: q.ID, CorrectCount: q.CorrectCount, Accuracy: q.Accuracy})
	}

	weakStats, err := s.stats.FindWeakest(ctx, user.ID, s.cfg.WeakMinAttempts, s.cfg.WeakMasteryCeiling, s.cfg.WeakSummaryCount)
	if err != nil {
		return nil, fmt.Errorf("load weak letters: %w", err)
	}
	overallWeak := make([]WeakLetter, 0, len(weakStats))
	for _, st := range weakStats {
		letter, err := s.catalog.ByID(st.LetterID)
		if err != nil {
			continue
		}
		overallWeak = append(overallWeak, WeakLetter{
			Name:         letter.Name,
			MasteryScore: st.MasteryScore,
			Accuracy:     accuracyOf(st.CorrectCount, st.SeenCount),
		})
	}

	accuracy := 0.0
	if quiz.Accuracy != nil {
		accuracy = *quiz.Accuracy
	}

	summary := &QuizSummary{
		QuizID:             quiz.ID,
		CorrectCount:       quiz.CorrectCount,
		QuestionCount:      quiz.QuestionCount,
		Accuracy:           accuracy,
		AccuracyPercentage: roundPct(accuracy * 100),
		StrongLetters:      strong,
		WeakLetters:        weak,
		QuizHistory:        history,
		OverallWeakLetters: overallWeak,
		LevelProgress:      s.evaluator.ProgressFor(user),
	}

	// A transition stamped with this quiz's completion time means the quiz
	// itself triggered the promotion; replays re-derive it the same way.
	if quiz.CompletedAt != nil {
		transitions, err := s.levels.FindByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("load level transitions: %w", err)
		}
		for _, t := range transitions {
			if t.AchievedAt.Equal(*quiz.CompletedAt) {
				summary.LevelUp = &LevelUp{
					FromLevel:   t.FromLevel,
					ToLevel:     t.ToLevel,
					StreakCount: t.StreakAtLevel,
				}
				break
			}
		}
	}

	return summary, nil
}

// sessionStrengths surfaces letters the user aced or flunked within this
// quiz: all appearances correct reads as strong, none correct as weak.
func (s *QuizService) sessionStrengths(questions []models.QuizQuestion) (strong, weak []string) {
	type perf struct{ correct, total int }
	byLetter := make(map[int]*perf)
	for i := range questions {
		q := &questions[i]
		p, ok := byLetter[q.LetterID]
		if !ok {
			p = &perf{}
			byLetter[q.LetterID] = p
		}
		p.total++
		if q.IsCorrect != nil && *q.IsCorrect {
			p.correct++
		}
	}

	strong = []string{}
	weak = []string{}
	for letterID, p := range byLetter {
		if p.total < s.cfg.MinOccurrencesInSum {
			continue
		}
		letter, err := s.catalog.ByID(letterID)
		if err != nil {
			continue
		}
		switch {
		case p.correct == p.total:
			strong = append(strong, letter.Name)
		case p.correct == 0:
			weak = append(weak, letter.Name)
		}
	}
	sort.Strings(strong)
	sort.Strings(weak)
	return strong, weak
}

func accuracyOf(correct, seen int) float64 {
	if seen == 0 {
		return 0
	}
	return float64(correct) / float64(seen)
}

func roundPct(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
