// Package progression tracks the consecutive-perfect-quiz streak and decides
// difficulty-level promotions.
package progression

import (
	"time"

	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/models"
)

// Result reports what a completed quiz did to the user's level state. The
// caller persists the mutated user and, when Transition is non-nil, appends
// the transition record in the same transaction.
type Result struct {
	WasPerfect bool
	LeveledUp  bool
	Transition *models.LevelTransition
}

// Evaluator applies level-progression rules.
type Evaluator struct {
	cfg *config.Quiz
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(cfg *config.Quiz) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate updates the user's streak for a completed quiz and promotes a
// level when the streak reaches the required length. A non-perfect quiz
// resets the streak; at the maximum level no promotion happens regardless of
// streak. Mutates user in place.
func (e *Evaluator) Evaluate(user *models.User, wasPerfect bool, now time.Time) Result {
	if !wasPerfect {
		user.PerfectStreak = 0
		return Result{WasPerfect: false}
	}

	user.PerfectStreak++

	if user.CurrentLevel >= e.cfg.MaxLevel || user.PerfectStreak < e.cfg.RequiredStreak {
		return Result{WasPerfect: true}
	}

	transition := &models.LevelTransition{
		UserID:        user.ID,
		FromLevel:     user.CurrentLevel,
		ToLevel:       user.CurrentLevel + 1,
		AchievedAt:    now,
		StreakAtLevel: user.PerfectStreak,
	}

	user.CurrentLevel++
	user.LevelUpCount++
	user.PerfectStreak = 0

	return Result{WasPerfect: true, LeveledUp: true, Transition: transition}
}

// Progress describes how far a user is from the next level.
type Progress struct {
	CurrentLevel       int     `json:"current_level"`
	MaxLevel           int     `json:"max_level"`
	CanLevelUp         bool    `json:"can_level_up"`
	PerfectStreak      int     `json:"perfect_streak"`
	RequiredStreak     int     `json:"required_streak"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// ProgressFor summarizes the user's progress toward the next level.
func (e *Evaluator) ProgressFor(user *models.User) Progress {
	p := Progress{
		CurrentLevel:   user.CurrentLevel,
		MaxLevel:       e.cfg.MaxLevel,
		CanLevelUp:     user.CurrentLevel < e.cfg.MaxLevel,
		PerfectStreak:  user.PerfectStreak,
		RequiredStreak: e.cfg.RequiredStreak,
	}
	if p.CanLevelUp {
		pct := float64(user.PerfectStreak) / float64(e.cfg.RequiredStreak) * 100
		p.ProgressPercentage = float64(int(pct*10+0.5)) / 10
	}
	return p
}

// LevelDescription names the mechanics of one difficulty level.
type LevelDescription struct {
	Level           int    `json:"level"`
	Name            string `json:"name"`
	AudioPercent    int    `json:"audio_percent"`
	DistractorCount int    `json:"distractor_count"`
	DistractorType  string `json:"distractor_type"`
	Description     string `json:"description"`
}

var levelNames = map[int]string{1: "Beginner", 2: "Intermediate", 3: "Advanced"}

var levelDescriptions = map[int]string{
	1: "Mixed visual and audio questions with random distractors",
	2: "More audio questions with visually/phonetically similar distractors",
	3: "Mostly audio questions with fewer, visually similar options",
}

// Describe returns the mechanics for a level, falling back to level 1 for
// out-of-range values.
func (e *Evaluator) Describe(level int) LevelDescription {
	if level < 1 || level > e.cfg.MaxLevel {
		level = 1
	}
	distractorType := "random"
	if level > 1 {
		distractorType = "similar"
	}
	return LevelDescription{
		Level:           level,
		Name:            levelNames[level],
		AudioPercent:    int(e.cfg.AudioRatios[level] * 100),
		DistractorCount: e.cfg.LevelDistractorCounts[level],
		DistractorType:  distractorType,
		Description:     levelDescriptions[level],
	}
}
