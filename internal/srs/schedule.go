// Package srs schedules letter reviews on expanding intervals. Letters
// advance through the interval ladder when answered correctly at high
// mastery and fall back to the start on a miss; overdue letters lose mastery
// and get a selection-weight boost until reviewed.
package srs

import (
	"time"

	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/models"
)

// Scheduler applies spaced-repetition rules to letter stats.
type Scheduler struct {
	cfg *config.Quiz
}

// NewScheduler creates a scheduler with the given interval configuration.
func NewScheduler(cfg *config.Quiz) *Scheduler {
	return &Scheduler{cfg: cfg}
}

func (s *Scheduler) maxLevel() int {
	return len(s.cfg.SRIntervalsDays) - 1
}

// nextReview returns the review time for an interval level, clamped to the
// ladder bounds.
func (s *Scheduler) nextReview(level int, now time.Time) time.Time {
	if level < 0 {
		level = 0
	}
	if level > s.maxLevel() {
		level = s.maxLevel()
	}
	return now.AddDate(0, 0, s.cfg.SRIntervalsDays[level])
}

// Update advances or resets the review schedule after an answer. A correct
// answer at scheduling mastery climbs the interval ladder; anything else
// drops back to the first interval. Mutates stat in place.
func (s *Scheduler) Update(stat *models.LetterStat, isCorrect bool, now time.Time) {
	if isCorrect && stat.MasteryScore >= s.cfg.SRMinMastery {
		if stat.SRIntervalLevel < s.maxLevel() {
			stat.SRIntervalLevel++
		}
		stat.LastReviewResult = models.ResultCorrect
	} else {
		stat.SRIntervalLevel = 0
		if isCorrect {
			stat.LastReviewResult = models.ResultCorrect
		} else {
			stat.LastReviewResult = models.ResultIncorrect
		}
	}

	next := s.nextReview(stat.SRIntervalLevel, now)
	stat.NextReviewAt = &next
}

// Decay lowers the mastery score of an overdue stat by the configured rate
// per day overdue. Returns true when the score changed.
func (s *Scheduler) Decay(stat *models.LetterStat, now time.Time) bool {
	if stat.NextReviewAt == nil || !stat.NextReviewAt.Before(now) || stat.MasteryScore <= 0 {
		return false
	}

	daysOverdue := int(now.Sub(*stat.NextReviewAt).Hours() / 24)
	if daysOverdue <= 0 {
		return false
	}

	decayed := stat.MasteryScore - float64(daysOverdue)*s.cfg.SRDecayPerDay
	if decayed < 0 {
		decayed = 0
	}
	if decayed >= stat.MasteryScore {
		return false
	}
	stat.MasteryScore = decayed
	return true
}

// Weight returns the selection-weight multiplier for a stat: boosted when the
// letter is due or overdue for review, neutral otherwise.
func (s *Scheduler) Weight(stat *models.LetterStat, now time.Time) float64 {
	if stat == nil || stat.NextReviewAt == nil {
		return 1.0
	}
	if !stat.NextReviewAt.After(now) {
		return s.cfg.SRPriorityWeight
	}
	return 1.0
}
