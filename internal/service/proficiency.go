package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greek-quiz-service/internal/mastery"
	"greek-quiz-service/internal/models"
	"greek-quiz-service/internal/repository"
	"greek-quiz-service/internal/srs"
)

// Proficiency owns per-user per-letter performance records. RecordAnswer is
// its only mutation and is always called inside the transaction that scores
// the owning question.
type Proficiency struct {
	stats     StatStore
	scheduler *srs.Scheduler
}

func NewProficiency(stats StatStore, scheduler *srs.Scheduler) *Proficiency {
	return &Proficiency{stats: stats, scheduler: scheduler}
}

// RecordAnswer folds one answer into the letter's stat, creating the stat on
// first exposure. Counters, streaks, the derived mastery score, and the
// spaced-repetition schedule all move together; the caller's transaction
// makes it atomic with the question update.
func (p *Proficiency) RecordAnswer(ctx context.Context, userID string, letterID int, wasCorrect bool, now time.Time) (*models.LetterStat, error) {
	stat, err := p.stats.FindOne(ctx, userID, letterID)
	if errors.Is(err, repository.ErrNoDocument) {
		stat = &models.LetterStat{UserID: userID, LetterID: letterID}
	} else if err != nil {
		return nil, fmt.Errorf("load letter stat: %w", err)
	}

	stat.SeenCount++
	if wasCorrect {
		stat.CorrectCount++
		stat.CurrentStreak++
		if stat.CurrentStreak > stat.LongestStreak {
			stat.LongestStreak = stat.CurrentStreak
		}
		stat.LastResult = models.ResultCorrect
	} else {
		stat.IncorrectCount++
		stat.CurrentStreak = 0
		stat.LastResult = models.ResultIncorrect
	}
	stat.LastSeenAt = &now
	stat.MasteryScore = mastery.Score(stat.SeenCount, stat.CorrectCount, stat.CurrentStreak)

	p.scheduler.Update(stat, wasCorrect, now)

	if err := p.stats.Upsert(ctx, stat); err != nil {
		return nil, fmt.Errorf("save letter stat: %w", err)
	}
	return stat, nil
}
