package models

import "time"

// Answer results recorded on a stat.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// LetterStat is the per-user per-letter proficiency record. One exists for
// each letter a user has been exposed to; it is created lazily on first
// exposure and mutated after every answer.
type LetterStat struct {
	UserID         string     `bson:"user_id" json:"user_id"`
	LetterID       int        `bson:"letter_id" json:"letter_id"`
	SeenCount      int        `bson:"seen_count" json:"seen_count"`
	CorrectCount   int        `bson:"correct_count" json:"correct_count"`
	IncorrectCount int        `bson:"incorrect_count" json:"incorrect_count"`
	CurrentStreak  int        `bson:"current_streak" json:"current_streak"`
	LongestStreak  int        `bson:"longest_streak" json:"longest_streak"`
	LastSeenAt     *time.Time `bson:"last_seen_at,omitempty" json:"last_seen_at,omitempty"`
	LastResult     string     `bson:"last_result,omitempty" json:"last_result,omitempty"`
	MasteryScore   float64    `bson:"mastery_score" json:"mastery_score"`

	// Spaced repetition schedule
	SRIntervalLevel  int        `bson:"sr_interval_level" json:"sr_interval_level"`
	NextReviewAt     *time.Time `bson:"next_review_at,omitempty" json:"next_review_at,omitempty"`
	LastReviewResult string     `bson:"last_review_result,omitempty" json:"last_review_result,omitempty"`
}
