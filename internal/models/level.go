package models

import "time"

// LevelTransition is an append-only record of a difficulty promotion.
// Written exactly once per level-up, never mutated.
type LevelTransition struct {
	ID            string    `bson:"_id" json:"id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	FromLevel     int       `bson:"from_level" json:"from_level"`
	ToLevel       int       `bson:"to_level" json:"to_level"`
	AchievedAt    time.Time `bson:"achieved_at" json:"achieved_at"`
	StreakAtLevel int       `bson:"streak_at_transition" json:"streak_at_transition"`
}
