package models

import "time"

// User is an anonymous learner identified by an opaque key. It carries the
// difficulty-level state used by quiz generation and level progression.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastActiveAt time.Time `bson:"last_active_at" json:"last_active_at"`

	CurrentLevel  int `bson:"current_level" json:"current_level"`
	PerfectStreak int `bson:"consecutive_perfect_streak" json:"consecutive_perfect_streak"`
	LevelUpCount  int `bson:"level_up_count" json:"level_up_count"`
}
