package config

import (
	"os"
	"strconv"
	"time"
)

// Quiz holds the tunable constants of the quiz engine. Every threshold that
// gates selection, mastery, or progression lives here so tests can exercise
// boundary values without touching the algorithms.
type Quiz struct {
	QuestionsPerQuiz int // questions in one session
	DistractorCount  int // wrong options per question at levels 1-2

	// Adaptive selection
	AdaptiveThreshold int     // completed quizzes before adaptive mode activates
	LookbackWindow    int     // avoid repeating a letter within this many picks
	WeakRatio         float64 // share of adaptive picks drawn from weak letters

	// Level progression
	MaxLevel       int // highest difficulty level
	RequiredStreak int // consecutive perfect quizzes per level-up

	// Per-level question mechanics, indexed by level (1-based)
	AudioRatios           map[int]float64
	LevelDistractorCounts map[int]int

	// Spaced repetition
	SRIntervalsDays     []int   // review intervals by interval level
	SRMinMastery        float64 // mastery needed to enter the review schedule
	SRDecayPerDay       float64 // mastery lost per day a review is overdue
	SRPriorityWeight    float64 // selection weight boost for due letters
	AudioPathTemplate   string  // fmt template, letter name lowercased
	RecentHistoryLimit  int     // quiz results returned in summaries
	WeakSummaryCount    int     // weakest letters highlighted in summaries
	WeakMasteryCeiling  float64 // mastery below this reads as weak
	WeakMinAttempts     int     // attempts before a letter can be called weak
	MinOccurrencesInSum int     // appearances in a quiz before a letter enters strength analysis
}

// DefaultQuiz returns the production quiz configuration.
func DefaultQuiz() *Quiz {
	return &Quiz{
		QuestionsPerQuiz:  14,
		DistractorCount:   3,
		AdaptiveThreshold: 10,
		LookbackWindow:    3,
		WeakRatio:         0.6,
		MaxLevel:          3,
		RequiredStreak:    10,
		AudioRatios: map[int]float64{
			1: 0.4,
			2: 0.65,
			3: 0.8,
		},
		LevelDistractorCounts: map[int]int{
			1: 3,
			2: 3,
			3: 2,
		},
		SRIntervalsDays:     []int{1, 3, 7, 14, 30},
		SRMinMastery:        0.8,
		SRDecayPerDay:       0.02,
		SRPriorityWeight:    2.0,
		AudioPathTemplate:   "/static/audio/%s.mp3",
		RecentHistoryLimit:  10,
		WeakSummaryCount:    5,
		WeakMasteryCeiling:  0.5,
		WeakMinAttempts:     3,
		MinOccurrencesInSum: 1,
	}
}

// Server holds process-level settings loaded from the environment.
type Server struct {
	BindAddr     string
	MongoURI     string
	MongoDB      string
	RabbitURI    string
	RabbitXchg   string
	CORSOrigins  []string
	MongoTimeout time.Duration
}

// LoadServer reads server settings from the environment, applying defaults
// for everything except MONGO_URI, which the caller must check.
func LoadServer() *Server {
	return &Server{
		BindAddr:     getEnv("BIND_ADDR", ":8080"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "greek_quiz"),
		RabbitURI:    os.Getenv("RABBITMQ_URI"),
		RabbitXchg:   os.Getenv("RABBITMQ_EXCHANGE"),
		CORSOrigins:  []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		MongoTimeout: time.Duration(getEnvInt("MONGO_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
