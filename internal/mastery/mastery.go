// Package mastery derives a proficiency score and state from raw answer
// counters. Pure functions only: callers own persistence.
package mastery

// State classifies how well a learner knows a letter.
type State string

const (
	StateUnseen   State = "unseen"
	StateLearning State = "learning"
	StateMastered State = "mastered"
)

const (
	minAttempts       = 3   // below this the score is capped
	lowEvidenceCap    = 0.4 // max score with too little evidence
	accuracyWeight    = 0.8
	streakBonusStep   = 0.04
	maxStreakForBonus = 5

	masteredMinAttempts = 8
	masteredMinAccuracy = 0.9
	masteredMinStreak   = 3
)

// Score computes the mastery score in [0,1] for the given counters.
//
// With fewer than 3 sightings the score is capped at 0.4: thin evidence must
// never read as mastered. Otherwise accuracy carries 80% of the score and a
// streak bonus (capped at 5 correct in a row) the remaining 20%.
func Score(seen, correct, streak int) float64 {
	if seen == 0 {
		return 0.0
	}

	accuracy := float64(correct) / float64(seen)

	if seen < minAttempts {
		return minF(accuracy*0.5, lowEvidenceCap)
	}

	bonus := float64(minI(streak, maxStreakForBonus)) * streakBonusStep
	return clamp01(accuracy*accuracyWeight + bonus)
}

// Classify returns the mastery state for the given counters. MASTERED
// requires 8+ sightings, 90%+ accuracy, and a current streak of 3+.
func Classify(seen, correct, streak int) State {
	if seen == 0 {
		return StateUnseen
	}

	accuracy := float64(correct) / float64(seen)
	if seen >= masteredMinAttempts && accuracy >= masteredMinAccuracy && streak >= masteredMinStreak {
		return StateMastered
	}
	return StateLearning
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}
