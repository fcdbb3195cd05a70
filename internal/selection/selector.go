// Package selection picks the letters a learner should be quizzed on next.
//
// Two strategies apply, gated by how many quizzes the learner has completed:
// balanced coverage while evidence is thin, then a weighted split between
// weak letters and general coverage once enough history exists.
package selection

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/mastery"
	"greek-quiz-service/internal/models"
)

// ErrNoContent is returned when the letter catalog is empty.
var ErrNoContent = errors.New("no letters available for selection")

// BoostFunc returns a multiplicative weight boost for a letter's stat, or 1.0
// for neutral. Used to prioritize letters due for spaced-repetition review.
// The stat is nil for letters the user has never seen.
type BoostFunc func(stat *models.LetterStat) float64

// Selector chooses quiz letters from a fixed catalog.
type Selector struct {
	catalog *catalog.Catalog
	cfg     *config.Quiz
	rng     *rand.Rand
}

// NewSelector creates a selector. A nil rng gets a time-seeded source; tests
// pass a fixed seed for reproducible draws.
func NewSelector(cat *catalog.Catalog, cfg *config.Quiz, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{catalog: cat, cfg: cfg, rng: rng}
}

// SelectLetters returns an ordered draw of count letters for a new quiz.
//
// Cold-start mode (fewer than the adaptive threshold of completed quizzes)
// spreads exposure: each pick takes the least-seen eligible letter, counting
// picks made earlier in this draw as exposure, with alphabet position as the
// deterministic tie-break.
//
// Adaptive mode splits the draw: the first weakRatio share of picks is drawn
// from non-mastered letters with weights proportional to their weakness
// (1 - mastery score), sampled without replacement by cumulative-weight
// inversion; the rest is drawn uniformly from the whole catalog.
//
// Across the whole draw a letter picked within the lookback window is
// excluded from the next pick, and no letter repeats until every other letter
// has appeared, unless the catalog is too small for either rule to hold.
func (s *Selector) SelectLetters(stats map[int]models.LetterStat, completedQuizzes, count int, boost BoostFunc) ([]catalog.Letter, error) {
	letters := s.catalog.Letters()
	if len(letters) == 0 {
		return nil, ErrNoContent
	}
	if boost == nil {
		boost = func(*models.LetterStat) float64 { return 1.0 }
	}

	adaptive := completedQuizzes >= s.cfg.AdaptiveThreshold
	weakPicks := int(float64(count) * s.cfg.WeakRatio)

	picked := make([]catalog.Letter, 0, count)
	inDraw := make(map[int]int, len(letters))

	for i := 0; i < count; i++ {
		eligible := s.eligibleLetters(letters, picked, inDraw)

		var choice catalog.Letter
		switch {
		case adaptive && i < weakPicks:
			choice = s.pickWeak(eligible, stats, boost)
		case adaptive:
			choice = eligible[s.rng.Intn(len(eligible))]
		default:
			choice = pickLeastSeen(eligible, stats)
		}

		picked = append(picked, choice)
		inDraw[choice.ID]++
	}

	return picked, nil
}

// eligibleLetters applies the two draw-wide exclusion rules: no letter
// repeats until every letter has appeared as often, and letters picked within
// the lookback window are skipped. Each rule is relaxed rather than failing
// when it would leave nothing to pick.
func (s *Selector) eligibleLetters(letters []catalog.Letter, picked []catalog.Letter, inDraw map[int]int) []catalog.Letter {
	minRound := inDraw[letters[0].ID]
	for _, l := range letters[1:] {
		if inDraw[l.ID] < minRound {
			minRound = inDraw[l.ID]
		}
	}

	round := make([]catalog.Letter, 0, len(letters))
	for _, l := range letters {
		if inDraw[l.ID] == minRound {
			round = append(round, l)
		}
	}

	recent := make(map[int]bool, s.cfg.LookbackWindow)
	start := len(picked) - s.cfg.LookbackWindow
	if start < 0 {
		start = 0
	}
	for _, l := range picked[start:] {
		recent[l.ID] = true
	}

	eligible := make([]catalog.Letter, 0, len(round))
	for _, l := range round {
		if !recent[l.ID] {
			eligible = append(eligible, l)
		}
	}
	if len(eligible) == 0 {
		// Catalog exhausted of alternatives: relax the lookback rule.
		return round
	}
	return eligible
}

// pickWeak draws one letter weighted by weakness from the non-mastered subset
// of eligible. Falls back to a uniform pick when every eligible letter is
// mastered or has no weakness left.
func (s *Selector) pickWeak(eligible []catalog.Letter, stats map[int]models.LetterStat, boost BoostFunc) catalog.Letter {
	weak := make([]catalog.Letter, 0, len(eligible))
	weights := make([]float64, 0, len(eligible))

	for _, l := range eligible {
		stat, ok := stats[l.ID]
		if !ok {
			// Unseen letters are maximally weak.
			weak = append(weak, l)
			weights = append(weights, 1.0*boost(nil))
			continue
		}
		state := mastery.Classify(stat.SeenCount, stat.CorrectCount, stat.CurrentStreak)
		weakness := 1.0 - stat.MasteryScore
		if state == mastery.StateMastered || weakness <= 0 {
			continue
		}
		weak = append(weak, l)
		weights = append(weights, weakness*boost(&stat))
	}

	if len(weak) == 0 {
		return eligible[s.rng.Intn(len(eligible))]
	}
	return s.weightedPick(weak, weights)
}

// weightedPick selects one letter by cumulative-weight inversion.
func (s *Selector) weightedPick(letters []catalog.Letter, weights []float64) catalog.Letter {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return letters[s.rng.Intn(len(letters))]
	}

	r := s.rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return letters[i]
		}
	}
	return letters[len(letters)-1]
}

// pickLeastSeen returns the eligible letter with the fewest sightings,
// breaking ties by alphabet position so cold-start draws are deterministic.
func pickLeastSeen(eligible []catalog.Letter, stats map[int]models.LetterStat) catalog.Letter {
	sorted := make([]catalog.Letter, len(eligible))
	copy(sorted, eligible)
	sort.Slice(sorted, func(i, j int) bool {
		si, sj := stats[sorted[i].ID].SeenCount, stats[sorted[j].ID].SeenCount
		if si != sj {
			return si < sj
		}
		return sorted[i].Position < sorted[j].Position
	})
	return sorted[0]
}
