package selection

import (
	"math/rand"
	"testing"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/models"
)

func newTestSelector(cat *catalog.Catalog, seed int64) *Selector {
	return NewSelector(cat, config.DefaultQuiz(), rand.New(rand.NewSource(seed)))
}

func TestSelectLettersEmptyCatalog(t *testing.T) {
	s := newTestSelector(catalog.New(nil), 1)
	_, err := s.SelectLetters(nil, 0, 14, nil)
	if err != ErrNoContent {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestColdStartIsDeterministicLeastSeen(t *testing.T) {
	cat := catalog.Default()
	s := newTestSelector(cat, 1)

	picked, err := s.SelectLetters(map[int]models.LetterStat{}, 0, 14, nil)
	if err != nil {
		t.Fatalf("SelectLetters failed: %v", err)
	}
	if len(picked) != 14 {
		t.Fatalf("expected 14 letters, got %d", len(picked))
	}

	// With no history every letter is equally unseen, so the draw walks the
	// alphabet in position order.
	for i, l := range picked {
		if l.Position != i+1 {
			t.Errorf("pick %d: expected position %d, got %s at %d", i, i+1, l.Name, l.Position)
		}
	}
}

func TestColdStartPrefersLeastSeen(t *testing.T) {
	cat := catalog.Default()
	s := newTestSelector(cat, 1)

	// Everything seen three times except Omega.
	stats := map[int]models.LetterStat{}
	for _, l := range cat.Letters() {
		if l.Name == "Omega" {
			continue
		}
		stats[l.ID] = models.LetterStat{LetterID: l.ID, SeenCount: 3}
	}

	picked, err := s.SelectLetters(stats, 0, 14, nil)
	if err != nil {
		t.Fatalf("SelectLetters failed: %v", err)
	}
	if picked[0].Name != "Omega" {
		t.Errorf("expected the only unseen letter first, got %s", picked[0].Name)
	}
}

func TestNoRepeatsWithinDraw(t *testing.T) {
	cat := catalog.Default()
	for seed := int64(0); seed < 20; seed++ {
		s := newTestSelector(cat, seed)
		picked, err := s.SelectLetters(map[int]models.LetterStat{}, 50, 14, nil)
		if err != nil {
			t.Fatalf("seed %d: SelectLetters failed: %v", seed, err)
		}
		seen := map[int]bool{}
		for _, l := range picked {
			if seen[l.ID] {
				t.Fatalf("seed %d: letter %s repeated within the draw", seed, l.Name)
			}
			seen[l.ID] = true
		}
	}
}

func TestSmallCatalogRepeatsOnlyAfterFullCoverage(t *testing.T) {
	small := catalog.New([]catalog.Letter{
		{ID: 1, Name: "Alpha", Uppercase: "Α", Lowercase: "α", Position: 1},
		{ID: 2, Name: "Beta", Uppercase: "Β", Lowercase: "β", Position: 2},
		{ID: 3, Name: "Gamma", Uppercase: "Γ", Lowercase: "γ", Position: 3},
		{ID: 4, Name: "Delta", Uppercase: "Δ", Lowercase: "δ", Position: 4},
	})
	s := newTestSelector(small, 1)

	picked, err := s.SelectLetters(map[int]models.LetterStat{}, 0, 10, nil)
	if err != nil {
		t.Fatalf("SelectLetters failed: %v", err)
	}
	if len(picked) != 10 {
		t.Fatalf("expected 10 letters, got %d", len(picked))
	}

	counts := map[int]int{}
	for i, l := range picked {
		// A letter may only repeat once every other letter has appeared as
		// often, so after k full passes every count is k or k+1.
		counts[l.ID]++
		for id, n := range counts {
			if counts[l.ID] > n+1 {
				t.Fatalf("pick %d: letter %d at %d appearances while letter %d has %d", i, l.ID, counts[l.ID], id, n)
			}
		}
	}
}

func TestAdaptiveModePicksWeakLetterFirst(t *testing.T) {
	cat := catalog.Default()
	s := newTestSelector(cat, 1)

	// All letters mastered at full strength except Psi, which is struggling.
	stats := map[int]models.LetterStat{}
	for _, l := range cat.Letters() {
		stats[l.ID] = models.LetterStat{
			LetterID: l.ID, SeenCount: 10, CorrectCount: 10, CurrentStreak: 5, MasteryScore: 1.0,
		}
	}
	psi, _ := cat.ByName("Psi")
	stats[psi.ID] = models.LetterStat{
		LetterID: psi.ID, SeenCount: 10, CorrectCount: 2, CurrentStreak: 0, MasteryScore: 0.16,
	}

	picked, err := s.SelectLetters(stats, 10, 14, nil)
	if err != nil {
		t.Fatalf("SelectLetters failed: %v", err)
	}
	if picked[0].Name != "Psi" {
		t.Errorf("expected the only weak letter first in adaptive mode, got %s", picked[0].Name)
	}
}

func TestAdaptiveModeTreatsUnseenAsWeak(t *testing.T) {
	cat := catalog.Default()
	s := newTestSelector(cat, 1)

	// Everything mastered, Chi never seen: the weak portion must reach for it.
	stats := map[int]models.LetterStat{}
	chi, _ := cat.ByName("Chi")
	for _, l := range cat.Letters() {
		if l.ID == chi.ID {
			continue
		}
		stats[l.ID] = models.LetterStat{
			LetterID: l.ID, SeenCount: 10, CorrectCount: 10, CurrentStreak: 5, MasteryScore: 1.0,
		}
	}

	picked, err := s.SelectLetters(stats, 10, 14, nil)
	if err != nil {
		t.Fatalf("SelectLetters failed: %v", err)
	}
	if picked[0].Name != "Chi" {
		t.Errorf("expected the unseen letter first, got %s", picked[0].Name)
	}
}

func TestBoostRaisesSelectionOdds(t *testing.T) {
	cat := catalog.Default()

	// Two equally weak letters; Tau gets a large review boost. Over many
	// seeded draws Tau must win the first pick far more often.
	tau, _ := cat.ByName("Tau")
	xi, _ := cat.ByName("Xi")

	stats := map[int]models.LetterStat{}
	for _, l := range cat.Letters() {
		stats[l.ID] = models.LetterStat{
			LetterID: l.ID, SeenCount: 10, CorrectCount: 10, CurrentStreak: 5, MasteryScore: 1.0,
		}
	}
	stats[tau.ID] = models.LetterStat{LetterID: tau.ID, SeenCount: 10, CorrectCount: 5, MasteryScore: 0.4}
	stats[xi.ID] = models.LetterStat{LetterID: xi.ID, SeenCount: 10, CorrectCount: 5, MasteryScore: 0.4}

	boost := func(stat *models.LetterStat) float64 {
		if stat != nil && stat.LetterID == tau.ID {
			return 50.0
		}
		return 1.0
	}

	tauFirst := 0
	for seed := int64(0); seed < 100; seed++ {
		s := newTestSelector(cat, seed)
		picked, err := s.SelectLetters(stats, 10, 14, boost)
		if err != nil {
			t.Fatalf("seed %d: SelectLetters failed: %v", seed, err)
		}
		if picked[0].ID == tau.ID {
			tauFirst++
		}
	}
	if tauFirst < 80 {
		t.Errorf("expected the boosted letter to dominate first picks, won %d/100", tauFirst)
	}
}

func TestLookbackSpacing(t *testing.T) {
	small := catalog.New([]catalog.Letter{
		{ID: 1, Name: "Alpha", Uppercase: "Α", Lowercase: "α", Position: 1},
		{ID: 2, Name: "Beta", Uppercase: "Β", Lowercase: "β", Position: 2},
		{ID: 3, Name: "Gamma", Uppercase: "Γ", Lowercase: "γ", Position: 3},
		{ID: 4, Name: "Delta", Uppercase: "Δ", Lowercase: "δ", Position: 4},
		{ID: 5, Name: "Epsilon", Uppercase: "Ε", Lowercase: "ε", Position: 5},
		{ID: 6, Name: "Zeta", Uppercase: "Ζ", Lowercase: "ζ", Position: 6},
	})

	for seed := int64(0); seed < 20; seed++ {
		s := newTestSelector(small, seed)
		picked, err := s.SelectLetters(map[int]models.LetterStat{}, 0, 12, nil)
		if err != nil {
			t.Fatalf("seed %d: SelectLetters failed: %v", seed, err)
		}
		for i, l := range picked {
			for j := i - 3; j < i; j++ {
				if j < 0 {
					continue
				}
				if picked[j].ID == l.ID {
					t.Fatalf("seed %d: letter %s repeated within lookback window at picks %d and %d", seed, l.Name, j, i)
				}
			}
		}
	}
}
