package composer

import (
	"math/rand"
	"strings"
	"testing"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/config"
)

func newTestComposer(seed int64) (*Composer, *catalog.Catalog) {
	cat := catalog.Default()
	return NewComposer(cat, config.DefaultQuiz(), rand.New(rand.NewSource(seed))), cat
}

func countOf(options []string, v string) int {
	n := 0
	for _, o := range options {
		if o == v {
			n++
		}
	}
	return n
}

func TestComposeEveryDirection(t *testing.T) {
	c, cat := newTestComposer(1)
	alpha, _ := cat.ByName("Alpha")

	tests := []struct {
		direction   Direction
		wantCorrect string
		wantAudio   bool
		wantDisplay bool
	}{
		{LetterToName, "Alpha", false, true},
		{NameToUpper, "Α", false, false},
		{NameToLower, "α", false, false},
		{AudioToUpper, "Α", true, false},
		{AudioToLower, "α", true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			q, err := c.Compose(alpha, tt.direction, PolicyRandom, 3)
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			if q.CorrectOption != tt.wantCorrect {
				t.Errorf("expected correct option %q, got %q", tt.wantCorrect, q.CorrectOption)
			}
			if len(q.Options) != 4 {
				t.Errorf("expected 4 options, got %d", len(q.Options))
			}
			if countOf(q.Options, q.CorrectOption) != 1 {
				t.Errorf("correct option must appear exactly once in %v", q.Options)
			}
			if q.Prompt == "" {
				t.Error("expected a non-empty prompt")
			}
			if tt.wantAudio && q.AudioFile == "" {
				t.Error("expected an audio file for an audio direction")
			}
			if !tt.wantAudio && q.AudioFile != "" {
				t.Errorf("unexpected audio file %q for visual direction", q.AudioFile)
			}
			if tt.wantDisplay && q.DisplayLetter == "" {
				t.Error("expected a display letter")
			}
		})
	}
}

func TestComposeUnknownDirection(t *testing.T) {
	c, cat := newTestComposer(1)
	alpha, _ := cat.ByName("Alpha")

	if _, err := c.Compose(alpha, Direction("BOGUS"), PolicyRandom, 3); err == nil {
		t.Error("expected an error for an unknown direction")
	}
}

func TestComposeAudioPath(t *testing.T) {
	c, cat := newTestComposer(1)
	omega, _ := cat.ByName("Omega")

	q, err := c.Compose(omega, AudioToUpper, PolicyRandom, 3)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if q.AudioFile != "/static/audio/omega.mp3" {
		t.Errorf("unexpected audio path %q", q.AudioFile)
	}
}

func TestComposeDistractorsAreDistinctAndExcludeTarget(t *testing.T) {
	c, cat := newTestComposer(7)
	theta, _ := cat.ByName("Theta")

	for i := 0; i < 50; i++ {
		q, err := c.Compose(theta, LetterToName, PolicyRandom, 3)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		seen := map[string]bool{}
		for _, o := range q.Options {
			if seen[o] {
				t.Fatalf("duplicate option %q in %v", o, q.Options)
			}
			seen[o] = true
		}
	}
}

func TestComposeConfusablePolicyPrefersSimilarLetters(t *testing.T) {
	c, cat := newTestComposer(3)
	theta, _ := cat.ByName("Theta")

	// Theta has three confusable letters, enough to fill all three slots.
	confusable := map[string]bool{}
	for _, l := range cat.Confusables(theta) {
		confusable[l.Name] = true
	}

	q, err := c.Compose(theta, LetterToName, PolicyConfusable, 3)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	for _, o := range q.Options {
		if o == "Theta" {
			continue
		}
		if !confusable[o] {
			t.Errorf("distractor %q is not confusable with Theta (options %v)", o, q.Options)
		}
	}
}

func TestComposeConfusablePolicyFillsFromCatalog(t *testing.T) {
	c, cat := newTestComposer(3)
	// Mu has no confusable letters, so all distractors come from the catalog.
	mu, _ := cat.ByName("Mu")

	q, err := c.Compose(mu, NameToUpper, PolicyConfusable, 3)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(q.Options) != 4 {
		t.Errorf("expected 4 options even without confusables, got %d", len(q.Options))
	}
}

func TestDirectionMixRatio(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		audioRatio float64
		wantAudio  int
	}{
		{"level one", 14, 0.4, 5},
		{"level two", 14, 0.65, 9},
		{"level three", 14, 0.8, 11},
		{"no audio", 6, 0.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestComposer(11)
			mix := c.DirectionMix(tt.count, tt.audioRatio)
			if len(mix) != tt.count {
				t.Fatalf("expected %d directions, got %d", tt.count, len(mix))
			}
			audio := 0
			for _, d := range mix {
				if strings.HasPrefix(string(d), "AUDIO") {
					audio++
				}
			}
			if audio != tt.wantAudio {
				t.Errorf("expected %d audio directions, got %d", tt.wantAudio, audio)
			}
		})
	}
}

func TestDirectionMixAvoidsClusters(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		c, _ := newTestComposer(seed)
		mix := c.DirectionMix(14, 0.4)

		// With five distinct directions in play a later swap candidate
		// always exists, except for the very last slot, so no interior
		// pair of adjacent slots should match.
		for i := 1; i < len(mix)-1; i++ {
			if mix[i] == mix[i-1] {
				t.Errorf("seed %d: adjacent duplicate %s at %d in %v", seed, mix[i], i, mix)
			}
		}
	}
}
