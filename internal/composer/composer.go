// Package composer builds multiple-choice questions for a target letter:
// prompt, display data, and a shuffled option set that the caller persists
// verbatim so resumed quizzes replay identical choices.
package composer

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/config"
)

// Direction is the prompt/answer orientation of a question.
type Direction string

const (
	LetterToName Direction = "LETTER_TO_NAME" // show a glyph, ask for the name
	NameToUpper  Direction = "NAME_TO_UPPER"  // show the name, ask for the uppercase glyph
	NameToLower  Direction = "NAME_TO_LOWER"  // show the name, ask for the lowercase glyph
	AudioToUpper Direction = "AUDIO_TO_UPPER" // play audio, ask for the uppercase glyph
	AudioToLower Direction = "AUDIO_TO_LOWER" // play audio, ask for the lowercase glyph
)

var visualDirections = []Direction{LetterToName, NameToUpper, NameToLower}
var audioDirections = []Direction{AudioToUpper, AudioToLower}

// DistractorPolicy controls where wrong options come from.
type DistractorPolicy int

const (
	// PolicyRandom draws distractors uniformly from the catalog.
	PolicyRandom DistractorPolicy = iota
	// PolicyConfusable prefers letters confusable with the target, filling
	// remaining slots uniformly when the table has too few entries.
	PolicyConfusable
)

// Question is the composed display and scoring data for one question.
type Question struct {
	Letter        catalog.Letter
	Direction     Direction
	Prompt        string
	DisplayLetter string
	AudioFile     string
	Options       []string
	CorrectOption string
}

// Composer formats questions over a fixed catalog.
type Composer struct {
	catalog *catalog.Catalog
	cfg     *config.Quiz
	rng     *rand.Rand
}

// NewComposer creates a composer. A nil rng gets a time-seeded source.
func NewComposer(cat *catalog.Catalog, cfg *config.Quiz, rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{catalog: cat, cfg: cfg, rng: rng}
}

// Compose builds a question for the target letter in the given direction with
// distractorCount wrong options. Failing to produce at least two total
// options means the catalog is misconfigured; that error is fatal, not
// per-request recoverable.
func (c *Composer) Compose(letter catalog.Letter, direction Direction, policy DistractorPolicy, distractorCount int) (*Question, error) {
	distractors := c.drawDistractors(letter, policy, distractorCount)
	if len(distractors)+1 < 2 {
		return nil, fmt.Errorf("catalog too small: %d options for letter %s", len(distractors)+1, letter.Name)
	}

	q := &Question{Letter: letter, Direction: direction}

	switch direction {
	case LetterToName:
		q.Prompt = "Which letter is this?"
		if c.rng.Intn(2) == 0 {
			q.DisplayLetter = letter.Uppercase
		} else {
			q.DisplayLetter = letter.Lowercase
		}
		q.CorrectOption = letter.Name
		q.Options = append(q.Options, letter.Name)
		for _, d := range distractors {
			q.Options = append(q.Options, d.Name)
		}
	case NameToUpper:
		q.Prompt = fmt.Sprintf("Select the uppercase form of %s", letter.Name)
		q.CorrectOption = letter.Uppercase
		q.Options = append(q.Options, letter.Uppercase)
		for _, d := range distractors {
			q.Options = append(q.Options, d.Uppercase)
		}
	case NameToLower:
		q.Prompt = fmt.Sprintf("Select the lowercase form of %s", letter.Name)
		q.CorrectOption = letter.Lowercase
		q.Options = append(q.Options, letter.Lowercase)
		for _, d := range distractors {
			q.Options = append(q.Options, d.Lowercase)
		}
	case AudioToUpper:
		q.Prompt = "Listen and select the uppercase form of this letter"
		q.AudioFile = c.audioPath(letter)
		q.CorrectOption = letter.Uppercase
		q.Options = append(q.Options, letter.Uppercase)
		for _, d := range distractors {
			q.Options = append(q.Options, d.Uppercase)
		}
	case AudioToLower:
		q.Prompt = "Listen and select the lowercase form of this letter"
		q.AudioFile = c.audioPath(letter)
		q.CorrectOption = letter.Lowercase
		q.Options = append(q.Options, letter.Lowercase)
		for _, d := range distractors {
			q.Options = append(q.Options, d.Lowercase)
		}
	default:
		return nil, fmt.Errorf("unknown question direction %q", direction)
	}

	c.rng.Shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})

	return q, nil
}

// drawDistractors picks up to count letters other than the target. With the
// confusable policy, table entries come first and random letters fill the
// rest. Returns fewer than count only when the catalog itself is too small.
func (c *Composer) drawDistractors(target catalog.Letter, policy DistractorPolicy, count int) []catalog.Letter {
	picked := make([]catalog.Letter, 0, count)
	used := map[int]bool{target.ID: true}

	if policy == PolicyConfusable {
		confusable := c.catalog.Confusables(target)
		c.rng.Shuffle(len(confusable), func(i, j int) {
			confusable[i], confusable[j] = confusable[j], confusable[i]
		})
		for _, l := range confusable {
			if len(picked) == count {
				break
			}
			if !used[l.ID] {
				picked = append(picked, l)
				used[l.ID] = true
			}
		}
	}

	if len(picked) < count {
		rest := make([]catalog.Letter, 0, c.catalog.Len())
		for _, l := range c.catalog.Letters() {
			if !used[l.ID] {
				rest = append(rest, l)
			}
		}
		c.rng.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		for _, l := range rest {
			if len(picked) == count {
				break
			}
			picked = append(picked, l)
		}
	}

	return picked
}

// DirectionMix returns count directions with roughly audioRatio of them audio
// based, spread evenly within the visual and audio groups, shuffled, and then
// nudged so the same direction does not cluster back to back.
func (c *Composer) DirectionMix(count int, audioRatio float64) []Direction {
	audioCount := int(float64(count) * audioRatio)
	visualCount := count - audioCount

	mix := make([]Direction, 0, count)
	mix = append(mix, spreadEven(visualDirections, visualCount)...)
	mix = append(mix, spreadEven(audioDirections, audioCount)...)

	c.rng.Shuffle(len(mix), func(i, j int) {
		mix[i], mix[j] = mix[j], mix[i]
	})

	// Break up adjacent duplicates where a later swap candidate exists.
	for i := 1; i < len(mix); i++ {
		if mix[i] != mix[i-1] {
			continue
		}
		for j := i + 1; j < len(mix); j++ {
			if mix[j] != mix[i-1] {
				mix[i], mix[j] = mix[j], mix[i]
				break
			}
		}
	}

	return mix
}

// spreadEven distributes total slots across the given directions, earlier
// directions absorbing the remainder.
func spreadEven(directions []Direction, total int) []Direction {
	out := make([]Direction, 0, total)
	if total <= 0 {
		return out
	}
	per := total / len(directions)
	rem := total % len(directions)
	for i, d := range directions {
		n := per
		if i < rem {
			n++
		}
		for k := 0; k < n; k++ {
			out = append(out, d)
		}
	}
	return out
}

func (c *Composer) audioPath(letter catalog.Letter) string {
	return fmt.Sprintf(c.cfg.AudioPathTemplate, strings.ToLower(letter.Name))
}
