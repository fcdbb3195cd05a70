package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/composer"
	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/models"
	"greek-quiz-service/internal/progression"
	"greek-quiz-service/internal/repository"
	"greek-quiz-service/internal/selection"
	"greek-quiz-service/internal/srs"

	"github.com/google/uuid"
)

// QuizService orchestrates the quiz lifecycle: generation, resumption,
// answer scoring, and finalization.
type QuizService struct {
	users     UserStore
	stats     StatStore
	quizzes   QuizStore
	questions QuestionStore
	levels    LevelStore
	tx        TxRunner

	proficiency *Proficiency
	selector    *selection.Selector
	composer    *composer.Composer
	evaluator   *progression.Evaluator
	scheduler   *srs.Scheduler
	catalog     *catalog.Catalog
	cfg         *config.Quiz
	rng         *rand.Rand
	clock       func() time.Time
}

// NewQuizService wires the quiz engine. A nil rng gets a time-seeded source.
func NewQuizService(
	users UserStore,
	stats StatStore,
	quizzes QuizStore,
	questions QuestionStore,
	levels LevelStore,
	tx TxRunner,
	cat *catalog.Catalog,
	cfg *config.Quiz,
	rng *rand.Rand,
) *QuizService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	scheduler := srs.NewScheduler(cfg)
	return &QuizService{
		users:       users,
		stats:       stats,
		quizzes:     quizzes,
		questions:   questions,
		levels:      levels,
		tx:          tx,
		proficiency: NewProficiency(stats, scheduler),
		selector:    selection.NewSelector(cat, cfg, rng),
		composer:    composer.NewComposer(cat, cfg, rng),
		evaluator:   progression.NewEvaluator(cfg),
		scheduler:   scheduler,
		catalog:     cat,
		cfg:         cfg,
		rng:         rng,
		clock:       time.Now,
	}
}

// QuestionView is the display data for one question. It never carries the
// correct option.
type QuestionView struct {
	QuestionID      string   `json:"question_id"`
	QuestionNumber  int      `json:"question_number"`
	QuestionType    string   `json:"question_type"`
	Prompt          string   `json:"prompt"`
	DisplayLetter   string   `json:"display_letter,omitempty"`
	AudioFile       string   `json:"audio_file,omitempty"`
	IsAudioQuestion bool     `json:"is_audio_question"`
	Options         []string `json:"options"`
	IsAnswered      bool     `json:"is_answered"`
	WasCorrect      *bool    `json:"was_correct,omitempty"`
}

// StartedQuiz is the result of starting a new quiz.
type StartedQuiz struct {
	QuizID        string         `json:"quiz_id"`
	QuestionCount int            `json:"question_count"`
	Questions     []QuestionView `json:"questions"`
}

// SessionState is the full resumable state of an in-progress quiz.
type SessionState struct {
	QuizID        string         `json:"quiz_id"`
	QuestionCount int            `json:"question_count"`
	Questions     []QuestionView `json:"questions"`
	CorrectCount  int            `json:"correct_count"`
	AnsweredCount int            `json:"answered_count"`
}

// Start creates a quiz for the user: the selector picks the letters, the
// composer formats each into a question whose option set is persisted
// verbatim, and everything is written in one transaction.
func (s *QuizService) Start(ctx context.Context, userID string) (*StartedQuiz, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNoDocument) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	now := s.clock()

	statMap, err := s.statMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.quizzes.CountCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count completed quizzes: %w", err)
	}

	boost := func(stat *models.LetterStat) float64 { return s.scheduler.Weight(stat, now) }
	letters, err := s.selector.SelectLetters(statMap, completed, s.cfg.QuestionsPerQuiz, boost)
	if errors.Is(err, selection.ErrNoContent) {
		return nil, ErrNoContent
	}
	if err != nil {
		return nil, err
	}

	// The selector's order encodes the weak/coverage split; shuffle before
	// pairing with directions so the split is not visible in question order.
	s.rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})

	policy := composer.PolicyRandom
	if user.CurrentLevel > 1 {
		policy = composer.PolicyConfusable
	}
	distractors := s.cfg.LevelDistractorCounts[user.CurrentLevel]
	directions := s.composer.DirectionMix(s.cfg.QuestionsPerQuiz, s.cfg.AudioRatios[user.CurrentLevel])

	quiz := &models.QuizAttempt{
		ID:            uuid.NewString(),
		UserID:        userID,
		StartedAt:     now,
		QuestionCount: s.cfg.QuestionsPerQuiz,
	}

	records := make([]models.QuizQuestion, 0, len(letters))
	views := make([]QuestionView, 0, len(letters))
	for i, letter := range letters {
		q, err := s.composer.Compose(letter, directions[i], policy, distractors)
		if err != nil {
			return nil, fmt.Errorf("compose question for %s: %w", letter.Name, err)
		}
		record := models.QuizQuestion{
			ID:             uuid.NewString(),
			QuizID:         quiz.ID,
			UserID:         userID,
			LetterID:       letter.ID,
			QuestionNumber: i + 1,
			QuestionType:   string(q.Direction),
			Prompt:         q.Prompt,
			DisplayLetter:  q.DisplayLetter,
			AudioFile:      q.AudioFile,
			Options:        q.Options,
			CorrectOption:  q.CorrectOption,
		}
		records = append(records, record)
		views = append(views, viewOf(&record))
	}

	err = s.tx.Run(ctx, func(ctx context.Context) error {
		if err := s.quizzes.Create(ctx, quiz); err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}
		if err := s.questions.CreateBatch(ctx, records); err != nil {
			return fmt.Errorf("create questions: %w", err)
		}
		return s.users.Touch(ctx, userID, now)
	})
	if err != nil {
		return nil, err
	}

	return &StartedQuiz{
		QuizID:        quiz.ID,
		QuestionCount: quiz.QuestionCount,
		Questions:     views,
	}, nil
}

// State returns the persisted question set, answered flags, and running
// correct count so a client can rebuild its exact UI after an interruption.
// The frozen options are replayed verbatim, never regenerated.
func (s *QuizService) State(ctx context.Context, quizID, userID string) (*SessionState, error) {
	if quizID == "" || userID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidInput)
	}

	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if quiz.Completed() {
		return nil, ErrAlreadyCompleted
	}

	records, err := s.questions.FindByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	views := make([]QuestionView, 0, len(records))
	answered := 0
	for i := range records {
		v := viewOf(&records[i])
		if v.IsAnswered {
			answered++
		}
		views = append(views, v)
	}

	return &SessionState{
		QuizID:        quiz.ID,
		QuestionCount: quiz.QuestionCount,
		Questions:     views,
		CorrectCount:  quiz.CorrectCount,
		AnsweredCount: answered,
	}, nil
}

// AnswerOutcome is what a submission returns: the per-question result, and
// the terminal summary when this answer finalized the quiz.
type AnswerOutcome struct {
	QuestionID     string       `json:"question_id"`
	IsCorrect      bool         `json:"is_correct"`
	CorrectOption  string       `json:"correct_option"`
	SelectedOption string       `json:"selected_option"`
	IsLastQuestion bool         `json:"is_last_question"`
	Summary        *QuizSummary `json:"summary,omitempty"`
}

// SubmitAnswer scores one answer. The whole call is a single transaction:
// question marked answered, proficiency recorded, quiz counters moved, and —
// on the final question — completion, level progression, and the summary, or
// none of it.
//
// A question that already has an answer replays its stored result verbatim
// and touches nothing, no matter how often it is resubmitted or with what
// option; a finalized quiz otherwise rejects submissions with
// ErrAlreadyCompleted.
func (s *QuizService) SubmitAnswer(ctx context.Context, quizID, questionID, userID, selected string) (*AnswerOutcome, error) {
	if quizID == "" || questionID == "" || userID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidInput)
	}
	if selected == "" {
		return nil, fmt.Errorf("%w: empty selected option", ErrInvalidInput)
	}

	var outcome *AnswerOutcome
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		quiz, err := s.ownedQuiz(ctx, quizID, userID)
		if err != nil {
			return err
		}

		question, err := s.questions.FindByID(ctx, questionID)
		if errors.Is(err, repository.ErrNoDocument) {
			return fmt.Errorf("%w: question %s", ErrNotFound, questionID)
		}
		if err != nil {
			return fmt.Errorf("load question: %w", err)
		}
		if question.QuizID != quiz.ID {
			return fmt.Errorf("%w: question %s", ErrNotFound, questionID)
		}

		if question.Answered() {
			outcome, err = s.replay(ctx, quiz, question)
			return err
		}
		if quiz.Completed() {
			return ErrAlreadyCompleted
		}
		if !containsOption(question.Options, selected) {
			return fmt.Errorf("%w: option not in question", ErrInvalidInput)
		}

		now := s.clock()
		isCorrect := selected == question.CorrectOption

		claimed, err := s.questions.ClaimAnswer(ctx, question.ID, selected, isCorrect)
		if err != nil {
			return fmt.Errorf("claim answer: %w", err)
		}
		if !claimed {
			// A concurrent duplicate won the race; replay its result.
			question, err = s.questions.FindByID(ctx, questionID)
			if err != nil {
				return fmt.Errorf("reload question: %w", err)
			}
			outcome, err = s.replay(ctx, quiz, question)
			return err
		}

		if _, err := s.proficiency.RecordAnswer(ctx, userID, question.LetterID, isCorrect, now); err != nil {
			return err
		}
		if isCorrect {
			if err := s.quizzes.IncrementCorrect(ctx, quiz.ID); err != nil {
				return fmt.Errorf("increment correct count: %w", err)
			}
			quiz.CorrectCount++
		}
		if err := s.users.Touch(ctx, userID, now); err != nil {
			return fmt.Errorf("touch user: %w", err)
		}

		outcome = &AnswerOutcome{
			QuestionID:     question.ID,
			IsCorrect:      isCorrect,
			CorrectOption:  question.CorrectOption,
			SelectedOption: selected,
		}

		answered, err := s.questions.CountAnswered(ctx, quiz.ID)
		if err != nil {
			return fmt.Errorf("count answered: %w", err)
		}
		if answered < quiz.QuestionCount {
			return nil
		}

		// Final question: finalize, run level progression, and build the
		// summary inside the same transaction.
		accuracy := float64(quiz.CorrectCount) / float64(quiz.QuestionCount)
		if err := s.quizzes.Finalize(ctx, quiz.ID, now, accuracy); err != nil {
			return fmt.Errorf("finalize quiz: %w", err)
		}
		quiz.CompletedAt = &now
		quiz.Accuracy = &accuracy

		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		result := s.evaluator.Evaluate(user, quiz.CorrectCount == quiz.QuestionCount, now)
		if err := s.users.Save(ctx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if result.Transition != nil {
			result.Transition.ID = uuid.NewString()
			if err := s.levels.Create(ctx, result.Transition); err != nil {
				return fmt.Errorf("append level transition: %w", err)
			}
		}

		summary, err := s.buildSummary(ctx, quiz, user)
		if err != nil {
			return err
		}
		outcome.IsLastQuestion = true
		outcome.Summary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// replay reconstructs the outcome of an already-scored question without
// touching any counters. For a finalized quiz the summary is rebuilt from
// persisted state, so a duplicated final submission returns the identical
// terminal response.
func (s *QuizService) replay(ctx context.Context, quiz *models.QuizAttempt, question *models.QuizQuestion) (*AnswerOutcome, error) {
	outcome := &AnswerOutcome{
		QuestionID:     question.ID,
		IsCorrect:      question.IsCorrect != nil && *question.IsCorrect,
		CorrectOption:  question.CorrectOption,
		SelectedOption: *question.ChosenOption,
	}
	if !quiz.Completed() {
		return outcome, nil
	}

	user, err := s.users.FindByID(ctx, quiz.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	summary, err := s.buildSummary(ctx, quiz, user)
	if err != nil {
		return nil, err
	}
	outcome.IsLastQuestion = true
	outcome.Summary = summary
	return outcome, nil
}

func (s *QuizService) ownedQuiz(ctx context.Context, quizID, userID string) (*models.QuizAttempt, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if errors.Is(err, repository.ErrNoDocument) {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if quiz.UserID != userID {
		// Existence of another user's quiz must not leak.
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	return quiz, nil
}

func (s *QuizService) statMap(ctx context.Context, userID string) (map[int]models.LetterStat, error) {
	stats, err := s.stats.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load letter stats: %w", err)
	}
	m := make(map[int]models.LetterStat, len(stats))
	for _, st := range stats {
		m[st.LetterID] = st
	}
	return m, nil
}

func viewOf(q *models.QuizQuestion) QuestionView {
	return QuestionView{
		QuestionID:      q.ID,
		QuestionNumber:  q.QuestionNumber,
		QuestionType:    q.QuestionType,
		Prompt:          q.Prompt,
		DisplayLetter:   q.DisplayLetter,
		AudioFile:       q.AudioFile,
		IsAudioQuestion: q.AudioFile != "",
		Options:         q.Options,
		IsAnswered:      q.Answered(),
		WasCorrect:      q.IsCorrect,
	}
}

func containsOption(options []string, selected string) bool {
	for _, o := range options {
		if o == selected {
			return true
		}
	}
	return false
}
