package models

import "time"

// QuizAttempt is one fixed-length quiz session. It is in progress until its
// last question is answered; abandoned attempts simply stay in progress and
// remain resumable.
type QuizAttempt struct {
	ID            string     `bson:"_id" json:"id"`
	UserID        string     `bson:"user_id" json:"user_id"`
	StartedAt     time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt   *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	QuestionCount int        `bson:"question_count" json:"question_count"`
	CorrectCount  int        `bson:"correct_count" json:"correct_count"`
	Accuracy      *float64   `bson:"accuracy,omitempty" json:"accuracy,omitempty"`
}

// Completed reports whether the attempt has been finalized.
func (q *QuizAttempt) Completed() bool {
	return q.CompletedAt != nil
}

// QuizQuestion is a single question within a quiz. The option set shown to
// the client is frozen here at generation time so that resuming an
// interrupted quiz replays the exact same choices.
type QuizQuestion struct {
	ID             string   `bson:"_id" json:"id"`
	QuizID         string   `bson:"quiz_id" json:"quiz_id"`
	UserID         string   `bson:"user_id" json:"user_id"`
	LetterID       int      `bson:"letter_id" json:"letter_id"`
	QuestionNumber int      `bson:"question_number" json:"question_number"`
	QuestionType   string   `bson:"question_type" json:"question_type"`
	Prompt         string   `bson:"prompt" json:"prompt"`
	DisplayLetter  string   `bson:"display_letter,omitempty" json:"display_letter,omitempty"`
	AudioFile      string   `bson:"audio_file,omitempty" json:"audio_file,omitempty"`
	Options        []string `bson:"options" json:"options"`
	CorrectOption  string   `bson:"correct_option" json:"-"`
	ChosenOption   *string  `bson:"chosen_option,omitempty" json:"chosen_option,omitempty"`
	IsCorrect      *bool    `bson:"is_correct,omitempty" json:"is_correct,omitempty"`
}

// Answered reports whether the question has already been scored.
func (q *QuizQuestion) Answered() bool {
	return q.ChosenOption != nil
}
