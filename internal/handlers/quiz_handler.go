package handlers

import (
	"context"
	"errors"
	"net/http"

	"greek-quiz-service/internal/event"
	"greek-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service   *service.QuizService
	Publisher *event.Publisher
}

func NewQuizHandler(s *service.QuizService, pub *event.Publisher) *QuizHandler {
	return &QuizHandler{
		Service:   s,
		Publisher: pub,
	}
}

// StartQuiz creates a new quiz for the user and returns its questions.
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID is required",
		})
		return
	}

	started, err := h.Service.Start(context.Background(), userID)
	if err != nil {
		writeServiceError(c, err, "Failed to start quiz")
		return
	}

	h.Publisher.Publish(event.QuizStarted, gin.H{
		"quiz_id":        started.QuizID,
		"user_id":        userID,
		"question_count": len(started.Questions),
	})

	c.JSON(http.StatusCreated, started)
}

// GetQuizState returns the stored quiz with per-question answered flags,
// so an interrupted quiz can be resumed exactly where it stopped.
func (h *QuizHandler) GetQuizState(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID is required",
		})
		return
	}
	quizID := c.Param("id")

	state, err := h.Service.State(context.Background(), quizID, userID)
	if err != nil {
		writeServiceError(c, err, "Failed to load quiz")
		return
	}

	c.JSON(http.StatusOK, state)
}

// SubmitAnswer records one answer. Submitting the final answer completes
// the quiz and the response carries the summary.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID is required",
		})
		return
	}
	quizID := c.Param("id")

	var req struct {
		QuestionID   string `json:"question_id" binding:"required"`
		ChosenOption string `json:"chosen_option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	result, err := h.Service.SubmitAnswer(context.Background(), quizID, req.QuestionID, userID, req.ChosenOption)
	if err != nil {
		writeServiceError(c, err, "Failed to submit answer")
		return
	}

	if result.Summary != nil {
		h.Publisher.Publish(event.QuizCompleted, gin.H{
			"quiz_id":       quizID,
			"user_id":       userID,
			"correct_count": result.Summary.CorrectCount,
			"accuracy":      result.Summary.Accuracy,
		})
		if result.Summary.LevelUp != nil {
			h.Publisher.Publish(event.UserLevelUp, gin.H{
				"user_id":   userID,
				"new_level": result.Summary.LevelUp.ToLevel,
			})
		}
	}

	c.JSON(http.StatusOK, result)
}

// GetQuizSummary returns the summary of a completed quiz.
func (h *QuizHandler) GetQuizSummary(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID is required",
		})
		return
	}
	quizID := c.Param("id")

	summary, err := h.Service.Summary(context.Background(), quizID, userID)
	if err != nil {
		writeServiceError(c, err, "Failed to load summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrNoContent):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	}
}
