package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"umsshop/pkg/logger"
	"umsshop/qna-service/internal/app/qna/entity"
	"umsshop/qna-service/internal/app/qna/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type QuestionHandler struct {
	questions service.QuestionServiceInterface
	validator *validator.Validate
}

func NewQuestionHandler(questions service.QuestionServiceInterface) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		validator: validator.New(),
	}
}

// Ask обрабатывает POST /questions
func (h *QuestionHandler) Ask(c *gin.Context) {
	var req entity.AskQuestionRequest
	if !h.bind(c, &req) {
		return
	}

	q, err := h.questions.Ask(c.Request.Context(), callerFromContext(c), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to ask question")
		return
	}
	c.JSON(http.StatusCreated, q)
}

// Get обрабатывает GET /questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	q, err := h.questions.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get question")
		return
	}
	c.JSON(http.StatusOK, q)
}

// ListByProduct обрабатывает GET /products/:productId/questions
func (h *QuestionHandler) ListByProduct(c *gin.Context) {
	questions, err := h.questions.ListByProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err, "Failed to list questions")
		return
	}
	c.JSON(http.StatusOK, entity.QuestionListResponse{Questions: questions, Total: len(questions)})
}

// ListMine обрабатывает GET /my-questions
func (h *QuestionHandler) ListMine(c *gin.Context) {
	questions, err := h.questions.ListMine(c.Request.Context(), callerFromContext(c))
	if err != nil {
		respondServiceError(c, err, "Failed to list questions")
		return
	}
	c.JSON(http.StatusOK, entity.QuestionListResponse{Questions: questions, Total: len(questions)})
}

// Answer обрабатывает PUT /questions/:id/answer
func (h *QuestionHandler) Answer(c *gin.Context) {
	var req entity.AnswerRequest
	if !h.bind(c, &req) {
		return
	}

	q, err := h.questions.Answer(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Answer)
	if err != nil {
		respondServiceError(c, err, "Failed to answer question")
		return
	}
	c.JSON(http.StatusOK, q)
}

// Delete обрабатывает DELETE /questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.questions.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete question")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QuestionHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed", errors.New(formatValidationError(err)))
		return false
	}
	return true
}

func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrQuestionNotFound):
		respondError(c, http.StatusNotFound, "Question not found", nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "Access denied", nil)
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		respondError(c, http.StatusInternalServerError, fallback, nil)
	}
}

func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	c.JSON(status, errorBody(status, message))
}

func errorBody(status int, message string) entity.ErrorResponse {
	return entity.ErrorResponse{Error: http.StatusText(status), Message: message}
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "min", "max":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", e.Field(), e.Tag(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return strings.Join(messages, "; ")
}
