package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func bind(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := v.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed", errors.New(formatValidationError(err)))
		return false
	}
	return true
}

func seqFromPath(c *gin.Context) (int64, bool) {
	seq, err := strconv.ParseInt(c.Param("seq"), 10, 64)
	if err != nil || seq <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid user seq", nil)
		return 0, false
	}
	return seq, true
}

// respondServiceError переводит ошибки сервисов в HTTP статусы
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, service.ErrNotificationNotFound):
		respondError(c, http.StatusNotFound, "Notification not found", nil)
	case errors.Is(err, service.ErrManagerNotFound):
		respondError(c, http.StatusNotFound, "Manager not found", nil)
	case errors.Is(err, service.ErrManagerExists):
		respondError(c, http.StatusConflict, "Manager with this email already exists", nil)
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
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		case "min", "max":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", e.Field(), e.Tag(), e.Param()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return strings.Join(messages, "; ")
}
