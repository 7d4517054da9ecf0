package handler

import (
	"net/http"

	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// UserHandler профиль покупателя и одобрение аккаунтов
type UserHandler struct {
	userService service.UserServiceInterface
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// GetMe обрабатывает GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.GetInt64("user_seq"))
	if err != nil {
		respondServiceError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetSettings обрабатывает GET /me/notification-settings
func (h *UserHandler) GetSettings(c *gin.Context) {
	settings, err := h.userService.GetSettings(c.Request.Context(), c.GetInt64("user_seq"))
	if err != nil {
		respondServiceError(c, err, "Failed to get notification settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings обрабатывает PUT /me/notification-settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req entity.NotificationSettingsRequest
	if !bind(c, h.validator, &req) {
		return
	}

	settings, err := h.userService.UpdateSettings(c.Request.Context(), actorFromContext(c), c.GetInt64("user_seq"), req.Settings)
	if err != nil {
		respondServiceError(c, err, "Failed to update notification settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// RegisterFCMToken обрабатывает PUT /me/fcm-token
func (h *UserHandler) RegisterFCMToken(c *gin.Context) {
	var req entity.FCMTokenRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if err := h.userService.RegisterFCMToken(c.Request.Context(), c.GetInt64("user_seq"), req.Token); err != nil {
		respondServiceError(c, err, "Failed to register push token")
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Push token registered"})
}

// ListUsers обрабатывает GET /admin/users?status=request
func (h *UserHandler) ListUsers(c *gin.Context) {
	status := c.DefaultQuery("status", entity.ApprovalRequest)

	users, err := h.userService.ListUsers(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err, "Failed to list users")
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	c.JSON(http.StatusOK, entity.UserListResponse{Users: users, Total: len(users)})
}

// GetUser обрабатывает GET /admin/users/:seq
func (h *UserHandler) GetUser(c *gin.Context) {
	seq, ok := seqFromPath(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), seq)
	if err != nil {
		respondServiceError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateApproval обрабатывает PUT /admin/users/:seq/approval
func (h *UserHandler) UpdateApproval(c *gin.Context) {
	seq, ok := seqFromPath(c)
	if !ok {
		return
	}

	var req entity.UpdateApprovalRequest
	if !bind(c, h.validator, &req) {
		return
	}

	user, err := h.userService.UpdateApproval(c.Request.Context(), actorFromContext(c), seq, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update approval")
		return
	}
	c.JSON(http.StatusOK, user)
}
