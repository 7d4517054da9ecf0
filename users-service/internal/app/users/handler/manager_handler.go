package handler

import (
	"net/http"

	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ManagerHandler управление аккаунтами back-office, только для роли admin
type ManagerHandler struct {
	managers  service.ManagerServiceInterface
	validator *validator.Validate
}

func NewManagerHandler(managers service.ManagerServiceInterface) *ManagerHandler {
	return &ManagerHandler{
		managers:  managers,
		validator: validator.New(),
	}
}

func (h *ManagerHandler) Create(c *gin.Context) {
	var req entity.CreateManagerRequest
	if !bind(c, h.validator, &req) {
		return
	}

	manager, err := h.managers.CreateManager(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create manager")
		return
	}
	c.JSON(http.StatusCreated, manager)
}

func (h *ManagerHandler) List(c *gin.Context) {
	managers, err := h.managers.ListManagers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list managers")
		return
	}
	if managers == nil {
		managers = []entity.Manager{}
	}
	c.JSON(http.StatusOK, entity.ManagerListResponse{Managers: managers, Total: len(managers)})
}

func (h *ManagerHandler) UpdateRole(c *gin.Context) {
	id, ok := managerIDFromPath(c)
	if !ok {
		return
	}

	var req entity.UpdateRoleRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if err := h.managers.UpdateRole(c.Request.Context(), actorFromContext(c), id, req.Role); err != nil {
		respondServiceError(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Role updated"})
}

func (h *ManagerHandler) Delete(c *gin.Context) {
	id, ok := managerIDFromPath(c)
	if !ok {
		return
	}

	if err := h.managers.DeleteManager(c.Request.Context(), actorFromContext(c), id); err != nil {
		respondServiceError(c, err, "Failed to delete manager")
		return
	}
	c.Status(http.StatusNoContent)
}

func managerIDFromPath(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid manager ID", err)
		return uuid.Nil, false
	}
	return id, true
}
