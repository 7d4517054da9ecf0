package handler

import (
	"net/http"
	"strconv"

	"umsshop/pkg/audit"
	"umsshop/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HistoryHandler просмотр журнала действий менеджеров
type HistoryHandler struct {
	store audit.Store
}

func NewHistoryHandler(store audit.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List обрабатывает GET /admin/history?action_type=&manager=&limit=
func (h *HistoryHandler) List(c *gin.Context) {
	if h.store == nil {
		respondError(c, http.StatusServiceUnavailable, "History is disabled", nil)
		return
	}

	filter := audit.Filter{
		ActionType: audit.ActionType(c.Query("action_type")),
		Manager:    c.Query("manager"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		filter.Limit = limit
	}

	entries, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list history")
		respondError(c, http.StatusInternalServerError, "Failed to list history", nil)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"history": entries, "total": len(entries)})
}
