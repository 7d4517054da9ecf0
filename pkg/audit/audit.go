// Package audit ведет историю действий администраторов (таблица history).
// Запись в историю best-effort: ошибка логируется и не отменяет основную операцию.
package audit

import (
	"context"
	"time"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/google/uuid"
)

// ActionType тип действия в истории
type ActionType string

const (
	ActionCategoryCreate       ActionType = "CATEGORY_CREATE"
	ActionCategoryUpdate       ActionType = "CATEGORY_UPDATE"
	ActionCategoryDelete       ActionType = "CATEGORY_DELETE"
	ActionOrderCreate          ActionType = "ORDER_CREATE"
	ActionOrderPayment         ActionType = "ORDER_PAYMENT"
	ActionOrderDelivery        ActionType = "ORDER_DELIVERY"
	ActionOrderPacking         ActionType = "ORDER_PACKING"
	ActionOrderMessage         ActionType = "ORDER_MESSAGE"
	ActionOrderDelete          ActionType = "ORDER_DELETE"
	ActionUserApproval         ActionType = "USER_APPROVAL"
	ActionNotificationSettings ActionType = "NOTIFICATION_SETTINGS"
	ActionManagerCreate        ActionType = "MANAGER_CREATE"
	ActionManagerRole          ActionType = "MANAGER_ROLE"
	ActionManagerDelete        ActionType = "MANAGER_DELETE"
	ActionQuestionAnswer       ActionType = "QNA_ANSWER"
	ActionQuestionDelete       ActionType = "QNA_DELETE"
	ActionApprovalReminder     ActionType = "APPROVAL_REMINDER"
)

// Actor кто выполняет действие. Передается явно в каждый изменяющий вызов сервиса.
type Actor struct {
	Manager    string `json:"manager"`    // email из JWT
	DeviceInfo string `json:"deviceInfo"` // User-Agent и IP клиента
}

// SystemActor используется фоновыми задачами (consumer, cron), у которых нет пользователя
func SystemActor(service string) Actor {
	return Actor{Manager: "system:" + service, DeviceInfo: service}
}

// Entry одна строка истории
type Entry struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Timestamp  time.Time  `json:"timestamp" gorm:"not null;index"`
	Manager    string     `json:"manager" gorm:"type:varchar(255);not null;index"`
	DeviceInfo string     `json:"deviceInfo" gorm:"type:varchar(512)"`
	ActionType ActionType `json:"actionType" gorm:"type:varchar(64);not null;index"`
	Details    string     `json:"details" gorm:"type:text"`
}

// TableName указывает имя таблицы для GORM
func (Entry) TableName() string {
	return "history"
}

// Recorder то, что нужно сервисам: записать действие, не думая об ошибках
type Recorder interface {
	Record(ctx context.Context, actor Actor, action ActionType, details string)
}

// StoreRecorder пишет историю в Store
type StoreRecorder struct {
	store   Store
	service string
	now     func() time.Time
}

// NewRecorder создает Recorder поверх хранилища истории
func NewRecorder(store Store, service string) *StoreRecorder {
	return &StoreRecorder{
		store:   store,
		service: service,
		now:     time.Now,
	}
}

// Record добавляет запись в историю. Ошибка хранилища только логируется.
func (r *StoreRecorder) Record(ctx context.Context, actor Actor, action ActionType, details string) {
	entry := &Entry{
		ID:         uuid.New(),
		Timestamp:  r.now().UTC(),
		Manager:    actor.Manager,
		DeviceInfo: actor.DeviceInfo,
		ActionType: action,
		Details:    details,
	}

	if err := r.store.Append(ctx, entry); err != nil {
		metrics.AuditWriteFailures.WithLabelValues(r.service, string(action)).Inc()
		logger.Warn().
			Err(err).
			Str("action_type", string(action)).
			Str("manager", actor.Manager).
			Msg("Failed to write audit history entry")
	}
}

// NopRecorder отключенная история (локальный запуск без PostgreSQL)
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Actor, ActionType, string) {}
