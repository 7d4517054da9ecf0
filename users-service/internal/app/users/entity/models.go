package entity

import (
	"time"

	"github.com/google/uuid"
)

// Статусы одобрения аккаунта покупателя
const (
	ApprovalRequest = "request"
	ApprovalApprove = "approve"
	ApprovalReject  = "reject"
)

// Категории уведомлений, ключи карты User.Notifications
const (
	CategoryOrder    = "order"
	CategoryDelivery = "delivery"
	CategoryPayment  = "payment"
	CategoryMessage  = "message"
	CategoryQnA      = "qna"
	CategoryAccount  = "account"
)

var categories = []string{CategoryOrder, CategoryDelivery, CategoryPayment, CategoryMessage, CategoryQnA, CategoryAccount}

// Categories все известные категории уведомлений
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

func IsCategory(c string) bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}

// Allowed уведомление отбрасывается только если ключ категории есть и равен false
func Allowed(settings map[string]bool, category string) bool {
	enabled, ok := settings[category]
	return !ok || enabled
}

// User документ таблицы Users (PK seq)
type User struct {
	Seq            int64           `json:"seq" dynamodbav:"seq"`
	Email          string          `json:"email" dynamodbav:"email"`
	Name           string          `json:"name" dynamodbav:"name"`
	Company        string          `json:"company,omitempty" dynamodbav:"company,omitempty"`
	ApprovalStatus string          `json:"approvalStatus" dynamodbav:"approvalStatus"`
	Noti           []Notification  `json:"noti" dynamodbav:"noti"`
	Notifications  map[string]bool `json:"notifications" dynamodbav:"notifications"`
	Wishlist       []string        `json:"wishlist" dynamodbav:"wishlist"`
	FCMToken       string          `json:"-" dynamodbav:"fcmToken,omitempty"`
	CreatedAt      time.Time       `json:"createdAt" dynamodbav:"createdAt"`
}

// Notification запись списка noti, добавляется только в конец
type Notification struct {
	Code       string    `json:"code" dynamodbav:"code"`
	Category   string    `json:"category" dynamodbav:"category"`
	Title      string    `json:"title" dynamodbav:"title"`
	En         string    `json:"en" dynamodbav:"en"`
	Kr         string    `json:"kr" dynamodbav:"kr"`
	Timestamp  time.Time `json:"timestamp" dynamodbav:"timestamp"`
	Read       bool      `json:"read" dynamodbav:"read"`
	OrderID    string    `json:"orderId,omitempty" dynamodbav:"orderId,omitempty"`
	QuestionID string    `json:"id,omitempty" dynamodbav:"id,omitempty"`
}

// NotificationInput поля уведомления без timestamp и read
type NotificationInput struct {
	Code       string
	Category   string
	Title      string
	En         string
	Kr         string
	OrderID    string
	QuestionID string
}

// Record собирает запись noti
func (in NotificationInput) Record(now time.Time) Notification {
	return Notification{
		Code:       in.Code,
		Category:   in.Category,
		Title:      in.Title,
		En:         in.En,
		Kr:         in.Kr,
		Timestamp:  now,
		Read:       false,
		OrderID:    in.OrderID,
		QuestionID: in.QuestionID,
	}
}

// Роли менеджеров back-office
const (
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Manager аккаунт back-office в PostgreSQL
type Manager struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Типы событий из Kafka
const (
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventOrderMessage       = "ORDER_MESSAGE"
	EventQnAAnswered        = "QNA_ANSWERED"
)

// OrderEvent событие из топика order_events
type OrderEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	UserSeq        int64     `json:"user_seq"`
	UserEmail      string    `json:"user_email"`
	Status         string    `json:"status,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Message        string    `json:"message,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// QnAEvent событие из топика qna_events
type QnAEvent struct {
	EventType  string    `json:"event_type"`
	QuestionID string    `json:"question_id"`
	ProductID  string    `json:"product_id"`
	UserSeq    int64     `json:"user_seq"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
}
