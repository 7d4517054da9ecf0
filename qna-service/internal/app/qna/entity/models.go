package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question вопрос покупателя о товаре, ответ дает back-office
type Question struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID  string             `json:"productId" bson:"productId"`
	UserSeq    int64              `json:"userSeq" bson:"userSeq"` // seq из таблицы Users
	UserEmail  string             `json:"userEmail" bson:"userEmail"`
	Title      string             `json:"title" bson:"title"`
	Body       string             `json:"body" bson:"body"`
	Answer     string             `json:"answer,omitempty" bson:"answer,omitempty"`
	AnsweredBy string             `json:"answeredBy,omitempty" bson:"answeredBy,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	AnsweredAt *time.Time         `json:"answeredAt,omitempty" bson:"answeredAt,omitempty"`
}

// Answered есть ли у вопроса ответ
func (q *Question) Answered() bool {
	return q.AnsweredAt != nil
}

// Caller автор запроса из JWT
type Caller struct {
	Seq   int64
	Email string
	Admin bool
}

const EventQnAAnswered = "QNA_ANSWERED"

// QnAEvent событие в топике qna_events, читается users-service
type QnAEvent struct {
	EventType  string    `json:"event_type"`
	QuestionID string    `json:"question_id"`
	ProductID  string    `json:"product_id"`
	UserSeq    int64     `json:"user_seq"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
}
