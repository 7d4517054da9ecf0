package repository

import (
	"context"
	"errors"
	"time"

	"umsshop/qna-service/internal/app/qna/entity"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidID        = errors.New("invalid question id")
)

// QuestionRepository вопросы в коллекции questions
type QuestionRepository interface {
	Create(ctx context.Context, q *entity.Question) error
	GetByID(ctx context.Context, id string) (*entity.Question, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.Question, error)
	ListByUser(ctx context.Context, userSeq int64) ([]entity.Question, error)
	// Answer сохраняет ответ и возвращает обновленный документ
	Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) (*entity.Question, error)
	Delete(ctx context.Context, id string) error
}
