package service

import (
	"context"

	"umsshop/pkg/audit"
	"umsshop/qna-service/internal/app/qna/entity"
)

type QuestionServiceInterface interface {
	Ask(ctx context.Context, caller entity.Caller, req *entity.AskQuestionRequest) (*entity.Question, error)
	GetQuestion(ctx context.Context, id string) (*entity.Question, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.Question, error)
	ListMine(ctx context.Context, caller entity.Caller) ([]entity.Question, error)
	Answer(ctx context.Context, actor audit.Actor, id, answer string) (*entity.Question, error)
	Delete(ctx context.Context, actor audit.Actor, id string) error
}
