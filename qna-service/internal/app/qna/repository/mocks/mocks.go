package mocks

import (
	"context"
	"time"

	"umsshop/pkg/audit"
	"umsshop/qna-service/internal/app/qna/entity"

	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository мок для QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) question(args mock.Arguments) (*entity.Question, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) questions(args mock.Arguments) ([]entity.Question, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *entity.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	return m.question(m.Called(ctx, id))
}

func (m *MockQuestionRepository) ListByProduct(ctx context.Context, productID string) ([]entity.Question, error) {
	return m.questions(m.Called(ctx, productID))
}

func (m *MockQuestionRepository) ListByUser(ctx context.Context, userSeq int64) ([]entity.Question, error) {
	return m.questions(m.Called(ctx, userSeq))
}

func (m *MockQuestionRepository) Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) (*entity.Question, error) {
	return m.question(m.Called(ctx, id, answer, answeredBy, at))
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockMessagePublisher мок для infrastructure.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockMessagePublisher) Close() error {
	return m.Called().Error(0)
}

// MockRecorder мок для audit.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, actor audit.Actor, action audit.ActionType, details string) {
	m.Called(ctx, actor, action, details)
}
