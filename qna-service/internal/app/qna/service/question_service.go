package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"umsshop/pkg/audit"
	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"
	"umsshop/qna-service/internal/app/qna/entity"
	"umsshop/qna-service/internal/app/qna/infrastructure"
	"umsshop/qna-service/internal/app/qna/repository"
)

// QuestionService вопросы покупателей о товарах и ответы back-office
type QuestionService struct {
	repo      repository.QuestionRepository
	publisher infrastructure.MessagePublisher
	recorder  audit.Recorder
	now       func() time.Time
}

func NewQuestionService(
	repo repository.QuestionRepository,
	publisher infrastructure.MessagePublisher,
	recorder audit.Recorder,
) *QuestionService {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &QuestionService{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Ask вопрос задает только покупатель, seq нужен для уведомления об ответе
func (s *QuestionService) Ask(ctx context.Context, caller entity.Caller, req *entity.AskQuestionRequest) (*entity.Question, error) {
	if caller.Seq <= 0 {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrInvalidRequest)
	}

	q := &entity.Question{
		ProductID: strings.TrimSpace(req.ProductID),
		UserSeq:   caller.Seq,
		UserEmail: caller.Email,
		Title:     title,
		Body:      body,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to ask question: %w", err)
	}

	logger.Info().Str("question_id", q.ID.Hex()).Str("product_id", q.ProductID).Msg("Question created")
	return q, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*entity.Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "failed to get question")
	}
	return q, nil
}

func (s *QuestionService) ListByProduct(ctx context.Context, productID string) ([]entity.Question, error) {
	questions, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *QuestionService) ListMine(ctx context.Context, caller entity.Caller) ([]entity.Question, error) {
	if caller.Seq <= 0 {
		return nil, ErrForbidden
	}

	questions, err := s.repo.ListByUser(ctx, caller.Seq)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// Answer повторный ответ перезаписывает предыдущий
func (s *QuestionService) Answer(ctx context.Context, actor audit.Actor, id, answer string) (*entity.Question, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidRequest)
	}

	q, err := s.repo.Answer(ctx, id, answer, actor.Manager, s.now())
	if err != nil {
		return nil, mapRepoError(err, "failed to answer question")
	}

	metrics.QuestionsAnswered.Inc()
	s.recorder.Record(ctx, actor, audit.ActionQuestionAnswer, fmt.Sprintf("question %s (product %s) answered", id, q.ProductID))

	event := entity.QnAEvent{
		EventType:  entity.EventQnAAnswered,
		QuestionID: q.ID.Hex(),
		ProductID:  q.ProductID,
		UserSeq:    q.UserSeq,
		Title:      q.Title,
		Timestamp:  s.now(),
	}
	if err := s.publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("question_id", event.QuestionID).Msg("Failed to publish answer event")
	}

	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, actor audit.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "failed to delete question")
	}

	s.recorder.Record(ctx, actor, audit.ActionQuestionDelete, fmt.Sprintf("question %s deleted", id))
	return nil
}

func (s *QuestionService) publish(ctx context.Context, event entity.QnAEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal qna event: %w", err)
	}
	return s.publisher.PublishMessage(ctx, event.QuestionID, data)
}

func mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrQuestionNotFound):
		return ErrQuestionNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return fmt.Errorf("%w: invalid question id", ErrInvalidRequest)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
