package processor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"umsshop/users-service/internal/app/users/entity"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventProcessor мок для EventProcessorInterface
type MockEventProcessor struct {
	mock.Mock
}

func (m *MockEventProcessor) HandleOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventProcessor) HandleQnAEvent(ctx context.Context, event *entity.QnAEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fakeReader отдает сообщения по очереди, затем блокируется до отмены контекста
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		m := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{} }

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.committed))
	for _, m := range r.committed {
		out = append(out, m.Offset)
	}
	return out
}

func orderMessage(t *testing.T, offset int64, event entity.OrderEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Topic: "order_events", Offset: offset, Key: []byte(event.OrderID), Value: value}
}

// ===================== NewKafkaConsumer Tests =====================

func TestNewKafkaConsumer(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)

	// Act
	consumer := NewKafkaConsumer([]string{"localhost:9092"}, []string{"order_events", "qna_events"}, "test-group", 1, 10e6, events)

	// Assert
	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.reader)
	assert.Equal(t, "test-group", consumer.groupID)

	// Cleanup
	consumer.reader.Close()
}

// ===================== processMessage Tests =====================

func TestProcessMessage_OrderEvent(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	consumer := newConsumer(&fakeReader{}, "g", events)
	ctx := context.Background()
	msg := orderMessage(t, 1, entity.OrderEvent{EventType: entity.EventOrderStatusChanged, OrderID: "ORD-1", UserSeq: 42, Status: "Delivered"})
	events.On("HandleOrderEvent", ctx, mock.MatchedBy(func(e *entity.OrderEvent) bool {
		return e.OrderID == "ORD-1" && e.UserSeq == 42
	})).Return(nil)

	// Act
	err := consumer.processMessage(ctx, msg)

	// Assert
	assert.NoError(t, err)
	events.AssertExpectations(t)
}

func TestProcessMessage_QnAEvent(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	consumer := newConsumer(&fakeReader{}, "g", events)
	ctx := context.Background()
	value, _ := json.Marshal(entity.QnAEvent{EventType: entity.EventQnAAnswered, QuestionID: "q-1", UserSeq: 9})
	events.On("HandleQnAEvent", ctx, mock.MatchedBy(func(e *entity.QnAEvent) bool {
		return e.QuestionID == "q-1"
	})).Return(nil)

	// Act
	err := consumer.processMessage(ctx, kafka.Message{Topic: "qna_events", Value: value})

	// Assert
	assert.NoError(t, err)
	events.AssertExpectations(t)
}

func TestProcessMessage_InvalidJSONSkipped(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	consumer := newConsumer(&fakeReader{}, "g", events)

	// Act
	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte("invalid json {{{")})

	// Assert
	assert.ErrorIs(t, err, errSkip)
	events.AssertNotCalled(t, "HandleOrderEvent", mock.Anything, mock.Anything)
}

func TestProcessMessage_UnknownTypeSkipped(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	consumer := newConsumer(&fakeReader{}, "g", events)

	// Act
	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"REVIEW_CREATED"}`)})

	// Assert
	assert.ErrorIs(t, err, errSkip)
}

// ===================== consume Tests =====================

func TestConsume_CommitsAfterSuccessAndSkip(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	reader := &fakeReader{messages: []kafka.Message{
		orderMessage(t, 1, entity.OrderEvent{EventType: entity.EventOrderStatusChanged, OrderID: "ORD-1", UserSeq: 1, Status: "Order"}),
		{Topic: "order_events", Offset: 2, Value: []byte("garbage")},
	}}
	consumer := newConsumer(reader, "g", events)
	events.On("HandleOrderEvent", mock.Anything, mock.Anything).Return(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Act
	consumer.Start(ctx)

	// Assert
	assert.Eventually(t, func() bool { return len(reader.committedOffsets()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int64{1, 2}, reader.committedOffsets())
	consumer.Stop()
	assert.True(t, reader.closed)
}

func TestConsume_RetriesUntilSuccessBeforeCommit(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	reader := &fakeReader{messages: []kafka.Message{
		orderMessage(t, 7, entity.OrderEvent{EventType: entity.EventOrderMessage, OrderID: "ORD-7", UserSeq: 1, Message: "hi"}),
	}}
	consumer := newConsumer(reader, "g", events)
	consumer.retryDelay = time.Millisecond
	events.On("HandleOrderEvent", mock.Anything, mock.Anything).Return(errors.New("throttled")).Twice()
	events.On("HandleOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Act
	consumer.Start(ctx)

	// Assert
	assert.Eventually(t, func() bool { return len(reader.committedOffsets()) == 1 }, 2*time.Second, 5*time.Millisecond)
	consumer.Stop()
	events.AssertNumberOfCalls(t, "HandleOrderEvent", 3)
}

func TestConsume_StopDuringRetryDoesNotCommit(t *testing.T) {
	// Arrange
	events := new(MockEventProcessor)
	reader := &fakeReader{messages: []kafka.Message{
		orderMessage(t, 3, entity.OrderEvent{EventType: entity.EventOrderStatusChanged, OrderID: "ORD-3", UserSeq: 1, Status: "EMS"}),
	}}
	consumer := newConsumer(reader, "g", events)
	consumer.retryDelay = time.Hour
	called := make(chan struct{}, 1)
	events.On("HandleOrderEvent", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case called <- struct{}{}:
			default:
			}
		}).
		Return(errors.New("down"))

	// Act
	consumer.Start(context.Background())
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("event was not handled")
	}
	consumer.Stop()

	// Assert
	assert.Empty(t, reader.committedOffsets())
}
