package processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/service"

	"github.com/segmentio/kafka-go"
)

const serviceName = "users-service"

// errSkip сообщение не подлежит повторной обработке
var errSkip = errors.New("skip message")

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// KafkaConsumer читает order_events и qna_events и превращает их в уведомления
type KafkaConsumer struct {
	reader     messageReader
	groupID    string
	events     service.EventProcessorInterface
	retryDelay time.Duration
	maxDelay   time.Duration
	cancel     context.CancelFunc
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewKafkaConsumer создает consumer группы на несколько топиков
func NewKafkaConsumer(
	brokers []string,
	topics []string,
	groupID string,
	minBytes int,
	maxBytes int,
	events service.EventProcessorInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupTopics:    topics,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return newConsumer(reader, groupID, events)
}

func newConsumer(reader messageReader, groupID string, events service.EventProcessorInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		groupID:    groupID,
		events:     events,
		retryDelay: 500 * time.Millisecond,
		maxDelay:   30 * time.Second,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
}

// Start запускает чтение в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("group", c.groupID).Msg("Starting Kafka consumer")
	ctx, c.cancel = context.WithCancel(ctx)
	go c.consume(ctx)
}

// Stop останавливает consumer и закрывает reader
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	if c.cancel != nil {
		c.cancel()
	}
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error().Err(err).Msg("Error fetching message")
			metrics.RecordKafkaError(serviceName, "", "fetch")
			if !c.sleep(ctx, time.Second) {
				return
			}
			continue
		}

		if !c.handleWithRetry(ctx, message) {
			return
		}

		// Offset коммитится только после успешной обработки или осознанного пропуска
		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Error().Err(err).Str("topic", message.Topic).Int64("offset", message.Offset).Msg("Error committing message")
			metrics.RecordKafkaError(serviceName, message.Topic, "commit")
		}
	}
}

// handleWithRetry false означает остановку consumer до успешной обработки
func (c *KafkaConsumer) handleWithRetry(ctx context.Context, message kafka.Message) bool {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := c.processMessage(ctx, message)
		if err == nil {
			metrics.RecordKafkaMessageConsumed(serviceName, message.Topic, c.groupID, time.Since(start))
			return true
		}
		if errors.Is(err, errSkip) {
			return true
		}

		metrics.RecordKafkaError(serviceName, message.Topic, "process")
		logger.Warn().
			Err(err).
			Str("topic", message.Topic).
			Int64("offset", message.Offset).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Failed to process message, retrying")

		if !c.sleep(ctx, delay) {
			return false
		}
		delay *= 2
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
	}
}

// processMessage неизвестные и битые события пропускаются
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var header struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(message.Value, &header); err != nil {
		logger.Warn().Err(err).Str("topic", message.Topic).Int64("offset", message.Offset).Msg("Malformed event, skipping")
		return errSkip
	}

	switch header.EventType {
	case entity.EventOrderStatusChanged, entity.EventOrderMessage:
		var event entity.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Warn().Err(err).Msg("Malformed order event, skipping")
			return errSkip
		}
		logger.Debug().Str("event_type", event.EventType).Str("order_id", event.OrderID).Int64("offset", message.Offset).Msg("Received order event")
		return c.events.HandleOrderEvent(ctx, &event)
	case entity.EventQnAAnswered:
		var event entity.QnAEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Warn().Err(err).Msg("Malformed qna event, skipping")
			return errSkip
		}
		logger.Debug().Str("question_id", event.QuestionID).Int64("offset", message.Offset).Msg("Received qna event")
		return c.events.HandleQnAEvent(ctx, &event)
	}

	logger.Debug().Str("event_type", header.EventType).Str("topic", message.Topic).Msg("Unknown event type, skipping")
	return errSkip
}

func (c *KafkaConsumer) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}

// GetStats статистика reader
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
