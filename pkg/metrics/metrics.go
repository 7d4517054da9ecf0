package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="orders"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа (latency_seconds из ТЗ)
// Labels: service, method, path
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты для микросервисов: от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// DynamoDB Метрики
// =============================================================================

// DynamoOperationDuration - время вызовов DynamoDB
// Labels: service, operation (get, put, update, delete, query, scan, batch_write), table
var DynamoOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dynamodb_operation_duration_seconds",
		Help:    "Duration of DynamoDB operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DynamoErrors - ошибки DynamoDB, кроме ожидаемых ConditionalCheckFailed
var DynamoErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dynamodb_errors_total",
		Help: "Total number of DynamoDB errors",
	},
	[]string{"service", "operation", "table"},
)

// =============================================================================
// SQL Метрики (история действий, аккаунты менеджеров)
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики (redis_ops из ТЗ)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"}, // operation: get, set, del, etc.
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики (kafka_lag из ТЗ)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaConsumeDuration - время обработки сообщения
var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (UMS SHOP)
// =============================================================================

// CategoriesCreated - созданные категории по уровню (main, sub1, sub2)
var CategoriesCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "categories_created_total",
		Help: "Total number of categories created",
	},
	[]string{"level"},
)

// CategoriesDeleted - удаленные узлы иерархии
// policy: orphan, cascade, block
var CategoriesDeleted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "categories_deleted_total",
		Help: "Total number of category nodes deleted",
	},
	[]string{"level", "policy"},
)

// OrderStatusChanges - записи в statusHistory по новому статусу
var OrderStatusChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Total number of order status history entries appended",
	},
	[]string{"status"},
)

// PushNotificationsSent - отправки push через FCM
// status: sent, failed, skipped
var PushNotificationsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "push_notifications_total",
		Help: "Total number of push notification attempts",
	},
	[]string{"service", "status"},
)

// NotificationsStored - уведомления, добавленные в список noti
var NotificationsStored = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_stored_total",
		Help: "Total number of notifications appended to users",
	},
	[]string{"category"},
)

// NotificationsDropped - уведомления, отброшенные настройками пользователя
// reason: disabled, disabled_race
var NotificationsDropped = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Total number of notifications dropped by user settings",
	},
	[]string{"category", "reason"},
)

// AuditWriteFailures - неудачные записи в историю действий
var AuditWriteFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "audit_write_failures_total",
		Help: "Total number of audit history writes that failed",
	},
	[]string{"service", "action_type"},
)

// EmailsSent - письма администратору
// status: sent, failed
var EmailsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Total number of outbound emails",
	},
	[]string{"kind", "status"},
)

// QuestionsAnswered - ответы администратора в Q&A
var QuestionsAnswered = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "qna_questions_answered_total",
		Help: "Total number of answered product questions",
	},
)
