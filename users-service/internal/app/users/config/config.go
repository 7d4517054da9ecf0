package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config содержит все настройки Users Service
type Config struct {
	Server   ServerConfig
	Dynamo   DynamoConfig
	Managers DatabaseConfig
	History  DatabaseConfig
	Kafka    KafkaConfig
	Mail     MailConfig
	Cron     CronConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DynamoConfig struct {
	Region        string
	Endpoint      string
	UsersTable    string
	ApprovalIndex string
}

// DatabaseConfig PostgreSQL: аккаунты менеджеров и история действий
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers  []string
	Topics   []string // order_events, qna_events
	GroupID  string
	MinBytes int
	MaxBytes int
}

// MailConfig SMTP для напоминаний администратору
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

type CronConfig struct {
	ReminderSchedule string
}

type JWTConfig struct {
	Secret string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		Dynamo: DynamoConfig{
			Region:        getEnv("AWS_REGION", "ap-northeast-2"),
			Endpoint:      getEnv("AWS_ENDPOINT", ""),
			UsersTable:    getEnv("DYNAMO_TABLE_USERS", "Users"),
			ApprovalIndex: getEnv("DYNAMO_INDEX_USER_APPROVAL", "approvalStatus-index"),
		},
		Managers: DatabaseConfig{
			Enabled:  true,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "umsshop"),
			Password: getEnv("DB_PASSWORD", "umsshop"),
			DBName:   getEnv("DB_NAME", "umsshop_backoffice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		History: DatabaseConfig{
			Enabled:  getEnvBool("HISTORY_ENABLED", true),
			Host:     getEnv("HISTORY_DB_HOST", "localhost"),
			Port:     getEnv("HISTORY_DB_PORT", "5432"),
			User:     getEnv("HISTORY_DB_USER", "umsshop"),
			Password: getEnv("HISTORY_DB_PASSWORD", "umsshop"),
			DBName:   getEnv("HISTORY_DB_NAME", "umsshop_backoffice"),
			SSLMode:  getEnv("HISTORY_DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topics:   splitList(getEnv("KAFKA_TOPICS", "order_events,qna_events")),
			GroupID:  getEnv("KAFKA_GROUP_ID", "users-service-notifications"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Mail: MailConfig{
			Host:       getEnv("SMTP_HOST", "localhost"),
			Port:       port,
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("MAIL_FROM", "noreply@ums.shop"),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
		},
		Cron: CronConfig{
			// Формат с секундами, как у cron.WithSeconds()
			ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 0 * * * *"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
	}

	if len(cfg.Kafka.Topics) == 0 {
		return nil, fmt.Errorf("KAFKA_TOPICS must name at least one topic")
	}

	return cfg, nil
}

// DSN строка подключения для gorm (key=value)
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL строка подключения для pgxpool
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
