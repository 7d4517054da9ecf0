package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Dynamo   DynamoConfig
	Kafka    KafkaConfig
	Firebase FirebaseConfig
	History  DatabaseConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8082)
}

// DynamoConfig таблица заказов и таблица пользователей (только чтение fcmToken)
type DynamoConfig struct {
	Region         string
	Endpoint       string
	OrdersTable    string
	UserEmailIndex string
	UsersTable     string
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий ORDER_STATUS_CHANGED, ORDER_MESSAGE
}

// FirebaseConfig push через FCM, без credentials пуши отключены
type FirebaseConfig struct {
	Enabled         bool
	ProjectID       string
	CredentialsFile string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string // Должен совпадать с сервисом, выпускающим токены
}

func Load() (*Config, error) {
	credentials := getEnv("FIREBASE_CREDENTIALS_FILE", "")

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Dynamo: DynamoConfig{
			Region:         getEnv("AWS_REGION", "ap-northeast-2"),
			Endpoint:       getEnv("AWS_ENDPOINT", ""),
			OrdersTable:    getEnv("DYNAMO_TABLE_ORDERS", "Orders"),
			UserEmailIndex: getEnv("DYNAMO_INDEX_ORDER_USER_EMAIL", "userEmail-index"),
			UsersTable:     getEnv("DYNAMO_TABLE_USERS", "Users"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "order_events"),
		},
		Firebase: FirebaseConfig{
			Enabled:         getEnvBool("FIREBASE_ENABLED", credentials != ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: credentials,
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
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
	}, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList "a:9092, b:9092" -> [a:9092 b:9092]
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
