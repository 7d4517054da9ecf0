package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"umsshop/catalog-service/internal/app/catalog/entity"
)

// Config содержит все настройки приложения Catalog Service
// Включает конфигурацию HTTP сервера, DynamoDB, Redis, S3, истории действий и JWT
type Config struct {
	Server  ServerConfig
	Dynamo  DynamoConfig
	Redis   RedisConfig
	S3      S3Config
	History DatabaseConfig
	Catalog CatalogConfig
	JWT     JWTConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8081)
}

// DynamoConfig - таблицы и индексы иерархии категорий
type DynamoConfig struct {
	Region          string
	Endpoint        string // Пусто для AWS, http://localhost:8000 для DynamoDB Local
	MainTable       string
	Sub1Table       string
	Sub2Table       string
	NameIndex       string // Индекс по name в каждой из трех таблиц
	MainParentIndex string // Индекс SubCategory1 по mainCategoryId
	Sub1ParentIndex string // Индекс SubCategory2 по subCategory1Id
}

// RedisConfig - настройки подключения к Redis
// Используется для кеширования списков категорий
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// S3Config - бакет для изображений основных категорий
type S3Config struct {
	Bucket        string
	Region        string
	PublicBaseURL string // CDN перед бакетом, если задан
}

// DatabaseConfig - PostgreSQL с таблицей history
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CatalogConfig - поведение иерархии категорий
type CatalogConfig struct {
	DeletePolicy entity.DeletePolicy // orphan | cascade | block
	CacheTTL     time.Duration
}

// JWTConfig - настройки для проверки JWT токенов
type JWTConfig struct {
	Secret string // Должен совпадать с сервисом, выпускающим токены
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CATEGORY_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATEGORY_CACHE_TTL: %w", err)
	}

	policy, err := entity.ParseDeletePolicy(getEnv("CATEGORY_DELETE_POLICY", string(entity.DeletePolicyOrphan)))
	if err != nil {
		return nil, fmt.Errorf("invalid CATEGORY_DELETE_POLICY: %w", err)
	}

	region := getEnv("AWS_REGION", "ap-northeast-2")

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		Dynamo: DynamoConfig{
			Region:          region,
			Endpoint:        getEnv("AWS_ENDPOINT", ""),
			MainTable:       getEnv("DYNAMO_TABLE_MAIN_CATEGORY", "MainCategory"),
			Sub1Table:       getEnv("DYNAMO_TABLE_SUB_CATEGORY1", "SubCategory1"),
			Sub2Table:       getEnv("DYNAMO_TABLE_SUB_CATEGORY2", "SubCategory2"),
			NameIndex:       getEnv("DYNAMO_INDEX_CATEGORY_NAME", "name-index"),
			MainParentIndex: getEnv("DYNAMO_INDEX_SUB1_PARENT", "mainCategoryId-index"),
			Sub1ParentIndex: getEnv("DYNAMO_INDEX_SUB2_PARENT", "subCategory1Id-index"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET", "umsshop-assets"),
			Region:        getEnv("S3_REGION", region),
			PublicBaseURL: getEnv("CATEGORY_IMAGE_BASE_URL", ""),
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
		Catalog: CatalogConfig{
			DeletePolicy: policy,
			CacheTTL:     cacheTTL,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
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
