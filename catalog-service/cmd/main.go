package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umsshop/catalog-service/internal/app/catalog/config"
	"umsshop/catalog-service/internal/app/catalog/handler"
	"umsshop/catalog-service/internal/app/catalog/repository"
	"umsshop/catalog-service/internal/app/catalog/service"
	"umsshop/catalog-service/internal/app/catalog/util"
	"umsshop/pkg/audit"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const serviceName = "catalog-service"

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	logger.Init(serviceName, logLevel)

	if logstashAddr := os.Getenv("LOGSTASH_ADDR"); logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stderr only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx := context.Background()

	// === DYNAMODB ===
	// Три таблицы уровней: MainCategory, SubCategory1, SubCategory2
	dbClient, err := dynamo.NewClient(ctx, dynamo.Config{
		Region:   cfg.Dynamo.Region,
		Endpoint: cfg.Dynamo.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create DynamoDB client")
	}

	// === REDIS ===
	// Кеш списков категорий вместе со счетчиками детей
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Catalog.CacheTTL,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	// === S3 ===
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3.Region))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load AWS config for S3")
	}
	images := util.NewS3Storage(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Region, cfg.S3.PublicBaseURL)

	// === ЖУРНАЛ ДЕЙСТВИЙ ===
	// Без PostgreSQL каталог продолжает работать, записи истории пропускаются
	var recorder audit.Recorder = audit.NopRecorder{}
	if cfg.History.Enabled {
		historyDB, err := audit.Connect(cfg.History.DSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to history database")
		}
		recorder = audit.NewRecorder(audit.NewStore(historyDB, serviceName), serviceName)
		logger.Info().Str("database", cfg.History.DBName).Msg("Connected to history database")
	}

	// === СЛОИ ПРИЛОЖЕНИЯ ===
	categoryRepo := repository.NewCategoryRepository(dbClient, repository.Tables{
		Main:            cfg.Dynamo.MainTable,
		Sub1:            cfg.Dynamo.Sub1Table,
		Sub2:            cfg.Dynamo.Sub2Table,
		NameIndex:       cfg.Dynamo.NameIndex,
		MainParentIndex: cfg.Dynamo.MainParentIndex,
		Sub1ParentIndex: cfg.Dynamo.Sub1ParentIndex,
	})

	catalogService := service.NewCatalogService(categoryRepo, redisClient, images, recorder, service.Options{
		DeletePolicy: cfg.Catalog.DeletePolicy,
	})

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	router := handler.SetupRoutes(catalogHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("delete_policy", string(cfg.Catalog.DeletePolicy)).
			Msg("Starting Catalog Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Catalog Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Catalog Service stopped gracefully")
}
