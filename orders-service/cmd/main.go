package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umsshop/orders-service/internal/app/orders/config"
	"umsshop/orders-service/internal/app/orders/handler"
	"umsshop/orders-service/internal/app/orders/infrastructure"
	"umsshop/orders-service/internal/app/orders/infrastructure/messaging"
	"umsshop/orders-service/internal/app/orders/infrastructure/push"
	"umsshop/orders-service/internal/app/orders/repository"
	"umsshop/orders-service/internal/app/orders/service"
	"umsshop/pkg/audit"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"
)

const serviceName = "orders-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx := context.Background()

	dbClient, err := dynamo.NewClient(ctx, dynamo.Config{
		Region:   cfg.Dynamo.Region,
		Endpoint: cfg.Dynamo.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create DynamoDB client")
	}
	logger.Info().
		Str("orders_table", cfg.Dynamo.OrdersTable).
		Str("users_table", cfg.Dynamo.UsersTable).
		Msg("Initialized DynamoDB client")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	// Без учетных данных Firebase сообщения сохраняются, push не отправляется
	var pushSender infrastructure.PushSender = push.NopSender{}
	if cfg.Firebase.Enabled {
		fcm, err := push.NewFCMSender(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Firebase messaging")
		}
		pushSender = fcm
		logger.Info().Str("project_id", cfg.Firebase.ProjectID).Msg("Initialized Firebase messaging")
	}

	var recorder audit.Recorder = audit.NopRecorder{}
	if cfg.History.Enabled {
		historyDB, err := audit.Connect(cfg.History.DSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to history database")
		}
		recorder = audit.NewRecorder(audit.NewStore(historyDB, serviceName), serviceName)
		logger.Info().Str("database", cfg.History.DBName).Msg("Connected to history database")
	}

	orderRepo := repository.NewOrderRepository(dbClient, cfg.Dynamo.OrdersTable, cfg.Dynamo.UserEmailIndex)
	userDirectory := repository.NewUserDirectory(dbClient, cfg.Dynamo.UsersTable)

	orderService := service.NewOrderService(
		orderRepo,
		userDirectory,
		kafkaProducer,
		pushSender,
		recorder,
	)

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	orderHandler := handler.NewOrderHandler(orderService)
	router := handler.SetupRoutes(orderHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Orders Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Orders Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Orders Service stopped gracefully")
}
