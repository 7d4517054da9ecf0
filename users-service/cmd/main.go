package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umsshop/pkg/audit"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/config"
	"umsshop/users-service/internal/app/users/handler"
	"umsshop/users-service/internal/app/users/processor"
	"umsshop/users-service/internal/app/users/repository"
	"umsshop/users-service/internal/app/users/service"
	"umsshop/users-service/internal/app/users/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "users-service"

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

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbClient, err := dynamo.NewClient(ctx, dynamo.Config{
		Region:   cfg.Dynamo.Region,
		Endpoint: cfg.Dynamo.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create DynamoDB client")
	}
	logger.Info().Str("users_table", cfg.Dynamo.UsersTable).Msg("Initialized DynamoDB client")

	pool, err := connectManagers(ctx, cfg.Managers)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to managers database")
	}
	defer pool.Close()
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure managers schema")
	}
	logger.Info().Str("database", cfg.Managers.DBName).Msg("Connected to managers database")

	// История пишется и читается одним хранилищем; без него журнал не ведется
	var (
		recorder     audit.Recorder = audit.NopRecorder{}
		historyStore audit.Store
	)
	if cfg.History.Enabled {
		historyDB, err := audit.Connect(cfg.History.DSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to history database")
		}
		historyStore = audit.NewStore(historyDB, serviceName)
		recorder = audit.NewRecorder(historyStore, serviceName)
		logger.Info().Str("database", cfg.History.DBName).Msg("Connected to history database")
	}

	userRepo := repository.NewUserRepository(dbClient, cfg.Dynamo.UsersTable, cfg.Dynamo.ApprovalIndex)
	managerRepo := repository.NewManagerRepository(pool)

	mailer := util.NewSMTPMailer(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.From,
		"approval_reminder",
	)

	notificationService := service.NewNotificationService(userRepo)
	userService := service.NewUserService(userRepo, notificationService, recorder)
	managerService := service.NewManagerService(managerRepo, recorder)
	eventProcessor := service.NewEventProcessor(notificationService)
	reminderService := service.NewReminderService(userRepo, mailer, cfg.Mail.AdminEmail, recorder)

	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topics,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		eventProcessor,
	)
	kafkaConsumer.Start(ctx)
	logger.Info().
		Strs("topics", cfg.Kafka.Topics).
		Str("group", cfg.Kafka.GroupID).
		Msg("Kafka consumer started")

	cronScheduler := processor.NewCronScheduler(reminderService)
	if err := cronScheduler.Start(ctx, cfg.Cron.ReminderSchedule); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Cron.ReminderSchedule).Msg("Failed to start cron scheduler")
	}

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(handler.Handlers{
		Users:         handler.NewUserHandler(userService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Managers:      handler.NewManagerHandler(managerService),
		History:       handler.NewHistoryHandler(historyStore),
	}, authMiddleware)

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
			Msg("Starting Users Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Users Service...")

	cronScheduler.Stop()
	kafkaConsumer.Stop()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Users Service stopped gracefully")
}

// connectManagers пул pgx с повторами на старте, как при запуске в Docker
func connectManagers(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 5 * time.Minute

	for i := 0; i < 10; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts")
}
