package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/domain/usecase/credit"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/lock"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/logger"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/payment"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/blockforge/credit-ledger/internal/infrastructure/adapter/time"
	"github.com/blockforge/credit-ledger/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        cfg.Logger.Level,
	}

	conn, err := database.NewConnection(dbConfig, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := database.Migrate(conn.DB, appLogger); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Repositories
	transactionRepo := repository.NewTransactionRepository(conn.DB, appLogger)
	userRepo := repository.NewUserRepository(conn.DB, tp, appLogger)

	// Per-user lock backend
	userLocker, err := buildLocker(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize lock backend", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Payment gateway
	gateway := payment.NewStripeGateway(payment.Options{
		APIKey:      cfg.Payment.StripeAPIKey,
		ProductName: cfg.Payment.ProductName,
		SuccessURL:  cfg.Payment.SuccessURL,
		CancelURL:   cfg.Payment.CancelURL,
	}, appLogger)

	// Ledger strategy, selected once at startup
	creditUseCase := credit.NewCreditUseCase(
		credit.Policy{
			EnableCredit:            cfg.Credit.EnableCredit,
			EnableBetaMonthlyRefill: cfg.Credit.EnableBetaMonthlyRefill,
			RefillAmount:            cfg.Credit.RefillAmount,
		},
		transactionRepo,
		userRepo,
		gateway,
		userLocker,
		credit.NewCostEngine(cfg.Credit.Costs),
		tp,
		appLogger,
	)

	// HTTP API
	creditHandler := handler.NewCreditHandler(creditUseCase, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, creditHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// buildLocker selects the per-user lock backend from configuration
func buildLocker(cfg *config.Config, appLogger coreport.Logger) (coreport.UserLocker, error) {
	switch cfg.Lock.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return lock.NewRedisLocker(client, appLogger, cfg.Lock.ExpirationSeconds, cfg.Lock.RetryIntervalMs), nil
	case "memory", "":
		return lock.NewKeyedMutexLocker(), nil
	default:
		return nil, fmt.Errorf("unknown lock backend: %s", cfg.Lock.Backend)
	}
}
