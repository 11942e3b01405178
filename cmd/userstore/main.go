package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eion/userstore/internal/config"
	"github.com/eion/userstore/internal/health"
	"github.com/eion/userstore/internal/mongodb"
	"github.com/eion/userstore/internal/server"
	"github.com/eion/userstore/internal/users"
)

// AppState holds all application services
type AppState struct {
	Deployment string
	Logger     *zap.Logger
	Config     *config.Config
	Mongo      *mongodb.Client // nil with the memory driver
	Store      users.UserStore
	Health     *health.Manager
}

func main() {
	_ = godotenv.Load() // Load .env file if present
	Execute()
}

func run(deployment, configFile string) error {
	// Load configuration
	config.Load(configFile)
	if err := config.Get().Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger with config
	logger := initLogger().With(zap.String("deployment", deployment))
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	as, err := newAppState(ctx, deployment, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	if err := as.Health.StartupHealthCheck(ctx); err != nil {
		logger.Fatal("Startup health check failed", zap.Error(err))
	}

	d, _ := config.Deployment(deployment)
	gin.SetMode(gin.ReleaseMode)
	srv := server.New(server.Options{
		Deployment:     deployment,
		Store:          as.Store,
		StatusCodes:    users.StatusTableFor(config.Http().StatusCodes),
		Health:         as.Health,
		Logger:         logger,
		ListAll:        d.ListAll,
		MaxRequestSize: config.Http().MaxRequestSize,
	})

	addr := config.Http().Addr()
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	// Setup graceful shutdown
	done := setupSignalHandler(as, httpServer, logger)

	logger.Info("Starting user service",
		zap.String("address", addr),
		zap.String("status_codes", config.Http().StatusCodes),
		zap.Bool("list_all", d.ListAll))

	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
	return nil
}

// newAppState connects storage for the deployment and wires the store on top.
// A MongoDB connection failure is returned as is and aborts startup.
func newAppState(ctx context.Context, deployment string, logger *zap.Logger) (*AppState, error) {
	d, err := config.Deployment(deployment)
	if err != nil {
		return nil, err
	}

	as := &AppState{
		Deployment: deployment,
		Logger:     logger,
		Config:     config.Get(),
		Health:     health.NewManager(logger),
	}

	switch config.Storage().Driver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage, records are lost on restart",
			zap.String("collection", d.Collection))
		as.Store = users.NewStore(users.NewMemoryCollection(d.Collection), logger)

	default:
		mongoConfig := config.Mongo()
		logger.Info("Database configuration",
			zap.String("host", mongoConfig.Host),
			zap.Int("port", mongoConfig.Port),
			zap.String("database", d.Database),
			zap.String("collection", d.Collection))

		client, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            mongoConfig.URI(),
			ConnectTimeout: mongoConfig.ConnectTimeoutDuration(),
		}, logger)
		if err != nil {
			return nil, err
		}

		as.Mongo = client
		as.Health.AddChecker(client)
		as.Store = users.NewStore(client.Collection(d.Database, d.Collection), logger)
	}

	return as, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), config.Http().ShutdownTimeoutDuration())
		defer cancel()

		// Shutdown server
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		// Close the database connection
		if as.Mongo != nil {
			if err := as.Mongo.Close(ctx); err != nil {
				logger.Error("Error closing MongoDB connection", zap.Error(err))
			}
		}

		done <- struct{}{}
	}()

	return done
}
