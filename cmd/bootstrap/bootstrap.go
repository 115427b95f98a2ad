package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hospital-internment/config"
	deliveryHttp "go-hospital-internment/internal/delivery/http"
	"go-hospital-internment/internal/delivery/http/handler"
	"go-hospital-internment/internal/delivery/http/middleware"
	domainRepo "go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/infrastructure/cache"
	"go-hospital-internment/internal/infrastructure/database"
	"go-hospital-internment/internal/repository"
	"go-hospital-internment/internal/service"
	"go-hospital-internment/internal/usecase"
	"go-hospital-internment/pkg/jwt"
	"go-hospital-internment/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// lifecycle is implemented by every usecase that keeps a live record set
type lifecycle interface {
	Start(ctx context.Context) error
	Stop()
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Feed        *service.RedisChangeFeed
	Server      *http.Server

	usecases []lifecycle
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.Log)
	app.Log.Info("Configuration loaded successfully")

	// Initialize the record store
	store, denylist, err := app.initializeStore(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize all layers
	server, err := app.initializeServer(cfg, store, denylist)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeStore wires postgres with the redis change feed, or the in-process store
func (app *App) initializeStore(cfg *config.Config) (domainRepo.RecordStore, service.TokenDenylist, error) {
	if cfg.Store.Backend == config.StoreBackendMemory {
		app.Log.Warn("Using the in-memory record store, data will not survive a restart")
		return repository.NewMemoryRecordStore(), service.NewMemoryTokenDenylist(), nil
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, app.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	if err := database.RunMigrations(db, app.Log); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	app.Feed = service.NewRedisChangeFeed(redisClient, app.Log)

	return repository.NewDocumentStore(db, app.Feed, app.Log), service.NewRedisTokenDenylist(redisClient), nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, store domainRepo.RecordStore, denylist service.TokenDenylist) (*http.Server, error) {
	log := app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	// Initialize services
	auditService := service.NewAuditService(store, log)
	credentialService := service.NewCredentialService(service.NewLogCredentialNotifier(log), log, cfg.Credential.BcryptCost)

	// Initialize usecases
	wardUsecase := usecase.NewWardUsecase(log, store, auditService, metrics, usecase.DefaultWards())
	patientUsecase := usecase.NewPatientUsecase(log, store, wardUsecase, credentialService, auditService, metrics)
	diaryUsecase := usecase.NewDiaryUsecase(log, store, cfg.Clinical)
	validationUsecase := usecase.NewValidationUsecase(log, store, patientUsecase, auditService, metrics)
	dischargeUsecase := usecase.NewDischargeUsecase(log, store, patientUsecase, diaryUsecase, cfg.Clinical)
	messageUsecase := usecase.NewMessageUsecase(log, store, patientUsecase)
	doctorUsecase := usecase.NewDoctorUsecase(log, store, usecase.DefaultDoctors())
	hospitalUsecase := usecase.NewHospitalUsecase(log, store)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, store)

	// Wards load before patients so admissions see the current beds
	ctx := context.Background()
	for _, u := range []lifecycle{wardUsecase, patientUsecase, diaryUsecase, validationUsecase, dischargeUsecase, messageUsecase, doctorUsecase} {
		if err := u.Start(ctx); err != nil {
			app.stopUsecases()
			return nil, fmt.Errorf("failed to start usecase: %w", err)
		}
		app.usecases = append(app.usecases, u)
	}

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:      handler.NewAuthHandler(log, denylist),
		Ward:      handler.NewWardHandler(wardUsecase, customValidator),
		Patient:   handler.NewPatientHandler(patientUsecase, customValidator),
		Diary:     handler.NewDiaryHandler(diaryUsecase, patientUsecase, customValidator),
		Referral:  handler.NewReferralHandler(validationUsecase, customValidator),
		Discharge: handler.NewDischargeHandler(dischargeUsecase, customValidator),
		Message:   handler.NewMessageHandler(messageUsecase, customValidator),
		Doctor:    handler.NewDoctorHandler(doctorUsecase, customValidator),
		Hospital:  handler.NewHospitalHandler(hospitalUsecase, customValidator),
		AuditLog:  handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, denylist)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, registry)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

func (app *App) stopUsecases() {
	for i := len(app.usecases) - 1; i >= 0; i-- {
		app.usecases[i].Stop()
	}
	app.usecases = nil
}

// Close stops the live subscriptions and closes all connections
func (app *App) Close() {
	app.stopUsecases()

	if app.Feed != nil {
		app.Feed.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Migrate applies the pending schema migrations and exits
func Migrate() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg.Log)

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return database.RunMigrations(db, log)
}
