package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-frontdesk/config"
	deliveryHttp "hospital-frontdesk/internal/delivery/http"
	"hospital-frontdesk/internal/delivery/http/handler"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/infrastructure/cache"
	"hospital-frontdesk/internal/infrastructure/database"
	"hospital-frontdesk/internal/infrastructure/messaging"
	"hospital-frontdesk/internal/repository"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/jwt"
	"hospital-frontdesk/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   messaging.Publisher
	Server      *http.Server
}

// LoadConfig reads configuration and applies the configured log level.
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	log := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.App.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, log, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}
	log.Info("Configuration loaded successfully")

	if cfg.Migrations.AutoMigrate {
		if err := Migrate(cfg, func(m *database.Migrator) error { return m.Up() }); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Publisher = messaging.NewPublisher(cfg.Kafka, log)
	app.Server = initializeServer(cfg, log, db, redisClient, app.Publisher)

	return app, nil
}

// Migrate opens the embedded migrator, runs fn and closes it.
func Migrate(cfg *config.Config, fn func(m *database.Migrator) error) error {
	migrator, err := database.NewMigrator(cfg.DB)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return fn(migrator)
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, publisher messaging.Publisher) *http.Server {
	location := cfg.App.Location

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	transactor := database.NewTransactor(db)

	// Repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	departmentRepo := repository.NewDepartmentRepository()
	doctorRepo := repository.NewDoctorRepository()
	staffRepo := repository.NewStaffRepository()
	patientRepo := repository.NewPatientRepository()
	visitRepo := repository.NewPatientVisitRepository()
	procedureRepo := repository.NewProcedureRepository()
	productRepo := repository.NewProductRepository()
	stockRepo := repository.NewStockRepository()
	billRepo := repository.NewBillRepository()
	refundRepo := repository.NewRefundRepository()
	expenseRepo := repository.NewExpenseRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	sessionService := service.NewSessionService(redisClient, log)
	tokenService := service.NewTokenService(transactor, redisClient, log, location, departmentRepo, doctorRepo, procedureRepo, visitRepo)
	stockService := service.NewStockService(log, stockRepo, publisher)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(transactor, log, userRepo, jwtService, sessionService, auditService)
	userUsecase := usecase.NewUserUsecase(transactor, log, userRepo, roleRepo, sessionService, auditService)
	patientUsecase := usecase.NewPatientUsecase(transactor, log, patientRepo, visitRepo, doctorRepo, tokenService)
	procedureUsecase := usecase.NewProcedureUsecase(transactor, log, procedureRepo, patientRepo, visitRepo, doctorRepo, tokenService, auditService)
	productUsecase := usecase.NewProductUsecase(transactor, log, productRepo, auditService)
	billUsecase := usecase.NewBillUsecase(transactor, log, billRepo, stockService, auditService)
	refundUsecase := usecase.NewRefundUsecase(transactor, log, location, refundRepo, patientRepo, visitRepo, auditService)
	expenseUsecase := usecase.NewExpenseUsecase(transactor, log, expenseRepo)
	summaryUsecase := usecase.NewSummaryUsecase(transactor, log, visitRepo, refundRepo, procedureRepo, billRepo, expenseRepo, doctorRepo)
	departmentUsecase := usecase.NewDepartmentUsecase(transactor, log, departmentRepo)
	doctorUsecase := usecase.NewDoctorUsecase(transactor, log, doctorRepo, departmentRepo)
	staffUsecase := usecase.NewStaffUsecase(transactor, log, staffRepo, departmentRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(transactor, log, auditLogRepo)

	handlers := deliveryHttp.Handlers{
		Auth:       handler.NewAuthHandler(authUsecase, customValidator, jwtService),
		User:       handler.NewUserHandler(userUsecase, customValidator),
		Patient:    handler.NewPatientHandler(patientUsecase, customValidator),
		Procedure:  handler.NewProcedureHandler(procedureUsecase, customValidator),
		Bill:       handler.NewBillHandler(billUsecase, customValidator, location),
		Product:    handler.NewProductHandler(productUsecase, customValidator),
		Refund:     handler.NewRefundHandler(refundUsecase, customValidator, location),
		Expense:    handler.NewExpenseHandler(expenseUsecase, customValidator, location),
		Summary:    handler.NewSummaryHandler(summaryUsecase, location),
		Department: handler.NewDepartmentHandler(departmentUsecase, customValidator),
		Doctor:     handler.NewDoctorHandler(doctorUsecase, customValidator),
		Staff:      handler.NewStaffHandler(staffUsecase, customValidator),
		AuditLog:   handler.NewAuditLogHandler(auditLogUsecase),
	}

	router := deliveryHttp.NewRouter(handlers,
		middleware.NewAuthMiddleware(jwtService, sessionService),
		middleware.NewCORSMiddleware(cfg.App.CORSOrigins...),
		middleware.NewLoggingMiddleware(log),
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s, timezone: %s", app.Config.App.Env, app.Config.App.Location)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close releases the publisher, database and Redis connections
func (app *App) Close() {
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close stock publisher: %v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
