package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unihealth-admin/config"
	"unihealth-admin/internal/console"
	deliveryHttp "unihealth-admin/internal/delivery/http"
	"unihealth-admin/internal/delivery/http/handler"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/infrastructure/cache"
	"unihealth-admin/internal/infrastructure/database"
	"unihealth-admin/internal/repository"
	"unihealth-admin/internal/service"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/jwt"
	"unihealth-admin/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options tweaks startup for the serve command
type Options struct {
	MigrateOnStart bool
}

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	SessionStore service.ConsoleSessionStore
	Server       *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(opts Options) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	app.Log = log

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if opts.MigrateOnStart {
		migrator, err := database.NewMigrator(db, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		if err := migrator.Up(); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	if err := app.initializeServer(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// MigrateDirection selects what Migrate does
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// Migrate runs the embedded migrations without starting the server
func Migrate(direction MigrateDirection, steps int) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	migrator, err := database.NewMigrator(db, log)
	if err != nil {
		return err
	}

	switch direction {
	case MigrateUp:
		return migrator.Up()
	case MigrateDown:
		return migrator.Down(steps)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

// newLogger configures the logrus logger
func newLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() error {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	defaultRole, ok := entity.ParseUserRole(cfg.Console.DefaultRole)
	if !ok {
		return fmt.Errorf("invalid CONSOLE_DEFAULT_ROLE %q", cfg.Console.DefaultRole)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	affiliationRepo := repository.NewClinicAffiliationRepository()
	systemSettingRepo := repository.NewSystemSettingRepository()
	clinicSettingRepo := repository.NewClinicSettingRepository()
	medicalServiceRepo := repository.NewMedicalServiceRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	sessionStore := service.NewRedisConsoleSessionStore(redisClient, log, cfg.Console.SessionTTL)
	app.SessionStore = sessionStore
	policy, err := service.NewPolicyService(log)
	if err != nil {
		return fmt.Errorf("failed to build access policy: %w", err)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, sessionStore, jwtService, redisClient)
	generalSettingsUsecase := usecase.NewGeneralSettingsUsecase(db, log, systemSettingRepo, auditService, sessionStore)
	userManagementUsecase := usecase.NewUserManagementUsecase(db, log, userRepo, roleRepo, auditService, sessionStore)
	clinicSettingsUsecase := usecase.NewClinicSettingsUsecase(db, log, clinicSettingRepo, auditService, sessionStore)
	medicalServiceUsecase := usecase.NewMedicalServiceUsecase(db, log, medicalServiceRepo, auditService, sessionStore)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo, auditService)
	affiliationUsecase := usecase.NewAffiliationUsecase(db, log, doctorProfileRepo, affiliationRepo, auditService, sessionStore)

	panels := console.NewRegistry(generalSettingsUsecase, userManagementUsecase, clinicSettingsUsecase, medicalServiceUsecase, auditLogUsecase)
	consoleUsecase := usecase.NewSettingsConsoleUsecase(log, sessionStore, panels)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	consoleHandler := handler.NewConsoleHandler(consoleUsecase, customValidator)
	affiliationHandler := handler.NewAffiliationHandler(affiliationUsecase, customValidator)
	generalSettingsHandler := handler.NewGeneralSettingsHandler(generalSettingsUsecase, customValidator)
	userManagementHandler := handler.NewUserManagementHandler(userManagementUsecase, customValidator)
	clinicSettingsHandler := handler.NewClinicSettingsHandler(clinicSettingsUsecase, customValidator)
	medicalServiceHandler := handler.NewMedicalServiceHandler(medicalServiceUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, defaultRole)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		consoleHandler,
		affiliationHandler,
		generalSettingsHandler,
		userManagementHandler,
		clinicSettingsHandler,
		medicalServiceHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		policy,
	)
	httpRouter := router.Setup()

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
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

// Close stops background work and closes all connections
func (app *App) Close() {
	if app.SessionStore != nil {
		app.SessionStore.Stop()
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
