package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/external"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	classUseCase "github.com/amirhossein-jamali/class-booking/internal/domain/usecase/class"
	enrollmentUseCase "github.com/amirhossein-jamali/class-booking/internal/domain/usecase/enrollment"
	identityUseCase "github.com/amirhossein-jamali/class-booking/internal/domain/usecase/identity"

	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/crypto"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/oauth"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/session"
	timeProvider "github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

const serviceName = "class-booking"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Level:       cfg.Logger.Level,
		Format:      cfg.Logger.Format,
		ServiceName: serviceName,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ctx := context.Background()

	// Connect to the database
	dbManager := database.NewManager(newDatabaseConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()
	dbManager.StartMonitoring(time.Minute)

	if cfg.Database.AutoMigrate {
		if err := dbManager.Migrate(ctx); err != nil {
			appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	// Unit of work and repositories
	uow := dbManager.CreateUnitOfWork()
	classRepo := repository.NewClassRepository(dbManager.DB(), appLogger)

	// Use cases
	identityUseCaseImpl := identityUseCase.NewIdentityUseCase(
		uow,
		crypto.NewBcryptHasher(crypto.DefaultCost),
		tp,
		appLogger,
		cfg.Points.Initial,
	)
	classUseCaseImpl := classUseCase.NewClassUseCase(classRepo, tp, appLogger)
	enrollmentUseCaseImpl := enrollmentUseCase.NewEnrollmentUseCase(uow, tp, appLogger)

	// Operator admin account
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := identityUseCaseImpl.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			appLogger.Error("Failed to provision admin account", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	// Sessions
	sessionStore, closeStore, err := newSessionStore(ctx, cfg, tp, appLogger)
	if err != nil {
		appLogger.Error("Failed to create session store", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer closeStore()

	codec, err := session.NewTokenCodec(cfg.Session.Secret, serviceName, tp)
	if err != nil {
		appLogger.Error("Failed to create session codec", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	sessionManager := session.NewManager(sessionStore, codec, cfg.Session.TTL(), appLogger)

	cookies := handler.NewCookieHelper(handler.CookieConfig{
		Name:     cfg.Session.CookieName,
		Domain:   cfg.Session.CookieDomain,
		Secure:   cfg.Session.CookieSecure,
		SameSite: cfg.Session.CookieSameSite,
	})

	// External identity provider
	var provider external.IdentityProvider
	googleConfig := oauth.GoogleConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		CallbackURL:  cfg.OAuth.GoogleCallbackURL,
	}
	if googleConfig.Enabled() {
		provider = oauth.NewGoogleProvider(googleConfig, appLogger)
	} else {
		appLogger.Warn("Google OAuth is not configured, /auth/google is disabled", nil)
	}

	// Initialize API handlers
	authHandler := handler.NewAuthHandler(
		identityUseCaseImpl,
		sessionManager,
		provider,
		cookies,
		handler.OAuthRedirects{
			SuccessURL: cfg.OAuth.FrontendURL,
			FailureURL: cfg.OAuth.FailureRedirect,
		},
		appLogger,
	)
	classHandler := handler.NewClassHandler(classUseCaseImpl, enrollmentUseCaseImpl, appLogger)
	healthHandler := handler.NewHealthHandler(dbManager, appLogger)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, cfg.Server.RequestTimeout,
		middleware.Authenticate(sessionManager, identityUseCaseImpl, cookies.SessionCookieName(), appLogger))
	routes.SetupRoutes(router, authHandler, classHandler, healthHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// newDatabaseConfig maps the application config onto the database adapter config
func newDatabaseConfig(cfg *config.Config) *database.Config {
	return &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		SlowThreshold:   cfg.Database.SlowThreshold,
		LogLevel:        cfg.Database.LogLevel,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
		AutoMigrate:     cfg.Database.AutoMigrate,
	}
}

// newSessionStore builds the configured session store and its cleanup
func newSessionStore(
	ctx context.Context,
	cfg *config.Config,
	tp coreport.TimeProvider,
	appLogger coreport.Logger,
) (persistence.SessionStore, func(), error) {
	if cfg.Session.Store != "redis" {
		appLogger.Info("Using in-process session store", nil)
		return session.NewMemoryStore(tp), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, session.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		return nil, nil, err
	}

	appLogger.Info("Connected to Redis session store", map[string]any{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	})

	closeClient := func() {
		if err := client.Close(); err != nil {
			appLogger.Error("Failed to close Redis client", map[string]any{"error": err.Error()})
		}
	}
	return session.NewRedisStore(client, cfg.Redis.Prefix, appLogger), closeClient, nil
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Database credentials are only required for PostgreSQL
	switch cfg.Database.Driver {
	case database.DriverPostgres:
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or CB_DB_HOST environment variable)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or CB_DB_USERNAME environment variable)")
		}
		if cfg.Database.Password == "" {
			missingConfigs = append(missingConfigs, "database.password (or CB_DB_PASSWORD environment variable)")
		}
		if cfg.Database.Name == "" {
			missingConfigs = append(missingConfigs, "database.name (or CB_DB_NAME environment variable)")
		}
	case database.DriverSQLite:
		if cfg.Database.Path == "" {
			missingConfigs = append(missingConfigs, "database.path")
		}
	default:
		return fmt.Errorf("invalid database driver: %s, must be %s or %s",
			cfg.Database.Driver, database.DriverPostgres, database.DriverSQLite)
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Sessions
	if cfg.Session.Secret == "" {
		missingConfigs = append(missingConfigs, "session.secret (or CB_SESSION_SECRET environment variable)")
	} else if len(cfg.Session.Secret) < session.MinSecretLength {
		return fmt.Errorf("session secret must be at least %d bytes", session.MinSecretLength)
	}
	if cfg.Session.TTLHours <= 0 {
		missingConfigs = append(missingConfigs, "session.ttlHours")
	}
	switch cfg.Session.Store {
	case "redis":
		if cfg.Redis.Host == "" {
			missingConfigs = append(missingConfigs, "redis.host (or CB_REDIS_HOST environment variable)")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid session store: %s, must be redis or memory", cfg.Session.Store)
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver == database.DriverPostgres &&
			sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if !cfg.Session.CookieSecure {
			warnings = append(warnings, "session.cookieSecure should be true in production")
		}
		if cfg.Session.Store == "memory" {
			warnings = append(warnings, "session.store memory does not survive restarts or span instances")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
