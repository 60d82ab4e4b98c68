package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "CB"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// errNoDotEnv reports that no .env file exists in the search paths
var errNoDotEnv = errors.New("no .env file found in search paths")

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Values from .env become plain environment variables
	if err := loadDotEnvFile(); err != nil && !errors.Is(err, errNoDotEnv) {
		fmt.Fprintln(os.Stderr, "Warning: could not load .env file:", err)
	}

	return Load(getEnvironment(), ConfigPaths)
}

// Load reads <env>.yaml from the first matching path and applies environment overrides
func Load(env string, configPaths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in DotEnvPaths
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("could not load %s: %w", path, err)
		}
		return nil
	}
	return errNoDotEnv
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.requestTimeout", 10)    // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "class-booking.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5) // minutes
	v.SetDefault("database.connMaxIdleTime", 5) // minutes
	v.SetDefault("database.queryTimeout", 10)   // seconds
	v.SetDefault("database.slowThreshold", 200) // milliseconds
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 2) // seconds
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("session.store", "redis")
	v.SetDefault("session.ttlHours", 24)
	v.SetDefault("session.cookieName", "cb_session")
	v.SetDefault("session.cookieSameSite", "lax")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.prefix", "session:")

	v.SetDefault("oauth.frontendUrl", "http://localhost:3000")
	v.SetDefault("oauth.failureRedirect", "/login")

	v.SetDefault("points.initial", 0)

	v.SetDefault("admin.name", "Administrator")
}

// getEnvironment determines the environment to use based on CB_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values.
// Secrets are expected to come only from here.
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"CB_DB_DRIVER":            "database.driver",
		"CB_DB_HOST":              "database.host",
		"CB_DB_USERNAME":          "database.username",
		"CB_DB_PASSWORD":          "database.password",
		"CB_DB_NAME":              "database.name",
		"CB_DB_SSL_MODE":          "database.sslMode",
		"CB_DB_PATH":              "database.path",
		"CB_REDIS_HOST":           "redis.host",
		"CB_REDIS_PASSWORD":       "redis.password",
		"CB_SESSION_SECRET":       "session.secret",
		"CB_SESSION_STORE":        "session.store",
		"CB_GOOGLE_CLIENT_ID":     "oauth.googleClientId",
		"CB_GOOGLE_CLIENT_SECRET": "oauth.googleClientSecret",
		"CB_GOOGLE_CALLBACK_URL":  "oauth.googleCallbackUrl",
		"CB_FRONTEND_URL":         "oauth.frontendUrl",
		"CB_SERVER_HOST":          "server.host",
		"CB_LOGGER_LEVEL":         "logger.level",
		"CB_ADMIN_EMAIL":          "admin.email",
		"CB_ADMIN_PASSWORD":       "admin.password",
		"CB_ADMIN_NAME":           "admin.name",
	}
	for env, key := range overrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	intOverrides := map[string]string{
		"CB_DB_PORT":                "database.port",
		"CB_DB_MAX_OPEN_CONNS":      "database.maxOpenConns",
		"CB_DB_MAX_IDLE_CONNS":      "database.maxIdleConns",
		"CB_DB_QUERY_TIMEOUT":       "database.queryTimeout",
		"CB_REDIS_PORT":             "redis.port",
		"CB_REDIS_DB":               "redis.db",
		"CB_SERVER_PORT":            "server.port",
		"CB_SERVER_REQUEST_TIMEOUT": "server.requestTimeout",
		"CB_SESSION_TTL_HOURS":      "session.ttlHours",
		"CB_POINTS_INITIAL":         "points.initial",
	}
	for env, key := range intOverrides {
		if value, ok := getEnvInt(env); ok {
			v.Set(key, value)
		}
	}
}

// getEnvInt reads an integer environment variable, ok is false when unset or malformed
func getEnvInt(name string) (int, bool) {
	valStr := os.Getenv(name)
	if valStr == "" {
		return 0, false
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, false
	}
	return val, true
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second
	config.Server.RequestTimeout = time.Duration(config.Server.RequestTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.SlowThreshold = time.Duration(config.Database.SlowThreshold) * time.Millisecond
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
}
