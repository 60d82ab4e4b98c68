package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Session     SessionConfig  `mapstructure:"session"`
	Redis       RedisConfig    `mapstructure:"redis"`
	OAuth       OAuthConfig    `mapstructure:"oauth"`
	Points      PointsConfig   `mapstructure:"points"`
	Admin       AdminConfig    `mapstructure:"admin"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	RequestTimeout    time.Duration `mapstructure:"requestTimeout"`    // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslMode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowThreshold   time.Duration `mapstructure:"slowThreshold"`   // milliseconds
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig contains session and cookie settings
type SessionConfig struct {
	Store          string `mapstructure:"store"` // redis or memory
	Secret         string `mapstructure:"secret"`
	TTLHours       int    `mapstructure:"ttlHours"`
	CookieName     string `mapstructure:"cookieName"`
	CookieDomain   string `mapstructure:"cookieDomain"`
	CookieSecure   bool   `mapstructure:"cookieSecure"`
	CookieSameSite string `mapstructure:"cookieSameSite"`
}

// TTL returns the session lifetime
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
	Prefix   string `mapstructure:"prefix"`
}

// OAuthConfig contains the Google client and browser redirect settings
type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"googleClientId"`
	GoogleClientSecret string `mapstructure:"googleClientSecret"`
	GoogleCallbackURL  string `mapstructure:"googleCallbackUrl"`
	FrontendURL        string `mapstructure:"frontendUrl"`
	FailureRedirect    string `mapstructure:"failureRedirect"`
}

// PointsConfig contains the points balance settings
type PointsConfig struct {
	Initial int64 `mapstructure:"initial"`
}

// AdminConfig names the operator account provisioned at start-up
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}
