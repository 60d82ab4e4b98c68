package session

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys in a shared Redis
const DefaultKeyPrefix = "session:"

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
	Prefix   string `mapstructure:"prefix"`
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedisClient creates a Redis client and checks the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	options := &redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// RedisStore keeps sessions in Redis with a per-key TTL
type RedisStore struct {
	client redis.Cmdable
	prefix string
	logger coreport.Logger
}

// NewRedisStore creates a session store backed by Redis
func NewRedisStore(client redis.Cmdable, prefix string, logger coreport.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save stores the subject under sessionID for ttl
func (s *RedisStore) Save(ctx context.Context, sessionID, subject string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), subject, ttl).Err(); err != nil {
		s.logger.Error("Failed to save session", map[string]any{"error": err.Error()})
		return errs.NewStoreError("save session", err)
	}
	return nil
}

// Get returns the subject stored under sessionID
func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	subject, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to read session", map[string]any{"error": err.Error()})
		return "", errs.NewStoreError("get session", err)
	}
	return subject, nil
}

// Delete removes the session
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		s.logger.Error("Failed to delete session", map[string]any{"error": err.Error()})
		return errs.NewStoreError("delete session", err)
	}
	return nil
}
