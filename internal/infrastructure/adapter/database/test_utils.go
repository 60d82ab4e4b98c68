package database

import (
	"context"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/time"
)

// TestDBManager provides a migrated in-memory SQLite database for tests
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider *timeprovider.FixedTimeProvider
}

// NewTestDBManager connects to a private in-memory SQLite database and migrates it.
// The connection is closed when the test ends.
func NewTestDBManager(t *testing.T) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewFixedTimeProvider(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()

	config := DefaultConfig()
	config.Driver = DriverSQLite
	config.Path = ":memory:"
	config.LogLevel = "silent"
	config.RetryAttempts = 1
	config.QueryTimeout = 5 * time.Second

	manager := NewManager(config, log, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       log,
		TimeProvider: timeProvider,
	}
}
