package migration

import (
	"context"
	"errors"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.1.0"
)

// Migration is one versioned schema change
type Migration struct {
	Version      string
	Description  string
	PostgresOnly bool
	Up           func(ctx context.Context, tx *gorm.DB) error
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
	migrations       []Migration
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	m := &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
	m.migrations = []Migration{
		{
			Version:     "1.0.0",
			Description: "Base schema: users, profiles, classes, enrollments",
			Up:          m.createBaseSchema,
		},
		{
			Version:     "1.0.1",
			Description: "Schedule ordering index",
			Up:          m.createIndexes,
		},
		{
			Version:      "1.1.0",
			Description:  "PostgreSQL indexes and storage tweaks",
			PostgresOnly: true,
			Up:           m.advancedIndexMgr.Apply,
		},
	}
	return m
}

func (m *MigrationManager) isPostgres() bool {
	return m.db.Dialector.Name() == "postgres"
}

// MigrateAll applies every migration that has not been recorded yet
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
		"dialect":        m.db.Dialector.Name(),
	})

	// Create migration version table first
	if err := m.db.WithContext(ctx).AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	for _, migration := range m.migrations {
		applied, err := m.isApplied(ctx, migration.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		details := migration.Description
		if migration.PostgresOnly && !m.isPostgres() {
			details += " (skipped on " + m.db.Dialector.Name() + ")"
		} else if err := migration.Up(ctx, m.db.WithContext(ctx)); err != nil {
			m.logger.Error("Migration failed", map[string]any{
				"version": migration.Version,
				"error":   err.Error(),
			})
			return err
		}

		if err := m.setVersion(ctx, migration.Version, details); err != nil {
			m.logger.Error("Failed to record schema version", map[string]any{
				"error":   err.Error(),
				"version": migration.Version,
			})
			return err
		}

		m.logger.Info("Migration applied", map[string]any{
			"version": migration.Version,
			"details": details,
		})
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion gets the most recently applied migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").Order("id desc").First(&version)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil // No version found
		}
		return "", result.Error
	}

	return version.Version, nil
}

func (m *MigrationManager) isApplied(ctx context.Context, version string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(&model.MigrationVersion{}).
		Where("version = ?", version).
		Count(&count).Error
	return count > 0, err
}

// setVersion records a new migration version
func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	migrationVersion := model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}
	return m.db.WithContext(ctx).Create(&migrationVersion).Error
}

// createBaseSchema auto-migrates the domain models
func (m *MigrationManager) createBaseSchema(_ context.Context, db *gorm.DB) error {
	m.logger.Info("Auto-migrating database models", nil)

	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Class{},
		&model.Enrollment{},
	)
}

// createIndexes creates indexes every dialect understands
func (m *MigrationManager) createIndexes(_ context.Context, db *gorm.DB) error {
	m.logger.Info("Creating database indexes", nil)

	// Matches the ORDER BY of the catalog listing
	return db.Exec("CREATE INDEX IF NOT EXISTS idx_classes_schedule_order ON classes (scheduled_at, id)").Error
}
