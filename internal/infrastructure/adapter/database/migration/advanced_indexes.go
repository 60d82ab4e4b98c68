package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes and storage settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// Apply creates the indexes and then the performance tweaks
func (m *AdvancedIndexManager) Apply(ctx context.Context, db *gorm.DB) error {
	if err := m.CreateAdvancedIndexes(ctx, db); err != nil {
		return err
	}
	m.CreatePerformanceTweaks(ctx, db)
	return nil
}

// CreateAdvancedIndexes creates PostgreSQL indexes for the hot queries
func (m *AdvancedIndexManager) CreateAdvancedIndexes(_ context.Context, db *gorm.DB) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	statements := []struct {
		name string
		sql  string
	}{
		{
			// Case-insensitive lookups by email without relying on application normalization
			name: "idx_users_email_lower",
			sql:  `CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email))`,
		},
		{
			// Covering index for the duplicate-enrollment check
			name: "idx_enrollments_user_class_covering",
			sql: `CREATE INDEX IF NOT EXISTS idx_enrollments_user_class_covering
				ON enrollments (user_id) INCLUDE (class_id)`,
		},
		{
			// Only OAuth-linked accounts carry an external id
			name: "idx_users_external_id_partial",
			sql: `CREATE INDEX IF NOT EXISTS idx_users_external_id_partial
				ON users (external_id) WHERE external_id IS NOT NULL`,
		},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL storage settings.
// Failures are logged and ignored.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(_ context.Context, db *gorm.DB) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// Leave room for HOT updates of the points balance
	if err := db.Exec(`ALTER TABLE profiles SET (fillfactor = 90)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for profiles table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := db.Exec(`ALTER TABLE enrollments ALTER COLUMN user_id SET STATISTICS 500`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for enrollments.user_id", map[string]any{
			"error": err.Error(),
		})
	}
}
