package repository

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository implements ProfileRepository interface using GORM
type ProfileRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewProfileRepository creates a new ProfileRepository instance
func NewProfileRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func profileToEntity(m *model.Profile) *entity.Profile {
	return entity.RestoreProfile(m.UserID, m.Points, m.CreatedAt, m.UpdatedAt)
}

func (r *ProfileRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrProfileNotFound
	}

	// The CHECK (points >= 0) constraint is the last line behind the guarded update
	if r.errorClassifier.IsCheckViolation(err) {
		return errs.ErrInsufficientPoints
	}

	r.logger.Error("Database error on profiles", map[string]any{
		"user_id":   userID,
		"operation": operation,
		"error":     err.Error(),
	})
	return r.errorClassifier.storeError(operation, err)
}

// GetByUserID retrieves the profile of a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Profile, error) {
	var profileModel model.Profile
	if err := r.db.WithContext(ctx).First(&profileModel, "user_id = ?", userID).Error; err != nil {
		return nil, r.handleDatabaseError("get profile", err, userID)
	}
	return profileToEntity(&profileModel), nil
}

// Create inserts a profile
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	profileModel := model.Profile{
		UserID:    profile.UserID,
		Points:    profile.Points(),
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&profileModel).Error; err != nil {
		return r.handleDatabaseError("insert profile", err, profile.UserID)
	}
	return nil
}

// DeductPoints subtracts cost in a single guarded UPDATE:
//
//	UPDATE profiles SET points = points - cost WHERE user_id = ? AND points >= cost
//
// No row affected means either the profile is missing or the balance is short.
func (r *ProfileRepository) DeductPoints(ctx context.Context, userID uint64, cost int64) (*entity.Profile, error) {
	if cost < 0 {
		return nil, errs.Validationf("cost cannot be negative")
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&model.Profile{}).
		Where("user_id = ? AND points >= ?", userID, cost).
		Updates(map[string]any{
			"points":     gorm.Expr("points - ?", cost),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return nil, r.handleDatabaseError("deduct points", result.Error, userID)
	}

	current, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		r.logger.Info("Guarded points update rejected", map[string]any{
			"user_id":   userID,
			"cost":      cost,
			"available": current.Points(),
		})
		return nil, errs.ErrInsufficientPoints
	}

	return current, nil
}
