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

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         entity.ParseRole(m.Role),
		ExternalID:   m.ExternalID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate user email", fields)
		return errs.ErrDuplicateEmail
	}

	fields["error"] = err.Error()
	fields["operation"] = operation
	r.logger.Error("Database error on users", fields)
	return r.errorClassifier.storeError(operation, err)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).First(&userModel, id).Error; err != nil {
		return nil, r.handleDatabaseError("get user", err, map[string]any{"user_id": id})
	}
	return userToEntity(&userModel), nil
}

// GetByEmail retrieves a user by its normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", entity.NormalizeEmail(email)).
		First(&userModel).Error
	if err != nil {
		return nil, r.handleDatabaseError("get user by email", err, map[string]any{"email": email})
	}
	return userToEntity(&userModel), nil
}

// Create inserts a new user, normalizing email and role at write time
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.User{
		Email:        entity.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Role:         string(entity.ParseRole(string(user.Role))),
		ExternalID:   user.ExternalID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&userModel).Error; err != nil {
		return r.handleDatabaseError("insert user", err, map[string]any{"email": userModel.Email})
	}

	user.ID = userModel.ID
	user.Email = userModel.Email
	user.Role = entity.Role(userModel.Role)

	r.logger.Debug("User created", map[string]any{"user_id": user.ID})
	return nil
}

func (r *UserRepository) update(ctx context.Context, operation string, userID uint64, values map[string]any) error {
	values["updated_at"] = r.timeProvider.Now()

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(values)
	if result.Error != nil {
		return r.handleDatabaseError(operation, result.Error, map[string]any{"user_id": userID})
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// UpdateExternalID links an external identity to an existing user
func (r *UserRepository) UpdateExternalID(ctx context.Context, userID uint64, externalID string) error {
	return r.update(ctx, "update external id", userID, map[string]any{"external_id": externalID})
}

// UpdateRole changes the role of a user
func (r *UserRepository) UpdateRole(ctx context.Context, userID uint64, role entity.Role) error {
	return r.update(ctx, "update role", userID, map[string]any{"role": string(entity.ParseRole(string(role)))})
}
