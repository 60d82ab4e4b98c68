package repository

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnrollmentRepository implements EnrollmentRepository interface using GORM
type EnrollmentRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewEnrollmentRepository creates a new EnrollmentRepository instance
func NewEnrollmentRepository(db *gorm.DB, logger coreport.Logger) *EnrollmentRepository {
	return &EnrollmentRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Exists checks whether the user is already enrolled in the class
func (r *EnrollmentRepository) Exists(ctx context.Context, userID, classID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND class_id = ?", userID, classID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Database error on enrollments", map[string]any{
			"user_id":  userID,
			"class_id": classID,
			"error":    err.Error(),
		})
		return false, r.errorClassifier.storeError("check enrollment", err)
	}
	return count > 0, nil
}

// Create inserts an enrollment, the (user_id, class_id) unique index rejects duplicates
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	enrollmentModel := model.Enrollment{
		UserID:    enrollment.UserID,
		ClassID:   enrollment.ClassID,
		CreatedAt: enrollment.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&enrollmentModel).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Info("Duplicate enrollment rejected by unique index", map[string]any{
				"user_id":  enrollment.UserID,
				"class_id": enrollment.ClassID,
			})
			return errs.ErrAlreadyEnrolled
		}
		r.logger.Error("Database error on enrollments", map[string]any{
			"user_id":  enrollment.UserID,
			"class_id": enrollment.ClassID,
			"error":    err.Error(),
		})
		return r.errorClassifier.storeError("insert enrollment", err)
	}

	enrollment.ID = enrollmentModel.ID
	return nil
}
