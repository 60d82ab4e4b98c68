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

// ClassRepository implements ClassRepository interface using GORM
type ClassRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewClassRepository creates a new ClassRepository instance
func NewClassRepository(db *gorm.DB, logger coreport.Logger) *ClassRepository {
	return &ClassRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func classToEntity(m *model.Class) *entity.Class {
	return &entity.Class{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ScheduledAt: m.ScheduledAt.UTC(),
		Capacity:    m.Capacity,
		Cost:        m.Cost,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *ClassRepository) handleDatabaseError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrClassNotFound
	}

	r.logger.Error("Database error on classes", map[string]any{
		"operation": operation,
		"error":     err.Error(),
	})
	return r.errorClassifier.storeError(operation, err)
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id uint64) (*entity.Class, error) {
	var classModel model.Class
	if err := r.db.WithContext(ctx).First(&classModel, id).Error; err != nil {
		return nil, r.handleDatabaseError("get class", err)
	}
	return classToEntity(&classModel), nil
}

// Create inserts a class and assigns its ID
func (r *ClassRepository) Create(ctx context.Context, class *entity.Class) error {
	classModel := model.Class{
		Title:       class.Title,
		Description: class.Description,
		ScheduledAt: class.ScheduledAt.UTC(),
		Capacity:    class.Capacity,
		Cost:        class.Cost,
		CreatedBy:   class.CreatedBy,
		CreatedAt:   class.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&classModel).Error; err != nil {
		return r.handleDatabaseError("insert class", err)
	}

	class.ID = classModel.ID
	return nil
}

// ListBySchedule returns every class ordered by scheduled_at, ID breaking ties
func (r *ClassRepository) ListBySchedule(ctx context.Context) ([]*entity.Class, error) {
	var classModels []model.Class
	err := r.db.WithContext(ctx).
		Order("scheduled_at ASC").
		Order("id ASC").
		Find(&classModels).Error
	if err != nil {
		return nil, r.handleDatabaseError("list classes", err)
	}

	classes := make([]*entity.Class, 0, len(classModels))
	for i := range classModels {
		classes = append(classes, classToEntity(&classModels[i]))
	}
	return classes, nil
}
