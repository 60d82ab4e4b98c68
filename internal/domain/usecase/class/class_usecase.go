package class

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
)

var _ usecase.ClassUseCase = (*ClassUseCase)(nil)

// ClassUseCase manages the class catalog
type ClassUseCase struct {
	classRepo    persistence.ClassRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewClassUseCase creates a new ClassUseCase
func NewClassUseCase(
	classRepo persistence.ClassRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *ClassUseCase {
	return &ClassUseCase{
		classRepo:    classRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CreateClass creates a class on behalf of an admin
func (u *ClassUseCase) CreateClass(
	ctx context.Context,
	creator *entity.AuthenticatedIdentity,
	req usecase.CreateClassRequest,
) (*entity.Class, error) {
	if creator == nil {
		return nil, errs.ErrUnauthenticated
	}
	if !creator.IsAdmin() {
		u.logger.Warn("Non-admin attempted to create a class", map[string]any{"user_id": creator.UserID})
		return nil, errs.ErrForbidden
	}

	if req.ScheduledAt == nil {
		return nil, errs.Validationf("scheduled_at is required")
	}
	if req.Cost == nil {
		return nil, errs.Validationf("cost is required")
	}

	class, err := entity.NewClass(
		req.Title,
		req.Description,
		*req.ScheduledAt,
		req.Capacity,
		*req.Cost,
		creator.UserID,
		u.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := u.classRepo.Create(ctx, class); err != nil {
		u.logger.Error("Failed to create class", map[string]any{
			"title": class.Title,
			"error": err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Class created", map[string]any{
		"class_id":     class.ID,
		"created_by":   creator.UserID,
		"cost":         class.Cost,
		"scheduled_at": class.ScheduledAt,
	})

	return class, nil
}

// ListClasses returns every class ordered by schedule
func (u *ClassUseCase) ListClasses(ctx context.Context) ([]*entity.Class, error) {
	return u.classRepo.ListBySchedule(ctx)
}
