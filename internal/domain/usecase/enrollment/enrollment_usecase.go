package enrollment

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
)

var _ usecase.EnrollmentUseCase = (*EnrollmentUseCase)(nil)

// Workflow steps reported in EnrollmentError
const (
	stepInsertEnrollment = "insert enrollment"
	stepDeductPoints     = "deduct points"
	stepCommit           = "commit"
)

// EnrollmentUseCase books classes against the points balance
type EnrollmentUseCase struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewEnrollmentUseCase creates a new EnrollmentUseCase
func NewEnrollmentUseCase(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *EnrollmentUseCase {
	return &EnrollmentUseCase{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Enroll books the class for the identity and debits its cost exactly once.
//
// The reads (class, existing enrollment, profile, sufficiency) short-circuit
// before any write. The insert and the guarded decrement then run in one unit
// of work, so a failure of either leaves no enrollment and no debit behind.
// The store's (user_id, class_id) unique index and its points >= cost guard
// decide between concurrent requests that passed the reads together.
func (u *EnrollmentUseCase) Enroll(
	ctx context.Context,
	identity *entity.AuthenticatedIdentity,
	classID uint64,
) (*entity.EnrollmentResult, error) {
	if identity == nil {
		return nil, errs.ErrUnauthenticated
	}
	if classID == 0 {
		return nil, errs.ErrInvalidClassID
	}
	userID := identity.UserID

	class, err := u.uow.GetClassRepository(ctx).GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	enrolled, err := u.uow.GetEnrollmentRepository(ctx).Exists(ctx, userID, classID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, errs.ErrAlreadyEnrolled
	}

	profile, err := u.uow.GetProfileRepository(ctx).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Cost is read from the class row now, there is no historical snapshot
	if !profile.CanAfford(class.Cost) {
		u.logger.Info("Enrollment rejected", map[string]any{
			"user_id":   userID,
			"class_id":  classID,
			"reason":    "insufficient_points",
			"required":  class.Cost,
			"available": profile.Points(),
		})
		return nil, errs.NewInsufficientPointsError(userID, classID, class.Cost, profile.Points())
	}

	enrollment := entity.NewEnrollment(userID, classID, u.timeProvider)
	var updated *entity.Profile

	err = persistence.WithinTransaction(ctx, u.uow, func(txCtx context.Context) error {
		if err := u.uow.GetEnrollmentRepository(txCtx).Create(txCtx, enrollment); err != nil {
			return errs.NewEnrollmentError(userID, classID, stepInsertEnrollment, err)
		}

		var err error
		updated, err = u.uow.GetProfileRepository(txCtx).DeductPoints(txCtx, userID, class.Cost)
		if err != nil {
			if errors.Is(err, errs.ErrInsufficientPoints) {
				err = errs.NewInsufficientPointsError(userID, classID, class.Cost, profile.Points())
			}
			return errs.NewEnrollmentError(userID, classID, stepDeductPoints, err)
		}
		return nil
	})
	if err != nil {
		var enrollErr *errs.EnrollmentError
		if !errors.As(err, &enrollErr) {
			err = errs.NewEnrollmentError(userID, classID, stepCommit, err)
		}
		u.logError(err)
		return nil, err
	}

	u.logger.Info("Enrollment completed", map[string]any{
		"user_id":       userID,
		"class_id":      classID,
		"enrollment_id": enrollment.ID,
		"cost":          class.Cost,
		"new_points":    updated.Points(),
	})

	return &entity.EnrollmentResult{
		Enrollment: enrollment,
		NewPoints:  updated.Points(),
	}, nil
}

func (u *EnrollmentUseCase) logError(err error) {
	fields := errs.LogFieldsOf(err)
	if errs.IsBusinessRuleError(err) {
		u.logger.Info("Enrollment rejected", fields)
		return
	}
	u.logger.Error("Enrollment failed", fields)
}
