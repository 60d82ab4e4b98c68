package usecase

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// EnrollmentUseCase books classes against the points balance
type EnrollmentUseCase interface {
	// Enroll books the class for the identity and debits its cost exactly once
	Enroll(ctx context.Context, identity *entity.AuthenticatedIdentity, classID uint64) (*entity.EnrollmentResult, error)
}
