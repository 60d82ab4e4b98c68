package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// CreateClassRequest carries the fields of a new class.
// Pointer fields distinguish "missing" from zero values.
type CreateClassRequest struct {
	Title       string
	Description *string
	ScheduledAt *time.Time
	Capacity    *int
	Cost        *int64
}

// ClassUseCase manages the class catalog
type ClassUseCase interface {
	// CreateClass creates a class on behalf of an admin
	CreateClass(ctx context.Context, creator *entity.AuthenticatedIdentity, req CreateClassRequest) (*entity.Class, error)

	// ListClasses returns every class ordered by schedule
	ListClasses(ctx context.Context) ([]*entity.Class, error)
}
