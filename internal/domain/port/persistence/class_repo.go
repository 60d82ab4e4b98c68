package persistence

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// ClassRepository defines methods to interact with the class catalog
type ClassRepository interface {
	// GetByID retrieves a class by ID
	//
	// Possible errors:
	// - ErrClassNotFound: If class with specified ID doesn't exist
	// - ErrStore: If the data store fails
	GetByID(ctx context.Context, id uint64) (*entity.Class, error)

	// Create inserts a class and assigns its ID
	//
	// Possible errors:
	// - ErrStore: If the data store fails
	Create(ctx context.Context, class *entity.Class) error

	// ListBySchedule returns every class ordered by scheduled_at ascending, ID breaking ties
	//
	// Possible errors:
	// - ErrStore: If the data store fails
	ListBySchedule(ctx context.Context) ([]*entity.Class, error)
}
