package persistence

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// ProfileRepository defines methods to interact with points profiles
type ProfileRepository interface {
	// GetByUserID retrieves the profile of a user
	//
	// Possible errors:
	// - ErrProfileNotFound: If the user has no profile
	// - ErrStore: If the data store fails
	GetByUserID(ctx context.Context, userID uint64) (*entity.Profile, error)

	// Create inserts the profile of a freshly created user
	//
	// Possible errors:
	// - ErrStore: If the data store fails
	Create(ctx context.Context, profile *entity.Profile) error

	// DeductPoints atomically subtracts cost from the balance, guarded by points >= cost,
	// and returns the updated profile
	//
	// Possible errors:
	// - ErrInsufficientPoints: If the guard rejected the update
	// - ErrProfileNotFound: If the user has no profile
	// - ErrConcurrentUpdate: If the store aborted on a serialization conflict
	// - ErrStore: If the data store fails
	DeductPoints(ctx context.Context, userID uint64, cost int64) (*entity.Profile, error)
}
