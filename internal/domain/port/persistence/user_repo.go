package persistence

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	// Used by session deserialization on every authenticated request
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrStore: If the data store fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByEmail retrieves a user by normalized email
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has that email
	// - ErrStore: If the data store fails
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create inserts a new user and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicateEmail: If the email unique index rejects the row
	// - ErrStore: If the data store fails
	Create(ctx context.Context, user *entity.User) error

	// UpdateExternalID links an external identity to an existing user
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrStore: If the data store fails
	UpdateExternalID(ctx context.Context, userID uint64, externalID string) error

	// UpdateRole changes the role of a user (operator bootstrap only)
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrStore: If the data store fails
	UpdateRole(ctx context.Context, userID uint64, role entity.Role) error
}
