package persistence

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// EnrollmentRepository defines methods to interact with enrollments
type EnrollmentRepository interface {
	// Exists checks whether the user is already enrolled in the class
	//
	// Possible errors:
	// - ErrStore: If the data store fails
	Exists(ctx context.Context, userID, classID uint64) (bool, error)

	// Create inserts an enrollment and assigns its ID.
	// The store enforces at most one enrollment per (user, class).
	//
	// Possible errors:
	// - ErrAlreadyEnrolled: If the (user_id, class_id) unique index rejects the row
	// - ErrConcurrentUpdate: If the store aborted on a serialization conflict
	// - ErrStore: If the data store fails
	Create(ctx context.Context, enrollment *entity.Enrollment) error
}
