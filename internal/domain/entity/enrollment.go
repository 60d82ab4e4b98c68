package entity

import (
	"time"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
)

// Enrollment links a user to a class they booked
type Enrollment struct {
	ID        uint64
	UserID    uint64
	ClassID   uint64
	CreatedAt time.Time
}

// NewEnrollment creates an enrollment for the pair
func NewEnrollment(userID, classID uint64, timeProvider coreport.TimeProvider) *Enrollment {
	return &Enrollment{
		UserID:    userID,
		ClassID:   classID,
		CreatedAt: timeProvider.Now(),
	}
}

// EnrollmentResult is returned by a successful enrollment
type EnrollmentResult struct {
	Enrollment *Enrollment
	NewPoints  int64
}
