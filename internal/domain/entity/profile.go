package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
)

// Profile holds the points balance of a user
type Profile struct {
	UserID    uint64    // Owner, one profile per user
	points    int64     // Points balance, never negative (private)
	CreatedAt time.Time // When the profile was created
	UpdatedAt time.Time // When the balance last changed
}

// NewProfile creates a profile with the given starting balance
func NewProfile(userID uint64, initialPoints int64, timeProvider coreport.TimeProvider) (*Profile, error) {
	if userID == 0 {
		return nil, errs.Validationf("user ID must be positive")
	}
	if initialPoints < 0 {
		return nil, errs.Validationf("initial points cannot be negative")
	}

	now := timeProvider.Now()
	return &Profile{
		UserID:    userID,
		points:    initialPoints,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreProfile rebuilds a profile from persisted values
func RestoreProfile(userID uint64, points int64, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		UserID:    userID,
		points:    points,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Points returns the current balance
func (p *Profile) Points() int64 {
	return p.points
}

// CanAfford checks if the balance covers the cost
func (p *Profile) CanAfford(cost int64) bool {
	return p.points >= cost
}

// Deduct subtracts cost from the balance if it is covered
func (p *Profile) Deduct(cost int64, timeProvider coreport.TimeProvider) error {
	if cost < 0 {
		return errs.Validationf("cost cannot be negative")
	}
	if !p.CanAfford(cost) {
		return errs.ErrInsufficientPoints
	}

	p.points -= cost
	p.UpdatedAt = timeProvider.Now()
	return nil
}
