package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
)

// Class is a scheduled session users can enroll in by spending points
type Class struct {
	ID          uint64
	Title       string
	Description *string
	ScheduledAt time.Time
	Capacity    *int  // Informational, occupancy is not enforced
	Cost        int64 // Points required to enroll
	CreatedBy   uint64
	CreatedAt   time.Time
}

// NewClass validates the fields of a class about to be created
func NewClass(
	title string,
	description *string,
	scheduledAt time.Time,
	capacity *int,
	cost int64,
	createdBy uint64,
	timeProvider coreport.TimeProvider,
) (*Class, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.Validationf("title is required")
	}
	if scheduledAt.IsZero() {
		return nil, errs.Validationf("scheduled_at is required")
	}
	if cost < 0 {
		return nil, errs.Validationf("cost cannot be negative")
	}
	if capacity != nil && *capacity < 0 {
		return nil, errs.Validationf("capacity cannot be negative")
	}
	if createdBy == 0 {
		return nil, errs.Validationf("creator is required")
	}

	return &Class{
		Title:       title,
		Description: description,
		ScheduledAt: scheduledAt.UTC(),
		Capacity:    capacity,
		Cost:        cost,
		CreatedBy:   createdBy,
		CreatedAt:   timeProvider.Now(),
	}, nil
}
