package dto

import (
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
)

// CreateClassRequest represents the API request for creating a class.
// Pointers let the use case tell a missing field from a zero value.
type CreateClassRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Capacity    *int       `json:"capacity"`
	Cost        *int64     `json:"cost"`
}

// ToUseCase maps the request to the use case input
func (r CreateClassRequest) ToUseCase() usecase.CreateClassRequest {
	return usecase.CreateClassRequest{
		Title:       r.Title,
		Description: r.Description,
		ScheduledAt: r.ScheduledAt,
		Capacity:    r.Capacity,
		Cost:        r.Cost,
	}
}

// ClassResponse represents a class in API responses
type ClassResponse struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Capacity    *int      `json:"capacity"`
	Cost        int64     `json:"cost"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewClassResponse maps a class to its API view
func NewClassResponse(class *entity.Class) ClassResponse {
	return ClassResponse{
		ID:          class.ID,
		Title:       class.Title,
		Description: class.Description,
		ScheduledAt: class.ScheduledAt,
		Capacity:    class.Capacity,
		Cost:        class.Cost,
		CreatedBy:   class.CreatedBy,
		CreatedAt:   class.CreatedAt,
	}
}

// NewClassListResponse maps classes preserving their order
func NewClassListResponse(classes []*entity.Class) []ClassResponse {
	out := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		out = append(out, NewClassResponse(class))
	}
	return out
}

// CreateClassResponse represents the API response for a created class
type CreateClassResponse struct {
	Message string        `json:"message"`
	Class   ClassResponse `json:"class"`
}

// EnrollResponse represents the API response for a successful enrollment
type EnrollResponse struct {
	Message   string `json:"message"`
	ClassID   uint64 `json:"classId"`
	NewPoints int64  `json:"newPoints"`
}
