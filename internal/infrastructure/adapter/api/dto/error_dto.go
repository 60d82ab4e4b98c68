package dto

import (
	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
)

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds the response body for a domain error.
// Store and unknown failures get a generic message.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: domainerr.PublicMessage(err),
	}
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
