package handler

import (
	"net/http"
	"strconv"

	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// ClassHandler handles class catalog and enrollment requests
type ClassHandler struct {
	classUseCase      usecase.ClassUseCase
	enrollmentUseCase usecase.EnrollmentUseCase
	logger            coreport.Logger
}

// NewClassHandler creates a new class handler instance
func NewClassHandler(
	classUseCase usecase.ClassUseCase,
	enrollmentUseCase usecase.EnrollmentUseCase,
	logger coreport.Logger,
) *ClassHandler {
	return &ClassHandler{
		classUseCase:      classUseCase,
		enrollmentUseCase: enrollmentUseCase,
		logger:            logger,
	}
}

// ListClasses handles the GET /classes endpoint
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classUseCase.ListClasses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error listing classes", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewClassListResponse(classes))
}

// CreateClass handles the POST /classes endpoint
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "Invalid class request", domainerr.Validationf("invalid request body: %v", err))
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	class, err := h.classUseCase.CreateClass(c.Request.Context(), identity, req.ToUseCase())
	if err != nil {
		respondError(c, h.logger, "Error creating class", err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateClassResponse{
		Message: "Class created",
		Class:   dto.NewClassResponse(class),
	})
}

// Enroll handles the POST /classes/:classId/enroll endpoint
func (h *ClassHandler) Enroll(c *gin.Context) {
	classID, err := strconv.ParseUint(c.Param("classId"), 10, 64)
	if err != nil || classID == 0 {
		respondError(c, h.logger, "Invalid class ID", domainerr.ErrInvalidClassID)
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	result, err := h.enrollmentUseCase.Enroll(c.Request.Context(), identity, classID)
	if err != nil {
		respondError(c, h.logger, "Enrollment failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.EnrollResponse{
		Message:   "Enrollment successful",
		ClassID:   result.Enrollment.ClassID,
		NewPoints: result.NewPoints,
	})
}
