package handler

import (
	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// respondError logs err and writes its status and public body
func respondError(c *gin.Context, logger coreport.Logger, message string, err error) {
	fields := domainerr.LogFieldsOf(err)
	fields["path"] = c.Request.URL.Path
	fields["request_id"] = coreport.RequestIDFromContext(c.Request.Context())

	if domainerr.IsBusinessRuleError(err) {
		logger.Info(message, fields)
	} else {
		logger.Error(message, fields)
	}

	_ = c.Error(err)
	c.JSON(domainerr.HTTPStatus(err), dto.NewErrorResponse(err))
}
