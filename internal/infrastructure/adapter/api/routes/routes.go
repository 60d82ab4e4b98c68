package routes

import (
	"time"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	classHandler *handler.ClassHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/", healthHandler.Welcome)
	router.GET("/health", healthHandler.Health)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)

		if authHandler.HasProvider() {
			authRoutes.GET("/google", authHandler.GoogleLogin)
			authRoutes.GET("/google/callback", authHandler.GoogleCallback)
		}
	}

	classRoutes := router.Group("/classes", middleware.RequireAuthenticated())
	{
		// GET /classes
		classRoutes.GET("", classHandler.ListClasses)

		// POST /classes
		classRoutes.POST("", middleware.RequireAdmin(), classHandler.CreateClass)

		// POST /classes/:classId/enroll
		classRoutes.POST("/:classId/enroll", classHandler.Enroll)
	}
}

// SetupMiddlewares configures global middlewares for the API.
// authenticate resolves the session cookie and runs after the request deadline is set.
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, requestTimeout time.Duration, authenticate gin.HandlerFunc) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(authenticate)
}
