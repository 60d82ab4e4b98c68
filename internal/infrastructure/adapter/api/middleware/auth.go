package middleware

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
	"github.com/gin-gonic/gin"
)

// SessionResolver maps a session cookie to the subject it was created for
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Authenticate resolves the session cookie to the current user.
// Requests without a valid session continue anonymously.
func Authenticate(sessions SessionResolver, identities usecase.IdentityUseCase, cookieName string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		subject, err := sessions.Resolve(ctx, token)
		if err != nil {
			if !errors.Is(err, domainerr.ErrUnauthenticated) {
				logger.Warn("Session lookup failed", map[string]any{
					"error":      err.Error(),
					"request_id": coreport.RequestIDFromContext(ctx),
				})
			}
			c.Next()
			return
		}

		user, err := identities.DeserializeUser(ctx, subject)
		if err != nil {
			logger.Warn("Session user lookup failed", map[string]any{
				"error":      err.Error(),
				"request_id": coreport.RequestIDFromContext(ctx),
			})
			c.Next()
			return
		}
		if user == nil {
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(entity.WithIdentity(ctx, entity.NewAuthenticatedIdentity(user)))
		c.Next()
	}
}

// IdentityFrom returns the authenticated caller of the request, if any
func IdentityFrom(c *gin.Context) (*entity.AuthenticatedIdentity, bool) {
	return entity.IdentityFromContext(c.Request.Context())
}

// RequireAuthenticated rejects anonymous requests with 401
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			abortWithError(c, domainerr.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortWithError(c, domainerr.ErrUnauthenticated)
			return
		}
		if !identity.IsAdmin() {
			abortWithError(c, domainerr.ErrForbidden)
			return
		}
		c.Next()
	}
}
