package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// mockIdentities implements usecase.IdentityUseCase, only DeserializeUser is exercised
type mockIdentities struct {
	mock.Mock
	usecase.IdentityUseCase
}

func (m *mockIdentities) DeserializeUser(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func withIdentity(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := &entity.AuthenticatedIdentity{UserID: 7, Role: role}
		c.Request = c.Request.WithContext(entity.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/anon", RequireAuthenticated(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/user", withIdentity(entity.RoleUser), RequireAuthenticated(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodGet, "/anon", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/user", nil)).Code)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		role     *entity.Role
		expected int
	}{
		{"Anonymous", nil, http.StatusUnauthorized},
		{"User", rolePtr(entity.RoleUser), http.StatusForbidden},
		{"Admin", rolePtr(entity.RoleAdmin), http.StatusOK},
		{"Admin in upper case", rolePtr("ADMIN"), http.StatusOK},
		{"Unknown role", rolePtr("superuser"), http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			handlers := []gin.HandlerFunc{}
			if tc.role != nil {
				handlers = append(handlers, withIdentity(*tc.role))
			}
			handlers = append(handlers, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
			router.POST("/classes", handlers...)

			rec := serve(router, httptest.NewRequest(http.MethodPost, "/classes", nil))
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func rolePtr(role entity.Role) *entity.Role {
	return &role
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNoopLogger()

	newRouter := func(resolver *mockResolver, identities *mockIdentities) *gin.Engine {
		router := gin.New()
		router.Use(Authenticate(resolver, identities, "cb_session", log))
		router.GET("/me", func(c *gin.Context) {
			identity, ok := IdentityFrom(c)
			if !ok {
				c.String(http.StatusOK, "anonymous")
				return
			}
			c.String(http.StatusOK, string(identity.Role)+":"+identity.Email)
		})
		return router
	}

	request := func(token string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: "cb_session", Value: token})
		}
		return req
	}

	t.Run("No cookie", func(t *testing.T) {
		resolver, identities := &mockResolver{}, &mockIdentities{}
		rec := serve(newRouter(resolver, identities), request(""))
		assert.Equal(t, "anonymous", rec.Body.String())
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("Resolved session carries a fresh role", func(t *testing.T) {
		resolver, identities := &mockResolver{}, &mockIdentities{}
		resolver.On("Resolve", mock.Anything, "token-1").Return("42", nil)
		identities.On("DeserializeUser", mock.Anything, "42").Return(&entity.User{ID: 42, Email: "a@example.com", Role: "Admin"}, nil)

		rec := serve(newRouter(resolver, identities), request("token-1"))
		assert.Equal(t, "admin:a@example.com", rec.Body.String())
	})

	t.Run("Invalid session", func(t *testing.T) {
		resolver, identities := &mockResolver{}, &mockIdentities{}
		resolver.On("Resolve", mock.Anything, "stale").Return("", domainerr.ErrUnauthenticated)

		rec := serve(newRouter(resolver, identities), request("stale"))
		assert.Equal(t, "anonymous", rec.Body.String())
		identities.AssertNotCalled(t, "DeserializeUser", mock.Anything, mock.Anything)
	})

	t.Run("Deleted user", func(t *testing.T) {
		resolver, identities := &mockResolver{}, &mockIdentities{}
		resolver.On("Resolve", mock.Anything, "token-2").Return("43", nil)
		identities.On("DeserializeUser", mock.Anything, "43").Return(nil, nil)

		rec := serve(newRouter(resolver, identities), request("token-2"))
		assert.Equal(t, "anonymous", rec.Body.String())
	})
}

func TestLoggerAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(Logger(logger.NewNoopLogger()))
	router.GET("/", func(c *gin.Context) {
		seen = coreport.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = serve(router, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Timeout(time.Second))
	router.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler(logger.NewNoopLogger()))
	router.GET("/", func(c *gin.Context) { panic("boom") })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":5000,"message":"Internal server error"}`, rec.Body.String())
}
