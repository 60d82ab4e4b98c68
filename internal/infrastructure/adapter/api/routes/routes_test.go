package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/external"
	classusecase "github.com/amirhossein-jamali/class-booking/internal/domain/usecase/class"
	enrollmentusecase "github.com/amirhossein-jamali/class-booking/internal/domain/usecase/enrollment"
	identityusecase "github.com/amirhossein-jamali/class-booking/internal/domain/usecase/identity"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/crypto"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/session"
	timeadapter "github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/time"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret    = "this-is-a-test-secret-with-32-bytes!"
	initialPoints = 100
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
	frontendURL   = "http://localhost:3000"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// mockProvider is a testify mock of external.IdentityProvider
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return "google" }

func (m *mockProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (*entity.ExternalProfile, error) {
	args := m.Called(ctx, code)
	if profile, ok := args.Get(0).(*entity.ExternalProfile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}

type testAPI struct {
	router   *gin.Engine
	store    *memory.Store
	clock    *timeadapter.FixedTimeProvider
	identity *identityusecase.IdentityUseCase
	cookie   string
}

func newTestAPI(t *testing.T, provider external.IdentityProvider) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := timeadapter.NewFixedTimeProvider(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	store := memory.NewStore(clock, log)

	identity := identityusecase.NewIdentityUseCase(store.UnitOfWork(), crypto.NewBcryptHasher(bcrypt.MinCost), clock, log, initialPoints)
	classes := classusecase.NewClassUseCase(store.Classes(), clock, log)
	enrollments := enrollmentusecase.NewEnrollmentUseCase(store.UnitOfWork(), clock, log)

	_, err := identity.EnsureAdmin(context.Background(), adminEmail, adminPassword, "Admin")
	require.NoError(t, err)

	codec, err := session.NewTokenCodec(testSecret, "class-booking", clock)
	require.NoError(t, err)
	sessions := session.NewManager(session.NewMemoryStore(clock), codec, time.Hour, log)
	cookies := handler.NewCookieHelper(handler.CookieConfig{})

	router := gin.New()
	SetupMiddlewares(router, log, 5*time.Second,
		middleware.Authenticate(sessions, identity, cookies.SessionCookieName(), log))
	SetupRoutes(router,
		handler.NewAuthHandler(identity, sessions, provider, cookies,
			handler.OAuthRedirects{SuccessURL: frontendURL, FailureURL: "/login"}, log),
		handler.NewClassHandler(classes, enrollments, log),
		handler.NewHealthHandler(okPinger{}, log),
	)

	return &testAPI{
		router:   router,
		store:    store,
		clock:    clock,
		identity: identity,
		cookie:   cookies.SessionCookieName(),
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func (a *testAPI) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := findCookie(rec, a.cookie)
	require.NotNil(t, cookie)
	return cookie
}

func (a *testAPI) register(t *testing.T, email string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email": email, "password": "secret-pass", "name": "Member",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testAPI) createClass(t *testing.T, admin *http.Cookie, title string, at time.Time, cost int64) dto.ClassResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/classes", map[string]any{
		"title": title, "scheduled_at": at.Format(time.RFC3339), "cost": cost, "capacity": 12,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.CreateClassResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Class
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWelcomeAndHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, nil)

	t.Run("Register creates the account", func(t *testing.T) {
		api.register(t, "ana@example.com")
	})

	t.Run("Duplicate email in another casing conflicts", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/register", map[string]string{
			"email": "ANA@Example.com", "password": "x", "name": "Ana",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, domainerr.CodeDuplicateEmail, decodeError(t, rec).Code)
	})

	t.Run("Missing fields are rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/register", map[string]string{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = api.do(t, http.MethodPost, "/auth/register", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Password over 72 bytes is rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/register", map[string]string{
			"email": "long@example.com", "password": strings.Repeat("a", 73), "name": "Long",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Equal(t, domainerr.CodeValidation, decodeError(t, rec).Code)
	})

	t.Run("Login returns the user without the hash", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "Ana@example.com", "password": "secret-pass"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")

		var resp dto.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ana@example.com", resp.User.Email)
		assert.Equal(t, "user", resp.User.Role)

		cookie := findCookie(rec, api.cookie)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("Bad credentials are indistinguishable", func(t *testing.T) {
		wrong := api.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ana@example.com", "password": "nope"})
		unknown := api.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ghost@example.com", "password": "nope"})

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
		assert.Nil(t, findCookie(wrong, api.cookie))
	})

	t.Run("Malformed login", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/login", map[string]string{"password": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	api := newTestAPI(t, nil)
	api.register(t, "leo@example.com")
	cookie := api.login(t, "leo@example.com", "secret-pass")

	rec := api.do(t, http.MethodGet, "/classes", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec, api.cookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = api.do(t, http.MethodGet, "/classes", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessControl(t *testing.T) {
	api := newTestAPI(t, nil)
	api.register(t, "mia@example.com")
	member := api.login(t, "mia@example.com", "secret-pass")
	admin := api.login(t, adminEmail, adminPassword)

	body := map[string]any{"title": "Yoga", "scheduled_at": "2024-07-01T10:00:00Z", "cost": 10}

	t.Run("Anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/classes", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/classes", body).Code)
		assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/classes/1/enroll", nil).Code)
	})

	t.Run("Tampered cookie is anonymous", func(t *testing.T) {
		forged := &http.Cookie{Name: api.cookie, Value: member.Value + "x"}
		assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/classes", nil, forged).Code)
	})

	t.Run("Member cannot create classes", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes", body, member)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, domainerr.CodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("Admin creates classes", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes", body, admin)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Invalid class body", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes", map[string]any{"title": "No date", "cost": 5}, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Role change applies to the live session", func(t *testing.T) {
		user, err := api.store.Users().GetByEmail(context.Background(), "mia@example.com")
		require.NoError(t, err)
		require.NoError(t, api.store.Users().UpdateRole(context.Background(), user.ID, entity.RoleAdmin))

		rec := api.do(t, http.MethodPost, "/classes", body, member)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestClassesAndEnrollment(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.login(t, adminEmail, adminPassword)
	api.register(t, "noa@example.com")
	member := api.login(t, "noa@example.com", "secret-pass")

	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	later := api.createClass(t, admin, "Later", base.Add(48*time.Hour), 50)
	sooner := api.createClass(t, admin, "Sooner", base, 80)

	t.Run("List is ordered by schedule", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/classes", nil, member)
		require.Equal(t, http.StatusOK, rec.Code)

		var classes []dto.ClassResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
		require.Len(t, classes, 2)
		assert.Equal(t, sooner.ID, classes[0].ID)
		assert.Equal(t, later.ID, classes[1].ID)
		require.NotNil(t, classes[0].Capacity)
		assert.Equal(t, 12, *classes[0].Capacity)
	})

	t.Run("Enroll debits the cost", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes/"+strconv.FormatUint(later.ID, 10)+"/enroll", nil, member)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp dto.EnrollResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(initialPoints-50), resp.NewPoints)
	})

	t.Run("Second enrollment is rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes/"+strconv.FormatUint(later.ID, 10)+"/enroll", nil, member)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domainerr.CodeAlreadyEnrolled, decodeError(t, rec).Code)
	})

	t.Run("Insufficient points", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes/"+strconv.FormatUint(sooner.ID, 10)+"/enroll", nil, member)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, domainerr.CodeInsufficientPoints, resp.Code)
		assert.Equal(t, domainerr.ErrInsufficientPoints.Error(), resp.Message)
	})

	t.Run("Unknown and invalid classes", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/classes/999/enroll", nil, member)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = api.do(t, http.MethodPost, "/classes/abc/enroll", nil, member)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domainerr.CodeInvalidClassID, decodeError(t, rec).Code)

		rec = api.do(t, http.MethodPost, "/classes/0/enroll", nil, member)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGoogleOAuth(t *testing.T) {
	provider := &mockProvider{}
	api := newTestAPI(t, provider)

	start := func(t *testing.T) (*http.Cookie, string) {
		t.Helper()
		rec := api.do(t, http.MethodGet, "/auth/google", nil)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

		state := findCookie(rec, handler.OAuthStateCookie)
		require.NotNil(t, state)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, state.Value, location.Query().Get("state"))
		return state, state.Value
	}

	t.Run("Successful callback signs the user in", func(t *testing.T) {
		provider.On("Exchange", mock.Anything, "good-code").Return(&entity.ExternalProfile{
			Provider: "google", Subject: "g-1", Email: "Zoe@Example.com", GivenName: "Zoe",
		}, nil).Once()

		stateCookie, state := start(t)
		rec := api.do(t, http.MethodGet, "/auth/google/callback?code=good-code&state="+state, nil, stateCookie)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, frontendURL, rec.Header().Get("Location"))

		sessionCookie := findCookie(rec, api.cookie)
		require.NotNil(t, sessionCookie)
		assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/classes", nil, sessionCookie).Code)

		user, err := api.store.Users().GetByEmail(context.Background(), "zoe@example.com")
		require.NoError(t, err)
		assert.Nil(t, user.PasswordHash)
		assert.Equal(t, "Zoe", user.Name)
	})

	t.Run("OAuth-only account cannot log in locally", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "zoe@example.com", "password": ""})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("State mismatch redirects to failure", func(t *testing.T) {
		stateCookie, _ := start(t)
		rec := api.do(t, http.MethodGet, "/auth/google/callback?code=good-code&state=forged", nil, stateCookie)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Nil(t, findCookie(rec, api.cookie))
	})

	t.Run("Exchange failure redirects to failure", func(t *testing.T) {
		provider.On("Exchange", mock.Anything, "bad-code").Return(nil, assert.AnError).Once()

		stateCookie, state := start(t)
		rec := api.do(t, http.MethodGet, "/auth/google/callback?code=bad-code&state="+state, nil, stateCookie)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("Provider without email redirects to failure", func(t *testing.T) {
		provider.On("Exchange", mock.Anything, "no-email").Return(&entity.ExternalProfile{Provider: "google", Subject: "g-2"}, nil).Once()

		stateCookie, state := start(t)
		rec := api.do(t, http.MethodGet, "/auth/google/callback?code=no-email&state="+state, nil, stateCookie)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	provider.AssertExpectations(t)
}

func TestGoogleRoutesDisabledWithoutProvider(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodGet, "/auth/google", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
