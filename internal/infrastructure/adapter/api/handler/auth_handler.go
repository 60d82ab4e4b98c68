package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	domainerr "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/external"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionManager starts and ends sessions
type SessionManager interface {
	Create(ctx context.Context, subject string) (string, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

// OAuthRedirects are the browser destinations after the OAuth callback
type OAuthRedirects struct {
	SuccessURL string
	FailureURL string
}

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	identityUseCase usecase.IdentityUseCase
	sessions        SessionManager
	provider        external.IdentityProvider
	cookies         *CookieHelper
	redirects       OAuthRedirects
	logger          coreport.Logger
}

// NewAuthHandler creates a new auth handler instance.
// provider may be nil when no external identity provider is configured.
func NewAuthHandler(
	identityUseCase usecase.IdentityUseCase,
	sessions SessionManager,
	provider external.IdentityProvider,
	cookies *CookieHelper,
	redirects OAuthRedirects,
	logger coreport.Logger,
) *AuthHandler {
	if redirects.FailureURL == "" {
		redirects.FailureURL = "/login"
	}
	if redirects.SuccessURL == "" {
		redirects.SuccessURL = "/"
	}
	return &AuthHandler{
		identityUseCase: identityUseCase,
		sessions:        sessions,
		provider:        provider,
		cookies:         cookies,
		redirects:       redirects,
		logger:          logger,
	}
}

// HasProvider reports whether the OAuth routes can be served
func (h *AuthHandler) HasProvider() bool {
	return h.provider != nil
}

// Register handles the POST /auth/register endpoint
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "Invalid register request", domainerr.Validationf("invalid request body"))
		return
	}

	_, err := h.identityUseCase.Register(c.Request.Context(), usecase.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, h.logger, "Registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles the POST /auth/login endpoint
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "Invalid login request", domainerr.Validationf("email and password are required"))
		return
	}

	ctx := c.Request.Context()
	user, err := h.identityUseCase.AuthenticateLocal(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password look the same to the caller
		if errors.Is(err, domainerr.ErrUnknownUser) || errors.Is(err, domainerr.ErrBadCredential) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.CodeBadCredential,
				Message: "Invalid email or password",
			})
			return
		}
		respondError(c, h.logger, "Login failed", err)
		return
	}

	token, err := h.sessions.Create(ctx, h.identityUseCase.SerializeUser(user))
	if err != nil {
		respondError(c, h.logger, "Failed to create session", err)
		return
	}
	h.cookies.SetSession(c, token, h.sessions.TTL())

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Authenticated successfully",
		User:    dto.NewUserResponse(user),
	})
}

// Logout handles the POST /auth/logout endpoint
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.cookies.GetSession(c); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			respondError(c, h.logger, "Failed to destroy session", err)
			return
		}
	}
	h.cookies.ClearSession(c)

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Session closed"})
}

// GoogleLogin handles the GET /auth/google endpoint
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	h.cookies.SetOAuthState(c, state)
	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// GoogleCallback handles the GET /auth/google/callback endpoint
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	expected := h.cookies.PopOAuthState(c)
	if expected == "" || c.Query("state") != expected {
		h.logger.Warn("OAuth callback state mismatch", map[string]any{
			"request_id": coreport.RequestIDFromContext(c.Request.Context()),
		})
		c.Redirect(http.StatusFound, h.redirects.FailureURL)
		return
	}

	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Info("OAuth consent denied", map[string]any{"error": providerErr})
		c.Redirect(http.StatusFound, h.redirects.FailureURL)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.redirects.FailureURL)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.provider.Exchange(ctx, code)
	if err != nil {
		c.Redirect(http.StatusFound, h.redirects.FailureURL)
		return
	}

	user, err := h.identityUseCase.AuthenticateExternal(ctx, *profile)
	if err != nil {
		h.logger.Warn("External authentication failed", map[string]any{
			"provider": h.provider.Name(),
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, h.redirects.FailureURL)
		return
	}

	token, err := h.sessions.Create(ctx, h.identityUseCase.SerializeUser(user))
	if err != nil {
		h.logger.Error("Failed to create session", map[string]any{"error": err.Error()})
		c.Redirect(http.StatusFound, h.redirects.FailureURL)
		return
	}
	h.cookies.SetSession(c, token, h.sessions.TTL())

	c.Redirect(http.StatusFound, h.redirects.SuccessURL)
}
