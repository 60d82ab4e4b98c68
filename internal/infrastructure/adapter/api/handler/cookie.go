package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultSessionCookie is the cookie holding the signed session token
	DefaultSessionCookie = "cb_session"
	// OAuthStateCookie holds the anti-forgery state during the OAuth round trip
	OAuthStateCookie = "cb_oauth_state"

	oauthStateMaxAge = 10 * time.Minute
)

// CookieConfig contains session cookie settings
type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"sameSite"`
}

// ParseSameSite maps a config value to http.SameSite, defaulting to Lax
func ParseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// CookieHelper manages the session and OAuth state cookies
type CookieHelper struct {
	config CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration
func NewCookieHelper(config CookieConfig) *CookieHelper {
	if config.Name == "" {
		config.Name = DefaultSessionCookie
	}
	if config.Path == "" {
		config.Path = "/"
	}
	return &CookieHelper{config: config}
}

// SessionCookieName returns the name of the session cookie
func (h *CookieHelper) SessionCookieName() string {
	return h.config.Name
}

// SetSession stores the session token
func (h *CookieHelper) SetSession(c *gin.Context, token string, ttl time.Duration) {
	h.setCookie(c, h.config.Name, token, int(ttl.Seconds()))
}

// ClearSession removes the session cookie
func (h *CookieHelper) ClearSession(c *gin.Context) {
	h.setCookie(c, h.config.Name, "", -1)
}

// GetSession returns the session token, empty when absent
func (h *CookieHelper) GetSession(c *gin.Context) string {
	token, err := c.Cookie(h.config.Name)
	if err != nil {
		return ""
	}
	return token
}

// SetOAuthState stores the OAuth state nonce
func (h *CookieHelper) SetOAuthState(c *gin.Context, state string) {
	h.setCookie(c, OAuthStateCookie, state, int(oauthStateMaxAge.Seconds()))
}

// PopOAuthState returns the OAuth state nonce and clears it
func (h *CookieHelper) PopOAuthState(c *gin.Context) string {
	state, err := c.Cookie(OAuthStateCookie)
	if err != nil {
		return ""
	}
	h.setCookie(c, OAuthStateCookie, "", -1)
	return state
}

func (h *CookieHelper) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(ParseSameSite(h.config.SameSite))
	c.SetCookie(
		name,
		value,
		maxAge,
		h.config.Path,
		h.config.Domain,
		h.config.Secure,
		true, // httpOnly
	)
}
