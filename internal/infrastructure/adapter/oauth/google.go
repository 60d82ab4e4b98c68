package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ProviderGoogle is the provider name recorded on external profiles
const ProviderGoogle = "google"

// ErrExchangeFailed is returned when the code exchange or profile fetch fails
var ErrExchangeFailed = errors.New("identity provider exchange failed")

// ErrUnverifiedEmail is returned when Google does not vouch for the profile's email
var ErrUnverifiedEmail = errors.New("identity provider email is not verified")

// GoogleConfig contains the OAuth client settings
type GoogleConfig struct {
	ClientID     string   `mapstructure:"clientId"`
	ClientSecret string   `mapstructure:"clientSecret"`
	CallbackURL  string   `mapstructure:"callbackUrl"`
	Scopes       []string `mapstructure:"scopes"`

	// Overrides for the Google endpoints, empty in production
	AuthURL     string `mapstructure:"authUrl"`
	TokenURL    string `mapstructure:"tokenUrl"`
	UserinfoURL string `mapstructure:"userinfoUrl"`
}

// Enabled reports whether the client credentials are configured
func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.CallbackURL != ""
}

// GoogleProvider runs the authorization code flow against Google
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
	logger      coreport.Logger
}

// NewGoogleProvider creates the Google identity provider
func NewGoogleProvider(cfg GoogleConfig, logger coreport.Logger) *GoogleProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{googleoauth2.UserinfoProfileScope, googleoauth2.UserinfoEmailScope}
	}

	endpoint := google.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userinfoURL: cfg.UserinfoURL,
		logger:      logger.With(map[string]any{"provider": ProviderGoogle}),
	}
}

// Name identifies the provider
func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// AuthCodeURL returns the consent page URL carrying state
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the caller's Google profile
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*entity.ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		p.logger.Warn("OAuth code exchange failed", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	opts := []option.ClientOption{option.WithTokenSource(p.config.TokenSource(ctx, token))}
	if p.userinfoURL != "" {
		opts = append(opts, option.WithEndpoint(p.userinfoURL))
	}

	service, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		p.logger.Warn("Fetching Google profile failed", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	// Accounts are linked by email, an unverified address must not sign in
	if info.VerifiedEmail == nil || !*info.VerifiedEmail {
		p.logger.Warn("Google profile email is not verified", map[string]any{"subject": info.Id})
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, ErrUnverifiedEmail)
	}

	return &entity.ExternalProfile{
		Provider:    ProviderGoogle,
		Subject:     info.Id,
		Email:       info.Email,
		DisplayName: info.Name,
		GivenName:   info.GivenName,
	}, nil
}
