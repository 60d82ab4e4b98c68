package external

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// IdentityProvider performs the OAuth handshake with an external identity provider
type IdentityProvider interface {
	// Name identifies the provider (e.g. "google")
	Name() string
	// AuthCodeURL returns the consent page URL carrying the anti-forgery state
	AuthCodeURL(state string) string
	// Exchange trades the authorization code for the caller's profile
	Exchange(ctx context.Context, code string) (*entity.ExternalProfile, error)
}
