package usecase

import (
	"context"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// RegisterRequest carries the fields of a local sign-up
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// IdentityUseCase resolves credentials to canonical users and maps sessions to users
type IdentityUseCase interface {
	// AuthenticateLocal checks an email and password pair
	AuthenticateLocal(ctx context.Context, email, password string) (*entity.User, error)

	// AuthenticateExternal resolves (or provisions) the user vouched for by an identity provider
	AuthenticateExternal(ctx context.Context, profile entity.ExternalProfile) (*entity.User, error)

	// Register creates a local account with role "user"
	Register(ctx context.Context, req RegisterRequest) (*entity.User, error)

	// SerializeUser returns the opaque value kept in the session
	SerializeUser(user *entity.User) string

	// DeserializeUser re-reads the user behind a session value, nil when it no longer exists
	DeserializeUser(ctx context.Context, id string) (*entity.User, error)

	// EnsureAdmin provisions the operator-configured admin account
	EnsureAdmin(ctx context.Context, email, password, name string) (*entity.User, error)
}
