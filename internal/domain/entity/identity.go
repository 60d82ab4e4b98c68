package entity

import (
	"context"
	"strings"
)

// AuthenticatedIdentity is the resolved caller of a request.
// It is rebuilt from the store on every request, never cached in the session.
type AuthenticatedIdentity struct {
	UserID uint64
	Email  string
	Name   string
	Role   Role
}

// NewAuthenticatedIdentity builds the identity for a resolved user
func NewAuthenticatedIdentity(user *User) *AuthenticatedIdentity {
	return &AuthenticatedIdentity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   ParseRole(string(user.Role)),
	}
}

// IsAdmin reports whether the identity holds the admin role
func (i *AuthenticatedIdentity) IsAdmin() bool {
	return i != nil && i.Role.IsAdmin()
}

type identityKey struct{}

// WithIdentity stores the identity on the context
func WithIdentity(ctx context.Context, identity *AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity carried by ctx, if any
func IdentityFromContext(ctx context.Context) (*AuthenticatedIdentity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*AuthenticatedIdentity)
	return identity, ok && identity != nil
}

// ExternalProfile is what an external identity provider tells us about a user
type ExternalProfile struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
	GivenName   string
}

// NormalizedEmail returns the lower-cased email of the profile
func (p ExternalProfile) NormalizedEmail() string {
	return NormalizeEmail(p.Email)
}

// ResolvedName picks the best available display name
func (p ExternalProfile) ResolvedName() string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.GivenName); name != "" {
		return name
	}
	email := p.NormalizedEmail()
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
