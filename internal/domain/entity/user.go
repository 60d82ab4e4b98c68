package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
)

// Role is the authorization role of a user
type Role string

// Known roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a stored or submitted role value.
// Anything that is not an admin role collapses to RoleUser.
func ParseRole(value string) Role {
	if strings.EqualFold(strings.TrimSpace(value), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether the role grants admin rights (case-insensitive)
func (r Role) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), string(RoleAdmin))
}

// MaxPasswordLength is the longest accepted password in bytes, the bcrypt input limit
const MaxPasswordLength = 72

// User represents an account that can book classes
type User struct {
	ID           uint64    // Unique identifier for the user
	Email        string    // Lower-cased, unique
	PasswordHash *string   // Nil for accounts created through an external identity provider
	Name         string    // Display name
	Role         Role      // Authorization role
	ExternalID   *string   // Subject id at the external identity provider
	CreatedAt    time.Time // When the user was created
	UpdatedAt    time.Time // When the user was last updated
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewLocalUser creates a user that signs in with email and password.
// The role is always RoleUser.
func NewLocalUser(email, passwordHash, name string, timeProvider coreport.TimeProvider) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, errs.Validationf("email is required")
	}
	if passwordHash == "" {
		return nil, errs.Validationf("password is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.Validationf("name is required")
	}

	now := timeProvider.Now()
	return &User{
		Email:        email,
		PasswordHash: &passwordHash,
		Name:         strings.TrimSpace(name),
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewExternalUser creates a password-less user vouched for by an identity provider
func NewExternalUser(email, name, externalID string, timeProvider coreport.TimeProvider) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, errs.ErrMissingEmail
	}

	now := timeProvider.Now()
	user := &User{
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if externalID != "" {
		user.ExternalID = &externalID
	}
	return user, nil
}

// HasPassword reports whether the user can authenticate locally
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasExternalID reports whether an external identity is linked
func (u *User) HasExternalID() bool {
	return u.ExternalID != nil && *u.ExternalID != ""
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// Sanitized returns a copy of the user without the password hash
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = nil
	return &clone
}

// LinkExternalID attaches an external identity id
func (u *User) LinkExternalID(externalID string, timeProvider coreport.TimeProvider) {
	u.ExternalID = &externalID
	u.UpdatedAt = timeProvider.Now()
}

// Promote grants the admin role
func (u *User) Promote(timeProvider coreport.TimeProvider) {
	u.Role = RoleAdmin
	u.UpdatedAt = timeProvider.Now()
}
