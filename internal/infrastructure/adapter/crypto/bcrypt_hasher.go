package crypto

import (
	"errors"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored credentials
const DefaultCost = 10

// ErrEmptyHash is returned when comparing against an account with no stored hash
var ErrEmptyHash = errors.New("no password hash stored")

// BcryptHasher implements core.PasswordHasher with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost, out-of-range values fall back to DefaultCost
func NewBcryptHasher(cost int) core.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
// Passwords beyond the bcrypt input limit are validation errors.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errs.Validationf("password must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns nil when password matches hash
func (h *BcryptHasher) Compare(hash, password string) error {
	if hash == "" {
		return ErrEmptyHash
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
