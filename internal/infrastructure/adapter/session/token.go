package session

import (
	"errors"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest accepted signing secret
const MinSecretLength = 32

// ErrInvalidToken is returned when a session cookie fails verification
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the signed cookie payload, it carries nothing but the session ID
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session cookies with HS256
type TokenCodec struct {
	secret       []byte
	issuer       string
	timeProvider coreport.TimeProvider
}

// NewTokenCodec creates a codec for the given secret
func NewTokenCodec(secret, issuer string, timeProvider coreport.TimeProvider) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}
	return &TokenCodec{
		secret:       []byte(secret),
		issuer:       issuer,
		timeProvider: timeProvider,
	}, nil
}

// Issue returns a signed token for sessionID that expires after ttl
func (c *TokenCodec) Issue(sessionID string, ttl time.Duration) (string, error) {
	now := c.timeProvider.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns the session ID it carries
func (c *TokenCodec) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.timeProvider.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}
