// Package auth protects the operator API with bearer tokens.
//
// Tokens are HS256 JWTs minted by cmd/tokengen and verified here. There is
// no user store and no refresh flow: operators are issued long-ish tokens
// out of band.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 30 * 24 * time.Hour

type Manager struct {
	secret []byte
	issuer string
}

func NewManager(secret, issuer string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	return &Manager{secret: []byte(secret), issuer: issuer}, nil
}

// Claims is the only supported token shape for this service.
type Claims struct {
	jwt.RegisteredClaims
}

// Issue mints an operator token for the given subject.
func (m *Manager) Issue(now time.Time, subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates an operator token.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30*time.Second), // clock skew tolerance
	)

	if _, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return Claims{}, err
	}

	if m.issuer != "" && claims.Issuer != m.issuer {
		return Claims{}, errors.New("auth: issuer mismatch")
	}
	if claims.Subject == "" {
		return Claims{}, errors.New("auth: subject missing")
	}
	return claims, nil
}
