// Package token issues and validates the signed, time-limited bearer tokens
// that identify a user on protected routes.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers expired, malformed, and badly signed tokens alike.
// Callers never learn which; the token simply does not resolve to a user.
var ErrInvalidToken = errors.New("token invalid")

const accessTokenType = "access"

// Issuer signs and validates access tokens. The secret is process-wide
// configuration loaded once at startup.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer with the given HMAC secret and token lifetime.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed HS256 token with the user id as its subject.
func (i *Issuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  now.Add(i.ttl).Unix(),
		"iat":  now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString(i.secret)
}

// Validate verifies signature and expiry and returns the embedded user id.
func (i *Issuer) Validate(rawToken string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.UUID{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.UUID{}, ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != accessTokenType {
		return uuid.UUID{}, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.UUID{}, ErrInvalidToken
	}

	return userID, nil
}
