// Package auth issues and validates the bearer tokens accepted by the
// optional authentication layer in front of the itinerary API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the caller a token was issued to. The itinerary
// API has no roles or permissions to enforce; a verified subject is
// the only thing callers need.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// Manager issues and validates HMAC-signed bearer tokens.
type Manager struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
}

// NewManager builds a Manager. expiry is how long an issued token
// remains valid.
func NewManager(secretKey, issuer string, expiry time.Duration) *Manager {
	return &Manager{secretKey: []byte(secretKey), issuer: issuer, expiry: expiry}
}

// ErrInvalidToken covers every validation failure: bad signature,
// wrong issuer, or expiry. Callers don't need to distinguish these;
// they all mean "reject the request".
var ErrInvalidToken = errors.New("invalid token")

// Issue generates a signed token for subject.
func (m *Manager) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies tokenString, returning its claims.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != m.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
