// Package auth issues and verifies the signed tokens that identify
// callers, and carries verified claims through context.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/pkg/fault"
)

// Claim names used in issued tokens.
const (
	ClaimSid       = "sid"
	ClaimName      = "name"
	ClaimGivenName = "given_name"
	ClaimEmail     = "email"
	ClaimRole      = "role"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 60 * time.Minute

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenService creates a TokenService with the default TTL.
func NewTokenService(key, issuer, audience string) *TokenService {
	return &TokenService{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		ttl:      DefaultTokenTTL,
	}
}

// WithTTL overrides the token lifetime.
func (s *TokenService) WithTTL(ttl time.Duration) *TokenService {
	s.ttl = ttl
	return s
}

// GenerateToken issues a signed token carrying the user's identity claims.
func (s *TokenService) GenerateToken(user *models.AppUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		ClaimSid:   user.ID,
		ClaimEmail: user.Email,
		ClaimRole:  user.Role,
		"iss":      s.issuer,
		"aud":      s.audience,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}
	if user.FirstName != nil {
		claims[ClaimName] = *user.FirstName
	}
	if user.LastName != nil {
		claims[ClaimGivenName] = *user.LastName
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature, expiry, issuer and audience, and
// returns the token's claims.
func (s *TokenService) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fault.Unauthorized("invalid token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fault.Unauthorized("invalid token claims")
	}
	return claims, nil
}
