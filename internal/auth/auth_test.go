package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/pkg/fault"
)

func testUser() *models.AppUser {
	first := "An"
	last := "Nguyen"
	return &models.AppUser{
		ID:        "7f9c24e5-1fbd-4bb8-9a26-028f0e2c3f10",
		FirstName: &first,
		LastName:  &last,
		Email:     "an@example.com",
		Role:      models.RoleCustomer,
	}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	svc := NewTokenService("test-secret", "soundstore", "soundstore-clients")

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "7f9c24e5-1fbd-4bb8-9a26-028f0e2c3f10", claims[ClaimSid])
	assert.Equal(t, "An", claims[ClaimName])
	assert.Equal(t, "Nguyen", claims[ClaimGivenName])
	assert.Equal(t, "an@example.com", claims[ClaimEmail])
	assert.Equal(t, models.RoleCustomer, claims[ClaimRole])
}

func TestVerifyTokenWrongKey(t *testing.T) {
	issued := NewTokenService("secret-a", "soundstore", "soundstore-clients")
	verifier := NewTokenService("secret-b", "soundstore", "soundstore-clients")

	token, err := issued.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, fault.ErrUnauthorized)
}

func TestVerifyTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", "soundstore", "soundstore-clients").WithTTL(-time.Minute)

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, fault.ErrUnauthorized)
}

func TestVerifyTokenWrongIssuer(t *testing.T) {
	issued := NewTokenService("test-secret", "someone-else", "soundstore-clients")
	verifier := NewTokenService("test-secret", "soundstore", "soundstore-clients")

	token, err := issued.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, fault.ErrUnauthorized)
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetClaim(ctx, ClaimSid))

	ctx = WithClaims(ctx, jwt.MapClaims{ClaimSid: "user-1", "count": 3})
	assert.Equal(t, "user-1", GetClaim(ctx, ClaimSid))
	assert.Empty(t, GetClaim(ctx, ClaimEmail), "absent claim must read empty")
	assert.Empty(t, GetClaim(ctx, "count"), "non-string claim must read empty")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", hash)

	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
