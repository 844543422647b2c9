package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTService_SessionRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", time.Hour).WithClock(fixedClock(now))
	userID := uuid.New()

	token, issued, err := svc.GenerateSessionToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, now.Unix(), claims.IssuedAtTime().Unix())
}

func TestJWTService_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", time.Hour).WithClock(fixedClock(now))

	token, _, err := svc.GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	svc.WithClock(fixedClock(now.Add(2 * time.Hour)))
	_, err = svc.ValidateSessionToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsOtherPurpose(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	confirm, err := svc.GenerateConfirmationToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.ValidateSessionToken(confirm)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	session, _, err := svc.GenerateSessionToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.ValidateConfirmationToken(session)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("one-secret", time.Hour)
	verifier := NewJWTService("another-secret", time.Hour)

	token, _, err := issuer.GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateSessionToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	claims := &Claims{
		UserID:  uuid.New(),
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestJWTService_Malformed(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).ValidateSessionToken("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
