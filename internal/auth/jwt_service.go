package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeSession = "session"
	PurposeConfirm = "confirm"
)

var ErrWrongPurpose = errors.New("token issued for another purpose")

// Claims represents JWT claims.
type Claims struct {
	UserID  uuid.UUID `json:"id"`
	Purpose string    `json:"purpose"`
	jwt.RegisteredClaims
}

// IssuedAtTime returns the iat claim, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and token lifetime.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// TTL is the lifetime of issued tokens.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateSessionToken signs a session token for the user. The jti allows later revocation.
func (s *JWTService) GenerateSessionToken(userID uuid.UUID) (string, *Claims, error) {
	claims := s.newClaims(userID, PurposeSession)
	token, err := s.sign(claims)
	return token, claims, err
}

// GenerateConfirmationToken signs the token embedded in email verification links.
func (s *JWTService) GenerateConfirmationToken(userID uuid.UUID) (string, error) {
	return s.sign(s.newClaims(userID, PurposeConfirm))
}

// ValidateSessionToken verifies signature, expiry and purpose of a session token.
func (s *JWTService) ValidateSessionToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, PurposeSession)
}

// ValidateConfirmationToken verifies a token taken from a verification link.
func (s *JWTService) ValidateConfirmationToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, PurposeConfirm)
}

func (s *JWTService) newClaims(userID uuid.UUID, purpose string) *Claims {
	now := s.now()
	return &Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) validate(tokenString, purpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Purpose != purpose {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, ErrWrongPurpose)
	}
	return claims, nil
}
