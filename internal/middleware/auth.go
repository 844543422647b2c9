package middleware

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"natours/internal/auth"
	apperrors "natours/internal/errors"
	"natours/internal/model"
)

const (
	// SessionCookie carries the session token.
	SessionCookie = "jwt"
	// LoggedOutValue overwrites the session cookie on logout.
	LoggedOutValue = "loggedOut"

	claimsContextKey   = "session"
	userContextKey     = "user"
	parseErrContextKey = "session_error"
)

var (
	ErrNotLoggedIn      = apperrors.Unauthorized("You are not logged in! Please log in to get access")
	ErrInvalidSession   = apperrors.Unauthorized("Invalid JSON Web Token")
	ErrExpiredSession   = apperrors.Unauthorized("JSON Web Token expired")
	ErrPermissionDenied = apperrors.Forbidden("You do not have permission to perform this action")
)

// Authenticator resolves the user behind validated session claims.
type Authenticator interface {
	Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error)
}

// Auth builds the session guards.
type Auth struct {
	jwt   *auth.JWTService
	users Authenticator
}

func NewAuth(jwtService *auth.JWTService, users Authenticator) *Auth {
	return &Auth{jwt: jwtService, users: users}
}

// Protect requires a valid, unrevoked, fresh session cookie and stores the user in the context.
func (a *Auth) Protect() echo.MiddlewareFunc {
	parse := echojwt.WithConfig(a.config(false))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return ErrNotLoggedIn
			}
			user, err := a.users.Authenticate(c.Request().Context(), claims)
			if err != nil {
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		})
	}
}

// IsLoggedIn runs the same checks as Protect but never fails; on any failure the request
// continues anonymously.
func (a *Auth) IsLoggedIn() echo.MiddlewareFunc {
	parse := echojwt.WithConfig(a.config(true))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return next(c)
			}
			user, err := a.users.Authenticate(c.Request().Context(), claims)
			if err != nil {
				c.Set(claimsContextKey, nil)
				return next(c)
			}
			c.Set(userContextKey, user)
			return next(c)
		})
	}
}

// RestrictTo allows only users whose role is listed. It must run after Protect.
func RestrictTo(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return ErrNotLoggedIn
			}
			if !user.HasRole(roles...) {
				return ErrPermissionDenied
			}
			return next(c)
		}
	}
}

func (a *Auth) config(soft bool) echojwt.Config {
	return echojwt.Config{
		TokenLookup:            "cookie:" + SessionCookie,
		ContextKey:             claimsContextKey,
		ContinueOnIgnoredError: soft,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := a.jwt.ValidateSessionToken(token)
			if err != nil {
				c.Set(parseErrContextKey, err)
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if soft {
				return nil
			}
			return sessionError(c)
		},
	}
}

func sessionError(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" || cookie.Value == LoggedOutValue {
		return ErrNotLoggedIn
	}
	if parseErr, ok := c.Get(parseErrContextKey).(error); ok && errors.Is(parseErr, jwt.ErrTokenExpired) {
		return ErrExpiredSession
	}
	return ErrInvalidSession
}

// CurrentClaims returns the validated session claims, or nil.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsContextKey).(*auth.Claims)
	return claims
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// SetCurrentUser stores an authenticated user. Used by handlers that sign a user in.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(userContextKey, user)
}
