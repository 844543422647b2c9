package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"natours/internal/middleware"
)

const loggedOutTTL = 10 * time.Second

// secureRequest reports whether the client reached us over TLS, directly or through a proxy.
func secureRequest(c echo.Context) bool {
	return c.IsTLS() || c.Request().Header.Get(echo.HeaderXForwardedProto) == "https"
}

func setSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	setSessionCookie(c, middleware.LoggedOutValue, loggedOutTTL)
}
