package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"natours/internal/middleware"
	"natours/internal/model"
	"natours/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookieTTL   time.Duration
}

// NewAuthHandler creates a new auth handler. cookieTTL is the max-age of the session cookie.
func NewAuthHandler(authService service.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest carries the account email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// UpdatePasswordRequest represents a password change by a signed-in user.
type UpdatePasswordRequest struct {
	PasswordCurrent    string `json:"passwordCurrent"`
	PasswordNew        string `json:"passwordNew"`
	PasswordNewConfirm string `json:"passwordNewConfirm"`
}

// UserEnvelope is the data block of session responses.
type UserEnvelope struct {
	User *model.PublicUser `json:"user"`
}

// SessionResponse reports the identity bound to the session cookie.
type SessionResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    UserEnvelope `json:"data"`
}

// Signup godoc
// @Summary Sign up
// @Description Creates an unverified account and mails a confirmation link.
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.authService.SignUp(c.Request().Context(), service.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	return message(c, http.StatusOK, "Confirmation email sent! Please check your inbox to verify your account")
}

// ConfirmAccount godoc
// @Summary Confirm account
// @Tags users
// @Produce json
// @Param confirmation_token query string true "Token from the confirmation email"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/signup/confirm_account [get]
func (h *AuthHandler) ConfirmAccount(c echo.Context) error {
	if _, err := h.authService.ConfirmSignup(c.Request().Context(), c.QueryParam("confirmation_token")); err != nil {
		return err
	}
	return message(c, http.StatusCreated, "Your email has been verified! Please log in")
}

// Login godoc
// @Summary Log in
// @Description Sets the jwt cookie. Unverified accounts get a new confirmation email instead.
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.sendSession(c, session, "Logged in successfully")
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current session and overwrites the jwt cookie.
// @Tags users
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /users/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.CurrentClaims(c)); err != nil {
		return err
	}
	clearSessionCookie(c)
	return message(c, http.StatusOK, "Logged out")
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Tags users
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Token sent to email!")
}

// ResetPassword godoc
// @Summary Reset password
// @Tags users
// @Accept json
// @Produce json
// @Param reset_token query string true "Token from the reset email"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/resetPassword [patch]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	err := h.authService.ResetPassword(c.Request().Context(), c.QueryParam("reset_token"), req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}
	return message(c, http.StatusOK, "Password has been reset! Please log in with your new password")
}

// UpdateMyPassword godoc
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/updateMyPassword [patch]
func (h *AuthHandler) UpdateMyPassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	session, err := h.authService.UpdatePassword(
		c.Request().Context(),
		middleware.CurrentUser(c),
		req.PasswordCurrent,
		req.PasswordNew,
		req.PasswordNewConfirm,
	)
	if err != nil {
		return err
	}
	return h.sendSession(c, session, "Password updated")
}

// Session godoc
// @Summary Current identity
// @Description Reports the user behind the jwt cookie, or null.
// @Tags users
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /users/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	resp := SessionResponse{Status: statusSuccess}
	if user := middleware.CurrentUser(c); user != nil {
		public := user.Public()
		resp.Data.User = &public
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) sendSession(c echo.Context, session *service.Session, msg string) error {
	setSessionCookie(c, session.Token, h.cookieTTL)
	public := session.User.Public()
	return c.JSON(http.StatusOK, SessionResponse{
		Status:  statusSuccess,
		Message: msg,
		Data:    UserEnvelope{User: &public},
	})
}
