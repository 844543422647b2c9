package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"natours/internal/middleware"
	"natours/internal/model"
	"natours/internal/service"
)

// UserHandler serves the signed-in user's own account and the admin user collection.
type UserHandler struct {
	*CRUD[model.User]
	accounts  service.AccountService
	sessions  service.AuthService
	cookieTTL time.Duration
}

// NewUserHandler creates a new user handler.
func NewUserHandler(crud *CRUD[model.User], accounts service.AccountService, sessions service.AuthService, cookieTTL time.Duration) *UserHandler {
	return &UserHandler{CRUD: crud, accounts: accounts, sessions: sessions, cookieTTL: cookieTTL}
}

// UpdateMeRequest is the self-service profile patch.
type UpdateMeRequest struct {
	Name            *string `json:"name"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"passwordConfirm"`
}

// PasswordRequest confirms a destructive account action.
type PasswordRequest struct {
	Password string `json:"password"`
}

// ReactivateRequest names a deactivated account.
type ReactivateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetMe godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} DocumentResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	c.SetParamNames("id")
	c.SetParamValues(middleware.CurrentUser(c).ID.String())
	return h.Get(c)
}

// UpdateMe godoc
// @Summary Update own profile
// @Description Only the name can be changed here. Password fields are rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdateMeRequest true "Profile fields"
// @Success 200 {object} DocumentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/updateMe [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateMe(c.Request().Context(), middleware.CurrentUser(c), service.UpdateMeInput{
		Name:            req.Name,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}
	return document(c, http.StatusOK, user)
}

// DeactivateMe godoc
// @Summary Deactivate own account
// @Description The account can be reactivated until it is purged.
// @Tags users
// @Accept json
// @Security CookieAuth
// @Param request body PasswordRequest true "Current password"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/deactivateMe [delete]
func (h *UserHandler) DeactivateMe(c echo.Context) error {
	var req PasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.accounts.Deactivate(c.Request().Context(), middleware.CurrentUser(c), req.Password); err != nil {
		return err
	}
	return h.endSession(c)
}

// PermanentlyDeleteMe godoc
// @Summary Delete own account
// @Tags users
// @Accept json
// @Security CookieAuth
// @Param request body PasswordRequest true "Current password"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/permanentlyDeleteMe [delete]
func (h *UserHandler) PermanentlyDeleteMe(c echo.Context) error {
	var req PasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.accounts.DeletePermanently(c.Request().Context(), middleware.CurrentUser(c), req.Password); err != nil {
		return err
	}
	return h.endSession(c)
}

// ReactivateMe godoc
// @Summary Reactivate a deactivated account
// @Tags users
// @Accept json
// @Produce json
// @Param request body ReactivateRequest true "Credentials of the deactivated account"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/reactivateMe [post]
func (h *UserHandler) ReactivateMe(c echo.Context) error {
	var req ReactivateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := h.accounts.Reactivate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	session, err := h.sessions.IssueSession(user)
	if err != nil {
		return err
	}

	setSessionCookie(c, session.Token, h.cookieTTL)
	public := user.Public()
	return c.JSON(http.StatusOK, SessionResponse{
		Status:  statusSuccess,
		Message: "Welcome back! Your account has been reactivated",
		Data:    UserEnvelope{User: &public},
	})
}

// Delete godoc
// @Summary Delete a user
// @Description Removes the user with their reviews and bookings, then refreshes the affected tour ratings.
// @Tags users
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) endSession(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), middleware.CurrentClaims(c)); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}
