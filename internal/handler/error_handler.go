package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "natours/internal/errors"
)

const genericMessage = "Something went wrong!"

// DevErrorResponse exposes the full error outside production.
type DevErrorResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Error   DevErrorDetail `json:"error"`
}

type DevErrorDetail struct {
	Code        string `json:"code"`
	StatusCode  int    `json:"statusCode"`
	Operational bool   `json:"operational"`
	Detail      string `json:"detail"`
}

// ErrorHandler is the single place errors become responses.
func ErrorHandler(env string, log *zap.Logger) echo.HTTPErrorHandler {
	production := strings.EqualFold(env, "production")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := apperrors.Normalize(err)
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", appErr.StatusCode),
			zap.String("code", appErr.Code),
			zap.Error(err),
		}
		if !appErr.Operational || appErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}

		var body interface{}
		switch {
		case !production:
			body = DevErrorResponse{
				Status:  appErr.Status(),
				Message: appErr.Message,
				Error: DevErrorDetail{
					Code:        appErr.Code,
					StatusCode:  appErr.StatusCode,
					Operational: appErr.Operational,
					Detail:      err.Error(),
				},
			}
		case appErr.Operational:
			body = apperrors.ErrorResponse{Status: appErr.Status(), Message: appErr.Message}
		default:
			body = apperrors.ErrorResponse{Status: "error", Message: genericMessage}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(appErr.StatusCode)
		} else {
			err = c.JSON(appErr.StatusCode, body)
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
