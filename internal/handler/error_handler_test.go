package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "natours/internal/errors"
)

func runErrorHandler(env string, err error) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	rec := httptest.NewRecorder()
	ErrorHandler(env, zap.NewNop())(err, e.NewContext(req, rec))
	return rec
}

func TestErrorHandler_Production(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "operational error keeps its message",
			err:        apperrors.Forbidden("You do not have permission to perform this action"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"status":"fail","message":"You do not have permission to perform this action"}`,
		},
		{
			name:       "storage not found",
			err:        gorm.ErrRecordNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"status":"fail","message":"No document found with that ID"}`,
		},
		{
			name:       "unknown error is hidden",
			err:        errors.New("dial tcp 10.0.0.3:3306: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"error","message":"Something went wrong!"}`,
		},
		{
			name:       "echo route miss",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"status":"fail","message":"Not Found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runErrorHandler("production", tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestErrorHandler_DevelopmentExposesDetail(t *testing.T) {
	rec := runErrorHandler("development", errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp DevErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, apperrors.CodeInternal, resp.Error.Code)
	assert.False(t, resp.Error.Operational)
	assert.Equal(t, "boom", resp.Error.Detail)
}
