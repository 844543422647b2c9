package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry     = 1062
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedRow    = 1452
	invalidReferenceMessage = "Invalid reference: the related document does not exist"
)

// Normalize maps any error produced below the HTTP boundary to an AppError.
// Unknown errors become non-operational 500s.
func Normalize(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Validation(validationMessage(validationErrs)).Wrap(err)
	}

	var mysqlErr *mysql.MySQLError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("No document found with that ID").Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry:
		return Validation("Duplicate field value. Please use another value").Wrap(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.As(err, &mysqlErr) && (mysqlErr.Number == mysqlRowIsReferenced || mysqlErr.Number == mysqlNoReferencedRow):
		return Validation(invalidReferenceMessage).Wrap(err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return Unauthorized("JSON Web Token expired").Wrap(err)
	case isJWTError(err):
		return Validation("Invalid JSON Web Token").Wrap(err)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return New(httpErr.Code, httpCode(httpErr.Code), fmt.Sprint(httpErr.Message)).Wrap(err)
	}

	return &AppError{
		StatusCode:  http.StatusInternalServerError,
		Code:        CodeInternal,
		Message:     "Something went wrong!",
		Operational: false,
		Err:         err,
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "eqfield":
			parts = append(parts, fmt.Sprintf("%s must match %s", fe.Field(), fe.Param()))
		case "min", "max", "gte", "lte":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return "Invalid input data: " + strings.Join(parts, ". ")
}

func isJWTError(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenInvalidClaims,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return CodeInternal
	}
}
