package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"natours/internal/config"
	apperrors "natours/internal/errors"
	"natours/internal/handler"
	"natours/internal/middleware"
	"natours/internal/model"
)

const bodyLimit = "10K"

var errTooManyRequests = apperrors.New(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests from this IP, please try again in an hour!")

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Tours    *handler.TourHandler
	Reviews  *handler.CRUD[model.Review]
	Bookings *handler.BookingHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, guard *middleware.Auth, h Handlers) {
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.Env, log)
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(echomw.Gzip())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", rateLimiter(cfg.RateLimitPerHour))
	v1 := api.Group("/v1")

	protect := guard.Protect()
	softGuard := guard.IsLoggedIn()
	restrictTo := middleware.RestrictTo

	// Users
	users := v1.Group("/users")
	users.POST("/signup", h.Auth.Signup)
	users.GET("/signup/confirm_account", h.Auth.ConfirmAccount)
	users.POST("/login", h.Auth.Login)
	users.GET("/logout", h.Auth.Logout, softGuard)
	users.GET("/session", h.Auth.Session, softGuard)
	users.POST("/forgotPassword", h.Auth.ForgotPassword)
	users.PATCH("/resetPassword", h.Auth.ResetPassword)
	users.POST("/reactivateMe", h.Users.ReactivateMe)

	me := users.Group("", protect)
	me.PATCH("/updateMyPassword", h.Auth.UpdateMyPassword)
	me.GET("/me", h.Users.GetMe)
	me.PATCH("/updateMe", h.Users.UpdateMe)
	me.DELETE("/deactivateMe", h.Users.DeactivateMe)
	me.DELETE("/permanentlyDeleteMe", h.Users.PermanentlyDeleteMe)

	admin := users.Group("", protect, restrictTo(model.RoleAdmin))
	admin.GET("", h.Users.List)
	admin.GET("/:id", h.Users.Get)
	admin.PATCH("/:id", h.Users.Update)
	admin.DELETE("/:id", h.Users.Delete)

	// Tours
	tours := v1.Group("/tours")
	tours.GET("/top-5-cheap", h.Tours.List, handler.AliasTopTours)
	tours.GET("/tour-stats", h.Tours.Stats)
	tours.GET("/monthly-plan/:year", h.Tours.MonthlyPlan,
		protect, restrictTo(model.RoleAdmin, model.RoleLeadGuide, model.RoleGuide))
	tours.GET("", h.Tours.List)
	tours.GET("/:id", h.Tours.Get)

	tourAdmin := tours.Group("", protect, restrictTo(model.RoleAdmin, model.RoleLeadGuide))
	tourAdmin.POST("", h.Tours.Create)
	tourAdmin.PATCH("/:id", h.Tours.Update)
	tourAdmin.DELETE("/:id", h.Tours.Delete)

	tours.GET("/:tourId/reviews", h.Reviews.List, protect)
	tours.POST("/:tourId/reviews", h.Reviews.Create, protect, restrictTo(model.RoleUser))

	// Reviews
	reviews := v1.Group("/reviews", protect)
	reviews.GET("", h.Reviews.List)
	reviews.POST("", h.Reviews.Create, restrictTo(model.RoleUser))
	reviews.GET("/:id", h.Reviews.Get)
	reviews.PATCH("/:id", h.Reviews.Update, restrictTo(model.RoleUser, model.RoleAdmin))
	reviews.DELETE("/:id", h.Reviews.Delete, restrictTo(model.RoleUser, model.RoleAdmin))

	// Bookings
	bookings := v1.Group("/bookings", protect)
	bookings.GET("/my-tours", h.Bookings.MyTours)

	bookingAdmin := bookings.Group("", restrictTo(model.RoleAdmin, model.RoleLeadGuide))
	bookingAdmin.GET("", h.Bookings.List)
	bookingAdmin.POST("", h.Bookings.Create)
	bookingAdmin.GET("/:id", h.Bookings.Get)
	bookingAdmin.PATCH("/:id", h.Bookings.Update)
	bookingAdmin.DELETE("/:id", h.Bookings.Delete)
}

// rateLimiter allows perHour requests per client IP within a rolling hour.
func rateLimiter(perHour int) echo.MiddlewareFunc {
	if perHour <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perHour) / time.Hour.Seconds()),
		Burst:     perHour,
		ExpiresIn: time.Hour,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return errTooManyRequests
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
