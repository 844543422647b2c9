package handler

import (
	"github.com/labstack/echo/v4"

	"natours/internal/middleware"
	"natours/internal/model"
	"natours/internal/repository"
	"natours/internal/service"
)

// BookingHandler serves bookings.
type BookingHandler struct {
	*CRUD[model.Booking]
	bookings service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(repo repository.BookingRepository, bookings service.BookingService) *BookingHandler {
	crud := NewCRUD[model.Booking](repo, model.BookingQuerySchema,
		WithPreloads[model.Booking]("Tour", "Customer"),
		WithPrepare[model.Booking](func(c echo.Context, b *model.Booking) error {
			return bookings.Prepare(c.Request().Context(), b)
		}),
	)
	return &BookingHandler{CRUD: crud, bookings: bookings}
}

// MyTours godoc
// @Summary Tours booked by the current user
// @Tags bookings
// @Produce json
// @Security CookieAuth
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookings/my-tours [get]
func (h *BookingHandler) MyTours(c echo.Context) error {
	tours, err := h.bookings.ToursBookedBy(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return list(c, tours)
}

