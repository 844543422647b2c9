package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"natours/internal/model"
	"natours/internal/repository"
)

// BookingService handles booking operations.
type BookingService interface {
	Prepare(ctx context.Context, b *model.Booking) error
	ToursBookedBy(ctx context.Context, userID uuid.UUID) ([]model.Tour, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	tours    repository.TourRepository
}

// NewBookingService creates a new booking service.
func NewBookingService(bookings repository.BookingRepository, tours repository.TourRepository) BookingService {
	return &bookingService{bookings: bookings, tours: tours}
}

// Prepare checks the booked tour exists and defaults the price to the tour's price.
func (s *bookingService) Prepare(ctx context.Context, b *model.Booking) error {
	tour, err := s.tours.FindByID(ctx, b.TourID)
	if err != nil {
		return fmt.Errorf("find booked tour: %w", err)
	}
	if b.Price.IsZero() {
		b.Price = tour.Price
	}
	return nil
}

// ToursBookedBy lists the tours a user has bookings for.
func (s *bookingService) ToursBookedBy(ctx context.Context, userID uuid.UUID) ([]model.Tour, error) {
	ids, err := s.bookings.TourIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	tours, err := s.tours.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list booked tours: %w", err)
	}
	return tours, nil
}
