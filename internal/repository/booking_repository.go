package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"natours/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Repository[model.Booking]
	TourIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type bookingRepository struct {
	Repository[model.Booking]
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{
		Repository: NewRepository[model.Booking](db),
		db:         db,
	}
}

// TourIDsForUser lists the distinct tours a user has booked.
func (r *bookingRepository) TourIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("user_id = ?", userID).
		Distinct().Pluck("tour_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
