package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"natours/internal/model"
)

// RatingSummary is the review count and mean rating of one tour.
type RatingSummary struct {
	Count   int
	Average float64
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Repository[model.Review]
	Summarize(ctx context.Context, tourID uuid.UUID) (RatingSummary, error)
	TourIDsByAuthor(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type reviewRepository struct {
	Repository[model.Review]
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{
		Repository: NewRepository[model.Review](db),
		db:         db,
	}
}

func (r *reviewRepository) Summarize(ctx context.Context, tourID uuid.UUID) (RatingSummary, error) {
	var row struct {
		Count   int
		Average *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("tour_id = ?", tourID).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, err
	}

	summary := RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

// TourIDsByAuthor lists the distinct tours a user has reviewed.
func (r *reviewRepository) TourIDsByAuthor(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("user_id = ?", userID).
		Distinct().Pluck("tour_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
