package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"natours/internal/model"
)

// PublicTours hides secret tours from every query.
func PublicTours(db *gorm.DB) *gorm.DB {
	return db.Where("secret_tour = ?", false)
}

// TourRepository defines tour persistence operations.
type TourRepository interface {
	Repository[model.Tour]
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tour, error)
	ListSchedules(ctx context.Context) ([]model.Tour, error)
	DifficultyStats(ctx context.Context, minRating float64) ([]model.DifficultyStats, error)
	SetRatings(ctx context.Context, id uuid.UUID, quantity int, average float64) error
}

type tourRepository struct {
	Repository[model.Tour]
	db *gorm.DB
}

// NewTourRepository creates a new tour repository.
func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{
		Repository: NewRepository[model.Tour](db, PublicTours),
		db:         db,
	}
}

// FindByIDs returns the visible tours among ids.
func (r *tourRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tour, error) {
	tours := make([]model.Tour, 0, len(ids))
	if len(ids) == 0 {
		return tours, nil
	}
	if err := r.db.WithContext(ctx).Scopes(PublicTours).Where("id IN ?", ids).Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

// ListSchedules loads the name and start dates of every visible tour.
func (r *tourRepository) ListSchedules(ctx context.Context) ([]model.Tour, error) {
	var tours []model.Tour
	if err := r.db.WithContext(ctx).Scopes(PublicTours).
		Select("id", "name", "start_dates").Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

// DifficultyStats groups tours rated at least minRating by difficulty, cheapest group first.
func (r *tourRepository) DifficultyStats(ctx context.Context, minRating float64) ([]model.DifficultyStats, error) {
	var stats []model.DifficultyStats
	err := r.db.WithContext(ctx).Model(&model.Tour{}).Scopes(PublicTours).
		Select("UPPER(difficulty) AS difficulty, COUNT(*) AS num_tours, SUM(ratings_quantity) AS num_ratings, "+
			"AVG(ratings_average) AS avg_rating, AVG(price) AS avg_price, MIN(price) AS min_price, MAX(price) AS max_price").
		Where("ratings_average >= ?", minRating).
		Group("UPPER(difficulty)").
		Order("avg_price").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SetRatings stores recomputed review aggregates without touching other columns.
func (r *tourRepository) SetRatings(ctx context.Context, id uuid.UUID, quantity int, average float64) error {
	return r.db.WithContext(ctx).Model(&model.Tour{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ratings_quantity": quantity,
			"ratings_average":  average,
		}).Error
}
