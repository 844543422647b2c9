package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"natours/internal/repository"
)

// DefaultRatingsAverage is stored on tours without reviews.
const DefaultRatingsAverage = 4.5

// ReviewService keeps tour rating aggregates in step with reviews.
type ReviewService interface {
	RecalculateRatings(ctx context.Context, tourID uuid.UUID) error
	ReviewedTours(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	tours   repository.TourRepository
	stats   TourService
	// Mutex per tour ID to serialize recalculations of the same tour
	tourMutexes sync.Map
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, tours repository.TourRepository, stats TourService) ReviewService {
	return &reviewService{reviews: reviews, tours: tours, stats: stats}
}

func (s *reviewService) getMutex(tourID uuid.UUID) *sync.Mutex {
	value, _ := s.tourMutexes.LoadOrStore(tourID.String(), &sync.Mutex{})
	return value.(*sync.Mutex)
}

// RecalculateRatings recomputes ratingsQuantity and ratingsAverage of a tour from its reviews.
func (s *reviewService) RecalculateRatings(ctx context.Context, tourID uuid.UUID) error {
	mu := s.getMutex(tourID)
	mu.Lock()
	defer mu.Unlock()

	summary, err := s.reviews.Summarize(ctx, tourID)
	if err != nil {
		return fmt.Errorf("summarize reviews: %w", err)
	}

	average := DefaultRatingsAverage
	if summary.Count > 0 {
		average = RoundRating(summary.Average)
	}
	if err := s.tours.SetRatings(ctx, tourID, summary.Count, average); err != nil {
		return fmt.Errorf("update tour ratings: %w", err)
	}
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
	return nil
}

func (s *reviewService) ReviewedTours(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.reviews.TourIDsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviewed tours: %w", err)
	}
	return ids, nil
}
