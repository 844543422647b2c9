package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gosimple/slug"

	"natours/internal/cache"
	"natours/internal/model"
	"natours/internal/repository"
)

const (
	tourStatsCacheKey = "tours:stats"
	tourStatsCacheTTL = 5 * time.Minute
	// StatsMinRating is the lower bound of ratingsAverage for tours included in the stats.
	StatsMinRating = 4.5
)

// RoundRating rounds an average rating to one decimal.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// PrepareTour derives the slug and normalises the rating before a tour is validated and saved.
func PrepareTour(t *model.Tour) {
	t.Slug = slug.Make(t.Name)
	t.RatingsAverage = RoundRating(t.RatingsAverage)
}

// TourService exposes tour aggregates.
type TourService interface {
	Stats(ctx context.Context) ([]model.DifficultyStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlan, error)
	InvalidateStats(ctx context.Context)
}

type tourService struct {
	tours repository.TourRepository
	cache *cache.Client
}

// NewTourService creates a new tour service. stats are cached in Redis for a few minutes.
func NewTourService(tours repository.TourRepository, cache *cache.Client) TourService {
	return &tourService{tours: tours, cache: cache}
}

func (s *tourService) Stats(ctx context.Context) ([]model.DifficultyStats, error) {
	var cached []model.DifficultyStats
	if s.cache.GetJSON(ctx, tourStatsCacheKey, &cached) {
		return cached, nil
	}

	stats, err := s.tours.DifficultyStats(ctx, StatsMinRating)
	if err != nil {
		return nil, fmt.Errorf("tour stats: %w", err)
	}
	for i := range stats {
		stats[i].AvgRating = RoundRating(stats[i].AvgRating)
		stats[i].AvgPrice = math.Round(stats[i].AvgPrice*100) / 100
	}

	s.cache.SetJSON(ctx, tourStatsCacheKey, stats, tourStatsCacheTTL)
	return stats, nil
}

// MonthlyPlan counts tour starts per month of year, busiest month first.
func (s *tourService) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlan, error) {
	tours, err := s.tours.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly plan: %w", err)
	}

	byMonth := make(map[int]*model.MonthlyPlan)
	for _, t := range tours {
		for _, start := range t.StartDates {
			start = start.UTC()
			if start.Year() != year {
				continue
			}
			month := int(start.Month())
			plan, ok := byMonth[month]
			if !ok {
				plan = &model.MonthlyPlan{Month: month, Tours: []string{}}
				byMonth[month] = plan
			}
			plan.NumTourStarts++
			plan.Tours = append(plan.Tours, t.Name)
		}
	}

	plans := make([]model.MonthlyPlan, 0, len(byMonth))
	for _, p := range byMonth {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].NumTourStarts != plans[j].NumTourStarts {
			return plans[i].NumTourStarts > plans[j].NumTourStarts
		}
		return plans[i].Month < plans[j].Month
	})
	return plans, nil
}

func (s *tourService) InvalidateStats(ctx context.Context) {
	s.cache.Delete(ctx, tourStatsCacheKey)
}
