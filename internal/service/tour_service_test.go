package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"natours/internal/model"
	"natours/internal/repository"
)

func TestPrepareTour(t *testing.T) {
	tour := &model.Tour{Name: "The Forest Hiker", RatingsAverage: 4.666666}
	PrepareTour(tour)

	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 4.7, tour.RatingsAverage)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.5, RoundRating(4.45))
	assert.Equal(t, 5.0, RoundRating(4.96))
	assert.Equal(t, 0.0, RoundRating(0))
}

func TestTourService_Stats(t *testing.T) {
	tours := new(MockTourRepository)
	svc := NewTourService(tours, nil)
	tours.On("DifficultyStats", mock.Anything, StatsMinRating).Return([]model.DifficultyStats{
		{Difficulty: "EASY", NumTours: 2, AvgRating: 4.7333, AvgPrice: 1196.666},
	}, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 4.7, stats[0].AvgRating)
	assert.Equal(t, 1196.67, stats[0].AvgPrice)
}

func TestTourService_Stats_Error(t *testing.T) {
	tours := new(MockTourRepository)
	svc := NewTourService(tours, nil)
	tours.On("DifficultyStats", mock.Anything, StatsMinRating).Return(nil, errors.New("db down"))

	_, err := svc.Stats(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestTourService_MonthlyPlan(t *testing.T) {
	tours := new(MockTourRepository)
	svc := NewTourService(tours, nil)
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
	tours.On("ListSchedules", mock.Anything).Return([]model.Tour{
		{Name: "The Forest Hiker", StartDates: []time.Time{date(2021, 4, 25), date(2021, 7, 20), date(2022, 4, 1)}},
		{Name: "The Sea Explorer", StartDates: []time.Time{date(2021, 7, 1)}},
		{Name: "The Snow Adventurer", StartDates: []time.Time{date(2021, 1, 5)}},
	}, nil)

	plans, err := svc.MonthlyPlan(context.Background(), 2021)
	require.NoError(t, err)

	require.Len(t, plans, 3)
	assert.Equal(t, model.MonthlyPlan{Month: 7, NumTourStarts: 2, Tours: []string{"The Forest Hiker", "The Sea Explorer"}}, plans[0])
	assert.Equal(t, 1, plans[1].Month)
	assert.Equal(t, 4, plans[2].Month)
}

type MockTourService struct {
	mock.Mock
}

func (m *MockTourService) Stats(ctx context.Context) ([]model.DifficultyStats, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.DifficultyStats), args.Error(1)
}

func (m *MockTourService) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlan, error) {
	args := m.Called(ctx, year)
	return args.Get(0).([]model.MonthlyPlan), args.Error(1)
}

func (m *MockTourService) InvalidateStats(ctx context.Context) {
	m.Called(ctx)
}

func TestReviewService_RecalculateRatings(t *testing.T) {
	tests := []struct {
		name             string
		summary          repository.RatingSummary
		expectedQuantity int
		expectedAverage  float64
	}{
		{name: "with reviews", summary: repository.RatingSummary{Count: 3, Average: 4.3333}, expectedQuantity: 3, expectedAverage: 4.3},
		{name: "last review removed", summary: repository.RatingSummary{}, expectedQuantity: 0, expectedAverage: DefaultRatingsAverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewRepository)
			tours := new(MockTourRepository)
			stats := new(MockTourService)
			svc := NewReviewService(reviews, tours, stats)
			tourID := uuid.New()

			reviews.On("Summarize", mock.Anything, tourID).Return(tt.summary, nil)
			tours.On("SetRatings", mock.Anything, tourID, tt.expectedQuantity, tt.expectedAverage).Return(nil)
			stats.On("InvalidateStats", mock.Anything).Return()

			require.NoError(t, svc.RecalculateRatings(context.Background(), tourID))
			tours.AssertExpectations(t)
			stats.AssertExpectations(t)
		})
	}
}

func TestBookingService_Prepare(t *testing.T) {
	bookings := new(MockBookingRepository)
	tours := new(MockTourRepository)
	svc := NewBookingService(bookings, tours)
	tour := &model.Tour{ID: uuid.New()}
	tour.Price = mustDecimal(t, "497")
	tours.On("FindByID", mock.Anything, tour.ID).Return(tour, nil)

	b := &model.Booking{TourID: tour.ID, UserID: uuid.New()}
	require.NoError(t, svc.Prepare(context.Background(), b))
	assert.True(t, b.Price.Equal(tour.Price))
}

func TestBookingService_ToursBookedBy(t *testing.T) {
	bookings := new(MockBookingRepository)
	tours := new(MockTourRepository)
	svc := NewBookingService(bookings, tours)
	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	bookings.On("TourIDsForUser", mock.Anything, userID).Return(ids, nil)
	tours.On("FindByIDs", mock.Anything, ids).Return([]model.Tour{{Name: "A"}, {Name: "B"}}, nil)

	got, err := svc.ToursBookedBy(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
