package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"natours/internal/model"
	"natours/internal/query"
	"natours/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]model.User, error) {
	args := m.Called(ctx, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindAnyByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string, changedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, tokenHash, passwordHash, changedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockMailer is a mock implementation of Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmation(ctx context.Context, user *model.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *MockMailer) SendWelcome(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, user *model.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

// MockRevocationStore is a mock implementation of auth.RevocationStore.
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string) bool {
	args := m.Called(ctx, tokenID)
	return args.Bool(0)
}

// MockTourRepository is a mock implementation of TourRepository.
type MockTourRepository struct {
	mock.Mock
}

var _ repository.TourRepository = (*MockTourRepository)(nil)

func (m *MockTourRepository) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]model.Tour, error) {
	args := m.Called(ctx, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tour), args.Error(1)
}

func (m *MockTourRepository) FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*model.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tour), args.Error(1)
}

func (m *MockTourRepository) Create(ctx context.Context, tour *model.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *MockTourRepository) Save(ctx context.Context, tour *model.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *MockTourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTourRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tour, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tour), args.Error(1)
}

func (m *MockTourRepository) ListSchedules(ctx context.Context) ([]model.Tour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tour), args.Error(1)
}

func (m *MockTourRepository) DifficultyStats(ctx context.Context, minRating float64) ([]model.DifficultyStats, error) {
	args := m.Called(ctx, minRating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DifficultyStats), args.Error(1)
}

func (m *MockTourRepository) SetRatings(ctx context.Context, id uuid.UUID, quantity int, average float64) error {
	return m.Called(ctx, id, quantity, average).Error(0)
}

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*MockReviewRepository)(nil)

func (m *MockReviewRepository) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]model.Review, error) {
	args := m.Called(ctx, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) Save(ctx context.Context, review *model.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewRepository) Summarize(ctx context.Context, tourID uuid.UUID) (repository.RatingSummary, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(repository.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) TourIDsByAuthor(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockReviewService is a mock implementation of ReviewService.
type MockReviewService struct {
	mock.Mock
}

var _ ReviewService = (*MockReviewService)(nil)

func (m *MockReviewService) RecalculateRatings(ctx context.Context, tourID uuid.UUID) error {
	return m.Called(ctx, tourID).Error(0)
}

func (m *MockReviewService) ReviewedTours(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mock.Mock
}

var _ repository.BookingRepository = (*MockBookingRepository)(nil)

func (m *MockBookingRepository) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]model.Booking, error) {
	args := m.Called(ctx, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepository) TourIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
