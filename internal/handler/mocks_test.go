package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"natours/internal/query"
	"natours/internal/repository"
)

// MockRepository is a mock implementation of Repository for any entity.
type MockRepository[T any] struct {
	mock.Mock
}

var _ repository.Repository[struct{}] = (*MockRepository[struct{}])(nil)

func (m *MockRepository[T]) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]T, error) {
	args := m.Called(ctx, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) Create(ctx context.Context, rec *T) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockRepository[T]) Save(ctx context.Context, rec *T) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type testValidator struct {
	v *validator.Validate
}

func (tv testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

// newTestEcho mirrors the production error boundary and validator.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = testValidator{v: validator.New()}
	e.HTTPErrorHandler = ErrorHandler("production", zap.NewNop())
	return e
}
