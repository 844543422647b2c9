package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"natours/internal/auth"
	apperrors "natours/internal/errors"
	"natours/internal/model"
	"natours/internal/repository"
)

var (
	ErrPasswordRequired      = apperrors.Validation("Please provide your password to proceed")
	ErrPasswordIncorrect     = apperrors.Unauthorized("Please provide the correct password")
	ErrReactivateCredentials = apperrors.Unauthorized("Invalid email or password")
	ErrReactivateMissing     = apperrors.Validation("Please provide email and password")
	ErrNotForPasswords       = apperrors.Validation("This route is not for password updates. Please use /updateMyPassword")
	ErrNothingToUpdate       = apperrors.Validation("Please provide a name to update")
)

// UpdateMeInput is the self-service profile patch.
type UpdateMeInput struct {
	Name            *string
	Password        string
	PasswordConfirm string
}

// AccountService manages the lifecycle of the signed-in user's own account.
type AccountService interface {
	UpdateMe(ctx context.Context, user *model.User, in UpdateMeInput) (*model.User, error)
	Deactivate(ctx context.Context, user *model.User, password string) error
	Reactivate(ctx context.Context, email, password string) (*model.User, error)
	DeletePermanently(ctx context.Context, user *model.User, password string) error
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type accountService struct {
	users     repository.UserRepository
	hasher    *auth.PasswordHasher
	ratings   ReviewService
	retention time.Duration
	now       func() time.Time
}

// NewAccountService creates a new account service. Deactivated accounts are purged after retention.
// When ratings is set, deleting a user refreshes the ratings of the tours they reviewed.
func NewAccountService(users repository.UserRepository, hasher *auth.PasswordHasher, ratings ReviewService, retention time.Duration, now func() time.Time) AccountService {
	if now == nil {
		now = time.Now
	}
	return &accountService{users: users, hasher: hasher, ratings: ratings, retention: retention, now: now}
}

func (s *accountService) UpdateMe(ctx context.Context, user *model.User, in UpdateMeInput) (*model.User, error) {
	if in.Password != "" || in.PasswordConfirm != "" {
		return nil, ErrNotForPasswords
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, ErrNothingToUpdate
	}

	user.Name = strings.TrimSpace(*in.Name)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Deactivate hides the account and schedules its purge.
func (s *accountService) Deactivate(ctx context.Context, user *model.User, password string) error {
	if err := s.checkPassword(user, password); err != nil {
		return err
	}

	purgeAt := s.now().Add(s.retention)
	user.Status = model.UserStatusDeactivated
	user.PurgeAt = &purgeAt
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// Reactivate restores a deactivated account whose retention window is still open.
func (s *accountService) Reactivate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrReactivateMissing
	}

	user, err := s.users.FindAnyByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReactivateCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Status != model.UserStatusDeactivated ||
		(user.PurgeAt != nil && !s.now().Before(*user.PurgeAt)) ||
		!s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrReactivateCredentials
	}

	user.Status = model.UserStatusActive
	user.PurgeAt = nil
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("reactivate user: %w", err)
	}
	return user, nil
}

func (s *accountService) DeletePermanently(ctx context.Context, user *model.User, password string) error {
	if err := s.checkPassword(user, password); err != nil {
		return err
	}
	return s.Delete(ctx, user.ID)
}

// Delete removes a user. Their reviews, bookings and guide assignments go with the row.
func (s *accountService) Delete(ctx context.Context, id uuid.UUID) error {
	var reviewed []uuid.UUID
	if s.ratings != nil {
		var err error
		if reviewed, err = s.ratings.ReviewedTours(ctx, id); err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	for _, tourID := range reviewed {
		if err := s.ratings.RecalculateRatings(ctx, tourID); err != nil {
			return err
		}
	}
	return nil
}

// PurgeExpired finalises deactivations whose retention window has elapsed.
func (s *accountService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.users.PurgeExpired(ctx, s.now())
}

func (s *accountService) checkPassword(user *model.User, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return ErrPasswordIncorrect
	}
	return nil
}
