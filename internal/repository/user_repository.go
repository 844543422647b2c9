package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"natours/internal/model"
)

// ActiveUsers hides deactivated and purged accounts.
func ActiveUsers(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", model.UserStatusActive)
}

// UserRepository defines persistence operations.
type UserRepository interface {
	Repository[model.User]
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindAnyByEmail ignores account status.
	FindAnyByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) (bool, error)
	ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string, changedAt time.Time) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	Repository[model.User]
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		Repository: NewRepository[model.User](db, ActiveUsers),
		db:         db,
	}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Scopes(ActiveUsers).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAnyByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Scopes(ActiveUsers).
		Where("password_reset_token = ?", tokenHash).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkVerified flips the verified flag once. It reports false when the user was already verified.
func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND mail_verified = ?", id, false).
		Updates(map[string]interface{}{
			"mail_verified": true,
			"version":       gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark verified: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ConsumeResetToken sets the new password only while the stored token still matches,
// so a reset token can be used once.
func (r *userRepository) ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string, changedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND password_reset_token = ?", id, tokenHash).
		Updates(map[string]interface{}{
			"password_hash":          passwordHash,
			"password_changed_at":    changedAt,
			"password_reset_token":   nil,
			"password_reset_expires": nil,
			"version":                gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, fmt.Errorf("consume reset token: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// PurgeExpired anonymises deactivated accounts whose retention window has passed.
func (r *userRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("status = ? AND purge_at <= ?", model.UserStatusDeactivated, now).
		Updates(map[string]interface{}{
			"status":                 model.UserStatusPurged,
			"email":                  gorm.Expr("CONCAT('purged-', id, '@invalid')"),
			"name":                   "Deleted user",
			"password_hash":          "",
			"password_reset_token":   nil,
			"password_reset_expires": nil,
			"purge_at":               nil,
			"version":                gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("purge users: %w", res.Error)
	}
	return res.RowsAffected, nil
}
