package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// UserStatus tracks the account lifecycle.
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
	UserStatusPurged      UserStatus = "purged"
)

// User represents a customer, guide or administrator account.
type User struct {
	ID                   uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name                 string     `json:"name" gorm:"size:255;not null" validate:"required"`
	Email                string     `json:"email" gorm:"uniqueIndex;size:255;not null" validate:"required,email"`
	Role                 Role       `json:"role" gorm:"size:20;not null;default:'user'" validate:"omitempty,oneof=user guide lead-guide admin"`
	PasswordHash         string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	MailVerified         bool       `json:"-" gorm:"not null;default:false"`
	PasswordResetToken   *string    `json:"-" gorm:"size:64;index"`
	PasswordResetExpires *time.Time `json:"-"`
	PasswordChangedAt    *time.Time `json:"-"`
	Photo                string     `json:"photo" gorm:"size:255;not null;default:'default.jpg'"`
	Status               UserStatus `json:"-" gorm:"size:16;not null;default:'active';index"`
	PurgeAt              *time.Time `json:"-" gorm:"index"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"-"`
	Versioned
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ChangedPasswordAfter reports whether the password changed after a token issued at issuedAt.
// Comparison is done at second resolution, matching JWT NumericDate.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// ClearPasswordReset drops any pending reset token.
func (u *User) ClearPasswordReset() {
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// PublicUser is the identity subset returned by the auth endpoints.
type PublicUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email, Role: u.Role}
}
