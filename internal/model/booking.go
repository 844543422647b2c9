package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking records a user's purchase of a tour.
type Booking struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	TourID    uuid.UUID       `json:"tour" gorm:"type:char(36);not null;index" validate:"required"`
	UserID    uuid.UUID       `json:"user" gorm:"type:char(36);not null;index" validate:"required"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Paid      bool            `json:"paid" gorm:"not null;default:true"` // zero value falls back to the column default
	Tour      *Tour           `json:"tourDetails,omitempty" gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
	Customer  *User           `json:"customer,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"-"`
	Versioned
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
