package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a user's rating of a tour. A user reviews a tour at most once.
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Review    string    `json:"review" gorm:"type:text;not null" validate:"required"`
	Rating    float64   `json:"rating" gorm:"not null" validate:"gte=0,lte=5"`
	TourID    uuid.UUID `json:"tour" gorm:"type:char(36);not null;uniqueIndex:idx_reviews_tour_user" validate:"required"`
	UserID    uuid.UUID `json:"user" gorm:"type:char(36);not null;uniqueIndex:idx_reviews_tour_user" validate:"required"`
	Tour      *Tour     `json:"-" gorm:"foreignKey:TourID"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	Versioned
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
