package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Difficulty grades a tour.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// Location is a GeoJSON point with a description.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Day         int       `json:"day,omitempty"`
}

// Tour is a bookable trip.
type Tour struct {
	ID              uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Name            string           `json:"name" gorm:"size:40;uniqueIndex;not null" validate:"required,min=10,max=40"`
	Slug            string           `json:"slug" gorm:"size:64;index"`
	Duration        int              `json:"duration" gorm:"not null" validate:"required,gt=0"`
	MaxGroupSize    int              `json:"maxGroupSize" gorm:"not null" validate:"required,gt=0"`
	Difficulty      Difficulty       `json:"difficulty" gorm:"size:16;not null" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64          `json:"ratingsAverage" gorm:"not null;default:0;index:idx_tours_price_rating,priority:2" validate:"gte=0,lte=5"`
	RatingsQuantity int              `json:"ratingsQuantity" gorm:"not null;default:0"`
	Price           decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null;index:idx_tours_price_rating,priority:1"`
	PriceDiscount   *decimal.Decimal `json:"priceDiscount,omitempty" gorm:"type:decimal(10,2)"`
	Summary         string           `json:"summary" gorm:"size:255;not null" validate:"required"`
	Description     string           `json:"description" gorm:"type:text"`
	ImageCover      string           `json:"imageCover" gorm:"size:255;not null" validate:"required"`
	Images          []string         `json:"images" gorm:"type:text;serializer:json"`
	StartDates      []time.Time      `json:"startDates" gorm:"type:text;serializer:json"`
	SecretTour      bool             `json:"secretTour" gorm:"not null;default:false"`
	StartLocation   *Location        `json:"startLocation,omitempty" gorm:"type:text;serializer:json"`
	Locations       []Location       `json:"locations" gorm:"type:text;serializer:json"`
	Guides          []User           `json:"guides,omitempty" gorm:"many2many:tour_guides;constraint:OnDelete:CASCADE"`
	Reviews         []Review         `json:"reviews,omitempty" gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"-"`
	Versioned
}

// BeforeCreate sets UUID before creating the record.
func (t *Tour) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Validate checks the rules the struct tags cannot express.
func (t *Tour) Validate() error {
	if !t.Price.IsPositive() {
		return errors.New("A tour must have a price")
	}
	if t.PriceDiscount != nil && !t.PriceDiscount.LessThan(t.Price) {
		return errors.New("Discount price should be below regular price")
	}
	return nil
}
