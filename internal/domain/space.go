package domain

import (
	"errors"
	"time"
)

type SpaceType string

const (
	SpaceOffice         SpaceType = "OFFICE"
	SpaceMeetingRoom    SpaceType = "MEETING_ROOM"
	SpaceConferenceRoom SpaceType = "CONFERENCE_ROOM"
	SpaceCoworking      SpaceType = "COWORKING"
	SpaceTrainingRoom   SpaceType = "TRAINING_ROOM"
)

func ParseSpaceType(s string) (SpaceType, error) {
	switch SpaceType(s) {
	case SpaceOffice, SpaceMeetingRoom, SpaceConferenceRoom, SpaceCoworking, SpaceTrainingRoom:
		return SpaceType(s), nil
	}
	return "", errors.New("unknown space type")
}

// PriceUnit is the billing unit a space's price applies to.
type PriceUnit string

const (
	PricePerHour  PriceUnit = "HOUR"
	PricePerDay   PriceUnit = "DAY"
	PricePerWeek  PriceUnit = "WEEK"
	PricePerMonth PriceUnit = "MONTH"
)

func ParsePriceUnit(s string) (PriceUnit, error) {
	switch PriceUnit(s) {
	case PricePerHour, PricePerDay, PricePerWeek, PricePerMonth:
		return PriceUnit(s), nil
	}
	return "", errors.New("unknown price unit")
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

type Space struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	OwnerID     int64     `json:"owner_id" gorm:"index"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"required,max=1000" gorm:"type:text"`
	Type        SpaceType `json:"type" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,gte=1,lte=100"`
	Price       float64   `json:"price" validate:"gte=0"`
	PriceUnit   PriceUnit `json:"price_unit" validate:"required"`
	Amenities   []string  `json:"amenities,omitempty" gorm:"serializer:json"`
	Images      []string  `json:"images,omitempty" gorm:"serializer:json"`
	Address     Address   `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	IsAvailable bool      `json:"is_available"`
	IsActive    bool      `json:"is_active"`

	// Running review aggregate, updated incrementally on each new rating.
	RatingAverage float64 `json:"rating_average"`
	RatingCount   int64   `json:"rating_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bookable reports whether new bookings may target this space.
func (s *Space) Bookable() bool {
	return s.IsActive && s.IsAvailable
}

// ApplyRating folds one new rating into the running average.
func (s *Space) ApplyRating(rating int) {
	total := s.RatingAverage*float64(s.RatingCount) + float64(rating)
	s.RatingCount++
	s.RatingAverage = total / float64(s.RatingCount)
}
