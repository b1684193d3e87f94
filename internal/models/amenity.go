package models

import (
	"gorm.io/gorm"
)

type Amenity struct {
	gorm.Model
	Name        string `json:"name" gorm:"column:name;unique;not null"`
	Description string `json:"description" gorm:"column:description"`
}

func (Amenity) TableName() string {
	return "amenities"
}

// VenueAmenity associates an amenity with a venue. The pair is unique.
type VenueAmenity struct {
	gorm.Model
	VenueID   uint    `json:"venueId" gorm:"column:venue_id;not null;uniqueIndex:idx_venue_amenity"`
	Venue     Venue   `json:"venue"`
	AmenityID uint    `json:"amenityId" gorm:"column:amenity_id;not null;uniqueIndex:idx_venue_amenity"`
	Amenity   Amenity `json:"amenity"`
}

func (VenueAmenity) TableName() string {
	return "venue_amenities"
}
