package models

import (
	"gorm.io/gorm"
)

// BookingSlot is a concrete date + time-interval reservation of a venue
// tied to one booking. Date is "2006-01-02", times are "15:04" so that
// interval comparisons work the same in SQL and in Go.
//
// The unique index is a backstop for exact duplicates; range overlaps
// are rejected by the workflow service inside the booking transaction.
type BookingSlot struct {
	gorm.Model
	BookingID uint   `json:"bookingId" gorm:"column:booking_id;not null"`
	VenueID   uint   `json:"venueId" gorm:"column:venue_id;not null;uniqueIndex:idx_slot_exact"`
	Venue     Venue  `json:"venue"`
	Date      string `json:"date" gorm:"column:date;not null;uniqueIndex:idx_slot_exact"`
	StartTime string `json:"startTime" gorm:"column:start_time;not null;uniqueIndex:idx_slot_exact"`
	EndTime   string `json:"endTime" gorm:"column:end_time;not null;uniqueIndex:idx_slot_exact"`
}

func (BookingSlot) TableName() string {
	return "booking_slots"
}

// Overlaps reports whether the half-open interval [StartTime, EndTime)
// overlaps [start, end). Touching endpoints do not overlap.
func (s *BookingSlot) Overlaps(start, end string) bool {
	return s.StartTime < end && s.EndTime > start
}
