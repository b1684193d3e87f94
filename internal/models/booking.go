package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

type EventType string

const (
	EventTypePractice EventType = "practice"
	EventTypeGBM      EventType = "general-body-meeting"
	EventTypeEvent    EventType = "event"
)

// Booking is a request to use a venue, advanced through the approval
// stages by the workflow service. ApprovalStage only moves forward and
// only while the booking is still pending.
type Booking struct {
	gorm.Model
	RequesterID       uint          `json:"requesterId" gorm:"column:requester_id;not null"`
	Requester         User          `json:"requester"`
	VenueID           uint          `json:"venueId" gorm:"column:venue_id;not null"`
	Venue             Venue         `json:"venue"`
	ProposalID        *uint         `json:"proposalId" gorm:"column:proposal_id"`
	Proposal          *Proposal     `json:"proposal,omitempty"`
	EventType         EventType     `json:"eventType" gorm:"column:event_type;not null;default:'practice'"`
	ApprovalStage     int           `json:"approvalStage" gorm:"column:approval_stage;not null;default:0"`
	Status            BookingStatus `json:"status" gorm:"column:status;not null;default:'pending'"`
	BookingDate       time.Time     `json:"bookingDate" gorm:"column:booking_date;not null"`
	DurationInMinutes int           `json:"durationInMinutes" gorm:"column:duration_in_minutes;not null"`

	Slots     []BookingSlot     `json:"slots" gorm:"foreignKey:BookingID"`
	Approvals []BookingApproval `json:"approvals,omitempty" gorm:"foreignKey:BookingID"`
}

func (Booking) TableName() string {
	return "venue_bookings"
}
