package models

import (
	"time"

	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

type Proposal struct {
	gorm.Model
	UserID            uint           `json:"userId" gorm:"column:user_id"`
	User              User           `json:"user"`
	Name              string         `json:"name" gorm:"column:name;not null"`
	Description       string         `json:"description" gorm:"column:description"`
	RequestedDate     time.Time      `json:"requestedDate" gorm:"column:requested_date;not null"`
	DurationInMinutes int            `json:"durationInMinutes" gorm:"column:duration_in_minutes;default:0"`
	Attendees         int            `json:"attendees" gorm:"column:attendees;default:0"`
	Status            ProposalStatus `json:"status" gorm:"column:status;not null;default:'pending'"`
}

func (Proposal) TableName() string {
	return "proposals"
}
