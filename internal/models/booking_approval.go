package models

import (
	"time"

	"gorm.io/gorm"
)

type ApprovalDecision string

const (
	ApprovalDecisionPending  ApprovalDecision = "pending"
	ApprovalDecisionApproved ApprovalDecision = "approved"
	ApprovalDecisionRejected ApprovalDecision = "rejected"
)

// BookingApproval records the decision made at one approval stage.
// One row per (booking, stage); re-deciding a stage before the booking
// advances overwrites the row rather than duplicating it.
type BookingApproval struct {
	gorm.Model
	BookingID    uint             `json:"bookingId" gorm:"column:booking_id;not null;uniqueIndex:idx_booking_stage"`
	Stage        int              `json:"stage" gorm:"column:stage;not null;uniqueIndex:idx_booking_stage"`
	ApproverID   uint             `json:"approverId" gorm:"column:approver_id;not null"`
	Approver     User             `json:"approver"`
	Decision     ApprovalDecision `json:"decision" gorm:"column:decision;not null;default:'pending'"`
	Comments     string           `json:"comments" gorm:"column:comments"`
	ApprovalDate time.Time        `json:"approvalDate" gorm:"column:approval_date"`
}

func (BookingApproval) TableName() string {
	return "booking_approvals"
}
