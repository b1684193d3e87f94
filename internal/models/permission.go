package models

import (
	"gorm.io/gorm"
)

// Permission subjects (resource categories)
const (
	SubjectAdmin      = "admin"
	SubjectClub       = "club"
	SubjectBooking    = "booking"
	SubjectProposal   = "proposal"
	SubjectVenue      = "venue"
	SubjectUser       = "user"
	SubjectRole       = "role"
	SubjectPermission = "permission"
	SubjectAuditLog   = "audit_log"
	SubjectAll        = "all"
)

// Permission actions
const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionAll     = "all"
)

type Permission struct {
	gorm.Model
	Subject     string `json:"subject" gorm:"column:subject;not null;index:idx_subject_action"`
	Action      string `json:"action" gorm:"column:action;not null;index:idx_subject_action"`
	Name        string `json:"name" gorm:"column:name;not null"`
	Description string `json:"description" gorm:"column:description"`
}

func (Permission) TableName() string {
	return "permissions"
}
