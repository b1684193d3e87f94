package models

import (
	"gorm.io/gorm"
)

// Audit action types
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionLogin   = "LOGIN"
	AuditActionLogout  = "LOGOUT"
	AuditActionApprove = "APPROVE"
	AuditActionReject  = "REJECT"
	AuditActionMap     = "MAP"
	AuditActionUnmap   = "UNMAP"
)

// Audit outcomes
const (
	AuditOutcomeSuccess = "SUCCESS"
	AuditOutcomeFailure = "FAILURE"
)

// AuditLog records who did what to which resource. Inserts are
// best-effort; a failed insert never fails the request that caused it.
type AuditLog struct {
	gorm.Model
	ActorID      uint   `json:"actorId" gorm:"column:actor_id;index"`
	RemoteAddr   string `json:"remoteAddr" gorm:"column:remote_addr"`
	UserAgent    string `json:"userAgent" gorm:"column:user_agent"`
	ActionType   string `json:"actionType" gorm:"column:action_type;index"`
	ResourceType string `json:"resourceType" gorm:"column:resource_type;index"`
	ResourceID   uint   `json:"resourceId" gorm:"column:resource_id"`
	Outcome      string `json:"outcome" gorm:"column:outcome"`
	Description  string `json:"description" gorm:"column:description"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
