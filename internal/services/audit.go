package services

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

// RecordAudit inserts an audit log entry for a request. Best effort:
// a failed insert is logged and swallowed so it never fails the
// operation being audited.
func RecordAudit(db *gorm.DB, c *gin.Context, actorID uint, action, resourceType string, resourceID uint, outcome, description string) {
	entry := models.AuditLog{
		ActorID:      actorID,
		RemoteAddr:   c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		ActionType:   action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Outcome:      outcome,
		Description:  description,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("audit log insert failed: %v", err)
	}
}
