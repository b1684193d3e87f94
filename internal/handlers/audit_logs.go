package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

// GetAuditLogs lists audit entries newest-first, optionally filtered by
// actor or action type.
func GetAuditLogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.AuditLog{}).Order("created_at desc")

		if actor := c.Query("actorId"); actor != "" {
			actorId, err := strconv.ParseUint(actor, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid actorId"})
				return
			}
			query = query.Where("actor_id = ?", uint(actorId))
		}
		if action := c.Query("action"); action != "" {
			query = query.Where("action_type = ?", action)
		}

		limit := 100
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 1000 {
				c.JSON(400, gin.H{"error": "Invalid limit"})
				return
			}
			limit = parsed
		}

		var logs []models.AuditLog
		if err := query.Limit(limit).Find(&logs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch audit logs"})
			return
		}
		c.JSON(200, logs)
	}
}
