package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

type PermissionInput struct {
	Subject     string `json:"subject" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func validSubject(s string) bool {
	switch s {
	case models.SubjectAdmin, models.SubjectClub, models.SubjectBooking,
		models.SubjectProposal, models.SubjectVenue, models.SubjectUser,
		models.SubjectRole, models.SubjectPermission, models.SubjectAuditLog,
		models.SubjectAll:
		return true
	}
	return false
}

func validAction(a string) bool {
	switch a {
	case models.ActionRead, models.ActionWrite, models.ActionUpdate,
		models.ActionDelete, models.ActionApprove, models.ActionReject,
		models.ActionAll:
		return true
	}
	return false
}

func CreatePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PermissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !validSubject(input.Subject) || !validAction(input.Action) {
			c.JSON(400, gin.H{"error": "Unknown subject or action"})
			return
		}

		permission := models.Permission{
			Subject:     input.Subject,
			Action:      input.Action,
			Name:        input.Name,
			Description: input.Description,
		}
		if err := db.Create(&permission).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create permission"})
			return
		}
		c.JSON(201, permission)
	}
}

func GetAllPermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var permissions []models.Permission
		if err := db.Find(&permissions).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch permissions"})
			return
		}
		c.JSON(200, permissions)
	}
}

func UpdatePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var permission models.Permission
		if err := db.First(&permission, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Permission not found"})
			return
		}

		var input PermissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !validSubject(input.Subject) || !validAction(input.Action) {
			c.JSON(400, gin.H{"error": "Unknown subject or action"})
			return
		}

		permission.Subject = input.Subject
		permission.Action = input.Action
		permission.Name = input.Name
		permission.Description = input.Description
		if err := db.Save(&permission).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update permission"})
			return
		}
		c.JSON(200, permission)
	}
}

func DeletePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var permission models.Permission
		if err := db.First(&permission, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Permission not found"})
			return
		}
		if err := db.Delete(&permission).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete permission"})
			return
		}
		c.JSON(200, gin.H{"message": "Permission deleted successfully"})
	}
}
