package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

type RoleInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreateRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RoleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		role := models.Role{Name: input.Name, Description: input.Description}
		if err := db.Create(&role).Error; err != nil {
			c.JSON(400, gin.H{"error": "Failed to create role: " + err.Error()})
			return
		}
		c.JSON(201, role)
	}
}

func GetAllRoles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var roles []models.Role
		if err := db.Preload("Permissions").Find(&roles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch roles"})
			return
		}
		c.JSON(200, roles)
	}
}

func UpdateRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var role models.Role
		if err := db.First(&role, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}

		var input RoleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		role.Name = input.Name
		role.Description = input.Description
		if err := db.Save(&role).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update role"})
			return
		}
		c.JSON(200, role)
	}
}

func DeleteRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var role models.Role
		if err := db.First(&role, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		if err := db.Delete(&role).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete role"})
			return
		}
		c.JSON(200, gin.H{"message": "Role deleted successfully"})
	}
}

type rolePermissionInput struct {
	RoleID       uint `json:"roleId" binding:"required"`
	PermissionID uint `json:"permissionId" binding:"required"`
}

// MapRolePermission adds a permission to a role's bundle. Sessions
// created before the change keep their materialized set until the next
// login.
func MapRolePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input rolePermissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var role models.Role
		if err := db.First(&role, input.RoleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		var permission models.Permission
		if err := db.First(&permission, input.PermissionID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Permission not found"})
			return
		}

		if err := db.Model(&role).Association("Permissions").Append(&permission); err != nil {
			c.JSON(500, gin.H{"error": "Failed to map permission to role"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionMap, models.SubjectRole, role.ID, models.AuditOutcomeSuccess, "permission mapped")
		c.JSON(200, gin.H{"message": "Permission mapped to role"})
	}
}

// UnmapRolePermission removes a permission from a role's bundle.
func UnmapRolePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input rolePermissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var role models.Role
		if err := db.First(&role, input.RoleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		var permission models.Permission
		if err := db.First(&permission, input.PermissionID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Permission not found"})
			return
		}

		if err := db.Model(&role).Association("Permissions").Delete(&permission); err != nil {
			c.JSON(500, gin.H{"error": "Failed to unmap permission from role"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUnmap, models.SubjectRole, role.ID, models.AuditOutcomeSuccess, "permission unmapped")
		c.JSON(200, gin.H{"message": "Permission unmapped from role"})
	}
}

// GetRolePermissions lists the permissions bundled into one role.
func GetRolePermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var role models.Role
		if err := db.Preload("Permissions").First(&role, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		c.JSON(200, role.Permissions)
	}
}
