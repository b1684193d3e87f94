package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

// userResponse is the flat read model for a user: identity plus role
// and the role's permission bundle, assembled from preloaded
// aggregates.
type userResponse struct {
	ID             uint            `json:"id"`
	Username       string          `json:"username"`
	Name           string          `json:"name"`
	RegistrationID string          `json:"registrationId"`
	Email          string          `json:"email"`
	IsActive       bool            `json:"isActive"`
	Role           gin.H           `json:"role"`
	Permissions    []permissionRef `json:"permissions"`
}

type permissionRef struct {
	Subject string `json:"subject"`
	Action  string `json:"action"`
}

func buildUserResponse(user *models.User) userResponse {
	permissions := make([]permissionRef, 0, len(user.Role.Permissions))
	for _, perm := range user.Role.Permissions {
		permissions = append(permissions, permissionRef{Subject: perm.Subject, Action: perm.Action})
	}
	registrationID := ""
	if user.RegistrationID != nil {
		registrationID = *user.RegistrationID
	}
	return userResponse{
		ID:             user.ID,
		Username:       user.Username,
		Name:           user.Name,
		RegistrationID: registrationID,
		Email:          user.Email,
		IsActive:       user.IsActive,
		Role: gin.H{
			"id":          user.Role.ID,
			"name":        user.Role.Name,
			"description": user.Role.Description,
		},
		Permissions: permissions,
	}
}

func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Preload("Role.Permissions").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}

		responses := make([]userResponse, 0, len(users))
		for i := range users {
			responses = append(responses, buildUserResponse(&users[i]))
		}
		c.JSON(200, responses)
	}
}

func GetUserByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.Preload("Role.Permissions").First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		c.JSON(200, buildUserResponse(&user))
	}
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	RoleID   *uint   `json:"roleId"`
	IsActive *bool   `json:"isActive"`
}

// UpdateUser edits user profile fields and role assignment. Passwords
// are not updatable from this endpoint.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.RoleID != nil {
			var role models.Role
			if err := db.First(&role, *input.RoleID).Error; err != nil {
				c.JSON(400, gin.H{"error": "Unknown role"})
				return
			}
			user.RoleID = *input.RoleID
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update user"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectUser, user.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "User updated successfully"})
	}
}

func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		if err := db.Delete(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete user"})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionDelete, models.SubjectUser, user.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "User deleted successfully"})
	}
}
