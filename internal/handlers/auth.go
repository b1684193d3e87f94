package handlers

import (
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/authz"
	"github.com/campusclubs/venuebook-backend/internal/middleware"
	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
	"github.com/campusclubs/venuebook-backend/pkg/utils"
)

type RegisterInput struct {
	Username       string `json:"username" binding:"required"`
	Name           string `json:"name" binding:"required"`
	RegistrationID string `json:"registrationId"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
}

// defaultRoleName is the role assigned to every public registration.
// Overridable via DEFAULT_ROLE.
const defaultRoleName = "member"

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account with the default role. Role assignment
// is reserved for the permission-gated user update endpoint, so a
// caller can never self-assign a privileged role here.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		roleName := os.Getenv("DEFAULT_ROLE")
		if roleName == "" {
			roleName = defaultRoleName
		}
		var role models.Role
		if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
			c.JSON(500, gin.H{"error": "Default role is not configured"})
			return
		}

		// An omitted registration id stays NULL; the column is unique
		// only across present values.
		var registrationID *string
		if input.RegistrationID != "" {
			registrationID = &input.RegistrationID
		}

		user := models.User{
			Username:       input.Username,
			Name:           input.Name,
			RegistrationID: registrationID,
			Email:          input.Email,
			Password:       input.Password,
			RoleID:         role.ID,
			IsActive:       true,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if result := db.Create(&user); result.Error != nil {
			c.JSON(400, gin.H{"error": "Failed to create user: " + result.Error.Error()})
			return
		}

		c.JSON(201, gin.H{
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"name":     user.Name,
				"email":    user.Email,
				"roleId":   user.RoleID,
			},
		})
	}
}

// Login checks the credentials, materializes the role's permission set
// into a server-side session and issues a token bound to that session.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Preload("Role.Permissions").Where("username = ?", input.Username).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			services.RecordAudit(db, c, user.ID, models.AuditActionLogin, models.SubjectUser, user.ID, models.AuditOutcomeFailure, "invalid password")
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		permissions := make([]authz.Ref, 0, len(user.Role.Permissions))
		for _, perm := range user.Role.Permissions {
			permissions = append(permissions, authz.Ref{Subject: perm.Subject, Action: perm.Action})
		}
		principal := authz.Principal{
			UserID:      user.ID,
			Username:    user.Username,
			RoleName:    user.Role.Name,
			Permissions: permissions,
		}

		sid, err := services.NewSessionID()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to create session"})
			return
		}
		if err := services.SaveSession(c.Request.Context(), sid, &principal); err != nil {
			c.JSON(500, gin.H{"error": "Failed to create session"})
			return
		}

		token, err := utils.GenerateToken(&user, sid)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		services.RecordAudit(db, c, user.ID, models.AuditActionLogin, models.SubjectUser, user.ID, models.AuditOutcomeSuccess, "")

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"name":     user.Name,
				"email":    user.Email,
				"role":     user.Role.Name,
			},
		})
	}
}

// Logout revokes the server-side session, invalidating the token ahead
// of its expiry.
func Logout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetString("sessionId")
		if sid != "" {
			if err := services.DeleteSession(c.Request.Context(), sid); err != nil {
				c.JSON(500, gin.H{"error": "Failed to revoke session"})
				return
			}
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionLogout, models.SubjectUser, c.GetUint("userId"), models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "Logged out"})
	}
}

// Me returns the request's resolved principal.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.GetPrincipal(c)
		if principal == nil {
			c.JSON(401, gin.H{"error": "Authentication required"})
			return
		}
		c.JSON(200, principal)
	}
}
