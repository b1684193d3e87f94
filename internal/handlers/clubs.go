package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

type ClubInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreateClub(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ClubInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		club := models.Club{Name: input.Name, Description: input.Description}
		if err := db.Create(&club).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create club"})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionCreate, models.SubjectClub, club.ID, models.AuditOutcomeSuccess, "")
		c.JSON(201, club)
	}
}

func GetAllClubs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var clubs []models.Club
		if err := db.Find(&clubs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch clubs"})
			return
		}
		c.JSON(200, clubs)
	}
}

func GetClubByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var club models.Club
		if err := db.First(&club, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Club not found"})
			return
		}
		c.JSON(200, club)
	}
}

func UpdateClub(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var club models.Club
		if err := db.First(&club, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Club not found"})
			return
		}

		var input ClubInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		club.Name = input.Name
		club.Description = input.Description
		if err := db.Save(&club).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update club"})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectClub, club.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, club)
	}
}

func DeleteClub(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var club models.Club
		if err := db.First(&club, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Club not found"})
			return
		}
		if err := db.Delete(&club).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete club"})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionDelete, models.SubjectClub, club.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "Club deleted successfully"})
	}
}

// UploadClubImage stores a club logo in blob storage and saves its URL.
func UploadClubImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var club models.Club
		if err := db.First(&club, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Club not found"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file required"})
			return
		}

		url, err := services.UploadFile(file, "clubs")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image"})
			return
		}

		club.ImageURL = url
		if err := db.Save(&club).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update club"})
			return
		}
		c.JSON(200, gin.H{"imageUrl": url})
	}
}

type clubMemberInput struct {
	UserID uint `json:"userId" binding:"required"`
}

// AddClubMember adds a user to a club. The pair is unique; re-adding
// is a no-op.
func AddClubMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubId, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input clubMemberInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var club models.Club
		if err := db.First(&club, clubId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Club not found"})
			return
		}
		var user models.User
		if err := db.First(&user, input.UserID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		member := models.ClubMember{ClubID: clubId, UserID: input.UserID}
		if err := db.Where(models.ClubMember{ClubID: clubId, UserID: input.UserID}).FirstOrCreate(&member).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to add member"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionMap, models.SubjectClub, clubId, models.AuditOutcomeSuccess, "member added")
		c.JSON(201, member)
	}
}

// GetClubMembers lists the members of one club.
func GetClubMembers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var members []models.ClubMember
		if err := db.Where("club_id = ?", c.Param("id")).Preload("User").Find(&members).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch members"})
			return
		}

		users := make([]gin.H, 0, len(members))
		for _, member := range members {
			users = append(users, gin.H{
				"id":       member.User.ID,
				"username": member.User.Username,
				"name":     member.User.Name,
				"email":    member.User.Email,
			})
		}
		c.JSON(200, users)
	}
}

// RemoveClubMember removes a user from a club.
func RemoveClubMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubId, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input clubMemberInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var member models.ClubMember
		if err := db.Where("club_id = ? AND user_id = ?", clubId, input.UserID).First(&member).Error; err != nil {
			c.JSON(404, gin.H{"error": "Membership not found"})
			return
		}
		if err := db.Unscoped().Delete(&member).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to remove member"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUnmap, models.SubjectClub, clubId, models.AuditOutcomeSuccess, "member removed")
		c.JSON(200, gin.H{"message": "Member removed from club"})
	}
}

// GetMyClubs lists the clubs the logged-in user belongs to.
func GetMyClubs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var members []models.ClubMember
		if err := db.Where("user_id = ?", c.GetUint("userId")).Preload("Club").Find(&members).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch clubs"})
			return
		}

		clubs := make([]models.Club, 0, len(members))
		for _, member := range members {
			clubs = append(clubs, member.Club)
		}
		c.JSON(200, clubs)
	}
}
