package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

type VenueInput struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func CreateVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VenueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		venue := models.Venue{
			Name:        input.Name,
			Address:     input.Address,
			Description: input.Description,
			Latitude:    input.Latitude,
			Longitude:   input.Longitude,
		}
		if err := db.Create(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create venue"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionCreate, models.SubjectVenue, venue.ID, models.AuditOutcomeSuccess, "")
		c.JSON(201, venue)
	}
}

func GetAllVenues(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var venues []models.Venue
		if err := db.Find(&venues).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch venues"})
			return
		}
		c.JSON(200, venues)
	}
}

func GetVenueByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var venue models.Venue
		if err := db.First(&venue, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}
		c.JSON(200, venue)
	}
}

func UpdateVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var venue models.Venue
		if err := db.First(&venue, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		var input VenueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		venue.Name = input.Name
		venue.Address = input.Address
		venue.Description = input.Description
		venue.Latitude = input.Latitude
		venue.Longitude = input.Longitude
		if err := db.Save(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update venue"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectVenue, venue.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, venue)
	}
}

func DeleteVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var venue models.Venue
		if err := db.First(&venue, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}
		if err := db.Delete(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete venue"})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionDelete, models.SubjectVenue, venue.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "Venue deleted successfully"})
	}
}

// UploadVenueImage stores a venue photo in blob storage and saves its
// URL on the venue.
func UploadVenueImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var venue models.Venue
		if err := db.First(&venue, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file required"})
			return
		}

		url, err := services.UploadFile(file, "venues")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image"})
			return
		}

		venue.ImageURL = url
		if err := db.Save(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update venue"})
			return
		}
		c.JSON(200, gin.H{"imageUrl": url})
	}
}
