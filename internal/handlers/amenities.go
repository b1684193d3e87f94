package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

type AmenityInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreateAmenity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AmenityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		amenity := models.Amenity{Name: input.Name, Description: input.Description}
		if err := db.Create(&amenity).Error; err != nil {
			c.JSON(400, gin.H{"error": "Failed to create amenity: " + err.Error()})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionCreate, models.SubjectVenue, amenity.ID, models.AuditOutcomeSuccess, "amenity created")
		c.JSON(201, amenity)
	}
}

func GetAllAmenities(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var amenities []models.Amenity
		if err := db.Find(&amenities).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch amenities"})
			return
		}
		c.JSON(200, amenities)
	}
}

func UpdateAmenity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var amenity models.Amenity
		if err := db.First(&amenity, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Amenity not found"})
			return
		}

		var input AmenityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		amenity.Name = input.Name
		amenity.Description = input.Description
		if err := db.Save(&amenity).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update amenity"})
			return
		}
		c.JSON(200, amenity)
	}
}

func DeleteAmenity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var amenity models.Amenity
		if err := db.First(&amenity, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Amenity not found"})
			return
		}
		if err := db.Delete(&amenity).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete amenity"})
			return
		}
		c.JSON(200, gin.H{"message": "Amenity deleted successfully"})
	}
}

type venueAmenityInput struct {
	VenueID   uint `json:"venueId" binding:"required"`
	AmenityID uint `json:"amenityId" binding:"required"`
}

// AddVenueAmenity associates an amenity with a venue. The pair is
// unique; re-adding an existing association is a no-op.
func AddVenueAmenity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input venueAmenityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var venue models.Venue
		if err := db.First(&venue, input.VenueID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}
		var amenity models.Amenity
		if err := db.First(&amenity, input.AmenityID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Amenity not found"})
			return
		}

		link := models.VenueAmenity{VenueID: input.VenueID, AmenityID: input.AmenityID}
		if err := db.Where(models.VenueAmenity{VenueID: input.VenueID, AmenityID: input.AmenityID}).FirstOrCreate(&link).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to add amenity to venue"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionMap, models.SubjectVenue, input.VenueID, models.AuditOutcomeSuccess, "amenity mapped")
		c.JSON(201, link)
	}
}

// GetVenueAmenities lists the amenities of one venue.
func GetVenueAmenities(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var links []models.VenueAmenity
		if err := db.Where("venue_id = ?", c.Param("id")).Preload("Amenity").Find(&links).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch venue amenities"})
			return
		}

		amenities := make([]models.Amenity, 0, len(links))
		for _, link := range links {
			amenities = append(amenities, link.Amenity)
		}
		c.JSON(200, amenities)
	}
}

// RemoveVenueAmenity removes one amenity association from a venue.
func RemoveVenueAmenity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input venueAmenityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var link models.VenueAmenity
		if err := db.Where("venue_id = ? AND amenity_id = ?", input.VenueID, input.AmenityID).First(&link).Error; err != nil {
			c.JSON(404, gin.H{"error": "Association not found"})
			return
		}
		if err := db.Unscoped().Delete(&link).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to remove amenity from venue"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUnmap, models.SubjectVenue, input.VenueID, models.AuditOutcomeSuccess, "amenity unmapped")
		c.JSON(200, gin.H{"message": "Amenity removed from venue"})
	}
}
