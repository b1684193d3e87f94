package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

type ProposalInput struct {
	Name              string    `json:"name" binding:"required"`
	Description       string    `json:"description"`
	RequestedDate     time.Time `json:"requestedDate" binding:"required"`
	DurationInMinutes int       `json:"durationInMinutes"`
	Attendees         int       `json:"attendees"`
}

func CreateProposal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProposalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		proposal := models.Proposal{
			UserID:            c.GetUint("userId"),
			Name:              input.Name,
			Description:       input.Description,
			RequestedDate:     input.RequestedDate,
			DurationInMinutes: input.DurationInMinutes,
			Attendees:         input.Attendees,
			Status:            models.ProposalStatusPending,
		}
		if err := db.Create(&proposal).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create proposal"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionCreate, models.SubjectProposal, proposal.ID, models.AuditOutcomeSuccess, "")
		c.JSON(201, proposal)
	}
}

func GetAllProposals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var proposals []models.Proposal
		if err := db.Find(&proposals).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch proposals"})
			return
		}
		c.JSON(200, proposals)
	}
}

// GetMyProposals lists the logged-in user's proposals.
func GetMyProposals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var proposals []models.Proposal
		if err := db.Where("user_id = ?", c.GetUint("userId")).Find(&proposals).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch proposals"})
			return
		}
		c.JSON(200, proposals)
	}
}

func GetProposalByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var proposal models.Proposal
		if err := db.First(&proposal, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Proposal not found"})
			return
		}
		c.JSON(200, proposal)
	}
}

func UpdateProposal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var proposal models.Proposal
		if err := db.First(&proposal, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Proposal not found"})
			return
		}

		var input ProposalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		proposal.Name = input.Name
		proposal.Description = input.Description
		proposal.RequestedDate = input.RequestedDate
		proposal.DurationInMinutes = input.DurationInMinutes
		proposal.Attendees = input.Attendees
		if err := db.Save(&proposal).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update proposal"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectProposal, proposal.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, proposal)
	}
}

func DeleteProposal(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var proposal models.Proposal
		if err := db.First(&proposal, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Proposal not found"})
			return
		}
		if err := db.Delete(&proposal).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete proposal"})
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionDelete, models.SubjectProposal, proposal.ID, models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "Proposal deleted successfully"})
	}
}
