package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
)

type ReportInput struct {
	ClubID           uint   `json:"clubId" binding:"required"`
	ProposalID       uint   `json:"proposalId" binding:"required"`
	Title            string `json:"title" binding:"required"`
	ParticipantCount int    `json:"participantCount"`
	Content          string `json:"content"`
	Outcomes         string `json:"outcomes"`
}

func CreateReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ReportInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var club models.Club
		if err := db.First(&club, input.ClubID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Club not found"})
			return
		}
		var proposal models.Proposal
		if err := db.First(&proposal, input.ProposalID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Proposal not found"})
			return
		}

		report := models.Report{
			ClubID:           input.ClubID,
			ProposalID:       input.ProposalID,
			Title:            input.Title,
			ParticipantCount: input.ParticipantCount,
			Content:          input.Content,
			Outcomes:         input.Outcomes,
			SubmittedByID:    c.GetUint("userId"),
		}
		if err := db.Create(&report).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create report"})
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionCreate, models.SubjectClub, report.ClubID, models.AuditOutcomeSuccess, "report submitted")
		c.JSON(201, report)
	}
}

func GetAllReports(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reports []models.Report
		if err := db.Preload("Club").Preload("Proposal").Preload("Attachments").Find(&reports).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reports"})
			return
		}
		c.JSON(200, reports)
	}
}

// UploadReportAttachment stores a report file in blob storage and
// records its URL against the report.
func UploadReportAttachment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var report models.Report
		if err := db.First(&report, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Report not found"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"error": "File required"})
			return
		}

		url, err := services.UploadFile(file, "reports")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload file"})
			return
		}

		attachment := models.ReportAttachment{ReportID: report.ID, FileURL: url}
		if err := db.Create(&attachment).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save attachment"})
			return
		}
		c.JSON(201, attachment)
	}
}
