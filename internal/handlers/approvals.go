package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
	"github.com/campusclubs/venuebook-backend/internal/workflow"
)

type decisionInput struct {
	Comments string `json:"comments"`
}

// ApproveBooking records an approval at the booking's current stage.
func ApproveBooking(db *gorm.DB, svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input decisionInput
		// An empty body is fine; comments are optional here.
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		approverId := c.GetUint("userId")
		booking, err := svc.Approve(c.Request.Context(), id, approverId, input.Comments)
		if err != nil {
			services.RecordAudit(db, c, approverId, models.AuditActionApprove, models.SubjectBooking, id, models.AuditOutcomeFailure, err.Error())
			respondWorkflowError(c, err)
			return
		}

		services.RecordAudit(db, c, approverId, models.AuditActionApprove, models.SubjectBooking, id, models.AuditOutcomeSuccess, "")

		if booking.Status == models.BookingStatusApproved {
			c.JSON(200, gin.H{
				"message":   "Booking has been fully approved",
				"bookingId": booking.ID,
				"status":    booking.Status,
			})
			return
		}
		c.JSON(200, gin.H{
			"message":      "Booking approved, moved to next stage",
			"bookingId":    booking.ID,
			"currentStage": booking.ApprovalStage,
			"status":       booking.Status,
		})
	}
}

// RejectBooking rejects the booking at its current stage. Comments are
// required.
func RejectBooking(db *gorm.DB, svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input decisionInput
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		approverId := c.GetUint("userId")
		booking, err := svc.Reject(c.Request.Context(), id, approverId, input.Comments)
		if err != nil {
			services.RecordAudit(db, c, approverId, models.AuditActionReject, models.SubjectBooking, id, models.AuditOutcomeFailure, err.Error())
			respondWorkflowError(c, err)
			return
		}

		services.RecordAudit(db, c, approverId, models.AuditActionReject, models.SubjectBooking, id, models.AuditOutcomeSuccess, input.Comments)
		c.JSON(200, gin.H{
			"message":        "Booking rejected",
			"bookingId":      booking.ID,
			"status":         booking.Status,
			"rejectionStage": booking.ApprovalStage,
		})
	}
}

// GetPendingApprovals lists all bookings awaiting a decision.
func GetPendingApprovals(svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.Pending(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch pending bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

// GetApprovalHistory returns the booking's approval records ordered by
// stage.
func GetApprovalHistory(svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		approvals, err := svc.History(c.Request.Context(), id)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		c.JSON(200, approvals)
	}
}
