package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
	"github.com/campusclubs/venuebook-backend/internal/workflow"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// CreateBooking opens a new booking for the logged-in requester.
func CreateBooking(db *gorm.DB, svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		var input workflow.CreateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := svc.Create(c.Request.Context(), userId, input)
		if err != nil {
			services.RecordAudit(db, c, userId, models.AuditActionCreate, models.SubjectBooking, 0, models.AuditOutcomeFailure, err.Error())
			respondWorkflowError(c, err)
			return
		}

		services.RecordAudit(db, c, userId, models.AuditActionCreate, models.SubjectBooking, booking.ID, models.AuditOutcomeSuccess, "")
		c.JSON(201, booking)
	}
}

// GetAllBookings retrieves all venue bookings
func GetAllBookings(svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}
		c.JSON(200, bookings)
	}
}

// GetBookingByID retrieves a specific booking by ID
func GetBookingByID(svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		booking, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		c.JSON(200, booking)
	}
}

// UpdateBooking edits a booking that is still pending.
func UpdateBooking(db *gorm.DB, svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input workflow.UpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := svc.Update(c.Request.Context(), id, input)
		if err != nil {
			services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectBooking, id, models.AuditOutcomeFailure, err.Error())
			respondWorkflowError(c, err)
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectBooking, id, models.AuditOutcomeSuccess, "")
		c.JSON(200, booking)
	}
}

// DeleteBooking removes a booking that is still pending.
func DeleteBooking(db *gorm.DB, svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionDelete, models.SubjectBooking, id, models.AuditOutcomeFailure, err.Error())
			respondWorkflowError(c, err)
			return
		}
		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionDelete, models.SubjectBooking, id, models.AuditOutcomeSuccess, "")
		c.JSON(200, gin.H{"message": "Booking deleted successfully"})
	}
}

// RescheduleSlot moves a single slot to a new venue/date/time.
func RescheduleSlot(db *gorm.DB, svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		slotId, ok := parseID(c, "slotId")
		if !ok {
			return
		}
		var input workflow.RescheduleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		slot, err := svc.Reschedule(c.Request.Context(), slotId, c.GetUint("userId"), input)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		services.RecordAudit(db, c, c.GetUint("userId"), models.AuditActionUpdate, models.SubjectBooking, slot.BookingID, models.AuditOutcomeSuccess, "slot rescheduled")
		c.JSON(200, slot)
	}
}
