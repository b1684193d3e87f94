package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusclubs/venuebook-backend/internal/workflow"
)

// respondWorkflowError translates the workflow error taxonomy into
// status codes. Anything outside the taxonomy is a storage fault.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrSlotConflict):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrAlreadyDecided),
		errors.Is(err, workflow.ErrImmutable),
		errors.Is(err, workflow.ErrMissingComments),
		errors.Is(err, workflow.ErrMissingProposal),
		errors.Is(err, workflow.ErrInvalid):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
