package workflow

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// SlotInput is one requested venue/date/time reservation. VenueID may
// be zero to inherit the booking's venue.
type SlotInput struct {
	VenueID   uint   `json:"venueId"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

func (in *SlotInput) validate() error {
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	if _, err := time.Parse(timeLayout, in.StartTime); err != nil {
		return fmt.Errorf("%w: startTime must be HH:MM", ErrInvalid)
	}
	if _, err := time.Parse(timeLayout, in.EndTime); err != nil {
		return fmt.Errorf("%w: endTime must be HH:MM", ErrInvalid)
	}
	if in.StartTime >= in.EndTime {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalid)
	}
	return nil
}

// lock adds a row lock so the conflict check and the insert that
// follows it are atomic. SQLite (used in tests) has no row locks; its
// single-writer model serializes the transaction anyway.
func lock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// hasConflict reports whether [start, end) overlaps any committed slot
// for the venue on that date, ignoring slots owned by excludeBookingID.
// Two half-open intervals conflict iff s1 < e2 && e1 > s2; touching
// endpoints do not conflict. The matching rows are locked so a
// concurrent booking cannot pass the same check.
func hasConflict(tx *gorm.DB, venueID uint, date, start, end string, excludeBookingID uint) (bool, error) {
	q := lock(tx).
		Where("venue_id = ? AND date = ? AND start_time < ? AND end_time > ?", venueID, date, end, start)
	if excludeBookingID != 0 {
		q = q.Where("booking_id <> ?", excludeBookingID)
	}

	var overlapping []models.BookingSlot
	if err := q.Find(&overlapping).Error; err != nil {
		return false, err
	}
	return len(overlapping) > 0, nil
}
