// Package workflow owns the booking lifecycle: creation with slot
// conflict checks, the staged approve/reject state machine, and the
// pending-only update/delete rules. Every mutation runs inside a single
// transaction with a row lock on the booking so concurrent approvers
// cannot race the stage counter.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

// DefaultStages is the number of approval checkpoints a booking passes
// through before it is fully approved (stages 0..3).
const DefaultStages = 4

type Service struct {
	db        *gorm.DB
	lastStage int
}

func NewService(db *gorm.DB, stages int) *Service {
	if stages < 1 {
		stages = DefaultStages
	}
	return &Service{db: db, lastStage: stages - 1}
}

// LastStage is the final approval stage index.
func (s *Service) LastStage() int {
	return s.lastStage
}

type CreateInput struct {
	VenueID           uint             `json:"venueId" binding:"required"`
	ProposalID        *uint            `json:"proposalId"`
	EventType         models.EventType `json:"eventType"`
	BookingDate       time.Time        `json:"bookingDate" binding:"required"`
	DurationInMinutes int              `json:"durationInMinutes" binding:"required"`
	Slots             []SlotInput      `json:"slots"`
}

func validEventType(t models.EventType) bool {
	switch t {
	case models.EventTypePractice, models.EventTypeGBM, models.EventTypeEvent:
		return true
	}
	return false
}

// Create opens a new booking at stage 0. Every requested slot is
// conflict-checked inside the same transaction as the inserts, so a
// single overlap aborts the whole creation.
func (s *Service) Create(ctx context.Context, requesterID uint, in CreateInput) (*models.Booking, error) {
	if in.EventType == "" {
		in.EventType = models.EventTypePractice
	}
	if !validEventType(in.EventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalid, in.EventType)
	}
	if in.EventType == models.EventTypeEvent && in.ProposalID == nil {
		return nil, ErrMissingProposal
	}
	if in.DurationInMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalid)
	}

	booking := models.Booking{
		RequesterID:       requesterID,
		VenueID:           in.VenueID,
		ProposalID:        in.ProposalID,
		EventType:         in.EventType,
		ApprovalStage:     0,
		Status:            models.BookingStatusPending,
		BookingDate:       in.BookingDate,
		DurationInMinutes: in.DurationInMinutes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var venue models.Venue
		if err := tx.First(&venue, in.VenueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown venue %d", ErrInvalid, in.VenueID)
			}
			return err
		}
		if in.ProposalID != nil {
			var proposal models.Proposal
			if err := tx.First(&proposal, *in.ProposalID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: unknown proposal %d", ErrInvalid, *in.ProposalID)
				}
				return err
			}
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return createSlots(tx, &booking, in.Slots)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func createSlots(tx *gorm.DB, booking *models.Booking, slots []SlotInput) error {
	for _, in := range slots {
		if err := in.validate(); err != nil {
			return err
		}
		venueID := in.VenueID
		if venueID == 0 {
			venueID = booking.VenueID
		}
		conflict, err := hasConflict(tx, venueID, in.Date, in.StartTime, in.EndTime, booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: venue %d on %s %s-%s", ErrSlotConflict, venueID, in.Date, in.StartTime, in.EndTime)
		}
		slot := models.BookingSlot{
			BookingID: booking.ID,
			VenueID:   venueID,
			Date:      in.Date,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		}
		if err := tx.Create(&slot).Error; err != nil {
			return err
		}
		booking.Slots = append(booking.Slots, slot)
	}
	return nil
}

// recordDecision upserts the approval row for the booking's current
// stage. Re-deciding the same stage before the booking advances
// overwrites the row rather than duplicating it.
func recordDecision(tx *gorm.DB, booking *models.Booking, approverID uint, decision models.ApprovalDecision, comments string) error {
	approval := models.BookingApproval{
		BookingID:    booking.ID,
		Stage:        booking.ApprovalStage,
		ApproverID:   approverID,
		Decision:     decision,
		Comments:     comments,
		ApprovalDate: time.Now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}, {Name: "stage"}},
		DoUpdates: clause.AssignmentColumns([]string{"approver_id", "decision", "comments", "approval_date", "updated_at"}),
	}).Create(&approval).Error
}

func (s *Service) lockBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := lock(tx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Approve records an approval at the booking's current stage. At the
// last stage the booking becomes terminal APPROVED with its stage
// frozen; otherwise the stage advances by one and the booking stays
// pending.
func (s *Service) Approve(ctx context.Context, bookingID, approverID uint, comments string) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return fmt.Errorf("%w: booking is already %s", ErrAlreadyDecided, booking.Status)
		}
		if err := recordDecision(tx, booking, approverID, models.ApprovalDecisionApproved, comments); err != nil {
			return err
		}
		if booking.ApprovalStage == s.lastStage {
			booking.Status = models.BookingStatusApproved
		} else {
			booking.ApprovalStage++
		}
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Reject rejects the booking at its current stage. Rejection is valid
// from any stage and requires comments; the stage is frozen where the
// rejection happened.
func (s *Service) Reject(ctx context.Context, bookingID, approverID uint, comments string) (*models.Booking, error) {
	if comments == "" {
		return nil, ErrMissingComments
	}
	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return fmt.Errorf("%w: booking is already %s", ErrAlreadyDecided, booking.Status)
		}
		if err := recordDecision(tx, booking, approverID, models.ApprovalDecisionRejected, comments); err != nil {
			return err
		}
		booking.Status = models.BookingStatusRejected
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

type UpdateInput struct {
	VenueID           *uint             `json:"venueId"`
	ProposalID        *uint             `json:"proposalId"`
	EventType         *models.EventType `json:"eventType"`
	BookingDate       *time.Time        `json:"bookingDate"`
	DurationInMinutes *int              `json:"durationInMinutes"`
	Slots             *[]SlotInput      `json:"slots"`
}

// Update edits a booking that is still pending. Passing Slots replaces
// the slot set wholesale; the replacement is conflict-checked against
// every other booking inside the same transaction.
func (s *Service) Update(ctx context.Context, bookingID uint, in UpdateInput) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return fmt.Errorf("%w: booking is already %s", ErrImmutable, booking.Status)
		}

		if in.VenueID != nil {
			var venue models.Venue
			if err := tx.First(&venue, *in.VenueID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: unknown venue %d", ErrInvalid, *in.VenueID)
				}
				return err
			}
			booking.VenueID = *in.VenueID
		}
		if in.ProposalID != nil {
			var proposal models.Proposal
			if err := tx.First(&proposal, *in.ProposalID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: unknown proposal %d", ErrInvalid, *in.ProposalID)
				}
				return err
			}
			booking.ProposalID = in.ProposalID
		}
		if in.EventType != nil {
			if !validEventType(*in.EventType) {
				return fmt.Errorf("%w: unknown event type %q", ErrInvalid, *in.EventType)
			}
			booking.EventType = *in.EventType
		}
		if in.BookingDate != nil {
			booking.BookingDate = *in.BookingDate
		}
		if in.DurationInMinutes != nil {
			if *in.DurationInMinutes <= 0 {
				return fmt.Errorf("%w: duration must be positive", ErrInvalid)
			}
			booking.DurationInMinutes = *in.DurationInMinutes
		}
		if booking.EventType == models.EventTypeEvent && booking.ProposalID == nil {
			return ErrMissingProposal
		}

		if in.Slots != nil {
			if err := tx.Unscoped().Where("booking_id = ?", booking.ID).Delete(&models.BookingSlot{}).Error; err != nil {
				return err
			}
			booking.Slots = nil
			if err := createSlots(tx, booking, *in.Slots); err != nil {
				return err
			}
		}
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Delete removes a pending booking together with its slots and approval
// records. Bookings outside the pending state are never deleted.
func (s *Service) Delete(ctx context.Context, bookingID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return fmt.Errorf("%w: booking is already %s", ErrImmutable, booking.Status)
		}
		if err := tx.Unscoped().Where("booking_id = ?", booking.ID).Delete(&models.BookingSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("booking_id = ?", booking.ID).Delete(&models.BookingApproval{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(booking).Error
	})
}

// Get returns one booking with its venue, requester and slots.
func (s *Service) Get(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Venue").
		Preload("Requester").
		Preload("Proposal").
		Preload("Slots").
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// List returns all bookings.
func (s *Service) List(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Venue").
		Preload("Requester").
		Preload("Slots").
		Find(&bookings).Error
	return bookings, err
}

// Pending returns all bookings awaiting a decision.
func (s *Service) Pending(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ?", models.BookingStatusPending).
		Preload("Venue").
		Preload("Requester").
		Preload("Slots").
		Find(&bookings).Error
	return bookings, err
}

// History returns the booking's approval records ordered by stage.
func (s *Service) History(ctx context.Context, bookingID uint) ([]models.BookingApproval, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var approvals []models.BookingApproval
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("stage asc").
		Preload("Approver").
		Find(&approvals).Error
	return approvals, err
}

type RescheduleInput struct {
	VenueID   uint   `json:"venueId"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// Reschedule moves one slot to a new venue/date/time and logs where it
// came from. The target interval is conflict-checked against every
// other booking in the same transaction that moves the slot.
func (s *Service) Reschedule(ctx context.Context, slotID, actorID uint, in RescheduleInput) (*models.BookingSlot, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalid)
	}
	target := SlotInput{VenueID: in.VenueID, Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime}
	if err := target.validate(); err != nil {
		return nil, err
	}

	var slot models.BookingSlot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lock(tx).First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		booking, err := s.lockBooking(tx, slot.BookingID)
		if err != nil {
			return err
		}
		if booking.Status == models.BookingStatusRejected {
			return fmt.Errorf("%w: booking is already %s", ErrImmutable, booking.Status)
		}

		venueID := in.VenueID
		if venueID == 0 {
			venueID = slot.VenueID
		}
		conflict, err := hasConflict(tx, venueID, in.Date, in.StartTime, in.EndTime, slot.BookingID)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: venue %d on %s %s-%s", ErrSlotConflict, venueID, in.Date, in.StartTime, in.EndTime)
		}

		entry := models.RescheduleLog{
			SlotID:            slot.ID,
			PreviousVenueID:   slot.VenueID,
			NewVenueID:        venueID,
			PreviousDate:      slot.Date,
			NewDate:           in.Date,
			PreviousStartTime: slot.StartTime,
			NewStartTime:      in.StartTime,
			PreviousEndTime:   slot.EndTime,
			NewEndTime:        in.EndTime,
			Reason:            in.Reason,
			RescheduledByID:   actorID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		slot.VenueID = venueID
		slot.Date = in.Date
		slot.StartTime = in.StartTime
		slot.EndTime = in.EndTime
		return tx.Save(&slot).Error
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
