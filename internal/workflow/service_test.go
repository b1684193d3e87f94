package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusclubs/venuebook-backend/internal/database"
	"github.com/campusclubs/venuebook-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestVenue(t *testing.T, db *gorm.DB, name string) *models.Venue {
	t.Helper()
	venue := models.Venue{Name: name, Address: "1 Campus Way"}
	if err := db.Create(&venue).Error; err != nil {
		t.Fatalf("failed to create venue: %v", err)
	}
	return &venue
}

var testDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func mustCreate(t *testing.T, svc *Service, venueID uint, slots ...SlotInput) *models.Booking {
	t.Helper()
	booking, err := svc.Create(context.Background(), 1, CreateInput{
		VenueID:           venueID,
		EventType:         models.EventTypePractice,
		BookingDate:       testDate,
		DurationInMinutes: 60,
		Slots:             slots,
	})
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")

	booking := mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})

	if booking.Status != models.BookingStatusPending {
		t.Fatalf("expected status pending, got %s", booking.Status)
	}
	if booking.ApprovalStage != 0 {
		t.Fatalf("expected stage 0, got %d", booking.ApprovalStage)
	}
	if len(booking.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(booking.Slots))
	}
	if booking.Slots[0].VenueID != venue.ID {
		t.Fatalf("slot did not inherit the booking venue")
	}
}

func TestCreateBookingUnknownVenue(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)

	_, err := svc.Create(context.Background(), 1, CreateInput{
		VenueID:           999,
		BookingDate:       testDate,
		DurationInMinutes: 60,
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown venue, got %v", err)
	}
}

func TestCreateEventRequiresProposal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")

	_, err := svc.Create(context.Background(), 1, CreateInput{
		VenueID:           venue.ID,
		EventType:         models.EventTypeEvent,
		BookingDate:       testDate,
		DurationInMinutes: 60,
	})
	if !errors.Is(err, ErrMissingProposal) {
		t.Fatalf("expected ErrMissingProposal, got %v", err)
	}

	proposal := models.Proposal{UserID: 1, Name: "Annual Showcase", RequestedDate: testDate}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	booking, err := svc.Create(context.Background(), 1, CreateInput{
		VenueID:           venue.ID,
		ProposalID:        &proposal.ID,
		EventType:         models.EventTypeEvent,
		BookingDate:       testDate,
		DurationInMinutes: 60,
	})
	if err != nil {
		t.Fatalf("expected event booking with proposal to succeed, got %v", err)
	}
	if booking.ProposalID == nil || *booking.ProposalID != proposal.ID {
		t.Fatalf("proposal was not attached to the booking")
	}
}

func TestSlotConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")

	mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})

	// Overlapping interval on the same venue and date is rejected.
	_, err := svc.Create(context.Background(), 2, CreateInput{
		VenueID:           venue.ID,
		BookingDate:       testDate,
		DurationInMinutes: 60,
		Slots:             []SlotInput{{Date: "2025-06-01", StartTime: "10:30", EndTime: "11:30"}},
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict for 10:30-11:30, got %v", err)
	}

	// A conflicting slot aborts the whole creation, partial slots included.
	var count int64
	if err := db.Model(&models.BookingSlot{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count slots: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 slot after aborted creation, got %d", count)
	}

	// Touching endpoints do not conflict: [10:00,11:00) then [11:00,12:00).
	mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "11:00", EndTime: "12:00"})

	// Same interval on another date is fine.
	mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-02", StartTime: "10:00", EndTime: "11:00"})

	// Same interval on another venue is fine.
	other := newTestVenue(t, db, "Annex")
	mustCreate(t, svc, other.ID,
		SlotInput{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})
}

func TestSlotValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")

	cases := []SlotInput{
		{Date: "06/01/2025", StartTime: "10:00", EndTime: "11:00"},
		{Date: "2025-06-01", StartTime: "10am", EndTime: "11:00"},
		{Date: "2025-06-01", StartTime: "11:00", EndTime: "10:00"},
		{Date: "2025-06-01", StartTime: "10:00", EndTime: "10:00"},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), 1, CreateInput{
			VenueID:           venue.ID,
			BookingDate:       testDate,
			DurationInMinutes: 60,
			Slots:             []SlotInput{in},
		})
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for slot %+v, got %v", in, err)
		}
	}
}

func TestApprovalAdvancesStages(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	for stage := 0; stage < svc.LastStage(); stage++ {
		updated, err := svc.Approve(context.Background(), booking.ID, 10, "")
		if err != nil {
			t.Fatalf("approve at stage %d: %v", stage, err)
		}
		if updated.Status != models.BookingStatusPending {
			t.Fatalf("expected pending after stage %d, got %s", stage, updated.Status)
		}
		if updated.ApprovalStage != stage+1 {
			t.Fatalf("expected stage %d, got %d", stage+1, updated.ApprovalStage)
		}
	}

	updated, err := svc.Approve(context.Background(), booking.ID, 10, "all clear")
	if err != nil {
		t.Fatalf("final approve: %v", err)
	}
	if updated.Status != models.BookingStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.ApprovalStage != svc.LastStage() {
		t.Fatalf("expected stage frozen at %d, got %d", svc.LastStage(), updated.ApprovalStage)
	}
}

func TestApproveDecidedBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 1)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	if _, err := svc.Approve(context.Background(), booking.ID, 10, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Approve(context.Background(), booking.ID, 10, ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), booking.ID, 10, "changed my mind"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided on reject, got %v", err)
	}
}

func TestRejectRequiresComments(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	if _, err := svc.Reject(context.Background(), booking.ID, 10, ""); !errors.Is(err, ErrMissingComments) {
		t.Fatalf("expected ErrMissingComments, got %v", err)
	}

	var check models.Booking
	if err := db.First(&check, booking.ID).Error; err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if check.Status != models.BookingStatusPending {
		t.Fatalf("rejection without comments must not change status, got %s", check.Status)
	}
}

func TestRejectFreezesStage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	// Advance to stage 2, then reject there.
	for i := 0; i < 2; i++ {
		if _, err := svc.Approve(context.Background(), booking.ID, 10, ""); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
	}
	updated, err := svc.Reject(context.Background(), booking.ID, 11, "venue double-booked for maintenance")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.Status != models.BookingStatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
	if updated.ApprovalStage != 2 {
		t.Fatalf("expected stage frozen at 2, got %d", updated.ApprovalStage)
	}
}

func TestRejectAtFirstStage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	updated, err := svc.Reject(context.Background(), booking.ID, 10, "incomplete request")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.Status != models.BookingStatusRejected || updated.ApprovalStage != 0 {
		t.Fatalf("expected rejected at stage 0, got %s at %d", updated.Status, updated.ApprovalStage)
	}
}

func TestDecisionUpsertKeepsOneRowPerStage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	// A pre-existing row for (booking, stage 0) is overwritten, not duplicated.
	seed := models.BookingApproval{
		BookingID:    booking.ID,
		Stage:        0,
		ApproverID:   9,
		Decision:     models.ApprovalDecisionPending,
		ApprovalDate: time.Now(),
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed approval: %v", err)
	}

	if _, err := svc.Approve(context.Background(), booking.ID, 10, "ok"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var rows []models.BookingApproval
	if err := db.Where("booking_id = ? AND stage = ?", booking.ID, 0).Find(&rows).Error; err != nil {
		t.Fatalf("load approvals: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 approval row for stage 0, got %d", len(rows))
	}
	if rows[0].Decision != models.ApprovalDecisionApproved || rows[0].ApproverID != 10 {
		t.Fatalf("expected overwritten decision, got %+v", rows[0])
	}
}

func TestHistoryOrderedByStage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	for i := 0; i < 2; i++ {
		if _, err := svc.Approve(context.Background(), booking.ID, uint(20+i), ""); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
	}
	if _, err := svc.Reject(context.Background(), booking.ID, 30, "over capacity"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	history, err := svc.History(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 decisions, got %d", len(history))
	}
	for i, entry := range history {
		if entry.Stage != i {
			t.Fatalf("expected history[%d] at stage %d, got %d", i, i, entry.Stage)
		}
	}
	if history[2].Decision != models.ApprovalDecisionRejected {
		t.Fatalf("expected final decision rejected, got %s", history[2].Decision)
	}
}

func TestUpdatePendingOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})

	duration := 90
	updated, err := svc.Update(context.Background(), booking.ID, UpdateInput{
		DurationInMinutes: &duration,
		Slots:             &[]SlotInput{{Date: "2025-06-01", StartTime: "14:00", EndTime: "15:30"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DurationInMinutes != 90 {
		t.Fatalf("expected duration 90, got %d", updated.DurationInMinutes)
	}
	if len(updated.Slots) != 1 || updated.Slots[0].StartTime != "14:00" {
		t.Fatalf("expected replaced slot set, got %+v", updated.Slots)
	}

	if _, err := svc.Reject(context.Background(), booking.ID, 10, "duplicate request"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Update(context.Background(), booking.ID, UpdateInput{DurationInMinutes: &duration}); !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable, got %v", err)
	}
}

func TestUpdateSlotReplacementChecksConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")

	mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "09:00", EndTime: "10:00"})
	booking := mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "12:00", EndTime: "13:00"})

	// Moving onto another booking's interval fails; moving onto the
	// booking's own freed interval succeeds.
	_, err := svc.Update(context.Background(), booking.ID, UpdateInput{
		Slots: &[]SlotInput{{Date: "2025-06-01", StartTime: "09:30", EndTime: "10:30"}},
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if _, err := svc.Update(context.Background(), booking.ID, UpdateInput{
		Slots: &[]SlotInput{{Date: "2025-06-01", StartTime: "12:30", EndTime: "13:30"}},
	}); err != nil {
		t.Fatalf("expected own-slot move to succeed, got %v", err)
	}
}

func TestDeletePendingOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})

	if err := svc.Delete(context.Background(), booking.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), booking.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	var count int64
	if err := db.Model(&models.BookingSlot{}).Where("booking_id = ?", booking.ID).Count(&count).Error; err != nil {
		t.Fatalf("count slots: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected slots removed with the booking, got %d", count)
	}

	// The freed interval is reusable immediately.
	mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00"})

	approved := mustCreate(t, svc, venue.ID)
	for i := 0; i < DefaultStages; i++ {
		if _, err := svc.Approve(context.Background(), approved.ID, 10, ""); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
	}
	if err := svc.Delete(context.Background(), approved.ID); !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable deleting approved booking, got %v", err)
	}
}

func TestRescheduleSlot(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)
	venue := newTestVenue(t, db, "Main Hall")

	mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "09:00", EndTime: "10:00"})
	booking := mustCreate(t, svc, venue.ID,
		SlotInput{Date: "2025-06-01", StartTime: "12:00", EndTime: "13:00"})
	slotID := booking.Slots[0].ID

	// Target must be free.
	_, err := svc.Reschedule(context.Background(), slotID, 5, RescheduleInput{
		Date: "2025-06-01", StartTime: "09:30", EndTime: "10:30", Reason: "projector moved",
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	moved, err := svc.Reschedule(context.Background(), slotID, 5, RescheduleInput{
		Date: "2025-06-02", StartTime: "12:00", EndTime: "13:00", Reason: "venue flooded",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.Date != "2025-06-02" {
		t.Fatalf("expected slot moved to 2025-06-02, got %s", moved.Date)
	}

	var entry models.RescheduleLog
	if err := db.Where("slot_id = ?", slotID).First(&entry).Error; err != nil {
		t.Fatalf("load reschedule log: %v", err)
	}
	if entry.PreviousDate != "2025-06-01" || entry.NewDate != "2025-06-02" || entry.RescheduledByID != 5 {
		t.Fatalf("unexpected reschedule log entry: %+v", entry)
	}

	// Rejected bookings are frozen.
	if _, err := svc.Reject(context.Background(), booking.ID, 10, "cancelled"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Reschedule(context.Background(), slotID, 5, RescheduleInput{
		Date: "2025-06-03", StartTime: "12:00", EndTime: "13:00", Reason: "retry",
	}); !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable, got %v", err)
	}
}

func TestNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, DefaultStages)

	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
	if _, err := svc.Approve(context.Background(), 42, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on approve, got %v", err)
	}
	if _, err := svc.History(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on history, got %v", err)
	}
}

func TestConfigurableStageCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 2)
	venue := newTestVenue(t, db, "Main Hall")
	booking := mustCreate(t, svc, venue.ID)

	first, err := svc.Approve(context.Background(), booking.ID, 10, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if first.Status != models.BookingStatusPending || first.ApprovalStage != 1 {
		t.Fatalf("expected pending at stage 1, got %s at %d", first.Status, first.ApprovalStage)
	}
	second, err := svc.Approve(context.Background(), booking.ID, 10, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if second.Status != models.BookingStatusApproved || second.ApprovalStage != 1 {
		t.Fatalf("expected approved at stage 1, got %s at %d", second.Status, second.ApprovalStage)
	}
}
