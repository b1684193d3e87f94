package database

import (
	"gorm.io/gorm"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Venue{},
		&models.Amenity{},
		&models.VenueAmenity{},
		&models.Club{},
		&models.ClubMember{},
		&models.Proposal{},
		&models.Booking{},
		&models.BookingApproval{},
		&models.BookingSlot{},
		&models.RescheduleLog{},
		&models.Report{},
		&models.ReportAttachment{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// Postgres-side backstops for invariants the application also
	// enforces. AutoMigrate creates the unique indexes; the check
	// constraints below guard enum columns and slot interval sanity.
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	constraints := []string{
		`ALTER TABLE venue_bookings DROP CONSTRAINT IF EXISTS venue_bookings_status_check`,
		`ALTER TABLE venue_bookings ADD CONSTRAINT venue_bookings_status_check CHECK (status IN ('pending', 'approved', 'rejected'))`,
		`ALTER TABLE venue_bookings DROP CONSTRAINT IF EXISTS venue_bookings_event_type_check`,
		`ALTER TABLE venue_bookings ADD CONSTRAINT venue_bookings_event_type_check CHECK (event_type IN ('practice', 'general-body-meeting', 'event'))`,
		`ALTER TABLE venue_bookings DROP CONSTRAINT IF EXISTS venue_bookings_stage_check`,
		`ALTER TABLE venue_bookings ADD CONSTRAINT venue_bookings_stage_check CHECK (approval_stage >= 0)`,
		`ALTER TABLE booking_approvals DROP CONSTRAINT IF EXISTS booking_approvals_decision_check`,
		`ALTER TABLE booking_approvals ADD CONSTRAINT booking_approvals_decision_check CHECK (decision IN ('pending', 'approved', 'rejected'))`,
		`ALTER TABLE booking_slots DROP CONSTRAINT IF EXISTS booking_slots_interval_check`,
		`ALTER TABLE booking_slots ADD CONSTRAINT booking_slots_interval_check CHECK (start_time < end_time)`,
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE booking_slots DROP CONSTRAINT IF EXISTS booking_slots_no_overlap`,
		// Exclusion constraint so two transactions that each saw an
		// empty venue/date cannot both commit overlapping intervals.
		// Times are minutes from midnight; int4range is half-open, so
		// touching endpoints stay legal.
		`ALTER TABLE booking_slots ADD CONSTRAINT booking_slots_no_overlap EXCLUDE USING gist (
			venue_id WITH =,
			date WITH =,
			int4range(
				split_part(start_time, ':', 1)::int * 60 + split_part(start_time, ':', 2)::int,
				split_part(end_time, ':', 1)::int * 60 + split_part(end_time, ':', 2)::int
			) WITH &&
		) WHERE (deleted_at IS NULL)`,
	}

	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
