package workflow

import "errors"

// Domain-rule violations surfaced to handlers. Everything else coming
// out of the service is a storage fault and maps to a 500.
var (
	ErrNotFound        = errors.New("booking not found")
	ErrAlreadyDecided  = errors.New("booking is already decided")
	ErrImmutable       = errors.New("booking is no longer pending")
	ErrMissingComments = errors.New("comments are required when rejecting a booking")
	ErrMissingProposal = errors.New("proposal is required for event type 'event'")
	ErrSlotConflict    = errors.New("time slot conflicts with another booking for this venue")
	ErrInvalid         = errors.New("invalid booking input")
)
