package authz

import (
	"errors"
	"testing"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

func principalWith(refs ...Ref) *Principal {
	return &Principal{UserID: 1, Username: "amara", RoleName: "coordinator", Permissions: refs}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	e := NewEvaluator(nil)
	if err := e.Authorize(nil, Ref{Subject: models.SubjectVenue, Action: models.ActionRead}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := e.Authorize(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated with empty requirements, got %v", err)
	}
}

func TestAuthorizeExactMatch(t *testing.T) {
	e := NewEvaluator(nil)
	p := principalWith(
		Ref{Subject: models.SubjectVenue, Action: models.ActionRead},
		Ref{Subject: models.SubjectBooking, Action: models.ActionUpdate},
	)

	if err := e.Authorize(p, Ref{Subject: models.SubjectVenue, Action: models.ActionRead}); err != nil {
		t.Fatalf("expected allow for granted ref, got %v", err)
	}
	if err := e.Authorize(p, Ref{Subject: models.SubjectVenue, Action: models.ActionDelete}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for ungranted action, got %v", err)
	}
	// A grant on one subject never leaks onto another.
	if err := e.Authorize(p, Ref{Subject: models.SubjectVenue, Action: models.ActionUpdate}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for update on venue, got %v", err)
	}
}

func TestAuthorizeRequiresEveryRef(t *testing.T) {
	e := NewEvaluator(nil)
	p := principalWith(Ref{Subject: models.SubjectVenue, Action: models.ActionRead})

	err := e.Authorize(p,
		Ref{Subject: models.SubjectVenue, Action: models.ActionRead},
		Ref{Subject: models.SubjectVenue, Action: models.ActionApprove},
	)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized when one ref is missing, got %v", err)
	}
}

func TestAuthorizeEmptyRequirements(t *testing.T) {
	e := NewEvaluator(nil)
	if err := e.Authorize(principalWith()); err != nil {
		t.Fatalf("expected any authenticated principal to pass, got %v", err)
	}
}

func TestAuthorizeWildcard(t *testing.T) {
	e := NewEvaluator(nil)
	p := principalWith(Ref{Subject: models.SubjectAll, Action: models.ActionAll})

	if err := e.Authorize(p, Ref{Subject: models.SubjectAuditLog, Action: models.ActionDelete}); err != nil {
		t.Fatalf("expected wildcard to allow everything, got %v", err)
	}

	// A wildcard on only one side is an ordinary ref, not a pattern.
	half := principalWith(Ref{Subject: models.SubjectVenue, Action: models.ActionAll})
	if err := e.Authorize(half, Ref{Subject: models.SubjectVenue, Action: models.ActionRead}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for partial wildcard, got %v", err)
	}
}

func TestAuthorizeSuperAdmin(t *testing.T) {
	e := NewEvaluator([]string{"root", "amara"})
	p := principalWith() // no grants at all

	if err := e.Authorize(p, Ref{Subject: models.SubjectBooking, Action: models.ActionApprove}); err != nil {
		t.Fatalf("expected super admin to bypass checks, got %v", err)
	}

	other := &Principal{UserID: 2, Username: "devon"}
	if err := e.Authorize(other, Ref{Subject: models.SubjectBooking, Action: models.ActionApprove}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected non-admin to be denied, got %v", err)
	}
}

func TestNewEvaluatorIgnoresEmptyNames(t *testing.T) {
	e := NewEvaluator([]string{"", "root"})
	anon := &Principal{UserID: 3, Username: ""}
	if err := e.Authorize(anon, Ref{Subject: models.SubjectVenue, Action: models.ActionRead}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty username must not match the admin set, got %v", err)
	}
}
