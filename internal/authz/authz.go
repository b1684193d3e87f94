// Package authz decides whether a request's principal may perform an
// operation. The evaluator is a pure function over the principal's
// materialized permission set; it touches no storage.
package authz

import (
	"errors"

	"github.com/campusclubs/venuebook-backend/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("permission denied")
)

// Ref is a (subject, action) permission reference with value equality.
type Ref struct {
	Subject string `json:"subject"`
	Action  string `json:"action"`
}

// Principal is the authenticated identity attached to a request,
// resolved once per request from the session and passed explicitly
// into every check.
type Principal struct {
	UserID      uint   `json:"userId"`
	Username    string `json:"username"`
	RoleName    string `json:"roleName"`
	Permissions []Ref  `json:"permissions"`
}

// Can reports whether the principal's permission set contains ref verbatim.
func (p *Principal) Can(ref Ref) bool {
	for _, g := range p.Permissions {
		if g == ref {
			return true
		}
	}
	return false
}

// Evaluator gates operations on (subject, action) requirements.
// superAdmins is a configuration-supplied set of usernames that bypass
// permission checks entirely.
type Evaluator struct {
	superAdmins map[string]struct{}
}

func NewEvaluator(superAdmins []string) *Evaluator {
	set := make(map[string]struct{}, len(superAdmins))
	for _, name := range superAdmins {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return &Evaluator{superAdmins: set}
}

// Authorize decides allow/deny for the given principal and required
// permission set. First match wins:
//
//  1. no principal: ErrUnauthenticated
//  2. super-admin username: allow
//  3. (all, all) grant: allow
//  4. every required ref present verbatim: allow, else ErrUnauthorized
//
// An empty required set allows any authenticated principal.
func (e *Evaluator) Authorize(p *Principal, required ...Ref) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if _, ok := e.superAdmins[p.Username]; ok {
		return nil
	}
	if p.Can(Ref{Subject: models.SubjectAll, Action: models.ActionAll}) {
		return nil
	}
	for _, ref := range required {
		if !p.Can(ref) {
			return ErrUnauthorized
		}
	}
	return nil
}
