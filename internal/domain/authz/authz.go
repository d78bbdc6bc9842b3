// Package authz holds the pure guard predicates deciding whether an actor
// may perform an operation on a reservation snapshot. No I/O; the role must
// already be resolved server-side from the authenticated session.
package authz

import (
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// CanCancel reports whether the actor may cancel the reservation. Only the
// owning patient may cancel; admins go through CanChangeStatus instead.
func CanCancel(actor entities.Actor, r *entities.Reservation) bool {
	return r.IsOwnedBy(actor.ID)
}

// CanChangeStatus reports whether the actor may change the reservation
// status: admins always, interpreters only on reservations assigned to
// them. Whether the target status is reachable is the state machine's
// concern, not this predicate's.
func CanChangeStatus(actor entities.Actor, r *entities.Reservation) bool {
	switch actor.Role {
	case entities.RoleAdmin:
		return true
	case entities.RoleInterpreter:
		return r.IsAssignedTo(actor.ID)
	}
	return false
}

// CanAssignInterpreter reports whether the actor may assign an interpreter.
func CanAssignInterpreter(actor entities.Actor) bool {
	return actor.Role == entities.RoleAdmin
}

// CanEdit reports whether the actor may edit reservation fields: admins
// always, the owning patient only before confirmation.
func CanEdit(actor entities.Actor, r *entities.Reservation) bool {
	if actor.Role == entities.RoleAdmin {
		return true
	}
	return r.IsOwnedBy(actor.ID) && r.Status == entities.ReservationStatusPending
}

// CanView reports whether the actor may read the reservation.
func CanView(actor entities.Actor, r *entities.Reservation) bool {
	switch actor.Role {
	case entities.RoleAdmin:
		return true
	case entities.RoleInterpreter:
		return r.IsAssignedTo(actor.ID)
	default:
		return r.IsOwnedBy(actor.ID)
	}
}

// Scope describes the mandatory row filter a role imposes on list queries.
// Exactly one of PatientID/InterpreterID is set for non-admin roles.
type Scope struct {
	PatientID     string
	InterpreterID string
}

// Unscoped reports whether the scope imposes no row filter.
func (s Scope) Unscoped() bool {
	return s.PatientID == "" && s.InterpreterID == ""
}

// ScopeFor derives the list-query scope for an actor. The scope is applied
// before any caller-supplied filter so a user can never widen visibility
// through filter input.
func ScopeFor(actor entities.Actor) Scope {
	switch actor.Role {
	case entities.RoleAdmin:
		return Scope{}
	case entities.RoleInterpreter:
		return Scope{InterpreterID: actor.ID}
	default:
		return Scope{PatientID: actor.ID}
	}
}
