package authz

import (
	"testing"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

var (
	admin       = entities.Actor{ID: "adm-1", Role: entities.RoleAdmin}
	owner       = entities.Actor{ID: "pat-1", Role: entities.RoleUser}
	otherUser   = entities.Actor{ID: "pat-2", Role: entities.RoleUser}
	interpreter = entities.Actor{ID: "int-1", Role: entities.RoleInterpreter}
	otherInterp = entities.Actor{ID: "int-2", Role: entities.RoleInterpreter}
)

func assignedReservation(status entities.ReservationStatus) *entities.Reservation {
	interpreterID := "int-1"
	return &entities.Reservation{
		ID:            "res-1",
		PatientID:     "pat-1",
		InterpreterID: &interpreterID,
		Status:        status,
	}
}

func TestCanCancel(t *testing.T) {
	r := assignedReservation(entities.ReservationStatusConfirmed)

	tests := []struct {
		name  string
		actor entities.Actor
		want  bool
	}{
		{"owning patient", owner, true},
		{"other patient", otherUser, false},
		{"admin goes through status change instead", admin, false},
		{"assigned interpreter", interpreter, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCancel(tt.actor, r); got != tt.want {
				t.Errorf("CanCancel(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCanChangeStatus(t *testing.T) {
	r := assignedReservation(entities.ReservationStatusConfirmed)

	tests := []struct {
		name  string
		actor entities.Actor
		want  bool
	}{
		{"admin", admin, true},
		{"assigned interpreter", interpreter, true},
		{"unassigned interpreter", otherInterp, false},
		{"owning patient", owner, false},
		{"other patient", otherUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanChangeStatus(tt.actor, r); got != tt.want {
				t.Errorf("CanChangeStatus(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCanAssignInterpreter(t *testing.T) {
	if !CanAssignInterpreter(admin) {
		t.Error("admin must be able to assign interpreters")
	}
	if CanAssignInterpreter(owner) || CanAssignInterpreter(interpreter) {
		t.Error("only admins may assign interpreters")
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		name   string
		actor  entities.Actor
		status entities.ReservationStatus
		want   bool
	}{
		{"admin on pending", admin, entities.ReservationStatusPending, true},
		{"admin on completed", admin, entities.ReservationStatusCompleted, true},
		{"owner before confirmation", owner, entities.ReservationStatusPending, true},
		{"owner after confirmation", owner, entities.ReservationStatusConfirmed, false},
		{"owner on cancelled", owner, entities.ReservationStatusCancelled, false},
		{"other patient on pending", otherUser, entities.ReservationStatusPending, false},
		{"interpreter on pending", interpreter, entities.ReservationStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEdit(tt.actor, assignedReservation(tt.status)); got != tt.want {
				t.Errorf("CanEdit(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	r := assignedReservation(entities.ReservationStatusConfirmed)

	tests := []struct {
		name  string
		actor entities.Actor
		want  bool
	}{
		{"admin", admin, true},
		{"owning patient", owner, true},
		{"other patient", otherUser, false},
		{"assigned interpreter", interpreter, true},
		{"unassigned interpreter", otherInterp, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.actor, r); got != tt.want {
				t.Errorf("CanView(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestScopeFor(t *testing.T) {
	if scope := ScopeFor(admin); !scope.Unscoped() {
		t.Errorf("admin scope must be unscoped, got %+v", scope)
	}

	scope := ScopeFor(owner)
	if scope.PatientID != "pat-1" || scope.InterpreterID != "" {
		t.Errorf("patient scope = %+v, want PatientID=pat-1", scope)
	}

	scope = ScopeFor(interpreter)
	if scope.InterpreterID != "int-1" || scope.PatientID != "" {
		t.Errorf("interpreter scope = %+v, want InterpreterID=int-1", scope)
	}

	// Unknown roles fall back to the most restrictive scope
	scope = ScopeFor(entities.Actor{ID: "x-1", Role: entities.Role("mystery")})
	if scope.PatientID != "x-1" {
		t.Errorf("unknown role scope = %+v, want PatientID=x-1", scope)
	}
}
