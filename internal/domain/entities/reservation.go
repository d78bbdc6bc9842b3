package entities

import (
	"time"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// IsValid reports whether s is a known reservation status.
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s admits no further transitions. Terminal
// statuses accept only an idempotent re-assertion of the same status.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

// IsActive reports whether a reservation in this status occupies its
// (hospital, date, time) slot for conflict purposes.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// CanTransitionTo reports whether the status machine permits moving from s
// to target. Same-status re-assertion is always permitted, including on
// terminal statuses.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	if s == target {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	switch s {
	case ReservationStatusPending:
		return target == ReservationStatusConfirmed ||
			target == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return target == ReservationStatusCompleted ||
			target == ReservationStatusCancelled
	}
	return false
}

// Reservation links one patient, one hospital and optionally one interpreter
// to a treatment slot. Reservations are never hard-deleted; cancellation is
// the terminal soft delete.
type Reservation struct {
	ID                    string            `json:"id" db:"id"`
	PatientID             string            `json:"patient_id" db:"patient_id"`
	HospitalID            string            `json:"hospital_id" db:"hospital_id"`
	InterpreterID         *string           `json:"interpreter_id" db:"interpreter_id"`
	Treatment             string            `json:"treatment" db:"treatment"`
	Date                  string            `json:"date" db:"date"`
	Time                  string            `json:"time" db:"time"`
	Status                ReservationStatus `json:"status" db:"status"`
	Notes                 string            `json:"notes" db:"notes"`
	EstimatedCost         float64           `json:"estimated_cost" db:"estimated_cost"`
	SpecialRequests       string            `json:"special_requests" db:"special_requests"`
	CancellationReason    string            `json:"cancellation_reason" db:"cancellation_reason"`
	BookingDate           time.Time         `json:"booking_date" db:"booking_date"`
	AdminApprovalRequired bool              `json:"admin_approval_required" db:"admin_approval_required"`
	CreatedAt             time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at" db:"updated_at"`
}

// IsOwnedBy reports whether the given actor is the booking patient.
func (r *Reservation) IsOwnedBy(actorID string) bool {
	return r.PatientID == actorID
}

// IsAssignedTo reports whether the given interpreter is assigned to this
// reservation.
func (r *Reservation) IsAssignedTo(interpreterID string) bool {
	return r.InterpreterID != nil && *r.InterpreterID == interpreterID
}

// ReservationStats holds role-scoped counts of reservations by status
type ReservationStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
