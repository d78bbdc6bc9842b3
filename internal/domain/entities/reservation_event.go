package entities

import "time"

// ReservationEventType identifies a reservation lifecycle event
type ReservationEventType string

const (
	ReservationEventCreated             ReservationEventType = "reservation.created"
	ReservationEventStatusChanged       ReservationEventType = "reservation.status_changed"
	ReservationEventCancelled           ReservationEventType = "reservation.cancelled"
	ReservationEventInterpreterAssigned ReservationEventType = "reservation.interpreter_assigned"
)

// ReservationEvent is published on the event bus after a successful
// reservation mutation. Publication is best-effort; the mutation itself
// never rolls back on a publish failure.
type ReservationEvent struct {
	ID            string               `json:"id"`
	Type          ReservationEventType `json:"type"`
	ReservationID string               `json:"reservation_id"`
	PatientID     string               `json:"patient_id"`
	HospitalID    string               `json:"hospital_id"`
	InterpreterID string               `json:"interpreter_id,omitempty"`
	OldStatus     ReservationStatus    `json:"old_status,omitempty"`
	NewStatus     ReservationStatus    `json:"new_status,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}
