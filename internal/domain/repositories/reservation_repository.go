package repositories

import (
	"context"

	"github.com/medilink-plus/coordination-api/internal/domain/authz"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	// Create creates a new reservation
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation by ID
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// Update applies a partial update; nil patch fields are left untouched
	Update(ctx context.Context, id string, patch ReservationPatch) error

	// UpdateStatusIf conditionally moves the reservation from expected to
	// next status in a single statement. Returns false without error when
	// the row was not in the expected status (concurrent writer won).
	UpdateStatusIf(ctx context.Context, id string, expected, next entities.ReservationStatus, cancellationReason *string) (bool, error)

	// AssignInterpreter sets interpreter_id and status=confirmed as one
	// atomic write
	AssignInterpreter(ctx context.Context, id, interpreterID string) error

	// CountActiveAtSlot counts pending/confirmed reservations holding the
	// (hospital, date, time) slot, excluding excludeID when non-empty
	CountActiveAtSlot(ctx context.Context, hospitalID, date, timeOfDay, excludeID string) (int, error)

	// List returns a page of reservations matching scope+filter along with
	// the exact total row count
	List(ctx context.Context, scope authz.Scope, filter ReservationFilter) ([]*entities.Reservation, int, error)

	// CountByStatus returns role-scoped counts grouped by status
	CountByStatus(ctx context.Context, scope authz.Scope) (*entities.ReservationStats, error)
}

// ReservationFilter defines optional filters for listing reservations
type ReservationFilter struct {
	Status     entities.ReservationStatus
	HospitalID string
	DateFrom   string
	DateTo     string
	Page       int
	Limit      int
}

// ReservationPatch is the partial-update surface exposed by Update.
// Only these fields may be patched; identity and slot fields go through
// the dedicated operations.
type ReservationPatch struct {
	Status             *entities.ReservationStatus
	Notes              *string
	EstimatedCost      *float64
	SpecialRequests    *string
	CancellationReason *string
}

// Empty reports whether the patch carries no changes.
func (p ReservationPatch) Empty() bool {
	return p.Status == nil && p.Notes == nil && p.EstimatedCost == nil &&
		p.SpecialRequests == nil && p.CancellationReason == nil
}
