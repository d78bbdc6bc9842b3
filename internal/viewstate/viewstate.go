// Package viewstate keeps a per-session snapshot of the reservation list
// so callers can patch it optimistically after a mutation instead of
// re-fetching the whole page.
package viewstate

import (
	"context"
	"sync"

	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
)

// Fetcher loads one page of reservations for the acting identity.
// *services.ReservationService satisfies it.
type Fetcher interface {
	ListFiltered(ctx context.Context, filter repositories.ReservationFilter, actor entities.Actor) (*services.ReservationPage, error)
}

// Snapshot is an immutable copy of the current view
type Snapshot struct {
	Reservations []*entities.Reservation
	Total        int
	Page         int
	Limit        int
	TotalPages   int
	Filtering    bool
}

// ReservationView is the mutable view of one actor's reservation list.
// All methods are safe for concurrent use.
type ReservationView struct {
	mu      sync.Mutex
	fetcher Fetcher
	actor   entities.Actor

	filter       repositories.ReservationFilter
	reservations []*entities.Reservation
	total        int
	totalPages   int
	filtering    bool

	// fetchSeq orders fetches: a completed fetch only lands if no newer
	// fetch started while it was in flight.
	fetchSeq uint64
}

// NewReservationView creates an empty view for the given actor
func NewReservationView(fetcher Fetcher, actor entities.Actor) *ReservationView {
	return &ReservationView{
		fetcher: fetcher,
		actor:   actor,
		filter:  repositories.ReservationFilter{Page: 1},
	}
}

// Refresh re-fetches the current page with the current filters. A stale
// result is dropped if a newer fetch started in the meantime.
func (v *ReservationView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.fetchSeq++
	seq := v.fetchSeq
	filter := v.filter
	v.mu.Unlock()

	page, err := v.fetcher.ListFiltered(ctx, filter, v.actor)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.fetchSeq {
		// a newer fetch superseded this one, result and error alike
		return nil
	}
	if err != nil {
		return err
	}
	v.reservations = page.Reservations
	v.total = page.Total
	v.totalPages = page.TotalPages
	v.filter.Page = page.Page
	return nil
}

// SetPage moves to another page and re-fetches
func (v *ReservationView) SetPage(ctx context.Context, page int) error {
	v.mu.Lock()
	if page < 1 {
		page = 1
	}
	v.filter.Page = page
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetLimit changes the page size, resets to page 1 and re-fetches
func (v *ReservationView) SetLimit(ctx context.Context, limit int) error {
	v.mu.Lock()
	v.filter.Limit = limit
	v.filter.Page = 1
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetFilter replaces the filters, resets to page 1, marks the view as
// filtering and re-fetches
func (v *ReservationView) SetFilter(ctx context.Context, status entities.ReservationStatus, hospitalID, dateFrom, dateTo string) error {
	v.mu.Lock()
	v.filter.Status = status
	v.filter.HospitalID = hospitalID
	v.filter.DateFrom = dateFrom
	v.filter.DateTo = dateTo
	v.filter.Page = 1
	v.filtering = status != "" || hospitalID != "" || dateFrom != "" || dateTo != ""
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// ClearFilter drops all filters, resets to page 1 and re-fetches
func (v *ReservationView) ClearFilter(ctx context.Context) error {
	v.mu.Lock()
	limit := v.filter.Limit
	v.filter = repositories.ReservationFilter{Page: 1, Limit: limit}
	v.filtering = false
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// ApplyCreated prepends a freshly created reservation to the current page
// and bumps the total. The snapshot stays internally consistent without a
// round trip; the next Refresh reconciles ordering.
func (v *ReservationView) ApplyCreated(reservation *entities.Reservation) {
	if reservation == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reservations = append([]*entities.Reservation{reservation}, v.reservations...)
	v.total++
}

// ApplyUpdated replaces the matching reservation in place. A reservation
// not on the current page leaves the view untouched.
func (v *ReservationView) ApplyUpdated(reservation *entities.Reservation) {
	if reservation == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, existing := range v.reservations {
		if existing.ID == reservation.ID {
			v.reservations[i] = reservation
			return
		}
	}
}

// Filtering reports whether any filter is active
func (v *ReservationView) Filtering() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filtering
}

// Snapshot returns a copy of the current view
func (v *ReservationView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	reservations := make([]*entities.Reservation, len(v.reservations))
	copy(reservations, v.reservations)
	return Snapshot{
		Reservations: reservations,
		Total:        v.total,
		Page:         v.filter.Page,
		Limit:        v.filter.Limit,
		TotalPages:   v.totalPages,
		Filtering:    v.filtering,
	}
}
