package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/domain/authz"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/providers"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/observability"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultPageLimit = 10
)

// CreateReservationInput carries the patient-supplied reservation fields.
// patient_id and status are never taken from input.
type CreateReservationInput struct {
	HospitalID            string  `json:"hospital_id"`
	Treatment             string  `json:"treatment"`
	Date                  string  `json:"date"`
	Time                  string  `json:"time"`
	Notes                 string  `json:"notes"`
	EstimatedCost         float64 `json:"estimated_cost"`
	SpecialRequests       string  `json:"special_requests"`
	AdminApprovalRequired bool    `json:"admin_approval_required"`
}

// ReservationPage is one page of role-scoped reservations
type ReservationPage struct {
	Reservations []*entities.Reservation `json:"reservations"`
	Total        int                     `json:"total"`
	Page         int                     `json:"page"`
	TotalPages   int                     `json:"total_pages"`
}

// ReservationService is the sole authority for reservation state mutation.
// Every operation takes the acting identity explicitly; nothing is read
// from ambient state.
type ReservationService struct {
	repo            repositories.ReservationRepository
	hospitalRepo    repositories.HospitalRepository
	interpreterRepo repositories.InterpreterRepository
	eventBus        providers.EventBus
}

// NewReservationService creates a new reservation service
func NewReservationService(
	repo repositories.ReservationRepository,
	hospitalRepo repositories.HospitalRepository,
	interpreterRepo repositories.InterpreterRepository,
	eventBus providers.EventBus,
) *ReservationService {
	return &ReservationService{
		repo:            repo,
		hospitalRepo:    hospitalRepo,
		interpreterRepo: interpreterRepo,
		eventBus:        eventBus,
	}
}

// Create books a new reservation for the acting patient. Status is forced
// to pending and patient_id to the caller; the slot conflict check runs
// inside create so a double booking cannot slip past a forgetful caller.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput, actor entities.Actor) (*entities.Reservation, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.hospitalRepo.GetByID(ctx, input.HospitalID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountActiveAtSlot(ctx, input.HospitalID, input.Date, input.Time, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("slot %s %s at hospital %s is already booked", input.Date, input.Time, input.HospitalID))
	}

	now := time.Now()
	reservation := &entities.Reservation{
		ID:                    uuid.New().String(),
		PatientID:             actor.ID,
		HospitalID:            input.HospitalID,
		Treatment:             input.Treatment,
		Date:                  input.Date,
		Time:                  input.Time,
		Status:                entities.ReservationStatusPending,
		Notes:                 input.Notes,
		EstimatedCost:         input.EstimatedCost,
		SpecialRequests:       input.SpecialRequests,
		BookingDate:           now,
		AdminApprovalRequired: input.AdminApprovalRequired,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.publish(ctx, &entities.ReservationEvent{
		Type:          entities.ReservationEventCreated,
		ReservationID: reservation.ID,
		PatientID:     reservation.PatientID,
		HospitalID:    reservation.HospitalID,
		NewStatus:     reservation.Status,
	})

	return reservation, nil
}

// Get loads a single reservation, enforcing role-scoped visibility.
func (s *ReservationService) Get(ctx context.Context, id string, actor entities.Actor) (*entities.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(actor, reservation) {
		return nil, apperrors.NewForbiddenError("not allowed to view this reservation")
	}
	return reservation, nil
}

// Update applies a partial update to the patchable fields.
func (s *ReservationService) Update(ctx context.Context, id string, patch repositories.ReservationPatch, actor entities.Actor) (*entities.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanEdit(actor, reservation) {
		return nil, apperrors.NewForbiddenError("not allowed to edit this reservation")
	}

	if patch.Empty() {
		return reservation, nil
	}

	if patch.Status != nil {
		// Patching the status is a status change, not an edit. Patients go
		// through Cancel; everyone else needs status-change authority.
		if !authz.CanChangeStatus(actor, reservation) {
			return nil, apperrors.NewForbiddenError("not allowed to change the reservation status")
		}
		if !patch.Status.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *patch.Status))
		}
		if !reservation.Status.CanTransitionTo(*patch.Status) {
			return nil, apperrors.NewInvalidTransitionError(
				fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, *patch.Status))
		}
	}

	// cancellation_reason travels only with a cancellation.
	if patch.CancellationReason != nil && *patch.CancellationReason != "" {
		target := reservation.Status
		if patch.Status != nil {
			target = *patch.Status
		}
		if target != entities.ReservationStatusCancelled {
			return nil, apperrors.NewValidationError("cancellation_reason requires cancelled status")
		}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Cancel cancels the reservation on behalf of the owning patient. Cancelling
// an already-cancelled reservation is a no-op success; cancelling a
// completed one is an invalid transition.
func (s *ReservationService) Cancel(ctx context.Context, id, reason string, actor entities.Actor) (*entities.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanCancel(actor, reservation) {
		return nil, apperrors.NewForbiddenError("only the booking patient may cancel a reservation")
	}

	if reservation.Status == entities.ReservationStatusCancelled {
		return reservation, nil
	}
	if reservation.Status == entities.ReservationStatusCompleted {
		return nil, apperrors.NewInvalidTransitionError("cannot cancel a completed reservation")
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id, reservation.Status, entities.ReservationStatusCancelled, &reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("reservation was modified concurrently, please retry")
	}

	oldStatus := reservation.Status
	reservation.Status = entities.ReservationStatusCancelled
	reservation.CancellationReason = reason

	s.publish(ctx, &entities.ReservationEvent{
		Type:          entities.ReservationEventCancelled,
		ReservationID: reservation.ID,
		PatientID:     reservation.PatientID,
		HospitalID:    reservation.HospitalID,
		OldStatus:     oldStatus,
		NewStatus:     reservation.Status,
	})

	return reservation, nil
}

// ChangeStatus moves the reservation along the lifecycle. Admins may move
// any reservation; an interpreter only those assigned to them. Re-asserting
// the current status is a no-op success even on terminal states.
func (s *ReservationService) ChangeStatus(ctx context.Context, id string, next entities.ReservationStatus, actor entities.Actor) (*entities.Reservation, error) {
	if !next.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", next))
	}

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanChangeStatus(actor, reservation) {
		return nil, apperrors.NewForbiddenError("not allowed to change this reservation's status")
	}

	if reservation.Status == next {
		return reservation, nil
	}
	if !reservation.Status.CanTransitionTo(next) {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, next))
	}

	var reason *string
	if next == entities.ReservationStatusCancelled {
		empty := ""
		reason = &empty
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id, reservation.Status, next, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("reservation was modified concurrently, please retry")
	}

	oldStatus := reservation.Status
	reservation.Status = next

	s.publish(ctx, &entities.ReservationEvent{
		Type:          entities.ReservationEventStatusChanged,
		ReservationID: reservation.ID,
		PatientID:     reservation.PatientID,
		HospitalID:    reservation.HospitalID,
		OldStatus:     oldStatus,
		NewStatus:     next,
	})

	return reservation, nil
}

// AssignInterpreter assigns an interpreter and confirms the reservation in
// one atomic write. adminID arrives with the request but authority comes
// from the verified session actor; the two must match.
func (s *ReservationService) AssignInterpreter(ctx context.Context, reservationID, interpreterID, adminID string, actor entities.Actor) (*entities.Reservation, error) {
	if actor.ID != adminID || !authz.CanAssignInterpreter(actor) {
		return nil, apperrors.NewForbiddenError("only an admin may assign interpreters")
	}

	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("cannot assign an interpreter to a %s reservation", reservation.Status))
	}

	interpreter, err := s.interpreterRepo.GetByID(ctx, interpreterID)
	if err != nil {
		return nil, err
	}
	if !interpreter.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("interpreter %s is not active", interpreterID))
	}

	if err := s.repo.AssignInterpreter(ctx, reservationID, interpreterID); err != nil {
		return nil, err
	}

	oldStatus := reservation.Status
	reservation.InterpreterID = &interpreter.ID
	reservation.Status = entities.ReservationStatusConfirmed

	s.publish(ctx, &entities.ReservationEvent{
		Type:          entities.ReservationEventInterpreterAssigned,
		ReservationID: reservation.ID,
		PatientID:     reservation.PatientID,
		HospitalID:    reservation.HospitalID,
		InterpreterID: interpreter.ID,
		OldStatus:     oldStatus,
		NewStatus:     reservation.Status,
	})

	return reservation, nil
}

// CheckBookingConflict reports whether an active reservation already holds
// the (hospital, date, time) slot. excludeID skips the reservation being
// rescheduled.
func (s *ReservationService) CheckBookingConflict(ctx context.Context, hospitalID, date, timeOfDay, excludeID string) (bool, error) {
	if hospitalID == "" {
		return false, apperrors.NewValidationError("hospital_id is required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	if _, err := time.Parse(timeLayout, timeOfDay); err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", timeOfDay))
	}

	count, err := s.repo.CountActiveAtSlot(ctx, hospitalID, date, timeOfDay, excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFiltered returns a page of reservations. Role scoping is applied
// before any caller filter, so filter input can never widen visibility.
func (s *ReservationService) ListFiltered(ctx context.Context, filter repositories.ReservationFilter, actor entities.Actor) (*ReservationPage, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}

	scope := authz.ScopeFor(actor)
	reservations, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	return &ReservationPage{
		Reservations: reservations,
		Total:        total,
		Page:         filter.Page,
		TotalPages:   totalPages,
	}, nil
}

// Stats returns role-scoped reservation counts grouped by status.
func (s *ReservationService) Stats(ctx context.Context, actor entities.Actor) (*entities.ReservationStats, error) {
	return s.repo.CountByStatus(ctx, authz.ScopeFor(actor))
}

// publish emits a lifecycle event. Publication is best-effort: the
// mutation already committed, so failures are logged and swallowed.
func (s *ReservationService) publish(ctx context.Context, event *entities.ReservationEvent) {
	if s.eventBus == nil {
		return
	}

	event.ID = uuid.New().String()
	event.OccurredAt = time.Now()

	if err := s.eventBus.Publish(ctx, providers.ReservationEventsChannel, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("reservation_id", event.ReservationID).
			Str("event_type", string(event.Type)).
			Msg("failed to publish reservation event")
	}
}

func validateCreateInput(input CreateReservationInput) error {
	if input.HospitalID == "" {
		return apperrors.NewValidationError("hospital_id is required")
	}
	if input.Treatment == "" {
		return apperrors.NewValidationError("treatment is required")
	}
	if input.Date == "" {
		return apperrors.NewValidationError("date is required")
	}
	if _, err := time.Parse(dateLayout, input.Date); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", input.Date))
	}
	if input.Time == "" {
		return apperrors.NewValidationError("time is required")
	}
	if _, err := time.Parse(timeLayout, input.Time); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", input.Time))
	}
	if input.EstimatedCost < 0 {
		return apperrors.NewValidationError("estimated_cost cannot be negative")
	}
	return nil
}
