package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/medilink-plus/coordination-api/internal/domain/authz"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

var reservationColumns = []interface{}{
	"id", "patient_id", "hospital_id", "interpreter_id", "treatment",
	"date", "time", "status", "notes", "estimated_cost",
	"special_requests", "cancellation_reason", "booking_date",
	"admin_approval_required", "created_at", "updated_at",
}

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new reservation
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	record := goqu.Record{
		"id":                      reservation.ID,
		"patient_id":              reservation.PatientID,
		"hospital_id":             reservation.HospitalID,
		"interpreter_id":          reservation.InterpreterID,
		"treatment":               reservation.Treatment,
		"date":                    reservation.Date,
		"time":                    reservation.Time,
		"status":                  reservation.Status,
		"notes":                   reservation.Notes,
		"estimated_cost":          reservation.EstimatedCost,
		"special_requests":        reservation.SpecialRequests,
		"cancellation_reason":     reservation.CancellationReason,
		"booking_date":            reservation.BookingDate,
		"admin_approval_required": reservation.AdminApprovalRequired,
		"created_at":              reservation.CreatedAt,
		"updated_at":              reservation.UpdatedAt,
	}

	query, args, err := a.db.Insert("reservations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	return nil
}

// GetByID retrieves a reservation by ID
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	reservation, err := scanReservation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}

	return reservation, nil
}

// Update applies a partial update to the permitted fields
func (a *ReservationAdapter) Update(ctx context.Context, id string, patch repositories.ReservationPatch) error {
	record := goqu.Record{
		"updated_at": time.Now(),
	}
	if patch.Status != nil {
		record["status"] = *patch.Status
	}
	if patch.Notes != nil {
		record["notes"] = *patch.Notes
	}
	if patch.EstimatedCost != nil {
		record["estimated_cost"] = *patch.EstimatedCost
	}
	if patch.SpecialRequests != nil {
		record["special_requests"] = *patch.SpecialRequests
	}
	if patch.CancellationReason != nil {
		record["cancellation_reason"] = *patch.CancellationReason
	}

	query, args, err := a.db.Update("reservations").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}

	return nil
}

// UpdateStatusIf conditionally moves the reservation between statuses. The
// WHERE clause on the expected status is the compare-and-swap guarding
// against concurrent writers; zero rows affected means someone else moved
// the reservation first.
func (a *ReservationAdapter) UpdateStatusIf(ctx context.Context, id string, expected, next entities.ReservationStatus, cancellationReason *string) (bool, error) {
	record := goqu.Record{
		"status":     next,
		"updated_at": time.Now(),
	}
	if cancellationReason != nil {
		record["cancellation_reason"] = *cancellationReason
	}

	query, args, err := a.db.Update("reservations").
		Set(record).
		Where(goqu.Ex{"id": id, "status": expected}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build status update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to update reservation status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return rowsAffected > 0, nil
}

// AssignInterpreter sets interpreter_id and status=confirmed as one write.
// The WHERE clause only matches active statuses so an assignment racing a
// cancellation cannot re-open a terminal reservation; zero rows affected
// means a concurrent writer got there first.
func (a *ReservationAdapter) AssignInterpreter(ctx context.Context, id, interpreterID string) error {
	query, args, err := a.db.Update("reservations").
		Set(goqu.Record{
			"interpreter_id": interpreterID,
			"status":         entities.ReservationStatusConfirmed,
			"updated_at":     time.Now(),
		}).
		Where(goqu.Ex{
			"id": id,
			"status": []entities.ReservationStatus{
				entities.ReservationStatusPending,
				entities.ReservationStatusConfirmed,
			},
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build assign query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to assign interpreter", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewConflictError("reservation was modified concurrently, please retry")
	}

	return nil
}

// CountActiveAtSlot counts pending/confirmed reservations at the slot
func (a *ReservationAdapter) CountActiveAtSlot(ctx context.Context, hospitalID, date, timeOfDay, excludeID string) (int, error) {
	ds := a.db.From("reservations").
		Where(goqu.Ex{
			"hospital_id": hospitalID,
			"date":        date,
			"time":        timeOfDay,
			"status": []string{
				string(entities.ReservationStatusPending),
				string(entities.ReservationStatusConfirmed),
			},
		})

	if excludeID != "" {
		ds = ds.Where(goqu.C("id").Neq(excludeID))
	}

	query, args, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build conflict query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to check booking conflict", err)
	}

	return count, nil
}

// List returns a page of reservations plus the exact total count
func (a *ReservationAdapter) List(ctx context.Context, scope authz.Scope, filter repositories.ReservationFilter) ([]*entities.Reservation, int, error) {
	ds := a.db.From("reservations")

	if scope.PatientID != "" {
		ds = ds.Where(goqu.Ex{"patient_id": scope.PatientID})
	}
	if scope.InterpreterID != "" {
		ds = ds.Where(goqu.Ex{"interpreter_id": scope.InterpreterID})
	}

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.HospitalID != "" {
		ds = ds.Where(goqu.Ex{"hospital_id": filter.HospitalID})
	}
	if filter.DateFrom != "" {
		ds = ds.Where(goqu.C("date").Gte(filter.DateFrom))
	}
	if filter.DateTo != "" {
		ds = ds.Where(goqu.C("date").Lte(filter.DateTo))
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count reservations", err)
	}

	pageDS := ds.Select(reservationColumns...).
		Order(goqu.I("date").Desc(), goqu.I("time").Desc())

	if filter.Limit > 0 {
		pageDS = pageDS.Limit(uint(filter.Limit))
		if filter.Page > 1 {
			pageDS = pageDS.Offset(uint((filter.Page - 1) * filter.Limit))
		}
	}

	query, args, err := pageDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []*entities.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate reservations", err)
	}

	return reservations, total, nil
}

// CountByStatus returns scoped reservation counts grouped by status
func (a *ReservationAdapter) CountByStatus(ctx context.Context, scope authz.Scope) (*entities.ReservationStats, error) {
	ds := a.db.From("reservations")

	if scope.PatientID != "" {
		ds = ds.Where(goqu.Ex{"patient_id": scope.PatientID})
	}
	if scope.InterpreterID != "" {
		ds = ds.Where(goqu.Ex{"interpreter_id": scope.InterpreterID})
	}

	query, args, err := ds.Select(goqu.C("status"), goqu.COUNT("*")).
		GroupBy("status").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build stats query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation stats", err)
	}
	defer rows.Close()

	stats := &entities.ReservationStats{}
	for rows.Next() {
		var status entities.ReservationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan stats row", err)
		}

		stats.Total += count
		switch status {
		case entities.ReservationStatusPending:
			stats.Pending = count
		case entities.ReservationStatusConfirmed:
			stats.Confirmed = count
		case entities.ReservationStatusCompleted:
			stats.Completed = count
		case entities.ReservationStatusCancelled:
			stats.Cancelled = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate stats rows", err)
	}

	return stats, nil
}

// scanReservation scans one reservation row, normalizing nullable columns.
func scanReservation(scan func(dest ...interface{}) error) (*entities.Reservation, error) {
	reservation := &entities.Reservation{}
	var interpreterID sql.NullString
	var notes, specialRequests, cancellationReason sql.NullString
	var estimatedCost sql.NullFloat64

	err := scan(
		&reservation.ID,
		&reservation.PatientID,
		&reservation.HospitalID,
		&interpreterID,
		&reservation.Treatment,
		&reservation.Date,
		&reservation.Time,
		&reservation.Status,
		&notes,
		&estimatedCost,
		&specialRequests,
		&cancellationReason,
		&reservation.BookingDate,
		&reservation.AdminApprovalRequired,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if interpreterID.Valid {
		reservation.InterpreterID = &interpreterID.String
	}
	reservation.Notes = notes.String
	reservation.EstimatedCost = estimatedCost.Float64
	reservation.SpecialRequests = specialRequests.String
	reservation.CancellationReason = cancellationReason.String

	return reservation, nil
}
