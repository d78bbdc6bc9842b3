package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/medilink-plus/coordination-api/internal/domain/authz"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func setupReservationAdapter(t *testing.T) (repositories.ReservationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReservationAdapter(postgres.NewClientFromDB(db)), mock
}

func reservationRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "patient_id", "hospital_id", "interpreter_id", "treatment",
		"date", "time", "status", "notes", "estimated_cost",
		"special_requests", "cancellation_reason", "booking_date",
		"admin_approval_required", "created_at", "updated_at",
	}).AddRow(
		"res-1", "pat-1", "hosp-1", nil, "Health Screening",
		"2026-10-15", "09:30", "pending", nil, 1200.0,
		nil, nil, now,
		false, now, now,
	)
}

func TestReservationAdapter_GetByID(t *testing.T) {
	t.Run("scans a row with nullable columns", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE`).WillReturnRows(reservationRows())

		reservation, err := adapter.GetByID(context.Background(), "res-1")

		assert.NoError(t, err)
		assert.Equal(t, "res-1", reservation.ID)
		assert.Nil(t, reservation.InterpreterID)
		assert.Equal(t, entities.ReservationStatusPending, reservation.Status)
		assert.Equal(t, 1200.0, reservation.EstimatedCost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE`).WillReturnError(sql.ErrNoRows)

		_, err := adapter.GetByID(context.Background(), "ghost")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestReservationAdapter_Create(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectExec(`INSERT INTO "reservations"`).WillReturnResult(sqlmock.NewResult(1, 1))

	err := adapter.Create(context.Background(), &entities.Reservation{
		ID:         "res-1",
		PatientID:  "pat-1",
		HospitalID: "hosp-1",
		Treatment:  "Health Screening",
		Date:       "2026-10-15",
		Time:       "09:30",
		Status:     entities.ReservationStatusPending,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_UpdateStatusIf(t *testing.T) {
	t.Run("row in expected status moves", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectExec(`UPDATE "reservations" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := adapter.UpdateStatusIf(context.Background(), "res-1",
			entities.ReservationStatusPending, entities.ReservationStatusConfirmed, nil)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("concurrent writer wins and zero rows match", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectExec(`UPDATE "reservations" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := adapter.UpdateStatusIf(context.Background(), "res-1",
			entities.ReservationStatusPending, entities.ReservationStatusCancelled, nil)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestReservationAdapter_Update(t *testing.T) {
	t.Run("zero rows affected maps to not found", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectExec(`UPDATE "reservations" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		notes := "new notes"
		err := adapter.Update(context.Background(), "ghost", repositories.ReservationPatch{Notes: &notes})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestReservationAdapter_AssignInterpreter(t *testing.T) {
	t.Run("assigns while the reservation is still active", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectExec(`UPDATE "reservations" SET (.+) WHERE (.+)"status" IN \('pending', 'confirmed'\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := adapter.AssignInterpreter(context.Background(), "res-1", "int-1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent cancellation surfaces as conflict", func(t *testing.T) {
		adapter, mock := setupReservationAdapter(t)

		mock.ExpectExec(`UPDATE "reservations" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.AssignInterpreter(context.Background(), "res-1", "int-1")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}

func TestReservationAdapter_CountActiveAtSlot(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := adapter.CountActiveAtSlot(context.Background(), "hosp-1", "2026-10-15", "09:30", "")

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReservationAdapter_List(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM "reservations" WHERE (.+) ORDER BY`).
		WillReturnRows(reservationRows())

	reservations, total, err := adapter.List(context.Background(),
		authz.Scope{PatientID: "pat-1"},
		repositories.ReservationFilter{Page: 1, Limit: 10},
	)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, reservations, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationAdapter_CountByStatus(t *testing.T) {
	adapter, mock := setupReservationAdapter(t)

	mock.ExpectQuery(`SELECT "status", COUNT\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 2).
			AddRow("cancelled", 1))

	stats, err := adapter.CountByStatus(context.Background(), authz.Scope{PatientID: "pat-1"})

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Cancelled)
}
