package services

import (
	"context"
	"testing"

	"github.com/medilink-plus/coordination-api/internal/domain/authz"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReservationRepository mocks the reservation repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *entities.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, id string, patch repositories.ReservationPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateStatusIf(ctx context.Context, id string, expected, next entities.ReservationStatus, cancellationReason *string) (bool, error) {
	args := m.Called(ctx, id, expected, next, cancellationReason)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) AssignInterpreter(ctx context.Context, id, interpreterID string) error {
	args := m.Called(ctx, id, interpreterID)
	return args.Error(0)
}

func (m *MockReservationRepository) CountActiveAtSlot(ctx context.Context, hospitalID, date, timeOfDay, excludeID string) (int, error) {
	args := m.Called(ctx, hospitalID, date, timeOfDay, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, scope authz.Scope, filter repositories.ReservationFilter) ([]*entities.Reservation, int, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Reservation), args.Int(1), args.Error(2)
}

func (m *MockReservationRepository) CountByStatus(ctx context.Context, scope authz.Scope) (*entities.ReservationStats, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReservationStats), args.Error(1)
}

// MockHospitalRepository mocks the hospital repository
type MockHospitalRepository struct {
	mock.Mock
}

func (m *MockHospitalRepository) Create(ctx context.Context, hospital *entities.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *MockHospitalRepository) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) Update(ctx context.Context, hospital *entities.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *MockHospitalRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHospitalRepository) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Hospital), args.Int(1), args.Error(2)
}

// MockInterpreterRepository mocks the interpreter repository
type MockInterpreterRepository struct {
	mock.Mock
}

func (m *MockInterpreterRepository) Create(ctx context.Context, interpreter *entities.Interpreter) error {
	args := m.Called(ctx, interpreter)
	return args.Error(0)
}

func (m *MockInterpreterRepository) GetByID(ctx context.Context, id string) (*entities.Interpreter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Interpreter), args.Error(1)
}

func (m *MockInterpreterRepository) Update(ctx context.Context, interpreter *entities.Interpreter) error {
	args := m.Called(ctx, interpreter)
	return args.Error(0)
}

func (m *MockInterpreterRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInterpreterRepository) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entities.Interpreter, int, error) {
	args := m.Called(ctx, onlyActive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Interpreter), args.Int(1), args.Error(2)
}

// MockEventBus mocks the event bus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.ReservationEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string, events <-chan *entities.ReservationEvent) error {
	args := m.Called(ctx, channel, events)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestService() (*ReservationService, *MockReservationRepository, *MockHospitalRepository, *MockInterpreterRepository, *MockEventBus) {
	repo := new(MockReservationRepository)
	hospitals := new(MockHospitalRepository)
	interpreters := new(MockInterpreterRepository)
	bus := new(MockEventBus)
	return NewReservationService(repo, hospitals, interpreters, bus), repo, hospitals, interpreters, bus
}

var (
	patient      = entities.Actor{ID: "pat-1", Email: "patient@example.com", Role: entities.RoleUser}
	otherPatient = entities.Actor{ID: "pat-2", Email: "other@example.com", Role: entities.RoleUser}
	adminActor   = entities.Actor{ID: "adm-1", Email: "admin@example.com", Role: entities.RoleAdmin}
	interpActor  = entities.Actor{ID: "int-1", Email: "interp@example.com", Role: entities.RoleInterpreter}
)

func validCreateInput() CreateReservationInput {
	return CreateReservationInput{
		HospitalID: "hosp-1",
		Treatment:  "Health Screening",
		Date:       "2026-10-15",
		Time:       "09:30",
	}
}

func TestReservationService_Create(t *testing.T) {
	t.Run("creates pending reservation for acting patient", func(t *testing.T) {
		service, repo, hospitals, _, bus := newTestService()

		hospitals.On("GetByID", mock.Anything, "hosp-1").Return(&entities.Hospital{ID: "hosp-1", IsActive: true}, nil)
		repo.On("CountActiveAtSlot", mock.Anything, "hosp-1", "2026-10-15", "09:30", "").Return(0, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.Reservation) bool {
			return r.PatientID == "pat-1" &&
				r.Status == entities.ReservationStatusPending &&
				r.ID != ""
		})).Return(nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.ReservationEvent) bool {
			return e.Type == entities.ReservationEventCreated
		})).Return(nil)

		reservation, err := service.Create(context.Background(), validCreateInput(), patient)

		assert.NoError(t, err)
		assert.Equal(t, "pat-1", reservation.PatientID)
		assert.Equal(t, entities.ReservationStatusPending, reservation.Status)
		repo.AssertExpectations(t)
	})

	t.Run("rejects occupied slot with conflict", func(t *testing.T) {
		service, repo, hospitals, _, _ := newTestService()

		hospitals.On("GetByID", mock.Anything, "hosp-1").Return(&entities.Hospital{ID: "hosp-1"}, nil)
		repo.On("CountActiveAtSlot", mock.Anything, "hosp-1", "2026-10-15", "09:30", "").Return(1, nil)

		_, err := service.Create(context.Background(), validCreateInput(), patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects unknown hospital", func(t *testing.T) {
		service, repo, hospitals, _, _ := newTestService()

		hospitals.On("GetByID", mock.Anything, "hosp-1").Return(nil, apperrors.NewNotFoundError("hospital not found"))

		_, err := service.Create(context.Background(), validCreateInput(), patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects malformed date and time", func(t *testing.T) {
		service, _, _, _, _ := newTestService()

		input := validCreateInput()
		input.Date = "15-10-2026"
		_, err := service.Create(context.Background(), input, patient)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		input = validCreateInput()
		input.Time = "9:30 AM"
		_, err = service.Create(context.Background(), input, patient)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestReservationService_Get(t *testing.T) {
	reservation := &entities.Reservation{ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending}

	t.Run("owner can view", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()
		repo.On("GetByID", mock.Anything, "res-1").Return(reservation, nil)

		got, err := service.Get(context.Background(), "res-1", patient)

		assert.NoError(t, err)
		assert.Equal(t, "res-1", got.ID)
	})

	t.Run("stranger gets forbidden", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()
		repo.On("GetByID", mock.Anything, "res-1").Return(reservation, nil)

		_, err := service.Get(context.Background(), "res-1", otherPatient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})
}

func TestReservationService_Cancel(t *testing.T) {
	t.Run("owner cancels a confirmed reservation", func(t *testing.T) {
		service, repo, _, _, bus := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusConfirmed,
		}, nil)
		repo.On("UpdateStatusIf", mock.Anything, "res-1",
			entities.ReservationStatusConfirmed, entities.ReservationStatusCancelled, mock.Anything).Return(true, nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.ReservationEvent) bool {
			return e.Type == entities.ReservationEventCancelled
		})).Return(nil)

		reservation, err := service.Cancel(context.Background(), "res-1", "schedule changed", patient)

		assert.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusCancelled, reservation.Status)
		assert.Equal(t, "schedule changed", reservation.CancellationReason)
		repo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)

		_, err := service.Cancel(context.Background(), "res-1", "", otherPatient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
		repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("re-cancel is a no-op success", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusCancelled,
		}, nil)

		reservation, err := service.Cancel(context.Background(), "res-1", "", patient)

		assert.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusCancelled, reservation.Status)
		repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("cancelling a completed reservation is rejected", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusCompleted,
		}, nil)

		_, err := service.Cancel(context.Background(), "res-1", "", patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))
	})

	t.Run("lost compare-and-swap surfaces as conflict", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)
		repo.On("UpdateStatusIf", mock.Anything, "res-1",
			entities.ReservationStatusPending, entities.ReservationStatusCancelled, mock.Anything).Return(false, nil)

		_, err := service.Cancel(context.Background(), "res-1", "", patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}

func TestReservationService_ChangeStatus(t *testing.T) {
	t.Run("admin confirms a pending reservation", func(t *testing.T) {
		service, repo, _, _, bus := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)
		repo.On("UpdateStatusIf", mock.Anything, "res-1",
			entities.ReservationStatusPending, entities.ReservationStatusConfirmed, mock.Anything).Return(true, nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		reservation, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatusConfirmed, adminActor)

		assert.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusConfirmed, reservation.Status)
	})

	t.Run("assigned interpreter completes a confirmed reservation", func(t *testing.T) {
		service, repo, _, _, bus := newTestService()

		interpreterID := "int-1"
		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", InterpreterID: &interpreterID,
			Status: entities.ReservationStatusConfirmed,
		}, nil)
		repo.On("UpdateStatusIf", mock.Anything, "res-1",
			entities.ReservationStatusConfirmed, entities.ReservationStatusCompleted, mock.Anything).Return(true, nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		reservation, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatusCompleted, interpActor)

		assert.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusCompleted, reservation.Status)
	})

	t.Run("unassigned interpreter is forbidden", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusConfirmed,
		}, nil)

		_, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatusCompleted, interpActor)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})

	t.Run("patient cannot drive the status machine", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)

		_, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatusConfirmed, patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})

	t.Run("re-asserting the current status is a no-op", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusCompleted,
		}, nil)

		reservation, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatusCompleted, adminActor)

		assert.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusCompleted, reservation.Status)
		repo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("illegal jump is an invalid transition", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)

		_, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatusCompleted, adminActor)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		service, _, _, _, _ := newTestService()

		_, err := service.ChangeStatus(context.Background(), "res-1", entities.ReservationStatus("archived"), adminActor)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestReservationService_Update(t *testing.T) {
	t.Run("owner edits notes before confirmation", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		notes := "bring previous MRI scans"
		stored := &entities.Reservation{ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending}
		repo.On("GetByID", mock.Anything, "res-1").Return(stored, nil)
		repo.On("Update", mock.Anything, "res-1", mock.MatchedBy(func(p repositories.ReservationPatch) bool {
			return p.Notes != nil && *p.Notes == notes
		})).Return(nil)

		_, err := service.Update(context.Background(), "res-1", repositories.ReservationPatch{Notes: &notes}, patient)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("owner cannot edit after confirmation", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		notes := "too late"
		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusConfirmed,
		}, nil)

		_, err := service.Update(context.Background(), "res-1", repositories.ReservationPatch{Notes: &notes}, patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})

	t.Run("owner cannot confirm through a patch", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		status := entities.ReservationStatusConfirmed
		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)

		_, err := service.Update(context.Background(), "res-1", repositories.ReservationPatch{Status: &status}, patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("admin patches the status", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		status := entities.ReservationStatusConfirmed
		stored := &entities.Reservation{ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending}
		repo.On("GetByID", mock.Anything, "res-1").Return(stored, nil)
		repo.On("Update", mock.Anything, "res-1", mock.MatchedBy(func(p repositories.ReservationPatch) bool {
			return p.Status != nil && *p.Status == status
		})).Return(nil)

		_, err := service.Update(context.Background(), "res-1", repositories.ReservationPatch{Status: &status}, adminActor)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("cancellation reason without cancelled status is rejected", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		reason := "changed my mind"
		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)

		_, err := service.Update(context.Background(), "res-1", repositories.ReservationPatch{CancellationReason: &reason}, patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("empty patch returns the stored reservation untouched", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		stored := &entities.Reservation{ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending}
		repo.On("GetByID", mock.Anything, "res-1").Return(stored, nil)

		got, err := service.Update(context.Background(), "res-1", repositories.ReservationPatch{}, patient)

		assert.NoError(t, err)
		assert.Equal(t, stored, got)
		repo.AssertNotCalled(t, "Update")
	})
}

func TestReservationService_AssignInterpreter(t *testing.T) {
	t.Run("admin assigns an active interpreter and confirms", func(t *testing.T) {
		service, repo, _, interpreters, bus := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)
		interpreters.On("GetByID", mock.Anything, "int-1").Return(&entities.Interpreter{ID: "int-1", IsActive: true}, nil)
		repo.On("AssignInterpreter", mock.Anything, "res-1", "int-1").Return(nil)
		bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.ReservationEvent) bool {
			return e.Type == entities.ReservationEventInterpreterAssigned && e.InterpreterID == "int-1"
		})).Return(nil)

		reservation, err := service.AssignInterpreter(context.Background(), "res-1", "int-1", "adm-1", adminActor)

		assert.NoError(t, err)
		assert.Equal(t, entities.ReservationStatusConfirmed, reservation.Status)
		assert.Equal(t, "int-1", *reservation.InterpreterID)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		_, err := service.AssignInterpreter(context.Background(), "res-1", "int-1", "pat-1", patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
		repo.AssertNotCalled(t, "AssignInterpreter")
	})

	t.Run("mismatched admin id is forbidden", func(t *testing.T) {
		service, _, _, _, _ := newTestService()

		_, err := service.AssignInterpreter(context.Background(), "res-1", "int-1", "adm-2", adminActor)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})

	t.Run("terminal reservation rejects assignment", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusCancelled,
		}, nil)

		_, err := service.AssignInterpreter(context.Background(), "res-1", "int-1", "adm-1", adminActor)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))
	})

	t.Run("inactive interpreter is rejected", func(t *testing.T) {
		service, repo, _, interpreters, _ := newTestService()

		repo.On("GetByID", mock.Anything, "res-1").Return(&entities.Reservation{
			ID: "res-1", PatientID: "pat-1", Status: entities.ReservationStatusPending,
		}, nil)
		interpreters.On("GetByID", mock.Anything, "int-1").Return(&entities.Interpreter{ID: "int-1", IsActive: false}, nil)

		_, err := service.AssignInterpreter(context.Background(), "res-1", "int-1", "adm-1", adminActor)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "AssignInterpreter")
	})
}

func TestReservationService_CheckBookingConflict(t *testing.T) {
	t.Run("reports an occupied slot", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("CountActiveAtSlot", mock.Anything, "hosp-1", "2026-10-15", "09:30", "").Return(2, nil)

		conflict, err := service.CheckBookingConflict(context.Background(), "hosp-1", "2026-10-15", "09:30", "")

		assert.NoError(t, err)
		assert.True(t, conflict)
	})

	t.Run("excludes the reservation being rescheduled", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("CountActiveAtSlot", mock.Anything, "hosp-1", "2026-10-15", "09:30", "res-1").Return(0, nil)

		conflict, err := service.CheckBookingConflict(context.Background(), "hosp-1", "2026-10-15", "09:30", "res-1")

		assert.NoError(t, err)
		assert.False(t, conflict)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		service, _, _, _, _ := newTestService()

		_, err := service.CheckBookingConflict(context.Background(), "", "2026-10-15", "09:30", "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		_, err = service.CheckBookingConflict(context.Background(), "hosp-1", "tomorrow", "09:30", "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestReservationService_ListFiltered(t *testing.T) {
	t.Run("patient lists are scoped to the patient", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("List", mock.Anything, authz.Scope{PatientID: "pat-1"}, mock.MatchedBy(func(f repositories.ReservationFilter) bool {
			return f.Page == 1 && f.Limit == defaultPageLimit
		})).Return([]*entities.Reservation{{ID: "res-1"}}, 1, nil)

		page, err := service.ListFiltered(context.Background(), repositories.ReservationFilter{}, patient)

		assert.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 1, page.TotalPages)
		assert.Len(t, page.Reservations, 1)
	})

	t.Run("admin lists are unscoped", func(t *testing.T) {
		service, repo, _, _, _ := newTestService()

		repo.On("List", mock.Anything, authz.Scope{}, mock.Anything).Return([]*entities.Reservation{}, 25, nil)

		page, err := service.ListFiltered(context.Background(), repositories.ReservationFilter{Limit: 10}, adminActor)

		assert.NoError(t, err)
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("unknown status filter is rejected", func(t *testing.T) {
		service, _, _, _, _ := newTestService()

		_, err := service.ListFiltered(context.Background(), repositories.ReservationFilter{
			Status: entities.ReservationStatus("archived"),
		}, patient)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestReservationService_Stats(t *testing.T) {
	service, repo, _, _, _ := newTestService()

	repo.On("CountByStatus", mock.Anything, authz.Scope{InterpreterID: "int-1"}).Return(&entities.ReservationStats{
		Total: 3, Confirmed: 2, Completed: 1,
	}, nil)

	stats, err := service.Stats(context.Background(), interpActor)

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	repo.AssertExpectations(t)
}
