package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/providers"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/observability"
)

// NotificationService consumes reservation lifecycle events and records
// per-actor notifications. Everything here is best-effort: a failed
// notification write never affects the reservation itself.
type NotificationService struct {
	repo repositories.NotificationRepository
	bus  providers.EventBus
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repositories.NotificationRepository, bus providers.EventBus) *NotificationService {
	return &NotificationService{
		repo: repo,
		bus:  bus,
	}
}

// Run subscribes to reservation events and records notifications until the
// context is cancelled.
func (s *NotificationService) Run(ctx context.Context) error {
	events, err := s.bus.Subscribe(ctx, providers.ReservationEventsChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to reservation events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return s.bus.Unsubscribe(context.Background(), providers.ReservationEventsChannel, events)
		case event, ok := <-events:
			if !ok {
				return nil
			}
			s.handle(ctx, event)
		}
	}
}

// ListForActor returns the actor's notifications, newest first
func (s *NotificationService) ListForActor(ctx context.Context, actorID string, limit, offset int) ([]*entities.Notification, error) {
	if limit < 1 {
		limit = 20
	}
	return s.repo.ListByRecipient(ctx, actorID, limit, offset)
}

// MarkRead marks one of the actor's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, id, actorID string) error {
	return s.repo.MarkRead(ctx, id, actorID)
}

func (s *NotificationService) handle(ctx context.Context, event *entities.ReservationEvent) {
	for _, n := range notificationsFor(event) {
		if err := s.repo.Create(ctx, n); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("reservation_id", event.ReservationID).
				Msg("failed to record notification")
		}
	}
}

// notificationsFor maps one lifecycle event to the notifications it
// produces. The patient hears about everything; an assigned interpreter
// hears about the assignment.
func notificationsFor(event *entities.ReservationEvent) []*entities.Notification {
	var title, body string

	switch event.Type {
	case entities.ReservationEventCreated:
		title = "Reservation received"
		body = fmt.Sprintf("Your reservation %s is pending confirmation.", event.ReservationID)
	case entities.ReservationEventStatusChanged:
		title = "Reservation updated"
		body = fmt.Sprintf("Reservation %s is now %s.", event.ReservationID, event.NewStatus)
	case entities.ReservationEventCancelled:
		title = "Reservation cancelled"
		body = fmt.Sprintf("Reservation %s has been cancelled.", event.ReservationID)
	case entities.ReservationEventInterpreterAssigned:
		title = "Interpreter assigned"
		body = fmt.Sprintf("An interpreter has been assigned to reservation %s.", event.ReservationID)
	default:
		return nil
	}

	now := time.Now()
	notifications := []*entities.Notification{{
		ID:          uuid.New().String(),
		RecipientID: event.PatientID,
		Title:       title,
		Body:        body,
		CreatedAt:   now,
	}}

	if event.Type == entities.ReservationEventInterpreterAssigned && event.InterpreterID != "" {
		notifications = append(notifications, &entities.Notification{
			ID:          uuid.New().String(),
			RecipientID: event.InterpreterID,
			Title:       "New assignment",
			Body:        fmt.Sprintf("You have been assigned to reservation %s.", event.ReservationID),
			CreatedAt:   now,
		})
	}

	return notifications
}
