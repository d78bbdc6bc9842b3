package repositories

import (
	"context"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// ProfileRepository defines the interface for identity profile operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByID(ctx context.Context, id string) (*entities.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entities.Profile, error)
	UpdateRole(ctx context.Context, id string, role entities.Role) error
}

// NotificationRepository persists notifications produced from reservation
// lifecycle events. Writes here are best-effort secondary writes.
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}
