package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

// NotificationAdapter implements the NotificationRepository interface
type NotificationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(client *postgres.Client) repositories.NotificationRepository {
	return &NotificationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a notification
func (a *NotificationAdapter) Create(ctx context.Context, notification *entities.Notification) error {
	query, args, err := a.db.Insert("notifications").Rows(goqu.Record{
		"id":           notification.ID,
		"recipient_id": notification.RecipientID,
		"title":        notification.Title,
		"body":         notification.Body,
		"is_read":      notification.IsRead,
		"created_at":   notification.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create notification", err)
	}

	return nil
}

// ListByRecipient returns notifications for an actor, newest first
func (a *NotificationAdapter) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entities.Notification, error) {
	ds := a.db.Select("id", "recipient_id", "title", "body", "is_read", "created_at").
		From("notifications").
		Where(goqu.Ex{"recipient_id": recipientID}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []*entities.Notification
	for rows.Next() {
		n := &entities.Notification{}
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan notification", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate notifications", err)
	}

	return notifications, nil
}

// MarkRead marks a notification read; the recipient filter keeps actors
// from touching each other's notifications.
func (a *NotificationAdapter) MarkRead(ctx context.Context, id, recipientID string) error {
	query, args, err := a.db.Update("notifications").
		Set(goqu.Record{"is_read": true}).
		Where(goqu.Ex{"id": id, "recipient_id": recipientID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("notification with id %s not found", id))
	}

	return nil
}
