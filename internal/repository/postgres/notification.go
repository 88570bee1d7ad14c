package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
)

type notificationRepository struct {
	*BaseRepository
}

func NewNotificationRepository(base *BaseRepository) repository.NotificationRepository {
	return &notificationRepository{BaseRepository: base}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, client_id, send_to_admin, send_to_client, is_referral,
			date, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	n.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ClientID,
		n.SendToAdmin,
		n.SendToClient,
		n.IsReferral,
		n.Date,
		n.Message,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListForAdmin(ctx context.Context) ([]*model.Notification, error) {
	query := `
		SELECT id, client_id, send_to_admin, send_to_client, is_referral,
			   date, message, created_at
		FROM notifications
		WHERE send_to_admin = true
		ORDER BY created_at DESC
	`
	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, fmt.Errorf("failed to list admin notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Notification, error) {
	query := `
		SELECT id, client_id, send_to_admin, send_to_client, is_referral,
			   date, message, created_at
		FROM notifications
		WHERE send_to_client = true AND client_id = $1
		ORDER BY created_at DESC
	`
	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list client notifications: %w", err)
	}
	return notifications, nil
}
