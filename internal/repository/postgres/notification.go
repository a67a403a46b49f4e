package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	apperrors "github.com/clinicflow/clinic-api/pkg/errors"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{NewBaseRepository(db)}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, title, content, target, target_role, target_unit_id,
			target_user_id, author_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.Title,
		notification.Content,
		notification.Target,
		notification.TargetRole,
		notification.TargetUnitID,
		notification.TargetUserID,
		notification.AuthorID,
		notification.CreatedAt,
		notification.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		SELECT id, title, content, target, target_role, target_unit_id,
		       target_user_id, author_id, created_at, updated_at
		FROM notifications
		WHERE id = $1
	`
	var notification model.Notification
	err := r.db.GetContext(ctx, &notification, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("notification", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.SeenBy, err = r.listSeenBy(ctx, id); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("notification", nil)
	}
	return nil
}

// ListVisible returns notifications targeted at the given user: ALL, their
// role, any of their units, or them specifically. SeenBy is loaded per row.
func (r *notificationRepository) ListVisible(ctx context.Context, userID uuid.UUID, role string, unitIDs []uuid.UUID) ([]*model.Notification, error) {
	unitStrs := make([]string, len(unitIDs))
	for i, id := range unitIDs {
		unitStrs[i] = id.String()
	}

	query := `
		SELECT id, title, content, target, target_role, target_unit_id,
		       target_user_id, author_id, created_at, updated_at
		FROM notifications
		WHERE target = 'ALL'
		   OR (target = 'ROLE' AND target_role = $1)
		   OR (target = 'UNIT' AND target_unit_id = ANY($2::uuid[]))
		   OR (target = 'SPECIFIC' AND target_user_id = $3)
		ORDER BY created_at DESC
	`
	var notifications []*model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, role, pq.Array(unitStrs), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	for _, n := range notifications {
		if n.SeenBy, err = r.listSeenBy(ctx, n.ID); err != nil {
			return nil, err
		}
	}
	return notifications, nil
}

// MarkSeen inserts into the seen-by set; repeated marks are no-ops.
func (r *notificationRepository) MarkSeen(ctx context.Context, notificationID, userID uuid.UUID) error {
	query := `
		INSERT INTO notification_seen (notification_id, user_id, seen_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (notification_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, notificationID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}
	return nil
}

func (r *notificationRepository) listSeenBy(ctx context.Context, notificationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT user_id FROM notification_seen WHERE notification_id = $1`, notificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seen-by: %w", err)
	}
	return ids, nil
}
