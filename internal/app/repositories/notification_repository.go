package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/helpers"
)

// NotificationRepository handles database operations for in-app notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create inserts a notification row
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, email_sent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.EmailSent,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications with pagination, optionally
// unread only
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, page, size int) ([]*models.Notification, int64, error) {
	where := "user_id = $1"
	if unreadOnly {
		where += " AND is_read = FALSE"
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE `+where, userID).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	query := fmt.Sprintf(`
		SELECT id, user_id, type, title, message, is_read, email_sent, sms_sent, created_at, read_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, where)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.IsRead, &n.EmailSent, &n.SMSSent, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, totalItems, nil
}

// MarkRead stamps a notification read. Ownership is enforced so users cannot
// touch each other's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE`,
		id, userID)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// MarkAllRead stamps every unread notification of a user read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
