package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/db"
	"github.com/sculib/library/internal/pkg/apperrors"
)

// ReservationRepository handles database operations for reservation queues
type ReservationRepository struct {
	db *db.PostgresDB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(database *db.PostgresDB) *ReservationRepository {
	return &ReservationRepository{
		db: database,
	}
}

const reservationColumns = `id, user_id, book_id, reservation_date, expiry_date,
	queue_position, status, notification_sent, created_at`

func scanReservation(row pgx.Row) (*models.Reservation, error) {
	var res models.Reservation
	err := row.Scan(
		&res.ID, &res.UserID, &res.BookID, &res.ReservationDate, &res.ExpiryDate,
		&res.QueuePosition, &res.Status, &res.NotificationSent, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("error scanning reservation: %w", err)
	}
	return &res, nil
}

// Create appends a reservation to the book's queue. The book row is locked so
// the availability check and the position computation cannot race with a
// concurrent borrow, cancel or another reservation.
func (r *ReservationRepository) Create(ctx context.Context, userID, bookID string, expiry time.Time) (*models.Reservation, error) {
	var reservation *models.Reservation

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var available int
		err := tx.QueryRow(ctx, `
			SELECT available_copies FROM books
			WHERE id = $1 AND is_deleted = FALSE
			FOR UPDATE`, bookID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBookNotFound
			}
			return fmt.Errorf("error locking book: %w", err)
		}
		if available > 0 {
			return apperrors.ErrBookAvailable
		}

		var duplicate bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM reservations
				WHERE user_id = $1 AND book_id = $2 AND status = 'active'
			)`, userID, bookID).Scan(&duplicate)
		if err != nil {
			return fmt.Errorf("error checking duplicate reservation: %w", err)
		}
		if duplicate {
			return apperrors.ErrReservationExists
		}

		var activeCount int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM reservations WHERE book_id = $1 AND status = 'active'`,
			bookID).Scan(&activeCount)
		if err != nil {
			return fmt.Errorf("error counting queue: %w", err)
		}

		created, err := scanReservation(tx.QueryRow(ctx, `
			INSERT INTO reservations (id, user_id, book_id, reservation_date, expiry_date,
				queue_position, status)
			VALUES ($1, $2, $3, NOW(), $4, $5, 'active')
			RETURNING `+reservationColumns,
			uuid.New().String(), userID, bookID, expiry, activeCount+1))
		if err != nil {
			return err
		}

		reservation = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.Pool.QueryRow(ctx, query, id))
}

// Deactivate sets a terminal status on a reservation and resequences the
// remaining active queue to contiguous positions 1..N, all in one
// transaction.
func (r *ReservationRepository) Deactivate(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	var reservation *models.Reservation

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		current, err := scanReservation(tx.QueryRow(ctx, `
			SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if current.Status != models.ReservationActive {
			return apperrors.ErrReservationInactive
		}

		if _, err := tx.Exec(ctx, `
			SELECT id FROM books WHERE id = $1 FOR UPDATE`, current.BookID); err != nil {
			return fmt.Errorf("error locking book: %w", err)
		}

		updated, err := scanReservation(tx.QueryRow(ctx, `
			UPDATE reservations SET status = $1 WHERE id = $2
			RETURNING `+reservationColumns,
			status, id))
		if err != nil {
			return err
		}

		if err := resequenceQueue(ctx, tx, current.BookID); err != nil {
			return err
		}

		reservation = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// resequenceQueue rewrites queue positions of all active reservations for a
// book to 1..N in creation order
func resequenceQueue(ctx context.Context, tx pgx.Tx, bookID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE reservations r
		SET queue_position = ranked.position
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY created_at) AS position
			FROM reservations
			WHERE book_id = $1 AND status = 'active'
		) ranked
		WHERE r.id = ranked.id AND r.queue_position != ranked.position`, bookID)
	if err != nil {
		return fmt.Errorf("error resequencing queue: %w", err)
	}
	return nil
}

// GetQueueHead retrieves the active reservation at position 1 for a book
func (r *ReservationRepository) GetQueueHead(ctx context.Context, bookID string) (*models.ReservationDetail, error) {
	query := `
		SELECT r.id, r.user_id, r.book_id, r.reservation_date, r.expiry_date,
			r.queue_position, r.status, r.notification_sent, r.created_at,
			u.full_name, u.email, b.title
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE r.book_id = $1 AND r.status = 'active'
		ORDER BY r.queue_position
		LIMIT 1`

	var detail models.ReservationDetail
	err := r.db.Pool.QueryRow(ctx, query, bookID).Scan(
		&detail.ID, &detail.UserID, &detail.BookID, &detail.ReservationDate,
		&detail.ExpiryDate, &detail.QueuePosition, &detail.Status,
		&detail.NotificationSent, &detail.CreatedAt,
		&detail.UserName, &detail.UserEmail, &detail.BookTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQueueEmpty
		}
		return nil, fmt.Errorf("error retrieving queue head: %w", err)
	}

	return &detail, nil
}

// MarkNotified stamps the pickup notification and resets the expiry window
func (r *ReservationRepository) MarkNotified(ctx context.Context, id string, newExpiry time.Time) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE reservations SET notification_sent = TRUE, expiry_date = $1
		WHERE id = $2 AND status = 'active'`,
		newExpiry, id)
	if err != nil {
		return fmt.Errorf("error marking reservation notified: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrReservationNotFound
	}
	return nil
}

// ListByUser retrieves a user's reservations, newest first
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]*models.ReservationDetail, error) {
	query := `
		SELECT r.id, r.user_id, r.book_id, r.reservation_date, r.expiry_date,
			r.queue_position, r.status, r.notification_sent, r.created_at,
			u.full_name, u.email, b.title
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC`

	return r.queryDetails(ctx, query, userID)
}

// ListActiveByBook retrieves the active queue for a book in position order
func (r *ReservationRepository) ListActiveByBook(ctx context.Context, bookID string) ([]*models.ReservationDetail, error) {
	query := `
		SELECT r.id, r.user_id, r.book_id, r.reservation_date, r.expiry_date,
			r.queue_position, r.status, r.notification_sent, r.created_at,
			u.full_name, u.email, b.title
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE r.book_id = $1 AND r.status = 'active'
		ORDER BY r.queue_position`

	return r.queryDetails(ctx, query, bookID)
}

// ListExpired retrieves active, notified reservations whose pickup window
// has passed
func (r *ReservationRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*models.ReservationDetail, error) {
	query := `
		SELECT r.id, r.user_id, r.book_id, r.reservation_date, r.expiry_date,
			r.queue_position, r.status, r.notification_sent, r.created_at,
			u.full_name, u.email, b.title
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE r.status = 'active' AND r.notification_sent = TRUE AND r.expiry_date < $1
		ORDER BY r.expiry_date`

	return r.queryDetails(ctx, query, asOf)
}

func (r *ReservationRepository) queryDetails(ctx context.Context, query string, args ...interface{}) ([]*models.ReservationDetail, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var details []*models.ReservationDetail
	for rows.Next() {
		var detail models.ReservationDetail
		if err := rows.Scan(
			&detail.ID, &detail.UserID, &detail.BookID, &detail.ReservationDate,
			&detail.ExpiryDate, &detail.QueuePosition, &detail.Status,
			&detail.NotificationSent, &detail.CreatedAt,
			&detail.UserName, &detail.UserEmail, &detail.BookTitle,
		); err != nil {
			return nil, fmt.Errorf("error scanning reservation detail: %w", err)
		}
		details = append(details, &detail)
	}

	return details, rows.Err()
}
