package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/db"
	"github.com/sculib/library/internal/pkg/apperrors"
)

// BookCopyRepository handles database operations for individual book copies
type BookCopyRepository struct {
	db *db.PostgresDB
}

// NewBookCopyRepository creates a new book copy repository
func NewBookCopyRepository(database *db.PostgresDB) *BookCopyRepository {
	return &BookCopyRepository{
		db: database,
	}
}

const copyColumns = `id, book_id, copy_number, barcode, status, condition_rating,
	acquired_date, last_maintenance, notes, created_at, is_deleted`

func scanCopy(row pgx.Row) (*models.BookCopy, error) {
	var copy models.BookCopy
	err := row.Scan(
		&copy.ID, &copy.BookID, &copy.CopyNumber, &copy.Barcode, &copy.Status,
		&copy.ConditionRating, &copy.AcquiredDate, &copy.LastMaintenance,
		&copy.Notes, &copy.CreatedAt, &copy.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCopyNotFound
		}
		return nil, fmt.Errorf("error scanning book copy: %w", err)
	}
	return &copy, nil
}

// GetByID retrieves a copy by ID
func (r *BookCopyRepository) GetByID(ctx context.Context, id string) (*models.BookCopy, error) {
	query := `SELECT ` + copyColumns + ` FROM book_copies WHERE id = $1 AND is_deleted = FALSE`
	return scanCopy(r.db.Pool.QueryRow(ctx, query, id))
}

// ListByBook retrieves all copies of a book
func (r *BookCopyRepository) ListByBook(ctx context.Context, bookID string) ([]*models.BookCopy, error) {
	query := `SELECT ` + copyColumns + ` FROM book_copies WHERE book_id = $1 AND is_deleted = FALSE ORDER BY copy_number`

	rows, err := r.db.Pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var copies []*models.BookCopy
	for rows.Next() {
		copy, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		copies = append(copies, copy)
	}

	return copies, rows.Err()
}

// Update changes status, condition and notes of a copy. A status change that
// crosses into or out of the available state also moves the book's
// availability counter, inside one transaction with the same lock order as
// the borrow and return paths: book row first, then the copy.
func (r *BookCopyRepository) Update(ctx context.Context, copy *models.BookCopy) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var bookID string
		err := tx.QueryRow(ctx, `
			SELECT book_id FROM book_copies WHERE id = $1 AND is_deleted = FALSE`,
			copy.ID).Scan(&bookID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCopyNotFound
			}
			return fmt.Errorf("error looking up book copy: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			SELECT id FROM books WHERE id = $1 FOR UPDATE`, bookID); err != nil {
			return fmt.Errorf("error locking book: %w", err)
		}

		var oldStatus models.CopyStatus
		err = tx.QueryRow(ctx, `
			SELECT status FROM book_copies WHERE id = $1 AND is_deleted = FALSE FOR UPDATE`,
			copy.ID).Scan(&oldStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCopyNotFound
			}
			return fmt.Errorf("error locking book copy: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE book_copies
			SET status = $1, condition_rating = $2, notes = $3
			WHERE id = $4`,
			copy.Status, copy.ConditionRating, copy.Notes, copy.ID); err != nil {
			return fmt.Errorf("error updating book copy: %w", err)
		}

		wasAvailable := oldStatus == models.CopyAvailable
		isAvailable := copy.Status == models.CopyAvailable
		switch {
		case wasAvailable && !isAvailable:
			if _, err := tx.Exec(ctx, `
				UPDATE books SET available_copies = available_copies - 1, updated_at = NOW()
				WHERE id = $1`, bookID); err != nil {
				return fmt.Errorf("error decrementing availability: %w", err)
			}
		case !wasAvailable && isAvailable:
			if _, err := tx.Exec(ctx, `
				UPDATE books SET available_copies = available_copies + 1, updated_at = NOW()
				WHERE id = $1`, bookID); err != nil {
				return fmt.Errorf("error incrementing availability: %w", err)
			}
		}

		return nil
	})
}
