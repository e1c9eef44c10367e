package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/db"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/helpers"
)

// BorrowRepository handles database operations for borrow requests
type BorrowRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewBorrowRepository creates a new borrow repository
func NewBorrowRepository(database *db.PostgresDB) *BorrowRepository {
	return &BorrowRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const borrowColumns = `id, user_id, book_copy_id, librarian_id, request_date, approved_date,
	due_date, return_date, status, rejection_reason, renewal_count, max_renewals,
	created_at, updated_at`

func scanBorrow(row pgx.Row) (*models.BorrowRequest, error) {
	var borrow models.BorrowRequest
	err := row.Scan(
		&borrow.ID, &borrow.UserID, &borrow.BookCopyID, &borrow.LibrarianID,
		&borrow.RequestDate, &borrow.ApprovedDate, &borrow.DueDate, &borrow.ReturnDate,
		&borrow.Status, &borrow.RejectionReason, &borrow.RenewalCount, &borrow.MaxRenewals,
		&borrow.CreatedAt, &borrow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBorrowNotFound
		}
		return nil, fmt.Errorf("error scanning borrow request: %w", err)
	}
	return &borrow, nil
}

// BorrowCopy checks out one available copy of a book to a user. The whole
// flow runs in one transaction: the book row is locked, availability is
// re-checked under the lock, a copy is chosen with FOR UPDATE, the loan is
// inserted approved and both copy state and the availability counter move
// together.
func (r *BorrowRepository) BorrowCopy(ctx context.Context, userID, bookID string, librarianID *string, dueDate time.Time, maxRenewals int) (*models.BorrowRequest, error) {
	var borrow *models.BorrowRequest

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
		if available <= 0 {
			return apperrors.ErrNoAvailableCopies
		}

		var copyID string
		err = tx.QueryRow(ctx, `
			SELECT id FROM book_copies
			WHERE book_id = $1 AND status = $2 AND is_deleted = FALSE
			ORDER BY copy_number
			LIMIT 1
			FOR UPDATE`, bookID, models.CopyAvailable).Scan(&copyID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNoAvailableCopies
			}
			return fmt.Errorf("error selecting copy: %w", err)
		}

		now := time.Now()
		created := &models.BorrowRequest{}
		err = tx.QueryRow(ctx, `
			INSERT INTO borrow_requests (id, user_id, book_copy_id, librarian_id,
				request_date, approved_date, due_date, status, max_renewals)
			VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8)
			RETURNING `+borrowColumns,
			uuid.New().String(), userID, copyID, librarianID, now, dueDate,
			models.BorrowApproved, maxRenewals,
		).Scan(
			&created.ID, &created.UserID, &created.BookCopyID, &created.LibrarianID,
			&created.RequestDate, &created.ApprovedDate, &created.DueDate, &created.ReturnDate,
			&created.Status, &created.RejectionReason, &created.RenewalCount, &created.MaxRenewals,
			&created.CreatedAt, &created.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error creating borrow request: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE book_copies SET status = $1 WHERE id = $2`,
			models.CopyBorrowed, copyID); err != nil {
			return fmt.Errorf("error updating copy status: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE books SET available_copies = available_copies - 1, updated_at = NOW()
			WHERE id = $1`, bookID); err != nil {
			return fmt.Errorf("error decrementing availability: %w", err)
		}

		borrow = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return borrow, nil
}

// ReturnCopy closes out a loan: the loan row, the copy state and the book's
// availability counter all change inside one transaction. The counter never
// exceeds total_copies.
func (r *BorrowRepository) ReturnCopy(ctx context.Context, borrowID string, condition models.ConditionRating, notes *string) (*models.BorrowRequest, error) {
	var borrow *models.BorrowRequest

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		current, err := scanBorrow(tx.QueryRow(ctx, `
			SELECT `+borrowColumns+` FROM borrow_requests WHERE id = $1 FOR UPDATE`, borrowID))
		if err != nil {
			return err
		}
		if current.ReturnDate != nil || current.Status == models.BorrowReturned {
			return apperrors.ErrAlreadyReturned
		}
		if current.Status != models.BorrowApproved && current.Status != models.BorrowOverdue {
			return apperrors.ErrBorrowNotFound
		}

		var bookID string
		err = tx.QueryRow(ctx, `
			SELECT book_id FROM book_copies WHERE id = $1 FOR UPDATE`,
			current.BookCopyID).Scan(&bookID)
		if err != nil {
			return fmt.Errorf("error locking copy: %w", err)
		}

		now := time.Now()
		updated, err := scanBorrow(tx.QueryRow(ctx, `
			UPDATE borrow_requests
			SET status = $1, return_date = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING `+borrowColumns,
			models.BorrowReturned, now, borrowID))
		if err != nil {
			return err
		}

		copyStatus := models.CopyAvailable
		if condition == models.ConditionDamaged {
			copyStatus = models.CopyDamaged
		}
		if condition == "" {
			_, err = tx.Exec(ctx, `
				UPDATE book_copies SET status = $1, notes = COALESCE($2, notes) WHERE id = $3`,
				copyStatus, notes, current.BookCopyID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE book_copies SET status = $1, condition_rating = $2, notes = COALESCE($3, notes)
				WHERE id = $4`,
				copyStatus, condition, notes, current.BookCopyID)
		}
		if err != nil {
			return fmt.Errorf("error updating copy status: %w", err)
		}

		// Damaged returns do not go back into circulation
		if copyStatus == models.CopyAvailable {
			_, err = tx.Exec(ctx, `
				UPDATE books
				SET available_copies = LEAST(available_copies + 1, total_copies), updated_at = NOW()
				WHERE id = $1 AND is_deleted = FALSE`, bookID)
			if err != nil {
				return fmt.Errorf("error incrementing availability: %w", err)
			}
		}

		borrow = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return borrow, nil
}

// GetByID retrieves a borrow request by ID
func (r *BorrowRepository) GetByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_requests WHERE id = $1`
	return scanBorrow(r.db.Pool.QueryRow(ctx, query, id))
}

// Renew moves a loan's due date forward and bumps the renewal counter
func (r *BorrowRepository) Renew(ctx context.Context, id string, newDueDate time.Time) (*models.BorrowRequest, error) {
	borrow, err := scanBorrow(r.db.Pool.QueryRow(ctx, `
		UPDATE borrow_requests
		SET due_date = $1, renewal_count = renewal_count + 1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+borrowColumns,
		newDueDate, models.BorrowApproved, id))
	if err != nil {
		return nil, err
	}
	return borrow, nil
}

// MarkOverdue flips an active loan to the overdue status
func (r *BorrowRepository) MarkOverdue(ctx context.Context, id string) error {
	cmdTag, err := r.db.Pool.Exec(ctx, `
		UPDATE borrow_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND return_date IS NULL`,
		models.BorrowOverdue, id, models.BorrowApproved)
	if err != nil {
		return fmt.Errorf("error marking borrow overdue: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBorrowNotFound
	}
	return nil
}

// CountActiveByUser counts loans currently out for a user
func (r *BorrowRepository) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM borrow_requests
		WHERE user_id = $1 AND status IN ('approved', 'overdue') AND return_date IS NULL`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active borrows: %w", err)
	}
	return count, nil
}

// HasActiveBorrowForBook reports whether the user currently holds any copy
// of the book
func (r *BorrowRepository) HasActiveBorrowForBook(ctx context.Context, userID, bookID string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM borrow_requests br
			JOIN book_copies bc ON bc.id = br.book_copy_id
			WHERE br.user_id = $1 AND bc.book_id = $2
				AND br.status IN ('approved', 'overdue') AND br.return_date IS NULL
		)`, userID, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active borrow: %w", err)
	}
	return exists, nil
}

const borrowDetailColumns = `br.id, br.user_id, br.book_copy_id, br.librarian_id, br.request_date,
	br.approved_date, br.due_date, br.return_date, br.status, br.rejection_reason,
	br.renewal_count, br.max_renewals, br.created_at, br.updated_at,
	u.full_name, u.email, u.phone, b.id, b.title, bc.copy_number`

const borrowDetailQuery = `
	SELECT ` + borrowDetailColumns + `
	FROM borrow_requests br
	JOIN users u ON u.id = br.user_id
	JOIN book_copies bc ON bc.id = br.book_copy_id
	JOIN books b ON b.id = bc.book_id`

func scanBorrowDetail(rows pgx.Rows) (*models.BorrowDetail, error) {
	var detail models.BorrowDetail
	err := rows.Scan(
		&detail.ID, &detail.UserID, &detail.BookCopyID, &detail.LibrarianID,
		&detail.RequestDate, &detail.ApprovedDate, &detail.DueDate, &detail.ReturnDate,
		&detail.Status, &detail.RejectionReason, &detail.RenewalCount, &detail.MaxRenewals,
		&detail.CreatedAt, &detail.UpdatedAt,
		&detail.UserName, &detail.UserEmail, &detail.UserPhone,
		&detail.BookID, &detail.BookTitle, &detail.CopyNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning borrow detail: %w", err)
	}
	if detail.DueDate != nil && detail.ReturnDate == nil {
		if days := int(time.Since(*detail.DueDate).Hours() / 24); days > 0 {
			detail.DaysOverdue = days
		}
	}
	return &detail, nil
}

func (r *BorrowRepository) queryDetails(ctx context.Context, query string, args ...interface{}) ([]*models.BorrowDetail, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing borrows: %w", err)
	}
	defer rows.Close()

	var details []*models.BorrowDetail
	for rows.Next() {
		detail, err := scanBorrowDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, rows.Err()
}

// ListByUser retrieves a user's loans, active only or full history
func (r *BorrowRepository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*models.BorrowDetail, error) {
	query := borrowDetailQuery + ` WHERE br.user_id = $1`
	if activeOnly {
		query += ` AND br.status IN ('approved', 'overdue') AND br.return_date IS NULL`
	}
	query += ` ORDER BY br.request_date DESC`
	return r.queryDetails(ctx, query, userID)
}

// List retrieves loans with an optional status filter and pagination
func (r *BorrowRepository) List(ctx context.Context, status string, page, size int) ([]*models.BorrowDetail, int64, error) {
	countSelect := r.sb.Select("COUNT(*)").From("borrow_requests br")
	baseSelect := r.sb.Select(borrowDetailColumns).
		From("borrow_requests br").
		Join("users u ON u.id = br.user_id").
		Join("book_copies bc ON bc.id = br.book_copy_id").
		Join("books b ON b.id = bc.book_id")

	if status != "" {
		countSelect = countSelect.Where(squirrel.Eq{"br.status": status})
		baseSelect = baseSelect.Where(squirrel.Eq{"br.status": status})
	}

	countSQL, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}
	var totalItems int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting borrows: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	listSQL, listArgs, err := baseSelect.
		OrderBy("br.request_date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	details, err := r.queryDetails(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}

	return details, totalItems, nil
}

// ListOverdueCandidates retrieves loans that are past due and either still
// marked approved or already overdue (for fine recalculation)
func (r *BorrowRepository) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error) {
	query := borrowDetailQuery + `
		WHERE br.status IN ('approved', 'overdue') AND br.return_date IS NULL AND br.due_date < $1
		ORDER BY br.due_date`
	return r.queryDetails(ctx, query, asOf)
}

// ListDueSoon retrieves active loans falling due within the lead window
func (r *BorrowRepository) ListDueSoon(ctx context.Context, from, to time.Time) ([]*models.BorrowDetail, error) {
	query := borrowDetailQuery + `
		WHERE br.status = 'approved' AND br.return_date IS NULL
			AND br.due_date >= $1 AND br.due_date < $2
		ORDER BY br.due_date`
	return r.queryDetails(ctx, query, from, to)
}
