package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/helpers"
)

// FineRepository handles database operations for fines
type FineRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFineRepository creates a new fine repository
func NewFineRepository(db *pgxpool.Pool) *FineRepository {
	return &FineRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const fineColumns = `id, user_id, borrow_request_id, waived_by, fine_type, amount,
	days_overdue, description, fine_date, due_date, paid_date, payment_method,
	waived_reason, status, created_at`

func scanFine(row pgx.Row) (*models.Fine, error) {
	var fine models.Fine
	err := row.Scan(
		&fine.ID, &fine.UserID, &fine.BorrowRequestID, &fine.WaivedBy,
		&fine.FineType, &fine.Amount, &fine.DaysOverdue, &fine.Description,
		&fine.FineDate, &fine.DueDate, &fine.PaidDate, &fine.PaymentMethod,
		&fine.WaivedReason, &fine.Status, &fine.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFineNotFound
		}
		return nil, fmt.Errorf("error scanning fine: %w", err)
	}
	return &fine, nil
}

// Create inserts a new fine
func (r *FineRepository) Create(ctx context.Context, fine *models.Fine) error {
	query := `
		INSERT INTO fines (id, user_id, borrow_request_id, fine_type, amount,
			days_overdue, description, fine_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		fine.ID, fine.UserID, fine.BorrowRequestID, fine.FineType, fine.Amount,
		fine.DaysOverdue, fine.Description, fine.FineDate, fine.DueDate, fine.Status,
	).Scan(&fine.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating fine: %w", err)
	}

	return nil
}

// GetByID retrieves a fine by ID
func (r *FineRepository) GetByID(ctx context.Context, id string) (*models.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`
	return scanFine(r.db.QueryRow(ctx, query, id))
}

// GetUnpaidByBorrowID retrieves the unpaid overdue fine attached to a loan,
// if any
func (r *FineRepository) GetUnpaidByBorrowID(ctx context.Context, borrowID string) (*models.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines
		WHERE borrow_request_id = $1 AND fine_type = 'overdue' AND status = 'unpaid'`
	return scanFine(r.db.QueryRow(ctx, query, borrowID))
}

// UpdateAmount overwrites the amount and overdue day count of an unpaid fine
func (r *FineRepository) UpdateAmount(ctx context.Context, id string, amount float64, daysOverdue int) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE fines SET amount = $1, days_overdue = $2, fine_date = $3
		WHERE id = $4 AND status = 'unpaid'`,
		amount, daysOverdue, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating fine amount: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFineNotFound
	}
	return nil
}

// Pay settles a fine with the payment metadata the schema's check constraint
// requires
func (r *FineRepository) Pay(ctx context.Context, id string, method models.PaymentMethod) (*models.Fine, error) {
	fine, err := scanFine(r.db.QueryRow(ctx, `
		UPDATE fines SET status = 'paid', paid_date = NOW(), payment_method = $1
		WHERE id = $2 AND status = 'unpaid'
		RETURNING `+fineColumns,
		method, id))
	if err != nil {
		if errors.Is(err, apperrors.ErrFineNotFound) {
			return nil, r.settledOrMissing(ctx, id)
		}
		return nil, err
	}
	return fine, nil
}

// Waive cancels a fine, recording who waived it and why
func (r *FineRepository) Waive(ctx context.Context, id, waivedBy, reason string) (*models.Fine, error) {
	fine, err := scanFine(r.db.QueryRow(ctx, `
		UPDATE fines SET status = 'waived', waived_by = $1, waived_reason = $2,
			paid_date = NOW(), payment_method = 'waived'
		WHERE id = $3 AND status = 'unpaid'
		RETURNING `+fineColumns,
		waivedBy, reason, id))
	if err != nil {
		if errors.Is(err, apperrors.ErrFineNotFound) {
			return nil, r.settledOrMissing(ctx, id)
		}
		return nil, err
	}
	return fine, nil
}

// settledOrMissing distinguishes a fine that is already paid/waived from one
// that does not exist
func (r *FineRepository) settledOrMissing(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM fines WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking fine: %w", err)
	}
	if exists {
		return apperrors.ErrFineSettled
	}
	return apperrors.ErrFineNotFound
}

// ListByUser retrieves a user's fines, optionally filtered by status, newest
// first
func (r *FineRepository) ListByUser(ctx context.Context, userID, status string) ([]*models.Fine, error) {
	sel := r.sb.Select(fineColumns).
		From("fines").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if status != "" {
		sel = sel.Where(squirrel.Eq{"status": status})
	}

	querySql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list fines query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing fines: %w", err)
	}
	defer rows.Close()

	var fines []*models.Fine
	for rows.Next() {
		fine, err := scanFine(rows)
		if err != nil {
			return nil, err
		}
		fines = append(fines, fine)
	}

	return fines, rows.Err()
}

// List retrieves fines with an optional status filter and pagination
func (r *FineRepository) List(ctx context.Context, status string, page, size int) ([]*models.Fine, int64, error) {
	countSelect := r.sb.Select("COUNT(*)").From("fines")
	baseSelect := r.sb.Select(fineColumns).From("fines")

	if status != "" {
		countSelect = countSelect.Where(squirrel.Eq{"status": status})
		baseSelect = baseSelect.Where(squirrel.Eq{"status": status})
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count fines query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting fines: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	querySql, args, err := baseSelect.
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list fines query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing fines: %w", err)
	}
	defer rows.Close()

	var fines []*models.Fine
	for rows.Next() {
		fine, err := scanFine(rows)
		if err != nil {
			return nil, 0, err
		}
		fines = append(fines, fine)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return fines, totalItems, nil
}
