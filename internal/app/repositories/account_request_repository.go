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

// AccountRequestRepository handles database operations for account requests
type AccountRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAccountRequestRepository creates a new account request repository
func NewAccountRequestRepository(db *pgxpool.Pool) *AccountRequestRepository {
	return &AccountRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const accountRequestColumns = `id, full_name, email, student_id, password, phone, address,
	department_id, university_card_url, request_date, status, reviewed_by, reviewed_at,
	rejection_reason, approved_user_id, created_at, updated_at`

func scanAccountRequest(row pgx.Row) (*models.AccountRequest, error) {
	var req models.AccountRequest
	err := row.Scan(
		&req.ID, &req.FullName, &req.Email, &req.StudentID, &req.Password,
		&req.Phone, &req.Address, &req.DepartmentID, &req.UniversityCardURL,
		&req.RequestDate, &req.Status, &req.ReviewedBy, &req.ReviewedAt,
		&req.RejectionReason, &req.ApprovedUserID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountRequestNotFound
		}
		return nil, fmt.Errorf("error scanning account request: %w", err)
	}
	return &req, nil
}

// Create inserts a new pending account request
func (r *AccountRequestRepository) Create(ctx context.Context, req *models.AccountRequest) error {
	query := `
		INSERT INTO account_requests (id, full_name, email, student_id, password, phone,
			address, department_id, request_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), 'pending')
		RETURNING request_date, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		req.ID, req.FullName, req.Email, req.StudentID, req.Password,
		req.Phone, req.Address, req.DepartmentID,
	).Scan(&req.RequestDate, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating account request: %w", err)
	}

	return nil
}

// GetByID retrieves an account request by ID
func (r *AccountRequestRepository) GetByID(ctx context.Context, id string) (*models.AccountRequest, error) {
	query := `SELECT ` + accountRequestColumns + ` FROM account_requests WHERE id = $1`
	return scanAccountRequest(r.db.QueryRow(ctx, query, id))
}

// ExistsPendingByEmail checks for a pending request with this email
func (r *AccountRequestRepository) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM account_requests
			WHERE LOWER(email) = LOWER($1) AND status = 'pending'
		)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking pending request: %w", err)
	}
	return exists, nil
}

// List retrieves account requests with an optional status filter and
// pagination, joined with department and reviewer names
func (r *AccountRequestRepository) List(ctx context.Context, status string, page, size int) ([]*models.AccountRequest, int64, error) {
	countSelect := r.sb.Select("COUNT(*)").From("account_requests ar")
	baseSelect := r.sb.Select(
		`ar.id, ar.full_name, ar.email, ar.student_id, ar.password, ar.phone, ar.address,
			ar.department_id, ar.university_card_url, ar.request_date, ar.status,
			ar.reviewed_by, ar.reviewed_at, ar.rejection_reason, ar.approved_user_id,
			ar.created_at, ar.updated_at, d.name, u.full_name`).
		From("account_requests ar").
		LeftJoin("departments d ON d.id = ar.department_id").
		LeftJoin("users u ON u.id = ar.reviewed_by")

	if status != "" {
		countSelect = countSelect.Where(squirrel.Eq{"ar.status": status})
		baseSelect = baseSelect.Where(squirrel.Eq{"ar.status": status})
	}

	countSQL, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}
	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting account requests: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	listSQL, listArgs, err := baseSelect.
		OrderBy("ar.request_date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing account requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.AccountRequest
	for rows.Next() {
		var req models.AccountRequest
		if err := rows.Scan(
			&req.ID, &req.FullName, &req.Email, &req.StudentID, &req.Password,
			&req.Phone, &req.Address, &req.DepartmentID, &req.UniversityCardURL,
			&req.RequestDate, &req.Status, &req.ReviewedBy, &req.ReviewedAt,
			&req.RejectionReason, &req.ApprovedUserID, &req.CreatedAt, &req.UpdatedAt,
			&req.DepartmentName, &req.ReviewerName,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning account request row: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, totalItems, nil
}

// MarkApproved stamps a pending request approved, recording the reviewer and
// the created user. Requests reviewed in the meantime are not touched.
func (r *AccountRequestRepository) MarkApproved(ctx context.Context, id, reviewerID, approvedUserID string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE account_requests
		SET status = 'approved', reviewed_by = $1, reviewed_at = $2,
			approved_user_id = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'pending'`,
		reviewerID, time.Now(), approvedUserID, id)
	if err != nil {
		return fmt.Errorf("error approving account request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestAlreadyReviewed
	}
	return nil
}

// MarkRejected stamps a pending request rejected with the reviewer and reason
func (r *AccountRequestRepository) MarkRejected(ctx context.Context, id, reviewerID, reason string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE account_requests
		SET status = 'rejected', reviewed_by = $1, reviewed_at = $2,
			rejection_reason = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'pending'`,
		reviewerID, time.Now(), reason, id)
	if err != nil {
		return fmt.Errorf("error rejecting account request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestAlreadyReviewed
	}
	return nil
}
