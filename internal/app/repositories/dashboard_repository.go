package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sculib/library/internal/app/models/dto"
)

// DashboardRepository aggregates counts for the admin dashboard
type DashboardRepository struct {
	db *pgxpool.Pool
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{
		db: db,
	}
}

// GetStats collects dashboard totals in one round trip
func (r *DashboardRepository) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_deleted = FALSE),
			(SELECT COUNT(*) FROM users WHERE is_deleted = FALSE AND account_status = 'active'),
			(SELECT COUNT(*) FROM books WHERE is_deleted = FALSE),
			(SELECT COALESCE(SUM(total_copies), 0) FROM books WHERE is_deleted = FALSE),
			(SELECT COALESCE(SUM(available_copies), 0) FROM books WHERE is_deleted = FALSE),
			(SELECT COUNT(*) FROM book_copies WHERE status = 'borrowed' AND is_deleted = FALSE),
			(SELECT COUNT(*) FROM borrow_requests WHERE status IN ('approved', 'overdue') AND return_date IS NULL),
			(SELECT COUNT(*) FROM borrow_requests WHERE status = 'overdue' AND return_date IS NULL),
			(SELECT COUNT(*) FROM reservations WHERE status = 'active'),
			(SELECT COALESCE(SUM(amount), 0) FROM fines WHERE status = 'unpaid'),
			(SELECT COUNT(*) FROM account_requests WHERE status = 'pending')
	`

	var stats dto.DashboardStatsResponse
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.TotalBooks,
		&stats.TotalCopies,
		&stats.AvailableCopies,
		&stats.BorrowedCopies,
		&stats.ActiveBorrows,
		&stats.OverdueBorrows,
		&stats.ActiveReservations,
		&stats.UnpaidFineTotal,
		&stats.PendingAccountRequests,
	)
	if err != nil {
		return nil, fmt.Errorf("error collecting dashboard stats: %w", err)
	}

	return &stats, nil
}
