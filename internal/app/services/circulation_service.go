package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/logger"
)

// DefaultMaxRenewals is how many times a loan may be renewed unless the
// record says otherwise
const DefaultMaxRenewals = 2

// borrowStore is the slice of the borrow repository this service needs
type borrowStore interface {
	BorrowCopy(ctx context.Context, userID, bookID string, librarianID *string, dueDate time.Time, maxRenewals int) (*models.BorrowRequest, error)
	ReturnCopy(ctx context.Context, borrowID string, condition models.ConditionRating, notes *string) (*models.BorrowRequest, error)
	GetByID(ctx context.Context, id string) (*models.BorrowRequest, error)
	Renew(ctx context.Context, id string, newDueDate time.Time) (*models.BorrowRequest, error)
	CountActiveByUser(ctx context.Context, userID string) (int, error)
	HasActiveBorrowForBook(ctx context.Context, userID, bookID string) (bool, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*models.BorrowDetail, error)
	List(ctx context.Context, status string, page, size int) ([]*models.BorrowDetail, int64, error)
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error)
}

// borrowerStore is the slice of the user repository this service needs
type borrowerStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CirculationService handles borrowing, returning and renewing book copies
type CirculationService struct {
	borrowRepo borrowStore
	userRepo   borrowerStore
	policy     config.CirculationConfig
}

// NewCirculationService creates a new circulation service instance
func NewCirculationService(borrowRepo borrowStore, userRepo borrowerStore, policy config.CirculationConfig) *CirculationService {
	return &CirculationService{
		borrowRepo: borrowRepo,
		userRepo:   userRepo,
		policy:     policy,
	}
}

// Borrow checks a copy of a book out to a user. Account state, the per-user
// loan limit and double-borrowing are checked here; copy availability is
// checked by the store under a row lock so a concurrent checkout cannot push
// availability below zero.
func (s *CirculationService) Borrow(ctx context.Context, userID, bookID string, librarianID *string) (*models.BorrowRequest, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanBorrow() {
		return nil, apperrors.ErrAccountDisabled
	}

	active, err := s.borrowRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active >= user.MaxBooksAllowed {
		return nil, apperrors.ErrBorrowLimitReached
	}

	holding, err := s.borrowRepo.HasActiveBorrowForBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if holding {
		return nil, apperrors.ErrAlreadyBorrowed
	}

	loanDays := user.MaxDaysAllowed
	if loanDays <= 0 {
		loanDays = s.policy.DefaultLoanPeriodDays
	}
	dueDate := time.Now().AddDate(0, 0, loanDays)

	borrow, err := s.borrowRepo.BorrowCopy(ctx, userID, bookID, librarianID, dueDate, DefaultMaxRenewals)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("borrowID", borrow.ID).
		Str("userID", userID).
		Str("bookID", bookID).
		Time("dueDate", dueDate).
		Msg("Book borrowed")
	return borrow, nil
}

// Return closes out a loan and puts the copy back in circulation
func (s *CirculationService) Return(ctx context.Context, borrowID string, condition models.ConditionRating, notes *string) (*models.BorrowRequest, error) {
	borrow, err := s.borrowRepo.ReturnCopy(ctx, borrowID, condition, notes)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("borrowID", borrowID).Msg("Book returned")
	return borrow, nil
}

// Renew restarts a loan's clock: the new due date is the configured
// extension counted from the renewal itself, not from the old due date.
// Returned loans and loans at their renewal cap are rejected; an overdue
// loan that still has renewals left goes back to the approved status.
func (s *CirculationService) Renew(ctx context.Context, borrowID, userID string, isStaff bool) (*models.BorrowRequest, error) {
	borrow, err := s.borrowRepo.GetByID(ctx, borrowID)
	if err != nil {
		return nil, err
	}
	if !isStaff && borrow.UserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	if borrow.ReturnDate != nil || borrow.Status == models.BorrowReturned {
		return nil, apperrors.ErrAlreadyReturned
	}
	if !borrow.CanRenew() {
		return nil, apperrors.ErrRenewalLimitReached
	}

	newDue := time.Now().AddDate(0, 0, s.policy.RenewalExtensionDays)

	renewed, err := s.borrowRepo.Renew(ctx, borrowID, newDue)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("borrowID", borrowID).
		Int("renewalCount", renewed.RenewalCount).
		Time("dueDate", newDue).
		Msg("Loan renewed")
	return renewed, nil
}

// MyBorrows retrieves the caller's loans, active only or full history
func (s *CirculationService) MyBorrows(ctx context.Context, userID string, activeOnly bool) ([]*models.BorrowDetail, error) {
	return s.borrowRepo.ListByUser(ctx, userID, activeOnly)
}

// ListBorrows retrieves loans for staff, optionally filtered by status
func (s *CirculationService) ListBorrows(ctx context.Context, status string, page, size int) ([]*models.BorrowDetail, int64, error) {
	if status != "" && !validBorrowStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown borrow status %q", apperrors.ErrBadRequest, status)
	}
	return s.borrowRepo.List(ctx, status, page, size)
}

// ListOverdue retrieves every loan currently past due
func (s *CirculationService) ListOverdue(ctx context.Context) ([]*models.BorrowDetail, error) {
	return s.borrowRepo.ListOverdueCandidates(ctx, time.Now())
}

func validBorrowStatus(status string) bool {
	switch models.BorrowStatus(status) {
	case models.BorrowPending, models.BorrowApproved, models.BorrowRejected,
		models.BorrowReturned, models.BorrowOverdue, models.BorrowLost:
		return true
	}
	return false
}
