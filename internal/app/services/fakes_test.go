package services

import (
	"context"
	"time"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/config"
)

// testPolicy mirrors the default lending policy.
func testPolicy() config.CirculationConfig {
	return config.CirculationConfig{
		RenewalExtensionDays:   14,
		FineRatePerDay:         1.00,
		FinePaymentDays:        30,
		ReservationHoldDays:    7,
		ReservationPickupDays:  3,
		DueReminderLeadDays:    2,
		DefaultMaxBooksAllowed: 5,
		DefaultLoanPeriodDays:  14,
	}
}

// fakeBorrowStore is a function-field stand-in for the borrow repository.
// Unset fields return zero values so each test only wires what it exercises.
type fakeBorrowStore struct {
	borrowCopyFn            func(ctx context.Context, userID, bookID string, librarianID *string, dueDate time.Time, maxRenewals int) (*models.BorrowRequest, error)
	returnCopyFn            func(ctx context.Context, borrowID string, condition models.ConditionRating, notes *string) (*models.BorrowRequest, error)
	getByIDFn               func(ctx context.Context, id string) (*models.BorrowRequest, error)
	renewFn                 func(ctx context.Context, id string, newDueDate time.Time) (*models.BorrowRequest, error)
	countActiveByUserFn     func(ctx context.Context, userID string) (int, error)
	hasActiveForBookFn      func(ctx context.Context, userID, bookID string) (bool, error)
	listByUserFn            func(ctx context.Context, userID string, activeOnly bool) ([]*models.BorrowDetail, error)
	listFn                  func(ctx context.Context, status string, page, size int) ([]*models.BorrowDetail, int64, error)
	listOverdueCandidatesFn func(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error)
	listDueSoonFn           func(ctx context.Context, from, to time.Time) ([]*models.BorrowDetail, error)
	markOverdueFn           func(ctx context.Context, id string) error
}

func (f *fakeBorrowStore) BorrowCopy(ctx context.Context, userID, bookID string, librarianID *string, dueDate time.Time, maxRenewals int) (*models.BorrowRequest, error) {
	if f.borrowCopyFn != nil {
		return f.borrowCopyFn(ctx, userID, bookID, librarianID, dueDate, maxRenewals)
	}
	return &models.BorrowRequest{ID: "borrow-1", UserID: userID, DueDate: &dueDate, Status: models.BorrowApproved, MaxRenewals: maxRenewals}, nil
}

func (f *fakeBorrowStore) ReturnCopy(ctx context.Context, borrowID string, condition models.ConditionRating, notes *string) (*models.BorrowRequest, error) {
	if f.returnCopyFn != nil {
		return f.returnCopyFn(ctx, borrowID, condition, notes)
	}
	now := time.Now()
	return &models.BorrowRequest{ID: borrowID, Status: models.BorrowReturned, ReturnDate: &now}, nil
}

func (f *fakeBorrowStore) GetByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeBorrowStore) Renew(ctx context.Context, id string, newDueDate time.Time) (*models.BorrowRequest, error) {
	if f.renewFn != nil {
		return f.renewFn(ctx, id, newDueDate)
	}
	return &models.BorrowRequest{ID: id, DueDate: &newDueDate, RenewalCount: 1, Status: models.BorrowApproved}, nil
}

func (f *fakeBorrowStore) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	if f.countActiveByUserFn != nil {
		return f.countActiveByUserFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeBorrowStore) HasActiveBorrowForBook(ctx context.Context, userID, bookID string) (bool, error) {
	if f.hasActiveForBookFn != nil {
		return f.hasActiveForBookFn(ctx, userID, bookID)
	}
	return false, nil
}

func (f *fakeBorrowStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*models.BorrowDetail, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID, activeOnly)
	}
	return nil, nil
}

func (f *fakeBorrowStore) List(ctx context.Context, status string, page, size int) ([]*models.BorrowDetail, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, status, page, size)
	}
	return nil, 0, nil
}

func (f *fakeBorrowStore) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error) {
	if f.listOverdueCandidatesFn != nil {
		return f.listOverdueCandidatesFn(ctx, asOf)
	}
	return nil, nil
}

func (f *fakeBorrowStore) ListDueSoon(ctx context.Context, from, to time.Time) ([]*models.BorrowDetail, error) {
	if f.listDueSoonFn != nil {
		return f.listDueSoonFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeBorrowStore) MarkOverdue(ctx context.Context, id string) error {
	if f.markOverdueFn != nil {
		return f.markOverdueFn(ctx, id)
	}
	return nil
}

// fakeUserStore serves both the borrower lookup and the member-creation
// interfaces.
type fakeUserStore struct {
	getByIDFn       func(ctx context.Context, id string) (*models.User, error)
	createFn        func(ctx context.Context, user *models.User) error
	existsByEmailFn func(ctx context.Context, email string) (bool, error)
	created         []*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.created = append(f.created, user)
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsByEmailFn != nil {
		return f.existsByEmailFn(ctx, email)
	}
	return false, nil
}

// fakeNotificationWriter collects notification rows instead of inserting them.
type fakeNotificationWriter struct {
	createErr error
	saved     []*models.Notification
}

func (f *fakeNotificationWriter) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.saved = append(f.saved, n)
	return nil
}

// fakeEmailService records outgoing mail per template.
type fakeEmailService struct {
	sendErr      error
	dueReminders []string
	overdue      []string
	ready        []string
	approved     []string
	rejected     []string
}

func (f *fakeEmailService) SendDueReminder(toEmail, toName, bookTitle string, dueDate time.Time) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.dueReminders = append(f.dueReminders, toEmail)
	return nil
}

func (f *fakeEmailService) SendOverdueNotice(toEmail, toName, bookTitle string, daysOverdue int, fineAmount float64) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.overdue = append(f.overdue, toEmail)
	return nil
}

func (f *fakeEmailService) SendReservationReady(toEmail, toName, bookTitle string, pickupBy time.Time) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.ready = append(f.ready, toEmail)
	return nil
}

func (f *fakeEmailService) SendAccountApproved(toEmail, toName string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.approved = append(f.approved, toEmail)
	return nil
}

func (f *fakeEmailService) SendAccountRejected(toEmail, toName, reason string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.rejected = append(f.rejected, toEmail)
	return nil
}
