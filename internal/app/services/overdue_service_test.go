package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
)

type fakeFineStore struct {
	fines   map[string]*models.Fine // keyed by borrow request ID
	updated []string
}

func (f *fakeFineStore) Create(ctx context.Context, fine *models.Fine) error {
	if f.fines == nil {
		f.fines = make(map[string]*models.Fine)
	}
	f.fines[*fine.BorrowRequestID] = fine
	return nil
}

func (f *fakeFineStore) GetUnpaidByBorrowID(ctx context.Context, borrowID string) (*models.Fine, error) {
	if fine, ok := f.fines[borrowID]; ok && fine.Status == models.FineUnpaid {
		return fine, nil
	}
	return nil, apperrors.ErrFineNotFound
}

func (f *fakeFineStore) UpdateAmount(ctx context.Context, id string, amount float64, daysOverdue int) error {
	for _, fine := range f.fines {
		if fine.ID == id {
			fine.Amount = amount
			fine.DaysOverdue = &daysOverdue
		}
	}
	f.updated = append(f.updated, id)
	return nil
}

func overdueLoan(id string, dueDaysAgo int, status models.BorrowStatus) *models.BorrowDetail {
	due := time.Now().AddDate(0, 0, -dueDaysAgo)
	return &models.BorrowDetail{
		BorrowRequest: models.BorrowRequest{ID: id, UserID: "user-1", DueDate: &due, Status: status},
		UserName:      "Jane Doe",
		UserEmail:     "jane.doe@sculib.edu",
		BookTitle:     "The Go Programming Language",
	}
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"not yet due", due.Add(-time.Hour), 0},
		{"exactly due", due, 0},
		{"partial day rounds up", due.Add(6 * time.Hour), 1},
		{"one full day", due.Add(24 * time.Hour), 1},
		{"just past one day rounds up", due.Add(25 * time.Hour), 2},
		{"a week late", due.AddDate(0, 0, 7), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysOverdue(due, tt.asOf))
		})
	}
}

func TestOverdueService_ProcessOverdue(t *testing.T) {
	ctx := context.Background()

	t.Run("flags loans and issues fines at the daily rate", func(t *testing.T) {
		var marked []string
		borrows := &fakeBorrowStore{
			listOverdueCandidatesFn: func(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error) {
				return []*models.BorrowDetail{
					overdueLoan("borrow-1", 3, models.BorrowApproved),
					overdueLoan("borrow-2", 10, models.BorrowOverdue),
				}, nil
			},
			markOverdueFn: func(ctx context.Context, id string) error {
				marked = append(marked, id)
				return nil
			},
		}
		fines := &fakeFineStore{}
		svc := NewOverdueService(borrows, fines, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		result, err := svc.ProcessOverdue(ctx)
		require.NoError(t, err)

		// Only the approved loan needs its status flipped.
		assert.Equal(t, []string{"borrow-1"}, marked)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 2, result.FinesIssued)
		assert.InDelta(t, 13.0, result.TotalFined, 0.001)

		fine := fines.fines["borrow-2"]
		require.NotNil(t, fine)
		assert.Equal(t, models.FineOverdue, fine.FineType)
		assert.Equal(t, models.FineUnpaid, fine.Status)
		assert.InDelta(t, 10.0, fine.Amount, 0.001)
		require.NotNil(t, fine.DaysOverdue)
		assert.Equal(t, 10, *fine.DaysOverdue)
		require.NotNil(t, fine.DueDate)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *fine.DueDate, time.Minute)
	})

	t.Run("second run refreshes the unpaid fine instead of duplicating it", func(t *testing.T) {
		borrows := &fakeBorrowStore{
			listOverdueCandidatesFn: func(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error) {
				return []*models.BorrowDetail{overdueLoan("borrow-1", 4, models.BorrowOverdue)}, nil
			},
		}
		fines := &fakeFineStore{}
		svc := NewOverdueService(borrows, fines, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		first, err := svc.ProcessOverdue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, first.FinesIssued)

		second, err := svc.ProcessOverdue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, second.FinesIssued)
		assert.Len(t, fines.fines, 1)
		// Same day count, same amount, so no write either.
		assert.Empty(t, fines.updated)
	})

	t.Run("grown fine amount is written through", func(t *testing.T) {
		fines := &fakeFineStore{}
		three := 3
		fines.fines = map[string]*models.Fine{
			"borrow-1": {ID: "fine-1", BorrowRequestID: strPtr("borrow-1"), Amount: 3.0, DaysOverdue: &three, Status: models.FineUnpaid},
		}
		borrows := &fakeBorrowStore{
			listOverdueCandidatesFn: func(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error) {
				return []*models.BorrowDetail{overdueLoan("borrow-1", 5, models.BorrowOverdue)}, nil
			},
		}
		svc := NewOverdueService(borrows, fines, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		result, err := svc.ProcessOverdue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.FinesIssued)
		assert.Equal(t, []string{"fine-1"}, fines.updated)
		assert.InDelta(t, 5.0, fines.fines["borrow-1"].Amount, 0.001)
	})
}

func TestOverdueService_SendReminders(t *testing.T) {
	ctx := context.Background()

	dueSoon := overdueLoan("borrow-1", 0, models.BorrowApproved)
	soon := time.Now().AddDate(0, 0, 1)
	dueSoon.DueDate = &soon

	borrows := &fakeBorrowStore{
		listDueSoonFn: func(ctx context.Context, from, to time.Time) ([]*models.BorrowDetail, error) {
			return []*models.BorrowDetail{dueSoon}, nil
		},
		listOverdueCandidatesFn: func(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error) {
			return []*models.BorrowDetail{overdueLoan("borrow-2", 6, models.BorrowOverdue)}, nil
		},
	}
	emails := &fakeEmailService{}
	notifications := &fakeNotificationWriter{}
	svc := NewOverdueService(borrows, &fakeFineStore{}, notifications, emails, testPolicy())

	result, err := svc.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DueSoon)
	assert.Equal(t, 1, result.Overdue)
	assert.Len(t, emails.dueReminders, 1)
	assert.Len(t, emails.overdue, 1)

	require.Len(t, notifications.saved, 2)
	assert.Equal(t, models.NotificationDueReminder, notifications.saved[0].Type)
	assert.Equal(t, models.NotificationOverdueNotice, notifications.saved[1].Type)
}

func strPtr(s string) *string { return &s }
