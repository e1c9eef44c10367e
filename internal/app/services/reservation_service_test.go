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

type fakeReservationStore struct {
	createFn           func(ctx context.Context, userID, bookID string, expiry time.Time) (*models.Reservation, error)
	getByIDFn          func(ctx context.Context, id string) (*models.Reservation, error)
	deactivateFn       func(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error)
	getQueueHeadFn     func(ctx context.Context, bookID string) (*models.ReservationDetail, error)
	markNotifiedFn     func(ctx context.Context, id string, newExpiry time.Time) error
	listByUserFn       func(ctx context.Context, userID string) ([]*models.ReservationDetail, error)
	listActiveByBookFn func(ctx context.Context, bookID string) ([]*models.ReservationDetail, error)
	listExpiredFn      func(ctx context.Context, asOf time.Time) ([]*models.ReservationDetail, error)
}

func (f *fakeReservationStore) Create(ctx context.Context, userID, bookID string, expiry time.Time) (*models.Reservation, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, bookID, expiry)
	}
	return &models.Reservation{ID: "res-1", UserID: userID, BookID: bookID, ExpiryDate: &expiry, QueuePosition: 1, Status: models.ReservationActive}, nil
}

func (f *fakeReservationStore) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeReservationStore) Deactivate(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, id, status)
	}
	return &models.Reservation{ID: id, Status: status}, nil
}

func (f *fakeReservationStore) GetQueueHead(ctx context.Context, bookID string) (*models.ReservationDetail, error) {
	return f.getQueueHeadFn(ctx, bookID)
}

func (f *fakeReservationStore) MarkNotified(ctx context.Context, id string, newExpiry time.Time) error {
	if f.markNotifiedFn != nil {
		return f.markNotifiedFn(ctx, id, newExpiry)
	}
	return nil
}

func (f *fakeReservationStore) ListByUser(ctx context.Context, userID string) ([]*models.ReservationDetail, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeReservationStore) ListActiveByBook(ctx context.Context, bookID string) ([]*models.ReservationDetail, error) {
	if f.listActiveByBookFn != nil {
		return f.listActiveByBookFn(ctx, bookID)
	}
	return nil, nil
}

func (f *fakeReservationStore) ListExpired(ctx context.Context, asOf time.Time) ([]*models.ReservationDetail, error) {
	if f.listExpiredFn != nil {
		return f.listExpiredFn(ctx, asOf)
	}
	return nil, nil
}

type fakeBookStore struct {
	getByIDFn func(ctx context.Context, id string) (*models.Book, error)
}

func (f *fakeBookStore) GetByID(ctx context.Context, id string) (*models.Book, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return &models.Book{ID: id, Title: "The Go Programming Language"}, nil
}

func TestReservationService_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("queues with the configured hold window", func(t *testing.T) {
		var gotExpiry time.Time
		reservations := &fakeReservationStore{
			createFn: func(ctx context.Context, userID, bookID string, expiry time.Time) (*models.Reservation, error) {
				gotExpiry = expiry
				return &models.Reservation{ID: "res-1", QueuePosition: 3, Status: models.ReservationActive}, nil
			},
		}
		svc := NewReservationService(reservations, &fakeBookStore{}, &fakeBorrowStore{}, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		reservation, err := svc.Reserve(ctx, "user-1", "book-1")
		require.NoError(t, err)
		assert.Equal(t, 3, reservation.QueuePosition)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), gotExpiry, time.Minute)
	})

	t.Run("holder of the book cannot also queue for it", func(t *testing.T) {
		borrows := &fakeBorrowStore{hasActiveForBookFn: func(ctx context.Context, userID, bookID string) (bool, error) {
			return true, nil
		}}
		svc := NewReservationService(&fakeReservationStore{}, &fakeBookStore{}, borrows, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		_, err := svc.Reserve(ctx, "user-1", "book-1")
		assert.ErrorIs(t, err, apperrors.ErrAlreadyBorrowed)
	})

	t.Run("unknown book is rejected before touching the queue", func(t *testing.T) {
		books := &fakeBookStore{getByIDFn: func(ctx context.Context, id string) (*models.Book, error) {
			return nil, apperrors.ErrBookNotFound
		}}
		svc := NewReservationService(&fakeReservationStore{}, books, &fakeBorrowStore{}, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		_, err := svc.Reserve(ctx, "user-1", "missing")
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()
	reservations := &fakeReservationStore{
		getByIDFn: func(ctx context.Context, id string) (*models.Reservation, error) {
			return &models.Reservation{ID: id, UserID: "user-1", Status: models.ReservationActive}, nil
		},
	}
	svc := NewReservationService(reservations, &fakeBookStore{}, &fakeBorrowStore{}, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

	t.Run("owner can cancel", func(t *testing.T) {
		cancelled, err := svc.Cancel(ctx, "res-1", "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationCancelled, cancelled.Status)
	})

	t.Run("other members cannot, staff can", func(t *testing.T) {
		_, err := svc.Cancel(ctx, "res-1", "user-2", false)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		_, err = svc.Cancel(ctx, "res-1", "librarian-1", true)
		assert.NoError(t, err)
	})
}

func TestReservationService_NotifyNext(t *testing.T) {
	ctx := context.Background()

	head := &models.ReservationDetail{
		Reservation: models.Reservation{ID: "res-1", UserID: "user-1", BookID: "book-1", QueuePosition: 1, Status: models.ReservationActive},
		UserName:    "Jane Doe",
		UserEmail:   "jane.doe@sculib.edu",
		BookTitle:   "The Go Programming Language",
	}

	t.Run("starts the pickup window and records the notification", func(t *testing.T) {
		var gotExpiry time.Time
		reservations := &fakeReservationStore{
			getQueueHeadFn: func(ctx context.Context, bookID string) (*models.ReservationDetail, error) {
				copied := *head
				return &copied, nil
			},
			markNotifiedFn: func(ctx context.Context, id string, newExpiry time.Time) error {
				gotExpiry = newExpiry
				return nil
			},
		}
		emails := &fakeEmailService{}
		notifications := &fakeNotificationWriter{}
		svc := NewReservationService(reservations, &fakeBookStore{}, &fakeBorrowStore{}, notifications, emails, testPolicy())

		notified, err := svc.NotifyNext(ctx, "book-1")
		require.NoError(t, err)
		assert.True(t, notified.NotificationSent)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 3), gotExpiry, time.Minute)
		assert.Equal(t, []string{"jane.doe@sculib.edu"}, emails.ready)
		require.Len(t, notifications.saved, 1)
		assert.Equal(t, models.NotificationReservationReady, notifications.saved[0].Type)
		assert.Equal(t, "user-1", notifications.saved[0].UserID)
	})

	t.Run("empty queue surfaces the store error", func(t *testing.T) {
		reservations := &fakeReservationStore{
			getQueueHeadFn: func(ctx context.Context, bookID string) (*models.ReservationDetail, error) {
				return nil, apperrors.ErrQueueEmpty
			},
		}
		svc := NewReservationService(reservations, &fakeBookStore{}, &fakeBorrowStore{}, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

		_, err := svc.NotifyNext(ctx, "book-1")
		assert.ErrorIs(t, err, apperrors.ErrQueueEmpty)
	})
}

func TestReservationService_ExpireOverdue(t *testing.T) {
	ctx := context.Background()

	stale := []*models.ReservationDetail{
		{Reservation: models.Reservation{ID: "res-1", Status: models.ReservationActive}},
		{Reservation: models.Reservation{ID: "res-2", Status: models.ReservationActive}},
	}
	var expired []string
	reservations := &fakeReservationStore{
		listExpiredFn: func(ctx context.Context, asOf time.Time) ([]*models.ReservationDetail, error) {
			return stale, nil
		},
		deactivateFn: func(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
			expired = append(expired, id)
			return &models.Reservation{ID: id, Status: status}, nil
		},
	}
	svc := NewReservationService(reservations, &fakeBookStore{}, &fakeBorrowStore{}, &fakeNotificationWriter{}, &fakeEmailService{}, testPolicy())

	count, err := svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"res-1", "res-2"}, expired)
}
