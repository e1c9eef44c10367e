package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
)

type fakeFineLedger struct {
	listByUserFn func(ctx context.Context, userID, status string) ([]*models.Fine, error)
	listFn       func(ctx context.Context, status string, page, size int) ([]*models.Fine, int64, error)
	payFn        func(ctx context.Context, id string, method models.PaymentMethod) (*models.Fine, error)
	waiveFn      func(ctx context.Context, id, waivedBy, reason string) (*models.Fine, error)
}

func (f *fakeFineLedger) ListByUser(ctx context.Context, userID, status string) ([]*models.Fine, error) {
	return f.listByUserFn(ctx, userID, status)
}

func (f *fakeFineLedger) List(ctx context.Context, status string, page, size int) ([]*models.Fine, int64, error) {
	return f.listFn(ctx, status, page, size)
}

func (f *fakeFineLedger) Pay(ctx context.Context, id string, method models.PaymentMethod) (*models.Fine, error) {
	return f.payFn(ctx, id, method)
}

func (f *fakeFineLedger) Waive(ctx context.Context, id, waivedBy, reason string) (*models.Fine, error) {
	return f.waiveFn(ctx, id, waivedBy, reason)
}

func TestFineService_ListMine(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the status filter through to the store", func(t *testing.T) {
		var gotUserID, gotStatus string
		ledger := &fakeFineLedger{
			listByUserFn: func(ctx context.Context, userID, status string) ([]*models.Fine, error) {
				gotUserID, gotStatus = userID, status
				return []*models.Fine{{ID: "fine-1", Status: models.FineUnpaid}}, nil
			},
		}
		svc := NewFineService(ledger)

		fines, err := svc.ListMine(ctx, "user-1", "unpaid")
		require.NoError(t, err)
		assert.Len(t, fines, 1)
		assert.Equal(t, "user-1", gotUserID)
		assert.Equal(t, "unpaid", gotStatus)
	})

	t.Run("unknown status is rejected before the store", func(t *testing.T) {
		svc := NewFineService(&fakeFineLedger{})

		_, err := svc.ListMine(ctx, "user-1", "bogus")
		assert.Error(t, err)
	})
}

func TestFineService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the status filter through to the store", func(t *testing.T) {
		var gotStatus string
		ledger := &fakeFineLedger{
			listFn: func(ctx context.Context, status string, page, size int) ([]*models.Fine, int64, error) {
				gotStatus = status
				return nil, 0, nil
			},
		}
		svc := NewFineService(ledger)

		_, _, err := svc.List(ctx, "paid", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, "paid", gotStatus)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc := NewFineService(&fakeFineLedger{})

		_, _, err := svc.List(ctx, "overdue-ish", 1, 20)
		assert.Error(t, err)
	})
}

func TestFineService_PayAndWaive(t *testing.T) {
	ctx := context.Background()

	ledger := &fakeFineLedger{
		payFn: func(ctx context.Context, id string, method models.PaymentMethod) (*models.Fine, error) {
			return &models.Fine{ID: id, Status: models.FinePaid, Amount: 4}, nil
		},
		waiveFn: func(ctx context.Context, id, waivedBy, reason string) (*models.Fine, error) {
			return nil, apperrors.ErrFineSettled
		},
	}
	svc := NewFineService(ledger)

	fine, err := svc.Pay(ctx, "fine-1", models.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, models.FinePaid, fine.Status)

	_, err = svc.Waive(ctx, "fine-1", "admin-1", "desk error")
	assert.ErrorIs(t, err, apperrors.ErrFineSettled)
}
