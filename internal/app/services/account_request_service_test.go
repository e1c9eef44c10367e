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

type fakeAccountRequestStore struct {
	getByIDFn func(ctx context.Context, id string) (*models.AccountRequest, error)
	approved  []string
	rejected  []string
}

func (f *fakeAccountRequestStore) GetByID(ctx context.Context, id string) (*models.AccountRequest, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeAccountRequestStore) List(ctx context.Context, status string, page, size int) ([]*models.AccountRequest, int64, error) {
	return nil, 0, nil
}

func (f *fakeAccountRequestStore) MarkApproved(ctx context.Context, id, reviewerID, approvedUserID string) error {
	f.approved = append(f.approved, id)
	return nil
}

func (f *fakeAccountRequestStore) MarkRejected(ctx context.Context, id, reviewerID, reason string) error {
	f.rejected = append(f.rejected, id)
	return nil
}

func pendingRequest(id string) *models.AccountRequest {
	studentID := "S2024042"
	return &models.AccountRequest{
		ID:          id,
		FullName:    "John Smith",
		Email:       "john.smith@sculib.edu",
		StudentID:   &studentID,
		Password:    "$2a$10$hashedhashedhashedhashedhashed",
		Status:      models.RequestPending,
		RequestDate: time.Now().AddDate(0, 0, -1),
	}
}

func TestAccountRequestService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active student account with policy defaults", func(t *testing.T) {
		requests := &fakeAccountRequestStore{getByIDFn: func(ctx context.Context, id string) (*models.AccountRequest, error) {
			return pendingRequest(id), nil
		}}
		users := &fakeUserStore{}
		emails := &fakeEmailService{}
		svc := NewAccountRequestService(requests, users, emails, testPolicy())

		user, err := svc.Approve(ctx, "req-1", "admin-1")
		require.NoError(t, err)

		assert.Equal(t, models.RoleStudent, user.Role)
		assert.Equal(t, models.AccountActive, user.AccountStatus)
		assert.Equal(t, 5, user.MaxBooksAllowed)
		assert.Equal(t, 14, user.MaxDaysAllowed)
		assert.Equal(t, "john.smith@sculib.edu", user.Email)
		require.NotNil(t, user.StudentID)
		assert.Equal(t, "S2024042", *user.StudentID)
		assert.NotNil(t, user.EnrollmentDate)

		require.Len(t, users.created, 1)
		assert.Equal(t, []string{"req-1"}, requests.approved)
		assert.Equal(t, []string{"john.smith@sculib.edu"}, emails.approved)
	})

	t.Run("already-reviewed request cannot be approved again", func(t *testing.T) {
		requests := &fakeAccountRequestStore{getByIDFn: func(ctx context.Context, id string) (*models.AccountRequest, error) {
			request := pendingRequest(id)
			request.Status = models.RequestApproved
			return request, nil
		}}
		svc := NewAccountRequestService(requests, &fakeUserStore{}, &fakeEmailService{}, testPolicy())

		_, err := svc.Approve(ctx, "req-1", "admin-1")
		assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyReviewed)
		assert.Empty(t, requests.approved)
	})

	t.Run("email taken by an existing account blocks approval", func(t *testing.T) {
		requests := &fakeAccountRequestStore{getByIDFn: func(ctx context.Context, id string) (*models.AccountRequest, error) {
			return pendingRequest(id), nil
		}}
		users := &fakeUserStore{existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		}}
		svc := NewAccountRequestService(requests, users, &fakeEmailService{}, testPolicy())

		_, err := svc.Approve(ctx, "req-1", "admin-1")
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
		assert.Empty(t, users.created)
	})
}

func TestAccountRequestService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the rejection and emails the applicant", func(t *testing.T) {
		requests := &fakeAccountRequestStore{getByIDFn: func(ctx context.Context, id string) (*models.AccountRequest, error) {
			return pendingRequest(id), nil
		}}
		emails := &fakeEmailService{}
		svc := NewAccountRequestService(requests, &fakeUserStore{}, emails, testPolicy())

		err := svc.Reject(ctx, "req-1", "admin-1", "card could not be verified")
		require.NoError(t, err)
		assert.Equal(t, []string{"req-1"}, requests.rejected)
		assert.Equal(t, []string{"john.smith@sculib.edu"}, emails.rejected)
	})

	t.Run("already-reviewed request cannot be rejected again", func(t *testing.T) {
		requests := &fakeAccountRequestStore{getByIDFn: func(ctx context.Context, id string) (*models.AccountRequest, error) {
			request := pendingRequest(id)
			request.Status = models.RequestRejected
			return request, nil
		}}
		svc := NewAccountRequestService(requests, &fakeUserStore{}, &fakeEmailService{}, testPolicy())

		err := svc.Reject(ctx, "req-1", "admin-1", "duplicate")
		assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyReviewed)
	})
}
