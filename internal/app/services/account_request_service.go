package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/email"
	"github.com/sculib/library/internal/pkg/logger"
)

// accountRequestStore is the slice of the account request repository this
// service needs
type accountRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.AccountRequest, error)
	List(ctx context.Context, status string, page, size int) ([]*models.AccountRequest, int64, error)
	MarkApproved(ctx context.Context, id, reviewerID, approvedUserID string) error
	MarkRejected(ctx context.Context, id, reviewerID, reason string) error
}

// memberStore is the slice of the user repository this service needs
type memberStore interface {
	Create(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AccountRequestService handles admin review of account applications
type AccountRequestService struct {
	requestRepo accountRequestStore
	userRepo    memberStore
	emailSvc    email.EmailService
	policy      config.CirculationConfig
}

// NewAccountRequestService creates a new account request service instance
func NewAccountRequestService(requestRepo accountRequestStore, userRepo memberStore, emailSvc email.EmailService, policy config.CirculationConfig) *AccountRequestService {
	return &AccountRequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		policy:      policy,
	}
}

// List retrieves account requests, optionally by status
func (s *AccountRequestService) List(ctx context.Context, status string, page, size int) ([]*models.AccountRequest, int64, error) {
	return s.requestRepo.List(ctx, status, page, size)
}

// Approve turns a pending request into a member account. The new user gets
// the student role and the default borrowing limits; the request is stamped
// with reviewer, time and created user, and a second review attempt fails.
func (s *AccountRequestService) Approve(ctx context.Context, requestID, reviewerID string) (*models.User, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestPending {
		return nil, apperrors.ErrRequestAlreadyReviewed
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, request.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	now := time.Now()
	user := &models.User{
		ID:              uuid.New().String(),
		StudentID:       request.StudentID,
		FullName:        request.FullName,
		Email:           request.Email,
		Phone:           request.Phone,
		Address:         request.Address,
		Password:        request.Password,
		Role:            models.RoleStudent,
		DepartmentID:    request.DepartmentID,
		AccountStatus:   models.AccountActive,
		MaxBooksAllowed: s.policy.DefaultMaxBooksAllowed,
		MaxDaysAllowed:  s.policy.DefaultLoanPeriodDays,
		EnrollmentDate:  &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if err := s.requestRepo.MarkApproved(ctx, requestID, reviewerID, user.ID); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendAccountApproved(user.Email, user.FullName); err != nil {
		logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to send approval email")
	}

	logger.Info().Str("requestID", requestID).Str("userID", user.ID).Msg("Account request approved")
	return user, nil
}

// Reject declines a pending request with a reason
func (s *AccountRequestService) Reject(ctx context.Context, requestID, reviewerID, reason string) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != models.RequestPending {
		return apperrors.ErrRequestAlreadyReviewed
	}

	if err := s.requestRepo.MarkRejected(ctx, requestID, reviewerID, reason); err != nil {
		return err
	}

	if err := s.emailSvc.SendAccountRejected(request.Email, request.FullName, reason); err != nil {
		logger.Warn().Err(err).Str("requestID", requestID).Msg("Failed to send rejection email")
	}

	logger.Info().Str("requestID", requestID).Msg("Account request rejected")
	return nil
}
