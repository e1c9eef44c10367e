package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/repositories"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/auth"
	"github.com/sculib/library/internal/pkg/logger"
)

// UserService handles admin-side account management
type UserService struct {
	userRepo   *repositories.UserRepository
	borrowRepo *repositories.BorrowRepository
	auditRepo  *repositories.AuditRepository
	policy     config.CirculationConfig
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo *repositories.UserRepository,
	borrowRepo *repositories.BorrowRepository,
	auditRepo *repositories.AuditRepository,
	policy config.CirculationConfig,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		borrowRepo: borrowRepo,
		auditRepo:  auditRepo,
		policy:     policy,
	}
}

// GetByID returns one user account
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List returns a filtered page of user accounts
func (s *UserService) List(ctx context.Context, filter dto.UserFilterRequest) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, filter.Query, filter.Role, filter.AccountStatus, filter.DepartmentID, filter.Page, filter.PageSize)
}

// Create registers a user account directly, bypassing the request/approval
// flow. Used by admins for staff and faculty accounts.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest, actorID string) (*models.User, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if req.StudentID != "" {
		exists, err = s.userRepo.ExistsByStudentID(ctx, req.StudentID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrStudentIDAlreadyExists
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:              uuid.New().String(),
		StudentID:       optionalString(req.StudentID),
		FullName:        req.FullName,
		Email:           normalizedEmail,
		Phone:           optionalString(req.Phone),
		Address:         optionalString(req.Address),
		Password:        hashed,
		Role:            models.RoleType(req.Role),
		DepartmentID:    optionalString(req.DepartmentID),
		AccountStatus:   models.AccountActive,
		MaxBooksAllowed: s.policy.DefaultMaxBooksAllowed,
		MaxDaysAllowed:  s.policy.DefaultLoanPeriodDays,
		EnrollmentDate:  &now,
	}
	if req.MaxBooksAllowed > 0 {
		user.MaxBooksAllowed = req.MaxBooksAllowed
	}
	if req.MaxDaysAllowed > 0 {
		user.MaxDaysAllowed = req.MaxDaysAllowed
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, "INSERT", nil, user, actorID)
	logger.Info().Str("userID", user.ID).Str("email", user.Email).Msg("User account created")
	return user, nil
}

// Update applies admin-editable fields to an account
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest, actorID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *user

	user.FullName = req.FullName
	user.Phone = optionalString(req.Phone)
	user.Address = optionalString(req.Address)
	user.Role = models.RoleType(req.Role)
	user.DepartmentID = optionalString(req.DepartmentID)
	user.AccountStatus = models.AccountStatus(req.AccountStatus)
	user.MaxBooksAllowed = req.MaxBooksAllowed
	user.MaxDaysAllowed = req.MaxDaysAllowed

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, "UPDATE", &before, user, actorID)
	return user, nil
}

// Delete soft-deletes an account. Accounts with books still out cannot be
// removed.
func (s *UserService) Delete(ctx context.Context, id string, actorID string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.borrowRepo.CountActiveByUser(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperrors.ErrUserHasActiveLoans
	}

	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, id, "DELETE", user, nil, actorID)
	logger.Info().Str("userID", id).Msg("User account deleted")
	return nil
}

func (s *UserService) audit(ctx context.Context, recordID, action string, oldValues, newValues interface{}, actorID string) {
	if err := s.auditRepo.Record(ctx, "users", recordID, action, oldValues, newValues, &actorID); err != nil {
		logger.Warn().Err(err).Str("recordID", recordID).Msg("Failed to write audit entry")
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
