package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/repositories"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/auth"
	"github.com/sculib/library/internal/pkg/logger"
)

// AuthService handles authentication and self-registration
type AuthService struct {
	userRepo    *repositories.UserRepository
	tokenRepo   *repositories.TokenRepository
	requestRepo *repositories.AccountRequestRepository
	jwtService  *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	requestRepo *repositories.AccountRequestRepository,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		requestRepo: requestRepo,
		jwtService:  jwtService,
	}
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if user.AccountStatus != models.AccountActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Str("userID", user.ID).Msg("User logged in")
	return user, token, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The used
// token is revoked so each refresh token works exactly once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.User, *dto.TokenResponse, error) {
	userID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.AccountStatus != models.AccountActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	expiry := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, expiry); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}

// Register files an account request for admin review. The password is
// hashed immediately so no plaintext is ever stored.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.AccountRequest, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	taken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	pending, err := s.requestRepo.ExistsPendingByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking pending requests: %w", err)
	}
	if pending {
		return nil, apperrors.NewConflictError("an account request with this email is already pending review")
	}

	if req.StudentID != "" {
		taken, err := s.userRepo.ExistsByStudentID(ctx, req.StudentID)
		if err != nil {
			return nil, fmt.Errorf("error checking student ID: %w", err)
		}
		if taken {
			return nil, apperrors.ErrStudentIDAlreadyExists
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	request := &models.AccountRequest{
		ID:       uuid.New().String(),
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Password: hashed,
		Status:   models.RequestPending,
	}
	if req.StudentID != "" {
		request.StudentID = &req.StudentID
	}
	if req.Phone != "" {
		request.Phone = &req.Phone
	}
	if req.DepartmentID != "" {
		request.DepartmentID = &req.DepartmentID
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	logger.Info().Str("requestID", request.ID).Str("email", email).Msg("Account request filed")
	return request, nil
}

// ChangePassword verifies the current password and stores a new hash, then
// revokes outstanding refresh tokens so stolen sessions die with the old
// password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidPassword
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("userID", userID).Msg("Failed to revoke tokens after password change")
	}

	return nil
}

// CleanupExpiredTokens removes stale refresh tokens, returns how many went
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.CleanupExpiredTokens(ctx)
}

// GetProfile retrieves the authenticated user's account
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
