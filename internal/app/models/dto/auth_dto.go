package dto

import (
	"time"

	"github.com/sculib/library/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest represents a new account application
type RegisterRequest struct {
	StudentID    string `json:"studentId" binding:"required"`
	FullName     string `json:"fullName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Phone        string `json:"phone,omitempty"`
	DepartmentID string `json:"departmentId,omitempty" binding:"omitempty,uuid"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID              string     `json:"id"`
	StudentID       *string    `json:"studentId,omitempty"`
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Role            string     `json:"role"`
	DepartmentID    *string    `json:"departmentId,omitempty"`
	DepartmentName  string     `json:"departmentName,omitempty"`
	AccountStatus   string     `json:"accountStatus"`
	MaxBooksAllowed int        `json:"maxBooksAllowed"`
	MaxDaysAllowed  int        `json:"maxDaysAllowed"`
	EnrollmentDate  *time.Time `json:"enrollmentDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// NewUserResponse maps a user model to its response form
func NewUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:              user.ID,
		StudentID:       user.StudentID,
		FullName:        user.FullName,
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            string(user.Role),
		DepartmentID:    user.DepartmentID,
		AccountStatus:   string(user.AccountStatus),
		MaxBooksAllowed: user.MaxBooksAllowed,
		MaxDaysAllowed:  user.MaxDaysAllowed,
		EnrollmentDate:  user.EnrollmentDate,
		CreatedAt:       user.CreatedAt,
	}
	if user.Department != nil {
		resp.DepartmentName = user.Department.Name
	}
	return resp
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
