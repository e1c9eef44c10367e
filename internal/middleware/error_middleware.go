package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Every controller
// funnels service errors through here so status codes and envelopes stay
// uniform.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Not found
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrBookNotFound,
		apperrors.ErrCopyNotFound,
		apperrors.ErrAuthorNotFound,
		apperrors.ErrPublisherNotFound,
		apperrors.ErrSubjectNotFound,
		apperrors.ErrDepartmentNotFound,
		apperrors.ErrBorrowNotFound,
		apperrors.ErrReservationNotFound,
		apperrors.ErrFineNotFound,
		apperrors.ErrAccountRequestNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case apperrors.Is(err, apperrors.ErrAccountDisabled, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()),
		})

	// Conflicts
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists,
		apperrors.ErrStudentIDAlreadyExists,
		apperrors.ErrISBNAlreadyExists,
		apperrors.ErrDepartmentAlreadyExists,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrRequestAlreadyReviewed,
		apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})
	case errors.Is(err, apperrors.ErrResourceHasRelations):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, err.Error()),
		})

	// Circulation rules
	case errors.Is(err, apperrors.ErrBorrowLimitReached):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeBorrowLimit, err.Error()),
		})
	case errors.Is(err, apperrors.ErrNoAvailableCopies):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNoCopies, err.Error()),
		})
	case errors.Is(err, apperrors.ErrRenewalLimitReached):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeRenewalLimit, err.Error()),
		})
	case errors.Is(err, apperrors.ErrAlreadyReturned):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeAlreadyReturned, err.Error()),
		})
	case apperrors.Is(err, apperrors.ErrReservationExists,
		apperrors.ErrBookAvailable,
		apperrors.ErrAlreadyBorrowed,
		apperrors.ErrReservationInactive,
		apperrors.ErrQueueEmpty,
		apperrors.ErrFineSettled):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeReservation, err.Error()),
		})

	// Validation
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})

	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
