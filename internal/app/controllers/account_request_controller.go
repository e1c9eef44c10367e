package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
	"github.com/sculib/library/internal/pkg/helpers"
)

// AccountRequestController handles review of membership applications
type AccountRequestController struct {
	requestService *services.AccountRequestService
}

// NewAccountRequestController creates a new AccountRequestController
func NewAccountRequestController(requestService *services.AccountRequestService) *AccountRequestController {
	return &AccountRequestController{requestService: requestService}
}

// List returns membership applications for staff review
// @Summary List membership applications
// @Description Returns a page of membership applications, optionally filtered by status
// @Tags account-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Applications"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /account-requests [get]
func (c *AccountRequestController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	status := ctx.Query("status")

	requests, total, err := c.requestService.List(ctx, status, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      requests,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Approve approves a pending application and creates the member account
// @Summary Approve a membership application
// @Description Creates an active member account from a pending application. The request must not have been reviewed before.
// @Tags account-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "Account created"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already reviewed or email taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /account-requests/{id}/approve [post]
func (c *AccountRequestController) Approve(ctx *gin.Context) {
	requestID := ctx.Param("id")
	reviewerID := ctx.GetString("userID")

	user, err := c.requestService.Approve(ctx, requestID, reviewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// Reject rejects a pending application with a reason
// @Summary Reject a membership application
// @Description Marks a pending application as rejected and emails the applicant the reason
// @Tags account-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.RejectAccountRequestRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Request rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already reviewed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /account-requests/{id}/reject [post]
func (c *AccountRequestController) Reject(ctx *gin.Context) {
	var req dto.RejectAccountRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Rejection reason is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	requestID := ctx.Param("id")
	reviewerID := ctx.GetString("userID")

	if err := c.requestService.Reject(ctx, requestID, reviewerID, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Account request rejected"},
		Timestamp: time.Now(),
	})
}
