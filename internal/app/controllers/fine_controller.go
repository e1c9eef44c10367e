package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
	"github.com/sculib/library/internal/pkg/helpers"
)

// FineController handles fine listing and settlement
type FineController struct {
	fineService *services.FineService
}

// NewFineController creates a new FineController
func NewFineController(fineService *services.FineService) *FineController {
	return &FineController{fineService: fineService}
}

// MyFines returns the caller's fines
// @Summary List my fines
// @Description Returns the authenticated member's fines, optionally filtered by status
// @Tags fines
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(unpaid, paid, waived)
// @Success 200 {object} dto.APIResponse{data=[]models.Fine} "Fines"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/fines [get]
func (c *FineController) MyFines(ctx *gin.Context) {
	fines, err := c.fineService.ListMine(ctx, ctx.GetString("userID"), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      fines,
		Timestamp: time.Now(),
	})
}

// List returns a page of fines for staff
// @Summary List fines
// @Description Returns a page of fines across all members, optionally filtered by status
// @Tags fines
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(unpaid, paid, waived)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Fines"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fines [get]
func (c *FineController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	fines, total, err := c.fineService.List(ctx, ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      fines,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Pay settles a fine at the desk
// @Summary Pay a fine
// @Description Marks a fine as paid with the given payment method. Fines already paid or waived cannot be paid again.
// @Tags fines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fine ID"
// @Param request body dto.PayFineRequest true "Payment method"
// @Success 200 {object} dto.APIResponse{data=models.Fine} "Fine paid"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Fine not found"
// @Failure 422 {object} dto.ErrorResponse "Fine already settled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fines/{id}/pay [post]
func (c *FineController) Pay(ctx *gin.Context) {
	var req dto.PayFineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fine, err := c.fineService.Pay(ctx, ctx.Param("id"), models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      fine,
		Timestamp: time.Now(),
	})
}

// Waive cancels a fine without payment
// @Summary Waive a fine
// @Description Cancels a fine administratively, recording who waived it and the reason
// @Tags fines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fine ID"
// @Param request body dto.WaiveFineRequest true "Waiver reason"
// @Success 200 {object} dto.APIResponse{data=models.Fine} "Fine waived"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Fine not found"
// @Failure 422 {object} dto.ErrorResponse "Fine already settled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fines/{id}/waive [post]
func (c *FineController) Waive(ctx *gin.Context) {
	var req dto.WaiveFineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Waiver reason is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fine, err := c.fineService.Waive(ctx, ctx.Param("id"), ctx.GetString("userID"), req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      fine,
		Timestamp: time.Now(),
	})
}
