package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
)

// ReservationController handles the hold queue for unavailable titles
type ReservationController struct {
	reservationService *services.ReservationService
}

// NewReservationController creates a new ReservationController
func NewReservationController(reservationService *services.ReservationService) *ReservationController {
	return &ReservationController{reservationService: reservationService}
}

// Reserve joins the queue for a title with no available copies
// @Summary Reserve a book
// @Description Puts the member at the back of the hold queue. Titles with copies available cannot be reserved, nor can a title the member already holds or has queued for.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReservationRequest true "Title to queue for"
// @Success 201 {object} dto.APIResponse{data=models.Reservation} "Queued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 422 {object} dto.ErrorResponse "Copies available, already queued or already borrowed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations [post]
func (c *ReservationController) Reserve(ctx *gin.Context) {
	var req dto.CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid reservation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	reservation, err := c.reservationService.Reserve(ctx, ctx.GetString("userID"), req.BookID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      reservation,
		Timestamp: time.Now(),
	})
}

// Cancel removes a reservation from the queue
// @Summary Cancel a reservation
// @Description Cancels an active reservation and closes the gap in the queue. Members may cancel their own; staff may cancel any.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=models.Reservation} "Cancelled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the reservation holder"
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Failure 422 {object} dto.ErrorResponse "Reservation no longer active"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations/{id} [delete]
func (c *ReservationController) Cancel(ctx *gin.Context) {
	userID := ctx.GetString("userID")
	role := ctx.GetString("roleType")
	isStaff := role == string(models.RoleAdmin) || role == string(models.RoleLibrarian)

	reservation, err := c.reservationService.Cancel(ctx, ctx.Param("id"), userID, isStaff)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      reservation,
		Timestamp: time.Now(),
	})
}

// MyReservations returns the caller's reservations
// @Summary List my reservations
// @Description Returns the authenticated member's reservations with their queue positions
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ReservationDetail} "Reservations"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/reservations [get]
func (c *ReservationController) MyReservations(ctx *gin.Context) {
	reservations, err := c.reservationService.MyReservations(ctx, ctx.GetString("userID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      reservations,
		Timestamp: time.Now(),
	})
}

// Queue returns the active hold queue for one title
// @Summary List a book's hold queue
// @Description Returns the active reservations for a title in queue order
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ReservationDetail} "Queue"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id}/reservations [get]
func (c *ReservationController) Queue(ctx *gin.Context) {
	reservations, err := c.reservationService.QueueForBook(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      reservations,
		Timestamp: time.Now(),
	})
}

// NotifyNext offers a returned copy to the head of the queue
// @Summary Notify the next reservation
// @Description Tells the member at the head of a title's queue that a copy is being held, and starts the pickup window
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=models.ReservationDetail} "Member notified"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Queue is empty"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id}/reservations/notify [post]
func (c *ReservationController) NotifyNext(ctx *gin.Context) {
	reservation, err := c.reservationService.NotifyNext(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      reservation,
		Timestamp: time.Now(),
	})
}

// ExpireSweep expires lapsed reservations on demand
// @Summary Expire lapsed reservations
// @Description Expires notified reservations whose pickup window has passed and closes the queue gaps. The same sweep runs hourly on a schedule.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Expired count"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reservations/expire [post]
func (c *ReservationController) ExpireSweep(ctx *gin.Context) {
	expired, err := c.reservationService.ExpireOverdue(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"expired": expired},
		Timestamp: time.Now(),
	})
}
