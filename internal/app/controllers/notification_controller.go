package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
	"github.com/sculib/library/internal/pkg/helpers"
)

// NotificationController handles the member notification inbox
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List returns a page of the caller's notifications
// @Summary List my notifications
// @Description Returns the authenticated member's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread notifications"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Notifications"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	unreadOnly, _ := strconv.ParseBool(ctx.Query("unreadOnly"))

	notifications, total, err := c.notificationService.ListMine(ctx, ctx.GetString("userID"), unreadOnly, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      notifications,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// MarkRead marks one notification as read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Marked read"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	if err := c.notificationService.MarkRead(ctx, ctx.Param("id"), ctx.GetString("userID")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Notification marked as read"},
		Timestamp: time.Now(),
	})
}

// MarkAllRead marks every unread notification of the caller as read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Count of notifications updated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	updated, err := c.notificationService.MarkAllRead(ctx, ctx.GetString("userID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"updated": updated},
		Timestamp: time.Now(),
	})
}
