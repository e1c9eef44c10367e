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

// DashboardController handles admin dashboard figures and the audit trail
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Stats returns the dashboard counters
// @Summary Get dashboard statistics
// @Description Returns current counts for users, titles, loans, reservations, fines and pending applications
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStatsResponse} "Statistics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/stats [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	stats, err := c.dashboardService.GetStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// AuditLog returns a page of recorded changes
// @Summary List the audit trail
// @Description Returns a page of change records, optionally filtered to one table
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param table query string false "Filter by table name"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Audit entries"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/audit [get]
func (c *DashboardController) AuditLog(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	entries, total, err := c.dashboardService.ListAuditLog(ctx, ctx.Query("table"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      entries,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}
