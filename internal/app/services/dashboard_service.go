package services

import (
	"context"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/repositories"
)

// DashboardService aggregates admin dashboard figures and the audit trail
type DashboardService struct {
	dashboardRepo *repositories.DashboardRepository
	auditRepo     *repositories.AuditRepository
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	dashboardRepo *repositories.DashboardRepository,
	auditRepo *repositories.AuditRepository,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		auditRepo:     auditRepo,
	}
}

// GetStats returns the current dashboard counters
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	return s.dashboardRepo.GetStats(ctx)
}

// ListAuditLog returns a page of recorded changes, optionally filtered to
// one table
func (s *DashboardService) ListAuditLog(ctx context.Context, tableName string, page, pageSize int) ([]*models.AuditEntry, int64, error) {
	return s.auditRepo.List(ctx, tableName, page, pageSize)
}
