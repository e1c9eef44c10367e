package services

import (
	"context"

	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/logger"
)

// fineLedger is the slice of the fine repository this service needs
type fineLedger interface {
	ListByUser(ctx context.Context, userID, status string) ([]*models.Fine, error)
	List(ctx context.Context, status string, page, size int) ([]*models.Fine, int64, error)
	Pay(ctx context.Context, id string, method models.PaymentMethod) (*models.Fine, error)
	Waive(ctx context.Context, id, waivedBy, reason string) (*models.Fine, error)
}

// FineService handles fine listing and settlement at the desk
type FineService struct {
	fineRepo fineLedger
}

// NewFineService creates a new fine service instance
func NewFineService(fineRepo fineLedger) *FineService {
	return &FineService{fineRepo: fineRepo}
}

// ListMine returns the caller's fines, optionally filtered by status
func (s *FineService) ListMine(ctx context.Context, userID string, status string) ([]*models.Fine, error) {
	if status != "" && !validFineStatus(status) {
		return nil, apperrors.NewBadRequestError("invalid fine status: " + status)
	}
	return s.fineRepo.ListByUser(ctx, userID, status)
}

// List returns a page of fines across all users for staff review
func (s *FineService) List(ctx context.Context, status string, page, pageSize int) ([]*models.Fine, int64, error) {
	if status != "" && !validFineStatus(status) {
		return nil, 0, apperrors.NewBadRequestError("invalid fine status: " + status)
	}
	return s.fineRepo.List(ctx, status, page, pageSize)
}

// Pay settles a fine with the given payment method. Fines already paid or
// waived cannot be paid again.
func (s *FineService) Pay(ctx context.Context, fineID string, method models.PaymentMethod) (*models.Fine, error) {
	fine, err := s.fineRepo.Pay(ctx, fineID, method)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("fineID", fine.ID).
		Str("method", string(method)).
		Float64("amount", fine.Amount).
		Msg("Fine paid")
	return fine, nil
}

// Waive cancels a fine without payment, recording who waived it and why
func (s *FineService) Waive(ctx context.Context, fineID, waivedBy, reason string) (*models.Fine, error) {
	fine, err := s.fineRepo.Waive(ctx, fineID, waivedBy, reason)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("fineID", fine.ID).
		Str("waivedBy", waivedBy).
		Msg("Fine waived")
	return fine, nil
}

func validFineStatus(status string) bool {
	switch models.FineStatus(status) {
	case models.FineUnpaid, models.FinePaid, models.FineWaived:
		return true
	}
	return false
}
