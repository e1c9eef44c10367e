package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/email"
	"github.com/sculib/library/internal/pkg/logger"
)

// overdueBorrowStore is the slice of the borrow repository the overdue
// processor needs
type overdueBorrowStore interface {
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*models.BorrowDetail, error)
	ListDueSoon(ctx context.Context, from, to time.Time) ([]*models.BorrowDetail, error)
	MarkOverdue(ctx context.Context, id string) error
}

// fineStore is the slice of the fine repository the overdue processor needs
type fineStore interface {
	Create(ctx context.Context, fine *models.Fine) error
	GetUnpaidByBorrowID(ctx context.Context, borrowID string) (*models.Fine, error)
	UpdateAmount(ctx context.Context, id string, amount float64, daysOverdue int) error
}

// OverdueService flags overdue loans, keeps their fines current and sends
// due-date reminders
type OverdueService struct {
	borrowRepo       overdueBorrowStore
	fineRepo         fineStore
	notificationRepo notificationWriter
	emailSvc         email.EmailService
	policy           config.CirculationConfig
}

// NewOverdueService creates a new overdue service instance
func NewOverdueService(
	borrowRepo overdueBorrowStore,
	fineRepo fineStore,
	notificationRepo notificationWriter,
	emailSvc email.EmailService,
	policy config.CirculationConfig,
) *OverdueService {
	return &OverdueService{
		borrowRepo:       borrowRepo,
		fineRepo:         fineRepo,
		notificationRepo: notificationRepo,
		emailSvc:         emailSvc,
		policy:           policy,
	}
}

// DaysOverdue counts whole days past due, rounding any partial day up
func DaysOverdue(dueDate, asOf time.Time) int {
	if !asOf.After(dueDate) {
		return 0
	}
	return int(math.Ceil(asOf.Sub(dueDate).Hours() / 24))
}

// FineAmount computes the overdue fine for a day count at the configured
// daily rate
func (s *OverdueService) FineAmount(daysOverdue int) float64 {
	return float64(daysOverdue) * s.policy.FineRatePerDay
}

// ProcessOverdue sweeps every loan past its due date: the loan status flips
// to overdue and an overdue fine is created, or refreshed while it remains
// unpaid. Running the sweep twice in a row changes nothing the second time.
func (s *OverdueService) ProcessOverdue(ctx context.Context) (*dto.OverdueRunResponse, error) {
	now := time.Now()
	candidates, err := s.borrowRepo.ListOverdueCandidates(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue loans: %w", err)
	}

	result := &dto.OverdueRunResponse{}
	for _, loan := range candidates {
		if loan.DueDate == nil {
			continue
		}

		if loan.Status == models.BorrowApproved {
			if err := s.borrowRepo.MarkOverdue(ctx, loan.ID); err != nil {
				logger.Warn().Err(err).Str("borrowID", loan.ID).Msg("Failed to mark loan overdue")
				continue
			}
		}
		result.Processed++

		days := DaysOverdue(*loan.DueDate, now)
		amount := s.FineAmount(days)

		existing, err := s.fineRepo.GetUnpaidByBorrowID(ctx, loan.ID)
		switch {
		case err == nil:
			if existing.Amount != amount {
				if err := s.fineRepo.UpdateAmount(ctx, existing.ID, amount, days); err != nil {
					logger.Warn().Err(err).Str("fineID", existing.ID).Msg("Failed to refresh fine amount")
					continue
				}
			}
		case errors.Is(err, apperrors.ErrFineNotFound):
			due := now.AddDate(0, 0, s.policy.FinePaymentDays)
			description := fmt.Sprintf("Overdue fine for \"%s\" (%d day(s) at $%.2f/day)",
				loan.BookTitle, days, s.policy.FineRatePerDay)
			fine := &models.Fine{
				ID:              uuid.New().String(),
				UserID:          loan.UserID,
				BorrowRequestID: &loan.BorrowRequest.ID,
				FineType:        models.FineOverdue,
				Amount:          amount,
				DaysOverdue:     &days,
				Description:     &description,
				FineDate:        now,
				DueDate:         &due,
				Status:          models.FineUnpaid,
			}
			if err := s.fineRepo.Create(ctx, fine); err != nil {
				logger.Warn().Err(err).Str("borrowID", loan.ID).Msg("Failed to create fine")
				continue
			}
			result.FinesIssued++
		default:
			logger.Warn().Err(err).Str("borrowID", loan.ID).Msg("Failed to look up fine")
			continue
		}

		result.TotalFined += amount
	}

	logger.Info().
		Int("processed", result.Processed).
		Int("finesIssued", result.FinesIssued).
		Msg("Overdue sweep finished")
	return result, nil
}

// SendReminders emails borrowers whose loans fall due within the lead
// window, and overdue notices for loans already past due. Each also gets an
// in-app notification row.
func (s *OverdueService) SendReminders(ctx context.Context) (*dto.ReminderRunResponse, error) {
	now := time.Now()
	result := &dto.ReminderRunResponse{}

	dueSoon, err := s.borrowRepo.ListDueSoon(ctx, now, now.AddDate(0, 0, s.policy.DueReminderLeadDays))
	if err != nil {
		return nil, fmt.Errorf("error listing due-soon loans: %w", err)
	}
	for _, loan := range dueSoon {
		if loan.DueDate == nil {
			continue
		}
		if err := s.emailSvc.SendDueReminder(loan.UserEmail, loan.UserName, loan.BookTitle, *loan.DueDate); err != nil {
			logger.Warn().Err(err).Str("borrowID", loan.ID).Msg("Failed to send due reminder")
			continue
		}
		s.record(ctx, loan.UserID, models.NotificationDueReminder,
			"Book due soon",
			fmt.Sprintf("\"%s\" is due back on %s.", loan.BookTitle, loan.DueDate.Format("January 2, 2006")))
		result.DueSoon++
	}

	overdue, err := s.borrowRepo.ListOverdueCandidates(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue loans: %w", err)
	}
	for _, loan := range overdue {
		if loan.DueDate == nil {
			continue
		}
		days := DaysOverdue(*loan.DueDate, now)
		if err := s.emailSvc.SendOverdueNotice(loan.UserEmail, loan.UserName, loan.BookTitle, days, s.FineAmount(days)); err != nil {
			logger.Warn().Err(err).Str("borrowID", loan.ID).Msg("Failed to send overdue notice")
			continue
		}
		s.record(ctx, loan.UserID, models.NotificationOverdueNotice,
			"Book overdue",
			fmt.Sprintf("\"%s\" is %d day(s) overdue. Please return it to the library desk.", loan.BookTitle, days))
		result.Overdue++
	}

	logger.Info().
		Int("dueSoon", result.DueSoon).
		Int("overdue", result.Overdue).
		Msg("Reminder run finished")
	return result, nil
}

func (s *OverdueService) record(ctx context.Context, userID string, kind models.NotificationType, title, message string) {
	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		EmailSent: true,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		logger.Warn().Err(err).Str("userID", userID).Msg("Failed to record notification")
	}
}
