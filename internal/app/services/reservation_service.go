package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/email"
	"github.com/sculib/library/internal/pkg/logger"
)

// reservationStore is the slice of the reservation repository this service
// needs
type reservationStore interface {
	Create(ctx context.Context, userID, bookID string, expiry time.Time) (*models.Reservation, error)
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	Deactivate(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error)
	GetQueueHead(ctx context.Context, bookID string) (*models.ReservationDetail, error)
	MarkNotified(ctx context.Context, id string, newExpiry time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*models.ReservationDetail, error)
	ListActiveByBook(ctx context.Context, bookID string) ([]*models.ReservationDetail, error)
	ListExpired(ctx context.Context, asOf time.Time) ([]*models.ReservationDetail, error)
}

// reservationBookStore is the slice of the book repository this service needs
type reservationBookStore interface {
	GetByID(ctx context.Context, id string) (*models.Book, error)
}

// reservationBorrowStore checks whether the user already holds the book
type reservationBorrowStore interface {
	HasActiveBorrowForBook(ctx context.Context, userID, bookID string) (bool, error)
}

// notificationWriter records in-app notifications
type notificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

// ReservationService handles per-book reservation queues
type ReservationService struct {
	reservationRepo  reservationStore
	bookRepo         reservationBookStore
	borrowRepo       reservationBorrowStore
	notificationRepo notificationWriter
	emailSvc         email.EmailService
	policy           config.CirculationConfig
}

// NewReservationService creates a new reservation service instance
func NewReservationService(
	reservationRepo reservationStore,
	bookRepo reservationBookStore,
	borrowRepo reservationBorrowStore,
	notificationRepo notificationWriter,
	emailSvc email.EmailService,
	policy config.CirculationConfig,
) *ReservationService {
	return &ReservationService{
		reservationRepo:  reservationRepo,
		bookRepo:         bookRepo,
		borrowRepo:       borrowRepo,
		notificationRepo: notificationRepo,
		emailSvc:         emailSvc,
		policy:           policy,
	}
}

// Reserve joins the queue for a book with no available copies. Users who
// already hold the book cannot also queue for it; the store rejects
// duplicate active reservations and books with copies on the shelf.
func (s *ReservationService) Reserve(ctx context.Context, userID, bookID string) (*models.Reservation, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	holding, err := s.borrowRepo.HasActiveBorrowForBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if holding {
		return nil, apperrors.ErrAlreadyBorrowed
	}

	expiry := time.Now().AddDate(0, 0, s.policy.ReservationHoldDays)
	reservation, err := s.reservationRepo.Create(ctx, userID, bookID, expiry)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("reservationID", reservation.ID).
		Str("userID", userID).
		Str("bookID", bookID).
		Int("queuePosition", reservation.QueuePosition).
		Msg("Reservation created")
	return reservation, nil
}

// Cancel removes the caller's reservation from the queue; everyone behind
// it moves up one place
func (s *ReservationService) Cancel(ctx context.Context, reservationID, userID string, isStaff bool) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !isStaff && reservation.UserID != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	cancelled, err := s.reservationRepo.Deactivate(ctx, reservationID, models.ReservationCancelled)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("reservationID", reservationID).Msg("Reservation cancelled")
	return cancelled, nil
}

// NotifyNext tells the head of the queue that a copy is waiting and starts
// the pickup window. Returning a copy does not do this automatically; it is
// an explicit desk operation.
func (s *ReservationService) NotifyNext(ctx context.Context, bookID string) (*models.ReservationDetail, error) {
	head, err := s.reservationRepo.GetQueueHead(ctx, bookID)
	if err != nil {
		return nil, err
	}

	pickupBy := time.Now().AddDate(0, 0, s.policy.ReservationPickupDays)
	if err := s.reservationRepo.MarkNotified(ctx, head.ID, pickupBy); err != nil {
		return nil, err
	}
	head.NotificationSent = true
	head.ExpiryDate = &pickupBy

	if err := s.emailSvc.SendReservationReady(head.UserEmail, head.UserName, head.BookTitle, pickupBy); err != nil {
		logger.Warn().Err(err).Str("reservationID", head.ID).Msg("Failed to send reservation-ready email")
	}

	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    head.UserID,
		Type:      models.NotificationReservationReady,
		Title:     "Reserved book ready for pickup",
		Message:   "A copy of \"" + head.BookTitle + "\" is being held for you at the library desk until " + pickupBy.Format("January 2, 2006") + ".",
		EmailSent: true,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		logger.Warn().Err(err).Str("reservationID", head.ID).Msg("Failed to record notification")
	}

	logger.Info().Str("reservationID", head.ID).Str("bookID", bookID).Msg("Queue head notified")
	return head, nil
}

// ExpireOverdue sweeps notified reservations whose pickup window has
// passed, expiring each and closing the gap in its queue. Safe to run
// repeatedly.
func (s *ReservationService) ExpireOverdue(ctx context.Context) (int, error) {
	expired, err := s.reservationRepo.ListExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, reservation := range expired {
		if _, err := s.reservationRepo.Deactivate(ctx, reservation.ID, models.ReservationExpired); err != nil {
			logger.Warn().Err(err).Str("reservationID", reservation.ID).Msg("Failed to expire reservation")
			continue
		}
		count++
	}

	if count > 0 {
		logger.Info().Int("expired", count).Msg("Expired stale reservations")
	}
	return count, nil
}

// MyReservations retrieves the caller's reservations
func (s *ReservationService) MyReservations(ctx context.Context, userID string) ([]*models.ReservationDetail, error) {
	return s.reservationRepo.ListByUser(ctx, userID)
}

// QueueForBook retrieves the active queue for a book in position order
func (s *ReservationService) QueueForBook(ctx context.Context, bookID string) ([]*models.ReservationDetail, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.reservationRepo.ListActiveByBook(ctx, bookID)
}
