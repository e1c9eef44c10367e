package models

import "time"

// Reservation defines a queue entry for an unavailable book, 'reservations'
// table. QueuePosition is the 1-based rank among active reservations for the
// book; positions are resequenced whenever an active entry leaves the queue.
type Reservation struct {
	ID               string            `json:"id" db:"id"`
	UserID           string            `json:"userId" db:"user_id"`
	BookID           string            `json:"bookId" db:"book_id"`
	ReservationDate  time.Time         `json:"reservationDate" db:"reservation_date"`
	ExpiryDate       *time.Time        `json:"expiryDate,omitempty" db:"expiry_date"`
	QueuePosition    int               `json:"queuePosition" db:"queue_position"`
	Status           ReservationStatus `json:"status" db:"status"`
	NotificationSent bool              `json:"notificationSent" db:"notification_sent"`
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`
}

// ReservationDetail is a reservation joined with user/book display fields.
type ReservationDetail struct {
	Reservation
	UserName  string `json:"userName" db:"user_name"`
	UserEmail string `json:"userEmail" db:"user_email"`
	BookTitle string `json:"bookTitle" db:"book_title"`
}
