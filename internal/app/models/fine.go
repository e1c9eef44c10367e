package models

import "time"

// Fine defines a monetary penalty tied to a borrow request, 'fines' table.
// The schema's chk_fine_payment constraint ties status transitions to the
// presence of payment or waiver metadata; the service layer fills those
// fields before flipping the status.
type Fine struct {
	ID              string         `json:"id" db:"id"`
	UserID          string         `json:"userId" db:"user_id"`
	BorrowRequestID *string        `json:"borrowRequestId,omitempty" db:"borrow_request_id"`
	WaivedBy        *string        `json:"waivedBy,omitempty" db:"waived_by"`
	FineType        FineType       `json:"fineType" db:"fine_type"`
	Amount          float64        `json:"amount" db:"amount"`
	DaysOverdue     *int           `json:"daysOverdue,omitempty" db:"days_overdue"`
	Description     *string        `json:"description,omitempty" db:"description"`
	FineDate        time.Time      `json:"fineDate" db:"fine_date"`
	DueDate         *time.Time     `json:"dueDate,omitempty" db:"due_date"`
	PaidDate        *time.Time     `json:"paidDate,omitempty" db:"paid_date"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod,omitempty" db:"payment_method"`
	WaivedReason    *string        `json:"waivedReason,omitempty" db:"waived_reason"`
	Status          FineStatus     `json:"status" db:"status"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}
