package dto

// BorrowBookRequest represents a checkout performed at the desk. UserID is
// the borrower; the lending librarian comes from the authenticated context.
type BorrowBookRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	BookID string `json:"bookId" binding:"required,uuid"`
}

// ReturnBookRequest represents a return, optionally regrading the copy
type ReturnBookRequest struct {
	ConditionRating string `json:"conditionRating,omitempty" binding:"omitempty,oneof=excellent good fair poor damaged"`
	Notes           string `json:"notes,omitempty"`
}

// CreateReservationRequest represents a queue join for an unavailable book
type CreateReservationRequest struct {
	BookID string `json:"bookId" binding:"required,uuid"`
}

// PayFineRequest represents a fine settlement
type PayFineRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=cash card online"`
}

// WaiveFineRequest represents an administrative fine waiver
type WaiveFineRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OverdueRunResponse reports one pass of the overdue processor
type OverdueRunResponse struct {
	Processed   int     `json:"processed"`
	FinesIssued int     `json:"finesIssued"`
	TotalFined  float64 `json:"totalFined"`
}

// ReminderRunResponse reports one pass of the reminder sender
type ReminderRunResponse struct {
	DueSoon int `json:"dueSoon"`
	Overdue int `json:"overdue"`
}
