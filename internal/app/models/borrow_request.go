package models

import "time"

// BorrowRequest defines a loan of one book copy to one user, 'borrow_requests'
// table. A record is created already approved when a copy is handed over the
// desk; DueDate is set at approval and moves forward on renewal.
type BorrowRequest struct {
	ID              string       `json:"id" db:"id"`
	UserID          string       `json:"userId" db:"user_id"`
	BookCopyID      string       `json:"bookCopyId" db:"book_copy_id"`
	LibrarianID     *string      `json:"librarianId,omitempty" db:"librarian_id"`
	RequestDate     time.Time    `json:"requestDate" db:"request_date"`
	ApprovedDate    *time.Time   `json:"approvedDate,omitempty" db:"approved_date"`
	DueDate         *time.Time   `json:"dueDate,omitempty" db:"due_date"`
	ReturnDate      *time.Time   `json:"returnDate,omitempty" db:"return_date"`
	Status          BorrowStatus `json:"status" db:"status"`
	RejectionReason *string      `json:"rejectionReason,omitempty" db:"rejection_reason"`
	RenewalCount    int          `json:"renewalCount" db:"renewal_count"`
	MaxRenewals     int          `json:"maxRenewals" db:"max_renewals"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the loan is still out (approved or overdue,
// nothing returned yet).
func (b *BorrowRequest) IsActive() bool {
	return b.ReturnDate == nil && (b.Status == BorrowApproved || b.Status == BorrowOverdue)
}

// CanRenew reports whether another renewal is permitted.
func (b *BorrowRequest) CanRenew() bool {
	return b.ReturnDate == nil && b.RenewalCount < b.MaxRenewals
}

// BorrowDetail is a borrow request joined with user/book/copy display fields
// for listings.
type BorrowDetail struct {
	BorrowRequest
	UserName   string  `json:"userName" db:"user_name"`
	UserEmail  string  `json:"userEmail" db:"user_email"`
	UserPhone  *string `json:"userPhone,omitempty" db:"user_phone"`
	BookID     string  `json:"bookId" db:"book_id"`
	BookTitle  string  `json:"bookTitle" db:"book_title"`
	CopyNumber string  `json:"copyNumber" db:"copy_number"`
	// DaysOverdue is computed against the current time for overdue listings;
	// zero for anything not past due.
	DaysOverdue int `json:"daysOverdue,omitempty"`
}
