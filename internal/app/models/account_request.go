package models

import "time"

// AccountRequest defines a pending self-registration awaiting admin review,
// 'account_requests' table. Approval produces a users row and stamps
// ApprovedUserID; rejection stamps a reason. Either way the reviewer and
// review time are recorded and the request cannot be re-processed.
type AccountRequest struct {
	ID                string        `json:"id" db:"id"`
	FullName          string        `json:"fullName" db:"full_name"`
	Email             string        `json:"email" db:"email"`
	StudentID         *string       `json:"studentId,omitempty" db:"student_id"`
	Password          string        `json:"-" db:"password"` // Bcrypt hash, stored at request time
	Phone             *string       `json:"phone,omitempty" db:"phone"`
	Address           *string       `json:"address,omitempty" db:"address"`
	DepartmentID      *string       `json:"departmentId,omitempty" db:"department_id"`
	UniversityCardURL *string       `json:"universityCardUrl,omitempty" db:"university_card_url"`
	RequestDate       time.Time     `json:"requestDate" db:"request_date"`
	Status            RequestStatus `json:"status" db:"status"`
	ReviewedBy        *string       `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt        *time.Time    `json:"reviewedAt,omitempty" db:"reviewed_at"`
	RejectionReason   *string       `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ApprovedUserID    *string       `json:"approvedUserId,omitempty" db:"approved_user_id"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`

	DepartmentName *string `json:"departmentName,omitempty"` // Joined for listings
	ReviewerName   *string `json:"reviewerName,omitempty"`
}
