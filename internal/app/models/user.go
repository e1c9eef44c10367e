package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              string        `json:"id" db:"id" example:"6d2b1f3e-9c4a-4c1e-8727-6a6f3f1e9b10"` // Unique identifier for the user
	StudentID       *string       `json:"studentId,omitempty" db:"student_id" example:"S2024001"`     // University student ID (nullable for staff)
	FullName        string        `json:"fullName" db:"full_name" example:"Jane Doe"`
	Email           string        `json:"email" db:"email" example:"jane.doe@sculib.edu"`
	Phone           *string       `json:"phone,omitempty" db:"phone"`
	Address         *string       `json:"address,omitempty" db:"address"`
	Password        string        `json:"-" db:"password"` // Hashed password (excluded from JSON)
	Role            RoleType      `json:"role" db:"role" example:"student"`
	DepartmentID    *string       `json:"departmentId,omitempty" db:"department_id"`
	AccountStatus   AccountStatus `json:"accountStatus" db:"account_status" example:"active"`
	MaxBooksAllowed int           `json:"maxBooksAllowed" db:"max_books_allowed" example:"5"`  // Borrowing limit (concurrent loans)
	MaxDaysAllowed  int           `json:"maxDaysAllowed" db:"max_days_allowed" example:"14"`   // Loan period in days
	EnrollmentDate  *time.Time    `json:"enrollmentDate,omitempty" db:"enrollment_date"`
	GraduationDate  *time.Time    `json:"graduationDate,omitempty" db:"graduation_date"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
	IsDeleted       bool          `json:"-" db:"is_deleted"`

	Department *Department `json:"department,omitempty"` // Relation, no db tag
}

// CanBorrow reports whether the account is in a state that permits new loans.
func (u *User) CanBorrow() bool {
	return u.AccountStatus == AccountActive && !u.IsDeleted
}
