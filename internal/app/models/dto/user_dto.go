package dto

// CreateUserRequest represents a user account created directly by an admin
type CreateUserRequest struct {
	StudentID       string `json:"studentId,omitempty"`
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Role            string `json:"role" binding:"required,oneof=admin librarian faculty student"`
	DepartmentID    string `json:"departmentId,omitempty" binding:"omitempty,uuid"`
	MaxBooksAllowed int    `json:"maxBooksAllowed,omitempty" binding:"omitempty,min=1"`
	MaxDaysAllowed  int    `json:"maxDaysAllowed,omitempty" binding:"omitempty,min=1"`
}

// UpdateUserRequest represents admin-editable account fields
type UpdateUserRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Role            string `json:"role" binding:"required,oneof=admin librarian faculty student"`
	DepartmentID    string `json:"departmentId,omitempty" binding:"omitempty,uuid"`
	AccountStatus   string `json:"accountStatus" binding:"required,oneof=active inactive suspended graduated"`
	MaxBooksAllowed int    `json:"maxBooksAllowed" binding:"required,min=1"`
	MaxDaysAllowed  int    `json:"maxDaysAllowed" binding:"required,min=1"`
}

// UserFilterRequest represents query parameters for the admin user listing
type UserFilterRequest struct {
	Query         string `form:"q"`
	Role          string `form:"role" binding:"omitempty,oneof=admin librarian faculty student"`
	AccountStatus string `form:"accountStatus" binding:"omitempty,oneof=active inactive suspended graduated"`
	DepartmentID  string `form:"departmentId" binding:"omitempty,uuid"`
	Page          int    `form:"page"`
	PageSize      int    `form:"pageSize"`
}
