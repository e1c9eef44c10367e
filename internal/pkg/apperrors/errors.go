package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrStudentIDAlreadyExists = errors.New("student ID already exists")
	ErrUserHasActiveLoans     = errors.New("user has active loans")
)

// Catalog errors
var (
	ErrBookNotFound            = errors.New("book not found")
	ErrCopyNotFound            = errors.New("book copy not found")
	ErrISBNAlreadyExists       = errors.New("a book with this ISBN already exists")
	ErrAuthorNotFound          = errors.New("author not found")
	ErrPublisherNotFound       = errors.New("publisher not found")
	ErrSubjectNotFound         = errors.New("subject not found")
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department with this name or code already exists")
	ErrResourceHasRelations    = errors.New("resource has associated data and cannot be deleted")
)

// Circulation errors
var (
	ErrBorrowNotFound      = errors.New("borrow record not found")
	ErrNoAvailableCopies   = errors.New("no copies of this book are available")
	ErrBorrowLimitReached  = errors.New("borrowing limit reached")
	ErrAlreadyBorrowed     = errors.New("user already has an active loan for this book")
	ErrAlreadyReturned     = errors.New("this loan has already been returned")
	ErrRenewalLimitReached = errors.New("renewal limit reached")
)

// Reservation errors
var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationExists   = errors.New("an active reservation for this book already exists")
	ErrBookAvailable       = errors.New("copies are available, borrow the book instead of reserving it")
	ErrReservationInactive = errors.New("reservation is no longer active")
	ErrQueueEmpty          = errors.New("no active reservations for this book")
)

// Fine errors
var (
	ErrFineNotFound = errors.New("fine not found")
	ErrFineSettled  = errors.New("fine has already been paid or waived")
)

// Account request errors
var (
	ErrAccountRequestNotFound = errors.New("account request not found")
	ErrRequestAlreadyReviewed = errors.New("account request has already been reviewed")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}
