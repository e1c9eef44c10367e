package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin     RoleType = "admin"
	RoleLibrarian RoleType = "librarian"
	RoleFaculty   RoleType = "faculty"
	RoleStudent   RoleType = "student"
)

// AccountStatus defines the lifecycle state of a user account
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountInactive  AccountStatus = "inactive"
	AccountSuspended AccountStatus = "suspended"
	AccountGraduated AccountStatus = "graduated"
)

// CopyStatus defines the circulation state of a single book copy
type CopyStatus string

const (
	CopyAvailable   CopyStatus = "available"
	CopyBorrowed    CopyStatus = "borrowed"
	CopyReserved    CopyStatus = "reserved"
	CopyMaintenance CopyStatus = "maintenance"
	CopyLost        CopyStatus = "lost"
	CopyDamaged     CopyStatus = "damaged"
	CopyWithdrawn   CopyStatus = "withdrawn"
)

// ConditionRating grades the physical condition of a copy
type ConditionRating string

const (
	ConditionExcellent ConditionRating = "excellent"
	ConditionGood      ConditionRating = "good"
	ConditionFair      ConditionRating = "fair"
	ConditionPoor      ConditionRating = "poor"
	ConditionDamaged   ConditionRating = "damaged"
)

// BorrowStatus defines the state of a borrow request
type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "pending"
	BorrowApproved BorrowStatus = "approved"
	BorrowRejected BorrowStatus = "rejected"
	BorrowReturned BorrowStatus = "returned"
	BorrowOverdue  BorrowStatus = "overdue"
	BorrowLost     BorrowStatus = "lost"
)

// ReservationStatus defines the state of a reservation queue entry
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationFulfilled ReservationStatus = "fulfilled"
	ReservationExpired   ReservationStatus = "expired"
	ReservationCancelled ReservationStatus = "cancelled"
)

// FineType classifies why a fine was issued
type FineType string

const (
	FineOverdue       FineType = "overdue"
	FineLostBook      FineType = "lost_book"
	FineDamagedBook   FineType = "damaged_book"
	FineProcessingFee FineType = "processing_fee"
	FineOther         FineType = "other"
)

// FineStatus defines the payment state of a fine
type FineStatus string

const (
	FineUnpaid   FineStatus = "unpaid"
	FinePaid     FineStatus = "paid"
	FineWaived   FineStatus = "waived"
	FineDisputed FineStatus = "disputed"
)

// PaymentMethod defines how a fine was settled
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
	PaymentWaived PaymentMethod = "waived"
)

// RequestStatus defines the review state of an account request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationDueReminder      NotificationType = "due_reminder"
	NotificationOverdueNotice    NotificationType = "overdue_notice"
	NotificationReservationReady NotificationType = "reservation_ready"
	NotificationFineNotice       NotificationType = "fine_notice"
	NotificationAccountStatus    NotificationType = "account_status"
	NotificationGeneral          NotificationType = "general"
)
