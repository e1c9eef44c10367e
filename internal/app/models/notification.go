package models

import "time"

// Notification defines an in-app notification row, 'notifications' table
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	EmailSent bool             `json:"emailSent" db:"email_sent"`
	SMSSent   bool             `json:"smsSent" db:"sms_sent"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	ReadAt    *time.Time       `json:"readAt,omitempty" db:"read_at"`
}

// AuditEntry defines a change-tracking row, 'audit_log' table. OldValues and
// NewValues are JSON snapshots; the chk_audit_action_values constraint
// requires old on UPDATE/DELETE and new on INSERT/UPDATE.
type AuditEntry struct {
	ID        string      `json:"id" db:"id"`
	TableName string      `json:"tableName" db:"table_name"`
	RecordID  string      `json:"recordId" db:"record_id"`
	Action    string      `json:"action" db:"action"`
	OldValues interface{} `json:"oldValues,omitempty" db:"old_values"`
	NewValues interface{} `json:"newValues,omitempty" db:"new_values"`
	UserID    *string     `json:"userId,omitempty" db:"user_id"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
}
