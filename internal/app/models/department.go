package models

import "time"

// Department defines the department model based on the 'departments' table
type Department struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Code        string    `json:"code" db:"code" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
