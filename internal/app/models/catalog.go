package models

import "time"

// Author defines the author model based on the 'authors' table
type Author struct {
	ID          string     `json:"id" db:"id"`
	FullName    string     `json:"fullName" db:"full_name" binding:"required"`
	BirthDate   *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	DeathDate   *time.Time `json:"deathDate,omitempty" db:"death_date"`
	Nationality *string    `json:"nationality,omitempty" db:"nationality"`
	Biography   *string    `json:"biography,omitempty" db:"biography"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Publisher defines the publisher model based on the 'publishers' table
type Publisher struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name" binding:"required"`
	Address         *string   `json:"address,omitempty" db:"address"`
	City            *string   `json:"city,omitempty" db:"city"`
	Country         *string   `json:"country,omitempty" db:"country"`
	Website         *string   `json:"website,omitempty" db:"website"`
	EstablishedYear *int      `json:"establishedYear,omitempty" db:"established_year"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Subject defines the subject model based on the 'subjects' table.
// Subjects form a tree through ParentSubjectID and optionally carry a Dewey
// decimal classification.
type Subject struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name" binding:"required"`
	Description     *string   `json:"description,omitempty" db:"description"`
	ParentSubjectID *string   `json:"parentSubjectId,omitempty" db:"parent_subject_id"`
	DeweyDecimal    *string   `json:"deweyDecimal,omitempty" db:"dewey_decimal"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
