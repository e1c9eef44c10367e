package models

import "time"

// Book defines the bibliographic record based on the 'books' table.
// TotalCopies/AvailableCopies are aggregates over the book_copies rows;
// every code path that changes copy state must keep 0 <= available <= total.
type Book struct {
	ID               string     `json:"id" db:"id"`
	Title            string     `json:"title" db:"title"`
	Subtitle         *string    `json:"subtitle,omitempty" db:"subtitle"`
	ISBN13           *string    `json:"isbn13,omitempty" db:"isbn_13"`
	ISBN10           *string    `json:"isbn10,omitempty" db:"isbn_10"`
	PublisherID      string     `json:"publisherId" db:"publisher_id"`
	PublicationYear  int        `json:"publicationYear" db:"publication_year"`
	Edition          *string    `json:"edition,omitempty" db:"edition"`
	Pages            *int       `json:"pages,omitempty" db:"pages"`
	Language         string     `json:"language" db:"language"`
	Description      *string    `json:"description,omitempty" db:"description"`
	ShelfLocation    string     `json:"shelfLocation" db:"shelf_location"`
	AcquisitionDate  *time.Time `json:"acquisitionDate,omitempty" db:"acquisition_date"`
	AcquisitionPrice *float64   `json:"acquisitionPrice,omitempty" db:"acquisition_price"`
	TotalCopies      int        `json:"totalCopies" db:"total_copies"`
	AvailableCopies  int        `json:"availableCopies" db:"available_copies"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
	IsDeleted        bool       `json:"-" db:"is_deleted"`

	Publisher *Publisher `json:"publisher,omitempty"` // Relation, no db tag
	Authors   []Author   `json:"authors,omitempty"`
	Subjects  []Subject  `json:"subjects,omitempty"`
}

// BookCopy defines one circulating unit of a Book, 'book_copies' table
type BookCopy struct {
	ID              string          `json:"id" db:"id"`
	BookID          string          `json:"bookId" db:"book_id"`
	CopyNumber      string          `json:"copyNumber" db:"copy_number"`
	Barcode         *string         `json:"barcode,omitempty" db:"barcode"`
	Status          CopyStatus      `json:"status" db:"status"`
	ConditionRating ConditionRating `json:"conditionRating" db:"condition_rating"`
	AcquiredDate    *time.Time      `json:"acquiredDate,omitempty" db:"acquired_date"`
	LastMaintenance *time.Time      `json:"lastMaintenance,omitempty" db:"last_maintenance"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	IsDeleted       bool            `json:"-" db:"is_deleted"`
}
