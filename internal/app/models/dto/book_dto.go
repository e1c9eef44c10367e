package dto

// CreateBookRequest represents data needed to add a title to the catalog.
// TotalCopies copy rows are created alongside the book.
type CreateBookRequest struct {
	Title            string   `json:"title" binding:"required"`
	Subtitle         string   `json:"subtitle,omitempty"`
	ISBN13           string   `json:"isbn13,omitempty" binding:"omitempty,len=13"`
	ISBN10           string   `json:"isbn10,omitempty" binding:"omitempty,len=10"`
	PublisherID      string   `json:"publisherId" binding:"required,uuid"`
	AuthorIDs        []string `json:"authorIds" binding:"required,min=1,dive,uuid"`
	SubjectIDs       []string `json:"subjectIds,omitempty" binding:"omitempty,dive,uuid"`
	PublicationYear  int      `json:"publicationYear" binding:"required,min=1400"`
	Edition          string   `json:"edition,omitempty"`
	Pages            *int     `json:"pages,omitempty" binding:"omitempty,min=1"`
	Language         string   `json:"language,omitempty"`
	Description      string   `json:"description,omitempty"`
	ShelfLocation    string   `json:"shelfLocation" binding:"required"`
	AcquisitionPrice *float64 `json:"acquisitionPrice,omitempty" binding:"omitempty,min=0"`
	TotalCopies      int      `json:"totalCopies" binding:"required,min=1"`
}

// UpdateBookRequest represents editable bibliographic fields
type UpdateBookRequest struct {
	Title            string   `json:"title" binding:"required"`
	Subtitle         string   `json:"subtitle,omitempty"`
	ISBN13           string   `json:"isbn13,omitempty" binding:"omitempty,len=13"`
	ISBN10           string   `json:"isbn10,omitempty" binding:"omitempty,len=10"`
	PublisherID      string   `json:"publisherId" binding:"required,uuid"`
	AuthorIDs        []string `json:"authorIds" binding:"required,min=1,dive,uuid"`
	SubjectIDs       []string `json:"subjectIds,omitempty" binding:"omitempty,dive,uuid"`
	PublicationYear  int      `json:"publicationYear" binding:"required,min=1400"`
	Edition          string   `json:"edition,omitempty"`
	Pages            *int     `json:"pages,omitempty" binding:"omitempty,min=1"`
	Language         string   `json:"language,omitempty"`
	Description      string   `json:"description,omitempty"`
	ShelfLocation    string   `json:"shelfLocation" binding:"required"`
	AcquisitionPrice *float64 `json:"acquisitionPrice,omitempty" binding:"omitempty,min=0"`
}

// BookFilterRequest represents query parameters for catalog listing/search
type BookFilterRequest struct {
	Query         string `form:"q"`
	Language      string `form:"language"`
	SubjectID     string `form:"subjectId" binding:"omitempty,uuid"`
	AuthorID      string `form:"authorId" binding:"omitempty,uuid"`
	AvailableOnly bool   `form:"availableOnly"`
	SortBy        string `form:"sortBy" binding:"omitempty,oneof=title publicationYear createdAt availableCopies"`
	SortOrder     string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Page          int    `form:"page"`
	PageSize      int    `form:"pageSize"`
}

// UpdateCopyRequest represents editable fields of a single copy
type UpdateCopyRequest struct {
	Status          string `json:"status" binding:"required,oneof=available borrowed reserved maintenance lost damaged withdrawn"`
	ConditionRating string `json:"conditionRating" binding:"required,oneof=excellent good fair poor damaged"`
	Notes           string `json:"notes,omitempty"`
}
