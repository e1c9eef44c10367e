package dto

// CreateAuthorRequest represents data needed to register an author
type CreateAuthorRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	BirthDate   string `json:"birthDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DeathDate   string `json:"deathDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Nationality string `json:"nationality,omitempty"`
	Biography   string `json:"biography,omitempty"`
}

// CreatePublisherRequest represents data needed to register a publisher
type CreatePublisherRequest struct {
	Name            string `json:"name" binding:"required"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	Website         string `json:"website,omitempty" binding:"omitempty,url"`
	EstablishedYear *int   `json:"establishedYear,omitempty" binding:"omitempty,min=1400"`
}

// CreateSubjectRequest represents data needed to register a subject heading
type CreateSubjectRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description,omitempty"`
	ParentSubjectID string `json:"parentSubjectId,omitempty" binding:"omitempty,uuid"`
	DeweyDecimal    string `json:"deweyDecimal,omitempty"`
}

// CreateDepartmentRequest represents data needed to register a department
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description,omitempty"`
}
