package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/repositories"
	"github.com/sculib/library/internal/pkg/apperrors"
)

// CatalogService handles the supporting catalog entities: authors,
// publishers, subjects and departments
type CatalogService struct {
	authorRepo     *repositories.AuthorRepository
	publisherRepo  *repositories.PublisherRepository
	subjectRepo    *repositories.SubjectRepository
	departmentRepo *repositories.DepartmentRepository
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	authorRepo *repositories.AuthorRepository,
	publisherRepo *repositories.PublisherRepository,
	subjectRepo *repositories.SubjectRepository,
	departmentRepo *repositories.DepartmentRepository,
) *CatalogService {
	return &CatalogService{
		authorRepo:     authorRepo,
		publisherRepo:  publisherRepo,
		subjectRepo:    subjectRepo,
		departmentRepo: departmentRepo,
	}
}

// ListAuthors returns all authors ordered by name
func (s *CatalogService) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	return s.authorRepo.GetAll(ctx)
}

// GetAuthor returns one author
func (s *CatalogService) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	return s.authorRepo.GetByID(ctx, id)
}

// CreateAuthor registers an author
func (s *CatalogService) CreateAuthor(ctx context.Context, req dto.CreateAuthorRequest) (*models.Author, error) {
	exists, err := s.authorRepo.ExistsByName(ctx, req.FullName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("author already exists: " + req.FullName)
	}

	author := &models.Author{
		ID:          uuid.New().String(),
		FullName:    req.FullName,
		Nationality: optionalString(req.Nationality),
		Biography:   optionalString(req.Biography),
	}
	if author.BirthDate, err = optionalDate(req.BirthDate); err != nil {
		return nil, err
	}
	if author.DeathDate, err = optionalDate(req.DeathDate); err != nil {
		return nil, err
	}

	if err := s.authorRepo.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// UpdateAuthor applies edits to an author record
func (s *CatalogService) UpdateAuthor(ctx context.Context, id string, req dto.CreateAuthorRequest) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author.FullName = req.FullName
	author.Nationality = optionalString(req.Nationality)
	author.Biography = optionalString(req.Biography)
	if author.BirthDate, err = optionalDate(req.BirthDate); err != nil {
		return nil, err
	}
	if author.DeathDate, err = optionalDate(req.DeathDate); err != nil {
		return nil, err
	}

	if err := s.authorRepo.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// DeleteAuthor removes an author with no books attached
func (s *CatalogService) DeleteAuthor(ctx context.Context, id string) error {
	return s.authorRepo.Delete(ctx, id)
}

// ListPublishers returns all publishers ordered by name
func (s *CatalogService) ListPublishers(ctx context.Context) ([]*models.Publisher, error) {
	return s.publisherRepo.GetAll(ctx)
}

// GetPublisher returns one publisher
func (s *CatalogService) GetPublisher(ctx context.Context, id string) (*models.Publisher, error) {
	return s.publisherRepo.GetByID(ctx, id)
}

// CreatePublisher registers a publisher
func (s *CatalogService) CreatePublisher(ctx context.Context, req dto.CreatePublisherRequest) (*models.Publisher, error) {
	exists, err := s.publisherRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("publisher already exists: " + req.Name)
	}

	publisher := &models.Publisher{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Address:         optionalString(req.Address),
		City:            optionalString(req.City),
		Country:         optionalString(req.Country),
		Website:         optionalString(req.Website),
		EstablishedYear: req.EstablishedYear,
	}
	if err := s.publisherRepo.Create(ctx, publisher); err != nil {
		return nil, err
	}
	return publisher, nil
}

// UpdatePublisher applies edits to a publisher record
func (s *CatalogService) UpdatePublisher(ctx context.Context, id string, req dto.CreatePublisherRequest) (*models.Publisher, error) {
	publisher, err := s.publisherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	publisher.Name = req.Name
	publisher.Address = optionalString(req.Address)
	publisher.City = optionalString(req.City)
	publisher.Country = optionalString(req.Country)
	publisher.Website = optionalString(req.Website)
	publisher.EstablishedYear = req.EstablishedYear

	if err := s.publisherRepo.Update(ctx, publisher); err != nil {
		return nil, err
	}
	return publisher, nil
}

// DeletePublisher removes a publisher with no books attached
func (s *CatalogService) DeletePublisher(ctx context.Context, id string) error {
	return s.publisherRepo.Delete(ctx, id)
}

// ListSubjects returns all subject headings ordered by name
func (s *CatalogService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

// GetSubject returns one subject heading
func (s *CatalogService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// CreateSubject registers a subject heading, optionally under a parent
func (s *CatalogService) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	exists, err := s.subjectRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("subject already exists: " + req.Name)
	}

	if req.ParentSubjectID != "" {
		if _, err := s.subjectRepo.GetByID(ctx, req.ParentSubjectID); err != nil {
			return nil, err
		}
	}

	subject := &models.Subject{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     optionalString(req.Description),
		ParentSubjectID: optionalString(req.ParentSubjectID),
		DeweyDecimal:    optionalString(req.DeweyDecimal),
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// UpdateSubject applies edits to a subject heading
func (s *CatalogService) UpdateSubject(ctx context.Context, id string, req dto.CreateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentSubjectID != "" {
		if req.ParentSubjectID == id {
			return nil, apperrors.NewBadRequestError("a subject cannot be its own parent")
		}
		if _, err := s.subjectRepo.GetByID(ctx, req.ParentSubjectID); err != nil {
			return nil, err
		}
	}

	subject.Name = req.Name
	subject.Description = optionalString(req.Description)
	subject.ParentSubjectID = optionalString(req.ParentSubjectID)
	subject.DeweyDecimal = optionalString(req.DeweyDecimal)

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes a subject with no books or child subjects attached
func (s *CatalogService) DeleteSubject(ctx context.Context, id string) error {
	return s.subjectRepo.Delete(ctx, id)
}

// ListDepartments returns all departments ordered by name
func (s *CatalogService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// GetDepartment returns one department
func (s *CatalogService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// CreateDepartment registers a university department
func (s *CatalogService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest) (*models.Department, error) {
	exists, err := s.departmentRepo.ExistsByNameOrCode(ctx, req.Name, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDepartmentAlreadyExists
	}

	department := &models.Department{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Code:        req.Code,
		Description: optionalString(req.Description),
	}
	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// UpdateDepartment applies edits to a department record
func (s *CatalogService) UpdateDepartment(ctx context.Context, id string, req dto.CreateDepartmentRequest) (*models.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	department.Name = req.Name
	department.Code = req.Code
	department.Description = optionalString(req.Description)

	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// DeleteDepartment removes a department with no users attached
func (s *CatalogService) DeleteDepartment(ctx context.Context, id string) error {
	return s.departmentRepo.Delete(ctx, id)
}

func optionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid date: " + value)
	}
	return &t, nil
}
