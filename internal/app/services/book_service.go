package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/repositories"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/logger"
)

// BookService handles catalog title management and search
type BookService struct {
	bookRepo  *repositories.BookRepository
	copyRepo  *repositories.BookCopyRepository
	auditRepo *repositories.AuditRepository
}

// NewBookService creates a new book service instance
func NewBookService(
	bookRepo *repositories.BookRepository,
	copyRepo *repositories.BookCopyRepository,
	auditRepo *repositories.AuditRepository,
) *BookService {
	return &BookService{
		bookRepo:  bookRepo,
		copyRepo:  copyRepo,
		auditRepo: auditRepo,
	}
}

// GetByID returns one title with publisher, authors and subjects loaded
func (s *BookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// List returns a filtered, sorted page of the catalog
func (s *BookService) List(ctx context.Context, filter dto.BookFilterRequest) ([]*models.Book, int64, error) {
	return s.bookRepo.List(ctx, repositories.BookFilter{
		Query:         filter.Query,
		Language:      filter.Language,
		SubjectID:     filter.SubjectID,
		AuthorID:      filter.AuthorID,
		AvailableOnly: filter.AvailableOnly,
		SortBy:        filter.SortBy,
		SortOrder:     filter.SortOrder,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	})
}

// Create adds a title to the catalog together with its initial copies
func (s *BookService) Create(ctx context.Context, req dto.CreateBookRequest, actorID string) (*models.Book, error) {
	isbn13 := optionalString(req.ISBN13)
	isbn10 := optionalString(req.ISBN10)
	if isbn13 != nil || isbn10 != nil {
		exists, err := s.bookRepo.ExistsByISBN(ctx, isbn13, isbn10, "")
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrISBNAlreadyExists
		}
	}

	now := time.Now()
	book := &models.Book{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Subtitle:         optionalString(req.Subtitle),
		ISBN13:           isbn13,
		ISBN10:           isbn10,
		PublisherID:      req.PublisherID,
		PublicationYear:  req.PublicationYear,
		Edition:          optionalString(req.Edition),
		Pages:            req.Pages,
		Language:         bookLanguage(req.Language),
		Description:      optionalString(req.Description),
		ShelfLocation:    req.ShelfLocation,
		AcquisitionDate:  &now,
		AcquisitionPrice: req.AcquisitionPrice,
		TotalCopies:      req.TotalCopies,
	}

	if err := s.bookRepo.Create(ctx, book, req.AuthorIDs, req.SubjectIDs); err != nil {
		return nil, err
	}

	s.audit(ctx, book.ID, "INSERT", nil, book, actorID)
	logger.Info().Str("bookID", book.ID).Str("title", book.Title).Int("copies", book.TotalCopies).Msg("Book added to catalog")
	return s.bookRepo.GetByID(ctx, book.ID)
}

// Update applies bibliographic changes to a title. Copy counts are managed
// through the copy endpoints, not here.
func (s *BookService) Update(ctx context.Context, id string, req dto.UpdateBookRequest, actorID string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *book

	isbn13 := optionalString(req.ISBN13)
	isbn10 := optionalString(req.ISBN10)
	if isbn13 != nil || isbn10 != nil {
		exists, err := s.bookRepo.ExistsByISBN(ctx, isbn13, isbn10, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrISBNAlreadyExists
		}
	}

	book.Title = req.Title
	book.Subtitle = optionalString(req.Subtitle)
	book.ISBN13 = isbn13
	book.ISBN10 = isbn10
	book.PublisherID = req.PublisherID
	book.PublicationYear = req.PublicationYear
	book.Edition = optionalString(req.Edition)
	book.Pages = req.Pages
	book.Language = bookLanguage(req.Language)
	book.Description = optionalString(req.Description)
	book.ShelfLocation = req.ShelfLocation
	book.AcquisitionPrice = req.AcquisitionPrice

	if err := s.bookRepo.Update(ctx, book, req.AuthorIDs, req.SubjectIDs); err != nil {
		return nil, err
	}

	s.audit(ctx, book.ID, "UPDATE", &before, book, actorID)
	return s.bookRepo.GetByID(ctx, id)
}

// Delete soft-deletes a title and withdraws its copies. Titles with copies
// still out on loan cannot be removed.
func (s *BookService) Delete(ctx context.Context, id string, actorID string) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, id, "DELETE", book, nil, actorID)
	logger.Info().Str("bookID", id).Str("title", book.Title).Msg("Book removed from catalog")
	return nil
}

// ListCopies returns every copy of one title
func (s *BookService) ListCopies(ctx context.Context, bookID string) ([]*models.BookCopy, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.copyRepo.ListByBook(ctx, bookID)
}

// UpdateCopy edits the status, condition and notes of a single copy
func (s *BookService) UpdateCopy(ctx context.Context, copyID string, req dto.UpdateCopyRequest, actorID string) (*models.BookCopy, error) {
	copy, err := s.copyRepo.GetByID(ctx, copyID)
	if err != nil {
		return nil, err
	}
	before := *copy

	copy.Status = models.CopyStatus(req.Status)
	copy.ConditionRating = models.ConditionRating(req.ConditionRating)
	copy.Notes = optionalString(req.Notes)

	if err := s.copyRepo.Update(ctx, copy); err != nil {
		return nil, err
	}

	s.auditTable(ctx, "book_copies", copy.ID, "UPDATE", &before, copy, actorID)
	return copy, nil
}

// ExportCatalog returns the full catalog flattened for CSV download
func (s *BookService) ExportCatalog(ctx context.Context) ([]repositories.ExportRow, error) {
	return s.bookRepo.ListAllForExport(ctx)
}

func (s *BookService) audit(ctx context.Context, recordID, action string, oldValues, newValues interface{}, actorID string) {
	s.auditTable(ctx, "books", recordID, action, oldValues, newValues, actorID)
}

func (s *BookService) auditTable(ctx context.Context, table, recordID, action string, oldValues, newValues interface{}, actorID string) {
	if err := s.auditRepo.Record(ctx, table, recordID, action, oldValues, newValues, &actorID); err != nil {
		logger.Warn().Err(err).Str("recordID", recordID).Msg("Failed to write audit entry")
	}
}

func bookLanguage(lang string) string {
	if lang == "" {
		return "English"
	}
	return lang
}
