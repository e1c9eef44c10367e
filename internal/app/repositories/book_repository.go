package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/db"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/helpers"
)

// BookRepository handles database operations for books and their copies
type BookRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewBookRepository creates a new book repository
func NewBookRepository(database *db.PostgresDB) *BookRepository {
	return &BookRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const bookColumns = `b.id, b.title, b.subtitle, b.isbn_13, b.isbn_10, b.publisher_id,
	b.publication_year, b.edition, b.pages, b.language, b.description, b.shelf_location,
	b.acquisition_date, b.acquisition_price, b.total_copies, b.available_copies,
	b.created_at, b.updated_at, b.is_deleted`

func scanBook(row pgx.Row) (*models.Book, error) {
	var book models.Book
	err := row.Scan(
		&book.ID, &book.Title, &book.Subtitle, &book.ISBN13, &book.ISBN10,
		&book.PublisherID, &book.PublicationYear, &book.Edition, &book.Pages,
		&book.Language, &book.Description, &book.ShelfLocation,
		&book.AcquisitionDate, &book.AcquisitionPrice,
		&book.TotalCopies, &book.AvailableCopies,
		&book.CreatedAt, &book.UpdatedAt, &book.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, fmt.Errorf("error scanning book: %w", err)
	}
	return &book, nil
}

// Create inserts a book with its author/subject links and one copy row per
// total copy, all in a single transaction
func (r *BookRepository) Create(ctx context.Context, book *models.Book, authorIDs, subjectIDs []string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO books (id, title, subtitle, isbn_13, isbn_10, publisher_id,
				publication_year, edition, pages, language, description, shelf_location,
				acquisition_date, acquisition_price, total_copies, available_copies)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			book.ID, book.Title, book.Subtitle, book.ISBN13, book.ISBN10, book.PublisherID,
			book.PublicationYear, book.Edition, book.Pages, book.Language, book.Description,
			book.ShelfLocation, book.AcquisitionDate, book.AcquisitionPrice, book.TotalCopies,
		).Scan(&book.CreatedAt, &book.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating book: %w", err)
		}
		book.AvailableCopies = book.TotalCopies

		if err := insertBookLinks(ctx, tx, book.ID, authorIDs, subjectIDs); err != nil {
			return err
		}

		for i := 1; i <= book.TotalCopies; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO book_copies (id, book_id, copy_number, status, condition_rating, acquired_date)
				VALUES ($1, $2, $3, $4, $5, NOW())`,
				uuid.New().String(), book.ID, fmt.Sprintf("C%03d", i),
				models.CopyAvailable, models.ConditionGood)
			if err != nil {
				return fmt.Errorf("error creating book copy: %w", err)
			}
		}

		return nil
	})
}

func insertBookLinks(ctx context.Context, tx pgx.Tx, bookID string, authorIDs, subjectIDs []string) error {
	for i, authorID := range authorIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO book_authors (book_id, author_id, author_order)
			VALUES ($1, $2, $3)`,
			bookID, authorID, i+1)
		if err != nil {
			return fmt.Errorf("error linking author: %w", err)
		}
	}
	for _, subjectID := range subjectIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO book_subjects (book_id, subject_id)
			VALUES ($1, $2)`,
			bookID, subjectID)
		if err != nil {
			return fmt.Errorf("error linking subject: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a book with its publisher, authors and subjects
func (r *BookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.id = $1 AND b.is_deleted = FALSE`
	book, err := scanBook(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	var publisher models.Publisher
	err = r.db.Pool.QueryRow(ctx, `
		SELECT id, name, address, city, country, website, established_year, created_at
		FROM publishers WHERE id = $1`, book.PublisherID).Scan(
		&publisher.ID, &publisher.Name, &publisher.Address, &publisher.City,
		&publisher.Country, &publisher.Website, &publisher.EstablishedYear, &publisher.CreatedAt)
	if err == nil {
		book.Publisher = &publisher
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error retrieving publisher: %w", err)
	}

	if err := r.loadAuthors(ctx, map[string]*models.Book{book.ID: book}); err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT s.id, s.name, s.description, s.parent_subject_id, s.dewey_decimal, s.created_at
		FROM subjects s
		JOIN book_subjects bs ON bs.subject_id = s.id
		WHERE bs.book_id = $1
		ORDER BY s.name`, book.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Description,
			&subject.ParentSubjectID, &subject.DeweyDecimal, &subject.CreatedAt); err != nil {
			return nil, err
		}
		book.Subjects = append(book.Subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return book, nil
}

// loadAuthors attaches authors to the given books in author_order
func (r *BookRepository) loadAuthors(ctx context.Context, booksByID map[string]*models.Book) error {
	if len(booksByID) == 0 {
		return nil
	}

	ids := make([]string, 0, len(booksByID))
	for id := range booksByID {
		ids = append(ids, id)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT ba.book_id, a.id, a.full_name, a.birth_date, a.death_date, a.nationality, a.biography, a.created_at
		FROM authors a
		JOIN book_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = ANY($1)
		ORDER BY ba.book_id, ba.author_order`, ids)
	if err != nil {
		return fmt.Errorf("error retrieving authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID string
		var author models.Author
		if err := rows.Scan(&bookID, &author.ID, &author.FullName, &author.BirthDate,
			&author.DeathDate, &author.Nationality, &author.Biography, &author.CreatedAt); err != nil {
			return err
		}
		if book, ok := booksByID[bookID]; ok {
			book.Authors = append(book.Authors, author)
		}
	}
	return rows.Err()
}

// List retrieves books matching the filter with pagination. Text search runs
// over title, subtitle, ISBNs and author names.
func (r *BookRepository) List(ctx context.Context, filter BookFilter) ([]*models.Book, int64, error) {
	conditions := squirrel.And{squirrel.Expr("b.is_deleted = FALSE")}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		conditions = append(conditions, squirrel.Or{
			squirrel.ILike{"b.title": pattern},
			squirrel.ILike{"b.subtitle": pattern},
			squirrel.Eq{"b.isbn_13": filter.Query},
			squirrel.Eq{"b.isbn_10": filter.Query},
			squirrel.Expr(`EXISTS (
				SELECT 1 FROM book_authors ba
				JOIN authors a ON a.id = ba.author_id
				WHERE ba.book_id = b.id AND a.full_name ILIKE ?)`, pattern),
		})
	}
	if filter.Language != "" {
		conditions = append(conditions, squirrel.Eq{"b.language": filter.Language})
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, squirrel.Expr(
			"EXISTS (SELECT 1 FROM book_subjects bs WHERE bs.book_id = b.id AND bs.subject_id = ?)",
			filter.SubjectID))
	}
	if filter.AuthorID != "" {
		conditions = append(conditions, squirrel.Expr(
			"EXISTS (SELECT 1 FROM book_authors ba WHERE ba.book_id = b.id AND ba.author_id = ?)",
			filter.AuthorID))
	}
	if filter.AvailableOnly {
		conditions = append(conditions, squirrel.Expr("b.available_copies > 0"))
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("books b").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}
	var totalItems int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting books: %w", err)
	}

	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	listSQL, listArgs, err := r.sb.Select(bookColumns).
		From("books b").
		Where(conditions).
		OrderBy(fmt.Sprintf("%s %s", bookSortColumn(filter.SortBy), direction)).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	booksByID := make(map[string]*models.Book)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, book)
		booksByID[book.ID] = book
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadAuthors(ctx, booksByID); err != nil {
		return nil, 0, err
	}

	return books, totalItems, nil
}

// BookFilter describes the catalog listing filter
type BookFilter struct {
	Query         string
	Language      string
	SubjectID     string
	AuthorID      string
	AvailableOnly bool
	SortBy        string
	SortOrder     string
	Page          int
	PageSize      int
}

func bookSortColumn(sortBy string) string {
	switch sortBy {
	case "publicationYear":
		return "b.publication_year"
	case "createdAt":
		return "b.created_at"
	case "availableCopies":
		return "b.available_copies"
	default:
		return "b.title"
	}
}

// ExistsByISBN checks whether another book already carries one of the ISBNs
func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn13, isbn10 *string, excludeID string) (bool, error) {
	if isbn13 == nil && isbn10 == nil {
		return false, nil
	}
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM books
			WHERE ((isbn_13 IS NOT NULL AND isbn_13 = $1) OR (isbn_10 IS NOT NULL AND isbn_10 = $2))
				AND id != $3 AND is_deleted = FALSE
		)`, isbn13, isbn10, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking ISBN existence: %w", err)
	}
	return exists, nil
}

// Update updates bibliographic fields and re-links authors/subjects in one
// transaction
func (r *BookRepository) Update(ctx context.Context, book *models.Book, authorIDs, subjectIDs []string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE books
			SET title = $1, subtitle = $2, isbn_13 = $3, isbn_10 = $4, publisher_id = $5,
				publication_year = $6, edition = $7, pages = $8, language = $9,
				description = $10, shelf_location = $11, acquisition_price = $12,
				updated_at = NOW()
			WHERE id = $13 AND is_deleted = FALSE
		`

		cmdTag, err := tx.Exec(ctx, query,
			book.Title, book.Subtitle, book.ISBN13, book.ISBN10, book.PublisherID,
			book.PublicationYear, book.Edition, book.Pages, book.Language,
			book.Description, book.ShelfLocation, book.AcquisitionPrice, book.ID)
		if err != nil {
			return fmt.Errorf("error updating book: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrBookNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, book.ID); err != nil {
			return fmt.Errorf("error clearing author links: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM book_subjects WHERE book_id = $1`, book.ID); err != nil {
			return fmt.Errorf("error clearing subject links: %w", err)
		}

		return insertBookLinks(ctx, tx, book.ID, authorIDs, subjectIDs)
	})
}

// SoftDelete marks a book deleted and withdraws its copies. Books with
// copies still out on loan cannot be removed.
func (r *BookRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var hasActiveLoans bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM borrow_requests br
				JOIN book_copies bc ON bc.id = br.book_copy_id
				WHERE bc.book_id = $1 AND br.status IN ('approved', 'overdue') AND br.return_date IS NULL
			)`, id).Scan(&hasActiveLoans)
		if err != nil {
			return fmt.Errorf("error checking active loans: %w", err)
		}
		if hasActiveLoans {
			return apperrors.ErrResourceHasRelations
		}

		cmdTag, err := tx.Exec(ctx, `
			UPDATE books SET is_deleted = TRUE, available_copies = 0, updated_at = NOW()
			WHERE id = $1 AND is_deleted = FALSE`, id)
		if err != nil {
			return fmt.Errorf("error deleting book: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrBookNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE book_copies SET status = $1, is_deleted = TRUE
			WHERE book_id = $2 AND is_deleted = FALSE`,
			models.CopyWithdrawn, id)
		if err != nil {
			return fmt.Errorf("error withdrawing copies: %w", err)
		}

		return nil
	})
}

// ExportRow is one line of the catalog CSV export
type ExportRow struct {
	Title           string
	Authors         string
	Publisher       string
	ISBN13          *string
	PublicationYear int
	Language        string
	ShelfLocation   string
	TotalCopies     int
	AvailableCopies int
}

// ListAllForExport streams the whole catalog joined for CSV export
func (r *BookRepository) ListAllForExport(ctx context.Context) ([]ExportRow, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT b.title,
			COALESCE(string_agg(a.full_name, '; ' ORDER BY ba.author_order), ''),
			p.name, b.isbn_13, b.publication_year, b.language, b.shelf_location,
			b.total_copies, b.available_copies
		FROM books b
		JOIN publishers p ON p.id = b.publisher_id
		LEFT JOIN book_authors ba ON ba.book_id = b.id
		LEFT JOIN authors a ON a.id = ba.author_id
		WHERE b.is_deleted = FALSE
		GROUP BY b.id, p.name
		ORDER BY b.title`)
	if err != nil {
		return nil, fmt.Errorf("error exporting books: %w", err)
	}
	defer rows.Close()

	var export []ExportRow
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(&row.Title, &row.Authors, &row.Publisher, &row.ISBN13,
			&row.PublicationYear, &row.Language, &row.ShelfLocation,
			&row.TotalCopies, &row.AvailableCopies); err != nil {
			return nil, err
		}
		export = append(export, row)
	}

	return export, rows.Err()
}
