package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
)

// AuthorRepository handles database operations for authors
type AuthorRepository struct {
	db *pgxpool.Pool
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *pgxpool.Pool) *AuthorRepository {
	return &AuthorRepository{
		db: db,
	}
}

// Create creates a new author
func (r *AuthorRepository) Create(ctx context.Context, author *models.Author) error {
	query := `
		INSERT INTO authors (id, full_name, birth_date, death_date, nationality, biography)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		author.ID, author.FullName, author.BirthDate, author.DeathDate,
		author.Nationality, author.Biography,
	).Scan(&author.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating author: %w", err)
	}

	return nil
}

// GetByID retrieves an author by ID
func (r *AuthorRepository) GetByID(ctx context.Context, id string) (*models.Author, error) {
	query := `
		SELECT id, full_name, birth_date, death_date, nationality, biography, created_at
		FROM authors
		WHERE id = $1
	`

	var author models.Author
	err := r.db.QueryRow(ctx, query, id).Scan(
		&author.ID,
		&author.FullName,
		&author.BirthDate,
		&author.DeathDate,
		&author.Nationality,
		&author.Biography,
		&author.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("error retrieving author: %w", err)
	}

	return &author, nil
}

// GetAll retrieves all authors
func (r *AuthorRepository) GetAll(ctx context.Context) ([]*models.Author, error) {
	query := `
		SELECT id, full_name, birth_date, death_date, nationality, biography, created_at
		FROM authors
		ORDER BY full_name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		var author models.Author
		if err := rows.Scan(
			&author.ID,
			&author.FullName,
			&author.BirthDate,
			&author.DeathDate,
			&author.Nationality,
			&author.Biography,
			&author.CreatedAt,
		); err != nil {
			return nil, err
		}
		authors = append(authors, &author)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return authors, nil
}

// ExistsByName checks if an author with this exact name exists
func (r *AuthorRepository) ExistsByName(ctx context.Context, fullName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM authors WHERE LOWER(full_name) = LOWER($1))`,
		fullName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking author existence: %w", err)
	}

	return exists, nil
}

// Update updates an existing author
func (r *AuthorRepository) Update(ctx context.Context, author *models.Author) error {
	query := `
		UPDATE authors
		SET full_name = $1, birth_date = $2, death_date = $3, nationality = $4, biography = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		author.FullName, author.BirthDate, author.DeathDate,
		author.Nationality, author.Biography, author.ID)
	if err != nil {
		return fmt.Errorf("error updating author: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAuthorNotFound
	}

	return nil
}

// Delete deletes an author by ID
func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	var hasBooks bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM book_authors WHERE author_id = $1)`,
		id).Scan(&hasBooks)
	if err != nil {
		return fmt.Errorf("error checking related books: %w", err)
	}
	if hasBooks {
		return apperrors.ErrResourceHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting author: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAuthorNotFound
	}

	return nil
}
