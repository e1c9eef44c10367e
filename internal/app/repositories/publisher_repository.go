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

// PublisherRepository handles database operations for publishers
type PublisherRepository struct {
	db *pgxpool.Pool
}

// NewPublisherRepository creates a new publisher repository
func NewPublisherRepository(db *pgxpool.Pool) *PublisherRepository {
	return &PublisherRepository{
		db: db,
	}
}

// Create creates a new publisher
func (r *PublisherRepository) Create(ctx context.Context, publisher *models.Publisher) error {
	query := `
		INSERT INTO publishers (id, name, address, city, country, website, established_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		publisher.ID, publisher.Name, publisher.Address, publisher.City,
		publisher.Country, publisher.Website, publisher.EstablishedYear,
	).Scan(&publisher.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating publisher: %w", err)
	}

	return nil
}

// GetByID retrieves a publisher by ID
func (r *PublisherRepository) GetByID(ctx context.Context, id string) (*models.Publisher, error) {
	query := `
		SELECT id, name, address, city, country, website, established_year, created_at
		FROM publishers
		WHERE id = $1
	`

	var publisher models.Publisher
	err := r.db.QueryRow(ctx, query, id).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.Address,
		&publisher.City,
		&publisher.Country,
		&publisher.Website,
		&publisher.EstablishedYear,
		&publisher.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPublisherNotFound
		}
		return nil, fmt.Errorf("error retrieving publisher: %w", err)
	}

	return &publisher, nil
}

// GetAll retrieves all publishers
func (r *PublisherRepository) GetAll(ctx context.Context) ([]*models.Publisher, error) {
	query := `
		SELECT id, name, address, city, country, website, established_year, created_at
		FROM publishers
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishers []*models.Publisher
	for rows.Next() {
		var publisher models.Publisher
		if err := rows.Scan(
			&publisher.ID,
			&publisher.Name,
			&publisher.Address,
			&publisher.City,
			&publisher.Country,
			&publisher.Website,
			&publisher.EstablishedYear,
			&publisher.CreatedAt,
		); err != nil {
			return nil, err
		}
		publishers = append(publishers, &publisher)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return publishers, nil
}

// ExistsByName checks if a publisher with this name exists
func (r *PublisherRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM publishers WHERE LOWER(name) = LOWER($1))`,
		name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking publisher existence: %w", err)
	}

	return exists, nil
}

// Update updates an existing publisher
func (r *PublisherRepository) Update(ctx context.Context, publisher *models.Publisher) error {
	query := `
		UPDATE publishers
		SET name = $1, address = $2, city = $3, country = $4, website = $5, established_year = $6
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		publisher.Name, publisher.Address, publisher.City, publisher.Country,
		publisher.Website, publisher.EstablishedYear, publisher.ID)
	if err != nil {
		return fmt.Errorf("error updating publisher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPublisherNotFound
	}

	return nil
}

// Delete deletes a publisher by ID
func (r *PublisherRepository) Delete(ctx context.Context, id string) error {
	var hasBooks bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM books WHERE publisher_id = $1 AND is_deleted = FALSE)`,
		id).Scan(&hasBooks)
	if err != nil {
		return fmt.Errorf("error checking related books: %w", err)
	}
	if hasBooks {
		return apperrors.ErrResourceHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM publishers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting publisher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPublisherNotFound
	}

	return nil
}
