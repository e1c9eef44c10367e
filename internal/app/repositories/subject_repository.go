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

// SubjectRepository handles database operations for subject headings
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
	}
}

// Create creates a new subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (id, name, description, parent_subject_id, dewey_decimal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		subject.ID, subject.Name, subject.Description,
		subject.ParentSubjectID, subject.DeweyDecimal,
	).Scan(&subject.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	query := `
		SELECT id, name, description, parent_subject_id, dewey_decimal, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Description,
		&subject.ParentSubjectID,
		&subject.DeweyDecimal,
		&subject.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// GetAll retrieves all subjects
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	query := `
		SELECT id, name, description, parent_subject_id, dewey_decimal, created_at
		FROM subjects
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.Description,
			&subject.ParentSubjectID,
			&subject.DeweyDecimal,
			&subject.CreatedAt,
		); err != nil {
			return nil, err
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// ExistsByName checks if a subject with this name exists
func (r *SubjectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM subjects WHERE LOWER(name) = LOWER($1))`,
		name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking subject existence: %w", err)
	}

	return exists, nil
}

// Update updates an existing subject
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := `
		UPDATE subjects
		SET name = $1, description = $2, parent_subject_id = $3, dewey_decimal = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		subject.Name, subject.Description, subject.ParentSubjectID,
		subject.DeweyDecimal, subject.ID)
	if err != nil {
		return fmt.Errorf("error updating subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// Delete deletes a subject by ID. Subjects with child subjects or tagged
// books cannot be removed.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	var hasRelations bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM book_subjects WHERE subject_id = $1)
			OR EXISTS(SELECT 1 FROM subjects WHERE parent_subject_id = $1)`,
		id).Scan(&hasRelations)
	if err != nil {
		return fmt.Errorf("error checking related entities: %w", err)
	}
	if hasRelations {
		return apperrors.ErrResourceHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}
