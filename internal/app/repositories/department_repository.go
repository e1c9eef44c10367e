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

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (id, name, code, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		department.ID, department.Name, department.Code, department.Description,
	).Scan(&department.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	query := `
		SELECT id, name, code, description, created_at
		FROM departments
		WHERE id = $1
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, id).Scan(
		&department.ID,
		&department.Name,
		&department.Code,
		&department.Description,
		&department.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return &department, nil
}

// GetAll retrieves all departments
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	query := `
		SELECT id, name, code, description, created_at
		FROM departments
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(
			&department.ID,
			&department.Name,
			&department.Code,
			&department.Description,
			&department.CreatedAt,
		); err != nil {
			return nil, err
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// ExistsByNameOrCode checks if a department exists by name or code
func (r *DepartmentRepository) ExistsByNameOrCode(ctx context.Context, name, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM departments WHERE name = $1 OR code = $2)`,
		name, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department existence: %w", err)
	}

	return exists, nil
}

// Update updates an existing department
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	// Check if department name or code is already used by another department
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM departments WHERE (name = $1 OR code = $2) AND id != $3)`,
		department.Name, department.Code, department.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking department uniqueness: %w", err)
	}
	if exists {
		return apperrors.ErrDepartmentAlreadyExists
	}

	query := `
		UPDATE departments
		SET name = $1, code = $2, description = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		department.Name, department.Code, department.Description, department.ID)
	if err != nil {
		return fmt.Errorf("error updating department: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

// Delete deletes a department by ID
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	// Departments referenced by users or pending applications cannot be removed
	var hasRelatedEntities bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE department_id = $1 AND is_deleted = FALSE)
			OR EXISTS(SELECT 1 FROM account_requests WHERE department_id = $1 AND status = 'pending')`,
		id).Scan(&hasRelatedEntities)
	if err != nil {
		return fmt.Errorf("error checking related entities: %w", err)
	}
	if hasRelatedEntities {
		return apperrors.ErrResourceHasRelations
	}

	query := `DELETE FROM departments WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}
