package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/pkg/apperrors"
	"github.com/sculib/library/internal/pkg/dberrors"
	"github.com/sculib/library/internal/pkg/helpers"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = `id, student_id, full_name, email, phone, address, password, role,
	department_id, account_status, max_books_allowed, max_days_allowed,
	enrollment_date, graduation_date, created_at, updated_at, is_deleted`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.StudentID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.Address,
		&user.Password,
		&user.Role,
		&user.DepartmentID,
		&user.AccountStatus,
		&user.MaxBooksAllowed,
		&user.MaxDaysAllowed,
		&user.EnrollmentDate,
		&user.GraduationDate,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, student_id, full_name, email, phone, address, password, role,
			department_id, account_status, max_books_allowed, max_days_allowed,
			enrollment_date, graduation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.StudentID, user.FullName, user.Email, user.Phone, user.Address,
		user.Password, user.Role, user.DepartmentID, user.AccountStatus,
		user.MaxBooksAllowed, user.MaxDaysAllowed, user.EnrollmentDate, user.GraduationDate,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		// Services pre-check these, but a concurrent insert can still hit
		// the constraint
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_deleted = FALSE`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) AND is_deleted = FALSE`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// ExistsByEmail checks whether an account with this email exists
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND is_deleted = FALSE)`,
		email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// ExistsByStudentID checks whether an account with this student ID exists
func (r *UserRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE student_id = $1 AND is_deleted = FALSE)`,
		studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student ID existence: %w", err)
	}
	return exists, nil
}

// IsAccountActive reports whether the user exists and is in the active state
func (r *UserRepository) IsAccountActive(ctx context.Context, id string) (bool, error) {
	var status models.AccountStatus
	err := r.db.QueryRow(ctx, `
		SELECT account_status FROM users WHERE id = $1 AND is_deleted = FALSE`,
		id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("error checking account status: %w", err)
	}
	return status == models.AccountActive, nil
}

// List retrieves users with optional filters and pagination
func (r *UserRepository) List(ctx context.Context, query, role, accountStatus, departmentID string, page, size int) ([]*models.User, int64, error) {
	conditions := squirrel.And{squirrel.Expr("u.is_deleted = FALSE")}

	if query != "" {
		pattern := "%" + query + "%"
		conditions = append(conditions, squirrel.Or{
			squirrel.ILike{"u.full_name": pattern},
			squirrel.ILike{"u.email": pattern},
			squirrel.ILike{"u.student_id": pattern},
		})
	}
	if role != "" {
		conditions = append(conditions, squirrel.Eq{"u.role": role})
	}
	if accountStatus != "" {
		conditions = append(conditions, squirrel.Eq{"u.account_status": accountStatus})
	}
	if departmentID != "" {
		conditions = append(conditions, squirrel.Eq{"u.department_id": departmentID})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("users u").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}
	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	listSQL, listArgs, err := r.sb.Select(
		`u.id, u.student_id, u.full_name, u.email, u.phone, u.address, u.password, u.role,
			u.department_id, u.account_status, u.max_books_allowed, u.max_days_allowed,
			u.enrollment_date, u.graduation_date, u.created_at, u.updated_at, u.is_deleted,
			d.id, d.name, d.code`).
		From("users u").
		LeftJoin("departments d ON d.id = u.department_id").
		Where(conditions).
		OrderBy("u.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var deptID, deptName, deptCode *string
		if err := rows.Scan(
			&user.ID, &user.StudentID, &user.FullName, &user.Email, &user.Phone, &user.Address,
			&user.Password, &user.Role, &user.DepartmentID, &user.AccountStatus,
			&user.MaxBooksAllowed, &user.MaxDaysAllowed, &user.EnrollmentDate, &user.GraduationDate,
			&user.CreatedAt, &user.UpdatedAt, &user.IsDeleted,
			&deptID, &deptName, &deptCode,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		if deptID != nil {
			user.Department = &models.Department{ID: *deptID, Name: *deptName, Code: *deptCode}
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, totalItems, nil
}

// Update updates an existing user's admin-editable fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $1, phone = $2, address = $3, role = $4, department_id = $5,
			account_status = $6, max_books_allowed = $7, max_days_allowed = $8,
			updated_at = NOW()
		WHERE id = $9 AND is_deleted = FALSE
	`

	cmdTag, err := r.db.Exec(ctx, query,
		user.FullName, user.Phone, user.Address, user.Role, user.DepartmentID,
		user.AccountStatus, user.MaxBooksAllowed, user.MaxDaysAllowed, user.ID)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = FALSE`,
		hashedPassword, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SoftDelete marks a user as deleted without removing the row
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`,
		id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
