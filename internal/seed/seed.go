// Package seed creates the default records a fresh installation needs:
// a handful of departments and the initial admin account.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/repositories"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@sculib.edu"
	defaultAdminPassword = "ChangeMe123!"
)

// CreateDefaultData creates default departments and the admin account if
// they don't exist. Errors are collected rather than aborting so a partial
// seed still leaves a usable installation.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, policy config.CirculationConfig, lgr zerolog.Logger) error {
	departmentRepo := repositories.NewDepartmentRepository(dbPool)
	userRepo := repositories.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (departments, admin account)...")
	var finalErr error

	departments := []struct {
		name string
		code string
	}{
		{"Computer Science", "CS"},
		{"Electrical Engineering", "EE"},
		{"Mathematics", "MATH"},
		{"Literature", "LIT"},
	}
	for _, d := range departments {
		exists, err := departmentRepo.ExistsByNameOrCode(ctx, d.name, d.code)
		if err != nil {
			lgr.Error().Err(err).Str("code", d.code).Msg("Error checking default department")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}
		dept := &models.Department{
			ID:   uuid.New().String(),
			Name: d.name,
			Code: d.code,
		}
		if err := departmentRepo.Create(ctx, dept); err != nil {
			lgr.Error().Err(err).Str("code", d.code).Msg("Error creating default department")
			finalErr = errors.Join(finalErr, err)
		}
	}

	adminExists, err := userRepo.ExistsByEmail(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking admin account")
		return errors.Join(finalErr, err)
	}
	if !adminExists {
		hashed, err := auth.HashPassword(defaultAdminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			return errors.Join(finalErr, err)
		}

		now := time.Now()
		admin := &models.User{
			ID:              uuid.New().String(),
			FullName:        "Library Administrator",
			Email:           defaultAdminEmail,
			Password:        hashed,
			Role:            models.RoleAdmin,
			AccountStatus:   models.AccountActive,
			MaxBooksAllowed: policy.DefaultMaxBooksAllowed,
			MaxDaysAllowed:  policy.DefaultLoanPeriodDays,
			EnrollmentDate:  &now,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			lgr.Error().Err(err).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Warn().Str("email", defaultAdminEmail).Msg("Default admin account created, change the password immediately")
		}
	}

	return finalErr
}
