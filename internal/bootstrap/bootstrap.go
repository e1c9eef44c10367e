package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/sculib/library/internal/app/controllers"
	appMigrations "github.com/sculib/library/internal/app/migrations"
	appRepos "github.com/sculib/library/internal/app/repositories"
	appRoutes "github.com/sculib/library/internal/app/routes"
	appServices "github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/config"
	"github.com/sculib/library/internal/db"
	appMiddleware "github.com/sculib/library/internal/middleware"
	pkgAuth "github.com/sculib/library/internal/pkg/auth"
	"github.com/sculib/library/internal/pkg/email"
	"github.com/sculib/library/internal/pkg/helpers"
	"github.com/sculib/library/internal/pkg/logger"
	"github.com/sculib/library/internal/scheduler"
	"github.com/sculib/library/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	AccountRequestSvc  *appServices.AccountRequestService
	UserService        *appServices.UserService
	BookService        *appServices.BookService
	CatalogService     *appServices.CatalogService
	CirculationService *appServices.CirculationService
	ReservationService *appServices.ReservationService
	FineService        *appServices.FineService
	OverdueService     *appServices.OverdueService
	DashboardService   *appServices.DashboardService
	NotificationSvc    *appServices.NotificationService

	AuthController           *appControllers.AuthController
	AccountRequestController *appControllers.AccountRequestController
	UserController           *appControllers.UserController
	BookController           *appControllers.BookController
	CatalogController        *appControllers.CatalogController
	CirculationController    *appControllers.CirculationController
	ReservationController    *appControllers.ReservationController
	FineController           *appControllers.FineController
	DashboardController      *appControllers.DashboardController
	NotificationController   *appControllers.NotificationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	EmailService   email.EmailService
	Scheduler      *scheduler.Scheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg.Circulation, lgr); err != nil {
		// A partial seed is not fatal, an admin can repair the data by hand
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	policy := cfg.Circulation

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.AccountRequestRepository,
		deps.JWTService,
	)
	deps.AccountRequestSvc = appServices.NewAccountRequestService(
		deps.Repos.AccountRequestRepository,
		deps.Repos.UserRepository,
		deps.EmailService,
		policy,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.BorrowRepository,
		deps.Repos.AuditRepository,
		policy,
	)
	deps.BookService = appServices.NewBookService(
		deps.Repos.BookRepository,
		deps.Repos.BookCopyRepository,
		deps.Repos.AuditRepository,
	)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.AuthorRepository,
		deps.Repos.PublisherRepository,
		deps.Repos.SubjectRepository,
		deps.Repos.DepartmentRepository,
	)
	deps.CirculationService = appServices.NewCirculationService(
		deps.Repos.BorrowRepository,
		deps.Repos.UserRepository,
		policy,
	)
	deps.ReservationService = appServices.NewReservationService(
		deps.Repos.ReservationRepository,
		deps.Repos.BookRepository,
		deps.Repos.BorrowRepository,
		deps.Repos.NotificationRepository,
		deps.EmailService,
		policy,
	)
	deps.FineService = appServices.NewFineService(deps.Repos.FineRepository)
	deps.OverdueService = appServices.NewOverdueService(
		deps.Repos.BorrowRepository,
		deps.Repos.FineRepository,
		deps.Repos.NotificationRepository,
		deps.EmailService,
		policy,
	)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.DashboardRepository,
		deps.Repos.AuditRepository,
	)
	deps.NotificationSvc = appServices.NewNotificationService(deps.Repos.NotificationRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.AccountRequestController = appControllers.NewAccountRequestController(deps.AccountRequestSvc)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.BookController = appControllers.NewBookController(deps.BookService, lgr)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.CirculationController = appControllers.NewCirculationController(deps.CirculationService, deps.OverdueService)
	deps.ReservationController = appControllers.NewReservationController(deps.ReservationService)
	deps.FineController = appControllers.NewFineController(deps.FineService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationSvc)

	deps.Scheduler = scheduler.New(cfg, deps.OverdueService, deps.ReservationService, deps.AuthService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.AccountRequestController,
		deps.UserController,
		deps.BookController,
		deps.CatalogController,
		deps.CirculationController,
		deps.ReservationController,
		deps.FineController,
		deps.DashboardController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	return router
}
