package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/controllers"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	accountRequestController *controllers.AccountRequestController,
	userController *controllers.UserController,
	bookController *controllers.BookController,
	catalogController *controllers.CatalogController,
	circulationController *controllers.CirculationController,
	reservationController *controllers.ReservationController,
	fineController *controllers.FineController,
	dashboardController *controllers.DashboardController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public routes: catalog browsing and authentication ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	books := v1.Group("/books")
	{
		books.GET("", bookController.List)
		books.GET("/:id", bookController.Get)
	}

	v1.GET("/authors", catalogController.ListAuthors)
	v1.GET("/authors/:id", catalogController.GetAuthor)
	v1.GET("/publishers", catalogController.ListPublishers)
	v1.GET("/publishers/:id", catalogController.GetPublisher)
	v1.GET("/subjects", catalogController.ListSubjects)
	v1.GET("/subjects/:id", catalogController.GetSubject)
	v1.GET("/departments", catalogController.ListDepartments)
	v1.GET("/departments/:id", catalogController.GetDepartment)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Profile and password need only a valid token so suspended members can
	// still see their own account
	authenticated.GET("/me", authController.GetProfile)
	authenticated.PUT("/me/password", authController.ChangePassword)

	// Everything else requires the account to be in the active state
	active := authenticated.Group("")
	active.Use(authMiddleware.ActiveAccountRequired())
	{
		active.GET("/me/borrows", circulationController.MyBorrows)
		active.GET("/me/reservations", reservationController.MyReservations)
		active.GET("/me/fines", fineController.MyFines)
		active.GET("/me/notifications", notificationController.List)
		active.POST("/me/notifications/:id/read", notificationController.MarkRead)
		active.POST("/me/notifications/read-all", notificationController.MarkAllRead)

		active.POST("/reservations", reservationController.Reserve)
		active.DELETE("/reservations/:id", reservationController.Cancel)
		active.POST("/borrows/:id/renew", circulationController.Renew)
	}

	// --- Desk operations: librarians and admins ---
	staff := active.Group("")
	staff.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleLibrarian)))
	{
		staff.POST("/borrows", circulationController.Borrow)
		staff.GET("/borrows", circulationController.List)
		staff.POST("/borrows/:id/return", circulationController.Return)
		staff.GET("/borrows/overdue", circulationController.ListOverdue)
		staff.POST("/borrows/overdue/process", circulationController.RunOverdueSweep)
		staff.POST("/borrows/reminders", circulationController.RunReminders)

		staff.GET("/books/:id/reservations", reservationController.Queue)
		staff.POST("/books/:id/reservations/notify", reservationController.NotifyNext)
		staff.POST("/reservations/expire", reservationController.ExpireSweep)

		staff.GET("/fines", fineController.List)
		staff.POST("/fines/:id/pay", fineController.Pay)
		staff.POST("/fines/:id/waive", fineController.Waive)

		staff.POST("/books", bookController.Create)
		staff.PUT("/books/:id", bookController.Update)
		staff.DELETE("/books/:id", bookController.Delete)
		staff.GET("/books/:id/copies", bookController.ListCopies)
		staff.PUT("/copies/:copyId", bookController.UpdateCopy)
		staff.GET("/books/export", bookController.ExportCSV)

		staff.POST("/authors", catalogController.CreateAuthor)
		staff.PUT("/authors/:id", catalogController.UpdateAuthor)
		staff.DELETE("/authors/:id", catalogController.DeleteAuthor)
		staff.POST("/publishers", catalogController.CreatePublisher)
		staff.PUT("/publishers/:id", catalogController.UpdatePublisher)
		staff.DELETE("/publishers/:id", catalogController.DeletePublisher)
		staff.POST("/subjects", catalogController.CreateSubject)
		staff.PUT("/subjects/:id", catalogController.UpdateSubject)
		staff.DELETE("/subjects/:id", catalogController.DeleteSubject)

		staff.GET("/account-requests", accountRequestController.List)
		staff.POST("/account-requests/:id/approve", accountRequestController.Approve)
		staff.POST("/account-requests/:id/reject", accountRequestController.Reject)
	}

	// --- Admin-only routes ---
	admin := active.Group("")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
	{
		admin.GET("/users", userController.List)
		admin.GET("/users/:id", userController.Get)
		admin.POST("/users", userController.Create)
		admin.PUT("/users/:id", userController.Update)
		admin.DELETE("/users/:id", userController.Delete)

		admin.POST("/departments", catalogController.CreateDepartment)
		admin.PUT("/departments/:id", catalogController.UpdateDepartment)
		admin.DELETE("/departments/:id", catalogController.DeleteDepartment)

		admin.GET("/dashboard/stats", dashboardController.Stats)
		admin.GET("/dashboard/audit", dashboardController.AuditLog)
	}
}
