package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
	"github.com/sculib/library/internal/pkg/helpers"
)

// CirculationController handles desk operations: borrow, return, renew and
// overdue processing
type CirculationController struct {
	circulationService *services.CirculationService
	overdueService     *services.OverdueService
}

// NewCirculationController creates a new CirculationController
func NewCirculationController(
	circulationService *services.CirculationService,
	overdueService *services.OverdueService,
) *CirculationController {
	return &CirculationController{
		circulationService: circulationService,
		overdueService:     overdueService,
	}
}

// Borrow checks a copy out to a member
// @Summary Borrow a book
// @Description Lends an available copy of the given title to a member. The borrowing member must be active, under their loan limit and not already holding the title.
// @Tags circulation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BorrowBookRequest true "Member and title"
// @Success 201 {object} dto.APIResponse{data=models.BorrowRequest} "Loan created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden or member not active"
// @Failure 404 {object} dto.ErrorResponse "Member or book not found"
// @Failure 422 {object} dto.ErrorResponse "No copies available, loan limit reached or title already held"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows [post]
func (c *CirculationController) Borrow(ctx *gin.Context) {
	var req dto.BorrowBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid borrow data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	librarianID := ctx.GetString("userID")
	borrow, err := c.circulationService.Borrow(ctx, req.UserID, req.BookID, &librarianID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      borrow,
		Timestamp: time.Now(),
	})
}

// Return checks a copy back in
// @Summary Return a book
// @Description Closes a loan and puts the copy back in circulation. Copies returned damaged are held out of circulation.
// @Tags circulation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow ID"
// @Param request body dto.ReturnBookRequest true "Condition on return"
// @Success 200 {object} dto.APIResponse{data=models.BorrowRequest} "Loan closed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already returned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows/{id}/return [post]
func (c *CirculationController) Return(ctx *gin.Context) {
	var req dto.ReturnBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid return data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}
	borrow, err := c.circulationService.Return(ctx, ctx.Param("id"), models.ConditionRating(req.ConditionRating), notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      borrow,
		Timestamp: time.Now(),
	})
}

// Renew extends a loan's due date
// @Summary Renew a loan
// @Description Extends the due date of an active loan. Members may renew their own loans up to the renewal limit; staff may renew any loan.
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Borrow ID"
// @Success 200 {object} dto.APIResponse{data=models.BorrowRequest} "Loan renewed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the borrower"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already returned"
// @Failure 422 {object} dto.ErrorResponse "Renewal limit reached"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows/{id}/renew [post]
func (c *CirculationController) Renew(ctx *gin.Context) {
	userID := ctx.GetString("userID")
	role := ctx.GetString("roleType")
	isStaff := role == string(models.RoleAdmin) || role == string(models.RoleLibrarian)

	borrow, err := c.circulationService.Renew(ctx, ctx.Param("id"), userID, isStaff)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      borrow,
		Timestamp: time.Now(),
	})
}

// MyBorrows returns the caller's loans
// @Summary List my loans
// @Description Returns the authenticated member's loans, optionally only the ones still out
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param activeOnly query bool false "Only loans still out"
// @Success 200 {object} dto.APIResponse{data=[]models.BorrowDetail} "Loans"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/borrows [get]
func (c *CirculationController) MyBorrows(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.Query("activeOnly"))

	borrows, err := c.circulationService.MyBorrows(ctx, ctx.GetString("userID"), activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      borrows,
		Timestamp: time.Now(),
	})
}

// List returns a page of loans for staff
// @Summary List loans
// @Description Returns a page of loans across all members, optionally filtered by status
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(approved, returned, overdue, rejected)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows [get]
func (c *CirculationController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	borrows, total, err := c.circulationService.ListBorrows(ctx, ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      borrows,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// ListOverdue returns every loan currently past due
// @Summary List overdue loans
// @Description Returns all loans past their due date with the days overdue computed
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.BorrowDetail} "Overdue loans"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows/overdue [get]
func (c *CirculationController) ListOverdue(ctx *gin.Context) {
	borrows, err := c.circulationService.ListOverdue(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      borrows,
		Timestamp: time.Now(),
	})
}

// RunOverdueSweep runs the overdue processor on demand
// @Summary Run the overdue sweep
// @Description Flags loans past due and creates or refreshes their fines. The same sweep runs nightly on a schedule.
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OverdueRunResponse} "Sweep results"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows/overdue/process [post]
func (c *CirculationController) RunOverdueSweep(ctx *gin.Context) {
	result, err := c.overdueService.ProcessOverdue(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// RunReminders sends due-date reminders on demand
// @Summary Send due-date reminders
// @Description Emails members whose loans fall due soon and overdue notices for loans past due. The same run happens each morning on a schedule.
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReminderRunResponse} "Reminder results"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /borrows/reminders [post]
func (c *CirculationController) RunReminders(ctx *gin.Context) {
	result, err := c.overdueService.SendReminders(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}
