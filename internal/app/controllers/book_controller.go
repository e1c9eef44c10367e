package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
	"github.com/sculib/library/internal/pkg/helpers"
)

// BookController handles catalog title operations
type BookController struct {
	bookService *services.BookService
	logger      zerolog.Logger
}

// NewBookController creates a new BookController
func NewBookController(bookService *services.BookService, logger zerolog.Logger) *BookController {
	return &BookController{
		bookService: bookService,
		logger:      logger,
	}
}

// List searches the catalog
// @Summary Search the catalog
// @Description Returns a filtered, sorted page of titles. The text query matches title, subtitle, ISBN and author names.
// @Tags books
// @Produce json
// @Param q query string false "Text query"
// @Param language query string false "Filter by language"
// @Param subjectId query string false "Filter by subject ID"
// @Param authorId query string false "Filter by author ID"
// @Param availableOnly query bool false "Only titles with at least one available copy"
// @Param sortBy query string false "Sort field" Enums(title, publicationYear, createdAt, availableCopies)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Titles"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books [get]
func (c *BookController) List(ctx *gin.Context) {
	var filter dto.BookFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	books, total, err := c.bookService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      books,
			Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
		},
		Timestamp: time.Now(),
	})
}

// Get returns one title
// @Summary Get book by ID
// @Description Returns a single title with publisher, authors and subjects
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=models.Book} "Title"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id} [get]
func (c *BookController) Get(ctx *gin.Context) {
	book, err := c.bookService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      book,
		Timestamp: time.Now(),
	})
}

// Create adds a title to the catalog
// @Summary Add a book
// @Description Registers a title together with its initial circulating copies
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Title information"
// @Success 201 {object} dto.APIResponse{data=models.Book} "Title added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Publisher or author not found"
// @Failure 409 {object} dto.ErrorResponse "ISBN already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books [post]
func (c *BookController) Create(ctx *gin.Context) {
	var req dto.CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid book data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := c.bookService.Create(ctx, req, ctx.GetString("userID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      book,
		Timestamp: time.Now(),
	})
}

// Update edits a title's bibliographic fields
// @Summary Update a book
// @Description Applies bibliographic edits. Copy counts are managed through the copy endpoints.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body dto.UpdateBookRequest true "Title fields"
// @Success 200 {object} dto.APIResponse{data=models.Book} "Title updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 409 {object} dto.ErrorResponse "ISBN already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id} [put]
func (c *BookController) Update(ctx *gin.Context) {
	var req dto.UpdateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid book data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := c.bookService.Update(ctx, ctx.Param("id"), req, ctx.GetString("userID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      book,
		Timestamp: time.Now(),
	})
}

// Delete removes a title from the catalog
// @Summary Delete a book
// @Description Soft-deletes a title and withdraws its copies. Fails while copies are out on loan.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Title deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 409 {object} dto.ErrorResponse "Copies still on loan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id} [delete]
func (c *BookController) Delete(ctx *gin.Context) {
	if err := c.bookService.Delete(ctx, ctx.Param("id"), ctx.GetString("userID")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Book deleted successfully"},
		Timestamp: time.Now(),
	})
}

// ListCopies returns every copy of a title
// @Summary List copies of a book
// @Description Returns all circulating copies of one title with their status and condition
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=[]models.BookCopy} "Copies"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id}/copies [get]
func (c *BookController) ListCopies(ctx *gin.Context) {
	copies, err := c.bookService.ListCopies(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      copies,
		Timestamp: time.Now(),
	})
}

// UpdateCopy edits one copy
// @Summary Update a copy
// @Description Edits the status, condition and notes of a single copy
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param copyId path string true "Copy ID"
// @Param request body dto.UpdateCopyRequest true "Copy fields"
// @Success 200 {object} dto.APIResponse{data=models.BookCopy} "Copy updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Copy not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /copies/{copyId} [put]
func (c *BookController) UpdateCopy(ctx *gin.Context) {
	var req dto.UpdateCopyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid copy data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	copy, err := c.bookService.UpdateCopy(ctx, ctx.Param("copyId"), req, ctx.GetString("userID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      copy,
		Timestamp: time.Now(),
	})
}

// ExportCSV streams the whole catalog as a CSV file
// @Summary Export the catalog
// @Description Downloads the full catalog as CSV, one row per title
// @Tags books
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "catalog.csv"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/export [get]
func (c *BookController) ExportCSV(ctx *gin.Context) {
	rows, err := c.bookService.ExportCatalog(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("catalog-%s.csv", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(ctx.Writer)
	header := []string{"Title", "Authors", "Publisher", "ISBN-13", "Year", "Language", "Shelf", "Total Copies", "Available Copies"}
	if err := w.Write(header); err != nil {
		c.logger.Error().Err(err).Msg("Failed to write CSV header")
		return
	}
	for _, row := range rows {
		isbn := ""
		if row.ISBN13 != nil {
			isbn = *row.ISBN13
		}
		record := []string{
			row.Title,
			row.Authors,
			row.Publisher,
			isbn,
			strconv.Itoa(row.PublicationYear),
			row.Language,
			row.ShelfLocation,
			strconv.Itoa(row.TotalCopies),
			strconv.Itoa(row.AvailableCopies),
		}
		if err := w.Write(record); err != nil {
			c.logger.Error().Err(err).Msg("Failed to write CSV record")
			return
		}
	}
	w.Flush()
}
