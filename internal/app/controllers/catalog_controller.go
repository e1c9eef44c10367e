package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sculib/library/internal/app/models/dto"
	"github.com/sculib/library/internal/app/services"
	"github.com/sculib/library/internal/middleware"
)

// CatalogController handles authors, publishers, subjects and departments
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListAuthors returns all authors
// @Summary List authors
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Author} "Authors"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /authors [get]
func (c *CatalogController) ListAuthors(ctx *gin.Context) {
	authors, err := c.catalogService.ListAuthors(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: authors, Timestamp: time.Now()})
}

// GetAuthor returns one author
// @Summary Get author by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Author ID"
// @Success 200 {object} dto.APIResponse{data=models.Author} "Author"
// @Failure 404 {object} dto.ErrorResponse "Author not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /authors/{id} [get]
func (c *CatalogController) GetAuthor(ctx *gin.Context) {
	author, err := c.catalogService.GetAuthor(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: author, Timestamp: time.Now()})
}

// CreateAuthor registers an author
// @Summary Create an author
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAuthorRequest true "Author information"
// @Success 201 {object} dto.APIResponse{data=models.Author} "Author created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Author already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /authors [post]
func (c *CatalogController) CreateAuthor(ctx *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid author data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	author, err := c.catalogService.CreateAuthor(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: author, Timestamp: time.Now()})
}

// UpdateAuthor edits an author record
// @Summary Update an author
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Author ID"
// @Param request body dto.CreateAuthorRequest true "Author fields"
// @Success 200 {object} dto.APIResponse{data=models.Author} "Author updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Author not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /authors/{id} [put]
func (c *CatalogController) UpdateAuthor(ctx *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid author data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	author, err := c.catalogService.UpdateAuthor(ctx, ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: author, Timestamp: time.Now()})
}

// DeleteAuthor removes an author
// @Summary Delete an author
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Author ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Author deleted"
// @Failure 404 {object} dto.ErrorResponse "Author not found"
// @Failure 409 {object} dto.ErrorResponse "Author still has books"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /authors/{id} [delete]
func (c *CatalogController) DeleteAuthor(ctx *gin.Context) {
	if err := c.catalogService.DeleteAuthor(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Author deleted successfully"}, Timestamp: time.Now()})
}

// ListPublishers returns all publishers
// @Summary List publishers
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Publisher} "Publishers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publishers [get]
func (c *CatalogController) ListPublishers(ctx *gin.Context) {
	publishers, err := c.catalogService.ListPublishers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: publishers, Timestamp: time.Now()})
}

// GetPublisher returns one publisher
// @Summary Get publisher by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Publisher ID"
// @Success 200 {object} dto.APIResponse{data=models.Publisher} "Publisher"
// @Failure 404 {object} dto.ErrorResponse "Publisher not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publishers/{id} [get]
func (c *CatalogController) GetPublisher(ctx *gin.Context) {
	publisher, err := c.catalogService.GetPublisher(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: publisher, Timestamp: time.Now()})
}

// CreatePublisher registers a publisher
// @Summary Create a publisher
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePublisherRequest true "Publisher information"
// @Success 201 {object} dto.APIResponse{data=models.Publisher} "Publisher created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Publisher already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publishers [post]
func (c *CatalogController) CreatePublisher(ctx *gin.Context) {
	var req dto.CreatePublisherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid publisher data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	publisher, err := c.catalogService.CreatePublisher(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: publisher, Timestamp: time.Now()})
}

// UpdatePublisher edits a publisher record
// @Summary Update a publisher
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Publisher ID"
// @Param request body dto.CreatePublisherRequest true "Publisher fields"
// @Success 200 {object} dto.APIResponse{data=models.Publisher} "Publisher updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Publisher not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publishers/{id} [put]
func (c *CatalogController) UpdatePublisher(ctx *gin.Context) {
	var req dto.CreatePublisherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid publisher data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	publisher, err := c.catalogService.UpdatePublisher(ctx, ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: publisher, Timestamp: time.Now()})
}

// DeletePublisher removes a publisher
// @Summary Delete a publisher
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Publisher ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Publisher deleted"
// @Failure 404 {object} dto.ErrorResponse "Publisher not found"
// @Failure 409 {object} dto.ErrorResponse "Publisher still has books"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publishers/{id} [delete]
func (c *CatalogController) DeletePublisher(ctx *gin.Context) {
	if err := c.catalogService.DeletePublisher(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Publisher deleted successfully"}, Timestamp: time.Now()})
}

// ListSubjects returns all subject headings
// @Summary List subjects
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.catalogService.ListSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subjects, Timestamp: time.Now()})
}

// GetSubject returns one subject heading
// @Summary Get subject by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [get]
func (c *CatalogController) GetSubject(ctx *gin.Context) {
	subject, err := c.catalogService.GetSubject(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subject, Timestamp: time.Now()})
}

// CreateSubject registers a subject heading
// @Summary Create a subject
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Parent subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [post]
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	subject, err := c.catalogService.CreateSubject(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: subject, Timestamp: time.Now()})
}

// UpdateSubject edits a subject heading
// @Summary Update a subject
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Param request body dto.CreateSubjectRequest true "Subject fields"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [put]
func (c *CatalogController) UpdateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	subject, err := c.catalogService.UpdateSubject(ctx, ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subject, Timestamp: time.Now()})
}

// DeleteSubject removes a subject heading
// @Summary Delete a subject
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Subject deleted"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject still in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [delete]
func (c *CatalogController) DeleteSubject(ctx *gin.Context) {
	if err := c.catalogService.DeleteSubject(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Subject deleted successfully"}, Timestamp: time.Now()})
}

// ListDepartments returns all departments
// @Summary List departments
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Department} "Departments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [get]
func (c *CatalogController) ListDepartments(ctx *gin.Context) {
	departments, err := c.catalogService.ListDepartments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: departments, Timestamp: time.Now()})
}

// GetDepartment returns one department
// @Summary Get department by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [get]
func (c *CatalogController) GetDepartment(ctx *gin.Context) {
	department, err := c.catalogService.GetDepartment(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: department, Timestamp: time.Now()})
}

// CreateDepartment registers a university department
// @Summary Create a department
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [post]
func (c *CatalogController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	department, err := c.catalogService.CreateDepartment(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: department, Timestamp: time.Now()})
}

// UpdateDepartment edits a department record
// @Summary Update a department
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param request body dto.CreateDepartmentRequest true "Department fields"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [put]
func (c *CatalogController) UpdateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	department, err := c.catalogService.UpdateDepartment(ctx, ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: department, Timestamp: time.Now()})
}

// DeleteDepartment removes a department
// @Summary Delete a department
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Department deleted"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Department still has members"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments/{id} [delete]
func (c *CatalogController) DeleteDepartment(ctx *gin.Context) {
	if err := c.catalogService.DeleteDepartment(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Department deleted successfully"}, Timestamp: time.Now()})
}
