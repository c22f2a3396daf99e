package handler

import (
	"strconv"

	directoryapp "github.com/deptdir/backend/internal/application/directory"
	"github.com/deptdir/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DepartmentHandler handles department directory API endpoints
type DepartmentHandler struct {
	BaseHandler
	departmentService *directoryapp.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(departmentService *directoryapp.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// CreateDepartmentRequest represents a request to create a new department
// @Description Request body for creating a new department
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"Engineering"`
	Description string `json:"description" binding:"max=500" example:"Product development and platform teams"`
}

// UpdateDepartmentRequest represents a request to update a department
// @Description Request body for updating a department
type UpdateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"Engineering & Research"`
	Description string `json:"description" binding:"max=500" example:"Product development, platform and research teams"`
}

// Create godoc
// @Summary      Create a new department
// @Description  Create a new department with a unique name
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        request body CreateDepartmentRequest true "Department creation request"
// @Success      201 {object} dto.Response{data=directoryapp.DepartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := directoryapp.CreateDepartmentRequest{
		Name:        req.Name,
		Description: req.Description,
	}

	resp, err := h.departmentService.Create(c.Request.Context(), &appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List godoc
// @Summary      List departments
// @Description  List all departments ordered by name
// @Tags         departments
// @Produce      json
// @Success      200 {object} dto.Response{data=[]directoryapp.DepartmentResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.departmentService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	// List is unpaginated, so the slice length is the total.
	h.SuccessWithMeta(c, departments, int64(len(departments)), 1, len(departments))
}

// Search godoc
// @Summary      Search departments
// @Description  Search departments by a case-insensitive name fragment
// @Tags         departments
// @Produce      json
// @Param        keyword query string true "Name fragment to search for"
// @Success      200 {object} dto.Response{data=[]directoryapp.DepartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments/search [get]
func (h *DepartmentHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")

	departments, err := h.departmentService.Search(c.Request.Context(), keyword)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, departments)
}

// GetByID godoc
// @Summary      Get department by ID
// @Description  Get a single department by its numeric identifier
// @Tags         departments
// @Produce      json
// @Param        id path int true "Department ID"
// @Success      200 {object} dto.Response{data=directoryapp.DepartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments/{id} [get]
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid department ID")
		return
	}

	resp, err := h.departmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if resp == nil {
		h.NotFound(c, "Department not found")
		return
	}

	h.Success(c, resp)
}

// GetByName godoc
// @Summary      Get department by name
// @Description  Get a single department by name, matched case-insensitively
// @Tags         departments
// @Produce      json
// @Param        name path string true "Department name"
// @Success      200 {object} dto.Response{data=directoryapp.DepartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments/name/{name} [get]
func (h *DepartmentHandler) GetByName(c *gin.Context) {
	name := c.Param("name")

	resp, err := h.departmentService.GetByName(c.Request.Context(), name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if resp == nil {
		h.NotFound(c, "Department not found")
		return
	}

	h.Success(c, resp)
}

// Update godoc
// @Summary      Update a department
// @Description  Replace a department's name and description
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        id path int true "Department ID"
// @Param        request body UpdateDepartmentRequest true "Department update request"
// @Success      200 {object} dto.Response{data=directoryapp.DepartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid department ID")
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	appReq := directoryapp.UpdateDepartmentRequest{
		Name:        req.Name,
		Description: req.Description,
	}

	resp, err := h.departmentService.Update(c.Request.Context(), id, &appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a department
// @Description  Delete a department by its numeric identifier
// @Tags         departments
// @Produce      json
// @Param        id path int true "Department ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /directory/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid department ID")
		return
	}

	if err := h.departmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
