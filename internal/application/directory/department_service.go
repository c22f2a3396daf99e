package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deptdir/backend/internal/domain/directory"
	"github.com/deptdir/backend/internal/domain/shared"
)

// =============================================================================
// Department DTOs
// =============================================================================

// CreateDepartmentRequest represents a request to create a new department
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateDepartmentRequest represents a request to update a department
type UpdateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// DepartmentResponse represents a department in API responses
type DepartmentResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDepartmentResponse converts a domain Department to DepartmentResponse
func ToDepartmentResponse(d *directory.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDepartmentResponses(depts []*directory.Department) []DepartmentResponse {
	responses := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		responses[i] = ToDepartmentResponse(d)
	}
	return responses
}

// =============================================================================
// Department Service
// =============================================================================

// DepartmentService handles department-related business operations.
// Field validation runs before uniqueness checks, and uniqueness checks
// run before any write is attempted.
type DepartmentService struct {
	deptRepo directory.DepartmentRepository
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(deptRepo directory.DepartmentRepository) *DepartmentService {
	return &DepartmentService{
		deptRepo: deptRepo,
	}
}

// Create validates and persists a new department
func (s *DepartmentService) Create(ctx context.Context, req *CreateDepartmentRequest) (*DepartmentResponse, error) {
	if req == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department payload is required")
	}

	dept, err := directory.NewDepartment(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	// Check name uniqueness before touching storage; the unique index
	// remains the authority if a concurrent create slips through
	exists, err := s.deptRepo.ExistsByName(ctx, dept.Name)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Department with this name already exists")
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, wrapStorageError(err)
	}

	response := ToDepartmentResponse(dept)
	return &response, nil
}

// Update validates and persists changes to an existing department
func (s *DepartmentService) Update(ctx context.Context, id int64, req *UpdateDepartmentRequest) (*DepartmentResponse, error) {
	if req == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department payload is required")
	}
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department ID must be positive")
	}

	// Field validation comes before existence and uniqueness checks
	if err := directory.ValidateName(req.Name); err != nil {
		return nil, err
	}
	if err := directory.ValidateDescription(req.Description); err != nil {
		return nil, err
	}

	dept, err := s.deptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if dept == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Department not found")
	}

	exists, err := s.deptRepo.ExistsByNameExcluding(ctx, strings.TrimSpace(req.Name), id)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Department with this name already exists")
	}

	if err := dept.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, wrapStorageError(err)
	}

	response := ToDepartmentResponse(dept)
	return &response, nil
}

// Delete removes a department by ID
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Department ID must be positive")
	}

	if err := s.deptRepo.Delete(ctx, id); err != nil {
		return wrapStorageError(err)
	}
	return nil
}

// GetByID retrieves a department by ID.
// A missing department yields (nil, nil) rather than an error.
func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*DepartmentResponse, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department ID must be positive")
	}

	dept, err := s.deptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if dept == nil {
		return nil, nil
	}

	response := ToDepartmentResponse(dept)
	return &response, nil
}

// GetByName retrieves a department by name, matching case-insensitively.
// A missing department yields (nil, nil) rather than an error.
func (s *DepartmentService) GetByName(ctx context.Context, name string) (*DepartmentResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department name cannot be empty")
	}

	dept, err := s.deptRepo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if dept == nil {
		return nil, nil
	}

	response := ToDepartmentResponse(dept)
	return &response, nil
}

// Search returns departments whose name contains the keyword, ignoring case,
// ordered by name
func (s *DepartmentService) Search(ctx context.Context, keyword string) ([]DepartmentResponse, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search keyword cannot be empty")
	}

	depts, err := s.deptRepo.SearchByName(ctx, strings.TrimSpace(keyword))
	if err != nil {
		return nil, wrapStorageError(err)
	}

	return toDepartmentResponses(depts), nil
}

// List returns all departments ordered by name
func (s *DepartmentService) List(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.deptRepo.FindAll(ctx)
	if err != nil {
		return nil, wrapStorageError(err)
	}

	return toDepartmentResponses(depts), nil
}

// Count returns the number of departments
func (s *DepartmentService) Count(ctx context.Context) (int64, error) {
	count, err := s.deptRepo.Count(ctx)
	if err != nil {
		return 0, wrapStorageError(err)
	}
	return count, nil
}

// wrapStorageError passes domain errors through untouched and wraps
// everything else as a persistence failure that keeps its cause
func wrapStorageError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.WrapDomainError("PERSISTENCE_FAILURE", "Storage operation failed", err)
}
