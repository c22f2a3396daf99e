package directory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deptdir/backend/internal/domain/shared"
)

const (
	// MaxNameLength is the longest department name accepted after trimming
	MaxNameLength = 100
	// MaxDescriptionLength is the longest description accepted
	MaxDescriptionLength = 500
)

// Department represents an organizational unit in the catalog
// It is the aggregate root for directory operations
type Department struct {
	ID          int64
	Name        string // Display name, unique case-insensitively
	Description string // Optional free-text description
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDepartment creates a new department with validated fields.
// The name is stored trimmed; a department starts without an ID until saved.
func NewDepartment(name, description string) (*Department, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Department{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the department's name and description after validation
func (d *Department) Update(name, description string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateDescription(description); err != nil {
		return err
	}

	d.Name = strings.TrimSpace(name)
	d.Description = description
	d.UpdatedAt = time.Now()

	return nil
}

// HasSameName reports whether the department's name equals the given
// name ignoring case and surrounding whitespace
func (d *Department) HasSameName(name string) bool {
	return strings.EqualFold(d.Name, strings.TrimSpace(name))
}

// Validation functions

// ValidateName checks the department name constraints.
// Length is measured in characters on the trimmed name, so multibyte
// names count the same as ASCII ones.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Department name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return shared.NewDomainError("INVALID_INPUT", "Department name cannot exceed 100 characters")
	}
	return nil
}

// ValidateDescription checks the optional description constraints,
// measured in characters
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_INPUT", "Department description cannot exceed 500 characters")
	}
	return nil
}
