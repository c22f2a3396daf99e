package directory

import (
	"context"
)

// DepartmentRepository defines the interface for department persistence
type DepartmentRepository interface {
	// Create saves a new department and assigns its ID
	Create(ctx context.Context, dept *Department) error

	// Update updates an existing department
	Update(ctx context.Context, dept *Department) error

	// Delete removes a department by ID.
	// Returns shared.ErrNotFound when no row matched.
	Delete(ctx context.Context, id int64) error

	// FindByID finds a department by ID.
	// Returns (nil, nil) when no department matches.
	FindByID(ctx context.Context, id int64) (*Department, error)

	// FindByName finds a department by name, matching case-insensitively.
	// Returns (nil, nil) when no department matches.
	FindByName(ctx context.Context, name string) (*Department, error)

	// FindAll returns every department ordered by name
	FindAll(ctx context.Context) ([]*Department, error)

	// SearchByName returns departments whose name contains the keyword,
	// matching case-insensitively, ordered by name
	SearchByName(ctx context.Context, keyword string) ([]*Department, error)

	// ExistsByName checks if a department name is taken, ignoring case
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsByNameExcluding checks if a department name is taken by any
	// department other than the one with the given ID, ignoring case
	ExistsByNameExcluding(ctx context.Context, name string, excludeID int64) (bool, error)

	// Count returns the number of departments
	Count(ctx context.Context) (int64, error)
}
