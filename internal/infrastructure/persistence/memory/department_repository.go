package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deptdir/backend/internal/domain/directory"
	"github.com/deptdir/backend/internal/domain/shared"
)

// DepartmentRepository is an in-memory implementation of the department
// repository. It mirrors the storage semantics of the GORM-backed
// repository, including case-insensitive name uniqueness, and is safe
// for concurrent use.
type DepartmentRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*directory.Department
}

// NewDepartmentRepository creates an empty in-memory department repository
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{
		nextID: 1,
		byID:   make(map[int64]*directory.Department),
	}
}

// Create saves a new department and assigns the next ID
func (r *DepartmentRepository) Create(ctx context.Context, dept *directory.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if strings.EqualFold(existing.Name, dept.Name) {
			return shared.NewDomainError("ALREADY_EXISTS", "Department with this name already exists")
		}
	}

	dept.ID = r.nextID
	r.nextID++

	r.byID[dept.ID] = copyDepartment(dept)
	return nil
}

// Update updates an existing department
func (r *DepartmentRepository) Update(ctx context.Context, dept *directory.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[dept.ID]; !ok {
		return shared.ErrNotFound
	}

	for id, existing := range r.byID {
		if id != dept.ID && strings.EqualFold(existing.Name, dept.Name) {
			return shared.NewDomainError("ALREADY_EXISTS", "Department with this name already exists")
		}
	}

	dept.UpdatedAt = time.Now()
	r.byID[dept.ID] = copyDepartment(dept)
	return nil
}

// Delete removes a department by ID
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// FindByID finds a department by ID, yielding (nil, nil) when absent
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*directory.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dept, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return copyDepartment(dept), nil
}

// FindByName finds a department by name ignoring case, yielding (nil, nil) when absent
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*directory.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dept := range r.byID {
		if strings.EqualFold(dept.Name, name) {
			return copyDepartment(dept), nil
		}
	}
	return nil, nil
}

// FindAll returns every department ordered by name
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*directory.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	depts := make([]*directory.Department, 0, len(r.byID))
	for _, dept := range r.byID {
		depts = append(depts, copyDepartment(dept))
	}
	sortByName(depts)
	return depts, nil
}

// SearchByName returns departments whose name contains the keyword,
// ignoring case, ordered by name
func (r *DepartmentRepository) SearchByName(ctx context.Context, keyword string) ([]*directory.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(keyword)
	depts := make([]*directory.Department, 0)
	for _, dept := range r.byID {
		if strings.Contains(strings.ToLower(dept.Name), needle) {
			depts = append(depts, copyDepartment(dept))
		}
	}
	sortByName(depts)
	return depts, nil
}

// ExistsByName checks if a department name is taken, ignoring case
func (r *DepartmentRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dept := range r.byID {
		if strings.EqualFold(dept.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByNameExcluding checks if a department name is taken by any
// department other than the one with the given ID, ignoring case
func (r *DepartmentRepository) ExistsByNameExcluding(ctx context.Context, name string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, dept := range r.byID {
		if id != excludeID && strings.EqualFold(dept.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of departments
func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func copyDepartment(d *directory.Department) *directory.Department {
	c := *d
	return &c
}

func sortByName(depts []*directory.Department) {
	sort.Slice(depts, func(i, j int) bool {
		return depts[i].Name < depts[j].Name
	})
}

// Ensure DepartmentRepository implements the domain interface
var _ directory.DepartmentRepository = (*DepartmentRepository)(nil)
