package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/deptdir/backend/internal/domain/directory"
	"github.com/deptdir/backend/internal/domain/shared"
	"github.com/deptdir/backend/internal/infrastructure/persistence/models"
)

// GormDepartmentRepository implements DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// Create saves a new department and writes the generated ID back
func (r *GormDepartmentRepository) Create(ctx context.Context, dept *directory.Department) error {
	model := models.DepartmentModelFromDomain(dept)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateWriteError(err)
	}

	dept.ID = model.ID
	dept.CreatedAt = model.CreatedAt
	dept.UpdatedAt = model.UpdatedAt

	return nil
}

// Update updates an existing department
func (r *GormDepartmentRepository) Update(ctx context.Context, dept *directory.Department) error {
	model := models.DepartmentModelFromDomain(dept)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a department by ID
func (r *GormDepartmentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.DepartmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(ctx context.Context, id int64) (*directory.Department, error) {
	var model models.DepartmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a department by name, matching case-insensitively
func (r *GormDepartmentRepository) FindByName(ctx context.Context, name string) (*directory.Department, error) {
	var model models.DepartmentModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every department ordered by name
func (r *GormDepartmentRepository) FindAll(ctx context.Context) ([]*directory.Department, error) {
	var deptModels []*models.DepartmentModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&deptModels).Error; err != nil {
		return nil, err
	}

	return modelsToDomain(deptModels), nil
}

// SearchByName returns departments whose name contains the keyword,
// matching case-insensitively, ordered by name
func (r *GormDepartmentRepository) SearchByName(ctx context.Context, keyword string) ([]*directory.Department, error) {
	var deptModels []*models.DepartmentModel

	pattern := "%" + escapeLikePattern(strings.ToLower(keyword)) + "%"
	if err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").
		Find(&deptModels).Error; err != nil {
		return nil, err
	}

	return modelsToDomain(deptModels), nil
}

// ExistsByName checks if a department name is taken, ignoring case
func (r *GormDepartmentRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DepartmentModel{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByNameExcluding checks if a department name is taken by any
// department other than the one with the given ID, ignoring case
func (r *GormDepartmentRepository) ExistsByNameExcluding(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DepartmentModel{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of departments
func (r *GormDepartmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DepartmentModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// translateWriteError maps a unique index violation to the domain
// conflict error so the index stays the authority on name uniqueness
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError("ALREADY_EXISTS", "Department with this name already exists")
	}
	return err
}

// escapeLikePattern escapes LIKE metacharacters so keywords match literally
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func modelsToDomain(deptModels []*models.DepartmentModel) []*directory.Department {
	departments := make([]*directory.Department, len(deptModels))
	for i, model := range deptModels {
		departments[i] = model.ToDomain()
	}
	return departments
}

// Ensure GormDepartmentRepository implements DepartmentRepository
var _ directory.DepartmentRepository = (*GormDepartmentRepository)(nil)
