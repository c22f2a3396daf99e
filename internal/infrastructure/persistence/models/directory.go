package models

import (
	"time"

	"github.com/deptdir/backend/internal/domain/directory"
)

// DepartmentModel is the persistence model for the Department domain entity.
// Name uniqueness is enforced case-insensitively by a unique index on
// LOWER(name), created by the migrations.
type DepartmentModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500);not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ToDomain converts the persistence model to a domain Department entity.
func (m *DepartmentModel) ToDomain() *directory.Department {
	return &directory.Department{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Department entity.
func (m *DepartmentModel) FromDomain(d *directory.Department) {
	m.ID = d.ID
	m.Name = d.Name
	m.Description = d.Description
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
}

// DepartmentModelFromDomain creates a new persistence model from a domain Department entity.
func DepartmentModelFromDomain(d *directory.Department) *DepartmentModel {
	m := &DepartmentModel{}
	m.FromDomain(d)
	return m
}
