package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/deptdir/backend/internal/domain/directory"
	"github.com/deptdir/backend/internal/domain/shared"
)

// setupDepartmentTestDB creates an in-memory SQLite database with the
// departments schema, including the case-insensitive unique name index
func setupDepartmentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(100) NOT NULL,
			description VARCHAR(500) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`CREATE UNIQUE INDEX ux_departments_name_lower ON departments (LOWER(name))`).Error
	require.NoError(t, err)

	return db
}

func mustCreateDepartment(t *testing.T, repo *GormDepartmentRepository, name, description string) *directory.Department {
	t.Helper()
	dept, err := directory.NewDepartment(name, description)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), dept))
	return dept
}

func TestGormDepartmentRepository_Create(t *testing.T) {
	db := setupDepartmentTestDB(t)
	repo := NewGormDepartmentRepository(db)
	ctx := context.Background()

	t.Run("assigns auto-increment IDs", func(t *testing.T) {
		first := mustCreateDepartment(t, repo, "Engineering", "builds")
		second := mustCreateDepartment(t, repo, "Sales", "sells")

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("round-trips all fields", func(t *testing.T) {
		created := mustCreateDepartment(t, repo, "Finance", "counts the money")

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Finance", found.Name)
		assert.Equal(t, "counts the money", found.Description)
		assert.False(t, found.CreatedAt.IsZero())
	})

	t.Run("unique index rejects duplicate names ignoring case", func(t *testing.T) {
		mustCreateDepartment(t, repo, "Legal", "")

		dup, err := directory.NewDepartment("LEGAL", "")
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestGormDepartmentRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("persists changed fields", func(t *testing.T) {
		db := setupDepartmentTestDB(t)
		repo := NewGormDepartmentRepository(db)
		dept := mustCreateDepartment(t, repo, "Engineering", "old")

		require.NoError(t, dept.Update("Platform", "new"))
		require.NoError(t, repo.Update(ctx, dept))

		found, err := repo.FindByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.Equal(t, "Platform", found.Name)
		assert.Equal(t, "new", found.Description)
	})

	t.Run("unique index rejects a name held by another department", func(t *testing.T) {
		db := setupDepartmentTestDB(t)
		repo := NewGormDepartmentRepository(db)
		mustCreateDepartment(t, repo, "Engineering", "")
		sales := mustCreateDepartment(t, repo, "Sales", "")

		require.NoError(t, sales.Update("engineering", ""))
		err := repo.Update(ctx, sales)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("recasing own name succeeds", func(t *testing.T) {
		db := setupDepartmentTestDB(t)
		repo := NewGormDepartmentRepository(db)
		dept := mustCreateDepartment(t, repo, "Engineering", "")

		require.NoError(t, dept.Update("ENGINEERING", ""))
		assert.NoError(t, repo.Update(ctx, dept))
	})
}

func TestGormDepartmentRepository_Delete(t *testing.T) {
	db := setupDepartmentTestDB(t)
	repo := NewGormDepartmentRepository(db)
	ctx := context.Background()

	t.Run("removes the department", func(t *testing.T) {
		dept := mustCreateDepartment(t, repo, "Engineering", "")

		require.NoError(t, repo.Delete(ctx, dept.ID))

		found, err := repo.FindByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDepartmentRepository_Reads(t *testing.T) {
	db := setupDepartmentTestDB(t)
	repo := NewGormDepartmentRepository(db)
	ctx := context.Background()

	mustCreateDepartment(t, repo, "Sales", "")
	mustCreateDepartment(t, repo, "Engineering", "")
	mustCreateDepartment(t, repo, "Engineering Support", "")
	mustCreateDepartment(t, repo, "Finance", "")

	t.Run("FindByID yields nil nil when absent", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindByName matches ignoring case", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "fInAnCe")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Finance", found.Name)
	})

	t.Run("FindByName yields nil nil when absent", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Marketing")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindAll orders by name", func(t *testing.T) {
		depts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, depts, 4)

		names := make([]string, len(depts))
		for i, d := range depts {
			names[i] = d.Name
		}
		assert.Equal(t, []string{"Engineering", "Engineering Support", "Finance", "Sales"}, names)
	})

	t.Run("SearchByName matches substrings ignoring case", func(t *testing.T) {
		depts, err := repo.SearchByName(ctx, "ENG")
		require.NoError(t, err)
		require.Len(t, depts, 2)
		assert.Equal(t, "Engineering", depts[0].Name)
		assert.Equal(t, "Engineering Support", depts[1].Name)
	})

	t.Run("SearchByName treats LIKE metacharacters literally", func(t *testing.T) {
		depts, err := repo.SearchByName(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, depts)
	})

	t.Run("ExistsByName ignores case", func(t *testing.T) {
		taken, err := repo.ExistsByName(ctx, "SALES")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsByName(ctx, "Marketing")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("ExistsByNameExcluding skips the excluded ID", func(t *testing.T) {
		sales, err := repo.FindByName(ctx, "Sales")
		require.NoError(t, err)

		taken, err := repo.ExistsByNameExcluding(ctx, "sales", sales.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repo.ExistsByNameExcluding(ctx, "sales", sales.ID+1000)
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("Count reflects stored departments", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestGormDepartmentRepository_StorageErrors(t *testing.T) {
	newMockRepo := func(t *testing.T) (*GormDepartmentRepository, sqlmock.Sqlmock) {
		db, mock, mockDB := newMockDatabase(t)
		t.Cleanup(func() { _ = mockDB.Close() })
		return NewGormDepartmentRepository(db.DB), mock
	}

	t.Run("FindByID propagates driver errors", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		driverErr := errors.New("connection reset")

		mock.ExpectQuery("SELECT").WillReturnError(driverErr)

		_, err := repo.FindByID(context.Background(), 1)
		assert.ErrorIs(t, err, driverErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Count propagates driver errors", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		driverErr := errors.New("connection reset")

		mock.ExpectQuery("SELECT count").WillReturnError(driverErr)

		_, err := repo.Count(context.Background())
		assert.ErrorIs(t, err, driverErr)
	})

	t.Run("Delete propagates driver errors", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		driverErr := errors.New("connection reset")

		mock.ExpectExec("DELETE").WillReturnError(driverErr)

		err := repo.Delete(context.Background(), 1)
		assert.ErrorIs(t, err, driverErr)
	})
}
