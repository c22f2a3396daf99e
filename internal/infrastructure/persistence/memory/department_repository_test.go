package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptdir/backend/internal/domain/directory"
	"github.com/deptdir/backend/internal/domain/shared"
)

func newDept(t *testing.T, name string) *directory.Department {
	t.Helper()
	dept, err := directory.NewDepartment(name, "")
	require.NoError(t, err)
	return dept
}

func TestDepartmentRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential IDs starting at 1", func(t *testing.T) {
		repo := NewDepartmentRepository()

		first := newDept(t, "Engineering")
		second := newDept(t, "Sales")

		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("rejects duplicate names ignoring case", func(t *testing.T) {
		repo := NewDepartmentRepository()
		require.NoError(t, repo.Create(ctx, newDept(t, "Engineering")))

		err := repo.Create(ctx, newDept(t, "ENGINEERING"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestDepartmentRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("persists changed fields", func(t *testing.T) {
		repo := NewDepartmentRepository()
		dept := newDept(t, "Engineering")
		require.NoError(t, repo.Create(ctx, dept))

		require.NoError(t, dept.Update("Platform", "infra"))
		require.NoError(t, repo.Update(ctx, dept))

		found, err := repo.FindByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.Equal(t, "Platform", found.Name)
		assert.Equal(t, "infra", found.Description)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		repo := NewDepartmentRepository()
		ghost := newDept(t, "Ghost")
		ghost.ID = 99

		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects a name held by another department", func(t *testing.T) {
		repo := NewDepartmentRepository()
		eng := newDept(t, "Engineering")
		sales := newDept(t, "Sales")
		require.NoError(t, repo.Create(ctx, eng))
		require.NoError(t, repo.Create(ctx, sales))

		require.NoError(t, sales.Update("engineering", ""))
		err := repo.Update(ctx, sales)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("keeping own name is not a conflict", func(t *testing.T) {
		repo := NewDepartmentRepository()
		dept := newDept(t, "Engineering")
		require.NoError(t, repo.Create(ctx, dept))

		require.NoError(t, dept.Update("ENGINEERING", "recased"))
		assert.NoError(t, repo.Update(ctx, dept))
	})
}

func TestDepartmentRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the department", func(t *testing.T) {
		repo := NewDepartmentRepository()
		dept := newDept(t, "Engineering")
		require.NoError(t, repo.Create(ctx, dept))

		require.NoError(t, repo.Delete(ctx, dept.ID))

		found, err := repo.FindByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		repo := NewDepartmentRepository()
		assert.ErrorIs(t, repo.Delete(ctx, 42), shared.ErrNotFound)
	})
}

func TestDepartmentRepository_Reads(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *DepartmentRepository {
		repo := NewDepartmentRepository()
		for _, name := range []string{"Sales", "Engineering", "Engineering Support", "Finance"} {
			require.NoError(t, repo.Create(ctx, newDept(t, name)))
		}
		return repo
	}

	t.Run("FindByID yields nil nil when absent", func(t *testing.T) {
		repo := NewDepartmentRepository()
		found, err := repo.FindByID(ctx, 7)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindByName matches ignoring case", func(t *testing.T) {
		repo := seed(t)
		found, err := repo.FindByName(ctx, "eNgInEeRiNg")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Engineering", found.Name)
	})

	t.Run("FindByName yields nil nil when absent", func(t *testing.T) {
		repo := seed(t)
		found, err := repo.FindByName(ctx, "Marketing")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindAll orders by name", func(t *testing.T) {
		repo := seed(t)
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
		repo := seed(t)
		depts, err := repo.SearchByName(ctx, "ENG")
		require.NoError(t, err)
		require.Len(t, depts, 2)
		assert.Equal(t, "Engineering", depts[0].Name)
		assert.Equal(t, "Engineering Support", depts[1].Name)
	})

	t.Run("SearchByName yields empty slice for no matches", func(t *testing.T) {
		repo := seed(t)
		depts, err := repo.SearchByName(ctx, "zzz")
		require.NoError(t, err)
		assert.Empty(t, depts)
	})

	t.Run("ExistsByNameExcluding skips the excluded ID", func(t *testing.T) {
		repo := seed(t)
		sales, err := repo.FindByName(ctx, "Sales")
		require.NoError(t, err)

		taken, err := repo.ExistsByNameExcluding(ctx, "sales", sales.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repo.ExistsByNameExcluding(ctx, "sales", sales.ID+1)
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("Count reflects stored departments", func(t *testing.T) {
		repo := seed(t)
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestDepartmentRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewDepartmentRepository()
	dept := newDept(t, "Engineering")
	require.NoError(t, repo.Create(ctx, dept))

	found, err := repo.FindByID(ctx, dept.ID)
	require.NoError(t, err)

	// Mutating the returned value must not affect stored state
	found.Name = "Hijacked"

	again, err := repo.FindByID(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", again.Name)
}
