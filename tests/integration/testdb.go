// Package integration exercises the persistence and HTTP layers against
// a real PostgreSQL instance managed with testcontainers. All tests in
// this package share one container; each test starts from clean tables.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

var sharedPG struct {
	mu        sync.Mutex
	container testcontainers.Container
	dsn       string
}

// TestDB is a migrated gorm connection to the package-wide container.
type TestDB struct {
	DB    *gorm.DB
	sqlDB *sql.DB
	t     *testing.T
}

// NewSharedTestDB hands out a connection to the shared container,
// starting and migrating it on first use. Callers are responsible for
// removing rows they create, usually via CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedPG.mu.Lock()
	defer sharedPG.mu.Unlock()

	if sharedPG.container == nil {
		container, dsn := startPostgres(t)

		_, sqlDB := openGorm(t, dsn)
		applyMigrations(t, sqlDB)
		require.NoError(t, sqlDB.Close())

		sharedPG.container = container
		sharedPG.dsn = dsn
	}

	db, sqlDB := openGorm(t, sharedPG.dsn)
	t.Cleanup(func() { sqlDB.Close() })

	return &TestDB{DB: db, sqlDB: sqlDB, t: t}
}

// CleanTables truncates every public table except the migration
// bookkeeping table, resetting sequences along the way.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "listing tables")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error
		require.NoError(tdb.t, err, "truncating %s", table)
	}
}

// CleanupSharedContainer terminates the shared container. TestMain
// calls it after m.Run when the package used NewSharedTestDB.
func CleanupSharedContainer() {
	sharedPG.mu.Lock()
	defer sharedPG.mu.Unlock()

	if sharedPG.container == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedPG.container.Terminate(ctx)
	sharedPG.container = nil
	sharedPG.dsn = ""
}

func startPostgres(t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase("deptdir_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "starting PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "resolving connection string")

	return container, dsn
}

// openGorm dials dsn with the same error-translation setting the
// production connection uses, so duplicate-key violations surface as
// gorm.ErrDuplicatedKey here too.
func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	logLevel := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	require.NoError(t, err, "opening gorm connection")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	path := migrationsDir()
	require.NotEmpty(t, path, "migrations directory not found")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	require.NoError(t, err)

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "applying migrations")
	}
}

// migrationsDir walks up from this source file looking for migrations/.
func migrationsDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
