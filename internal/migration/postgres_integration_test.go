package migration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// setupPostgresTestDB opens the database named by HABITLIT_TEST_POSTGRES_URL.
// Example: HABITLIT_TEST_POSTGRES_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) *sql.DB {
	t.Helper()
	connStr := os.Getenv("HABITLIT_TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("HABITLIT_TEST_POSTGRES_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	dropAll := func() {
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS test_logs")
		db.Exec("DROP TABLE IF EXISTS test_habits")
	}
	dropAll()
	t.Cleanup(func() {
		dropAll()
		db.Close()
	})
	return db
}

func postgresTableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)", name).Scan(&exists)
	if err != nil {
		t.Fatalf("failed to check %s table: %v", name, err)
	}
	return exists
}

// TestPostgresSetVersion verifies SetVersion works with PostgreSQL $1 placeholders
func TestPostgresSetVersion(t *testing.T) {
	ctx := context.Background()
	db := setupPostgresTestDB(t)

	runner, err := NewRunner(db, os.DirFS(setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE test_habits (id TEXT PRIMARY KEY);",
	})), DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}

	for _, want := range []int{1, 2} {
		if err := runner.SetVersion(ctx, want); err != nil {
			t.Fatalf("SetVersion(%d) failed: %v", want, err)
		}
		got, err := runner.GetCurrentVersion(ctx)
		if err != nil {
			t.Fatalf("GetCurrentVersion failed: %v", err)
		}
		if got != want {
			t.Errorf("expected version %d, got %d", want, got)
		}
	}
}

func TestPostgresApplyMigrations(t *testing.T) {
	ctx := context.Background()
	db := setupPostgresTestDB(t)

	runner, err := NewRunner(db, os.DirFS(setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE test_habits (id TEXT PRIMARY KEY, name TEXT NOT NULL);`,
		"002_logs.sql": `CREATE TABLE test_logs (
			date TEXT NOT NULL,
			habit_id TEXT NOT NULL REFERENCES test_habits(id),
			UNIQUE (date, habit_id)
		);`,
	})), DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}

	count, err := runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if !postgresTableExists(t, db, "test_habits") || !postgresTableExists(t, db, "test_logs") {
		t.Error("expected both tables to be created")
	}

	count, err = runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", count)
	}
}

// TestPostgresMigrationRollbackOnError verifies transaction rollback works with PostgreSQL
func TestPostgresMigrationRollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupPostgresTestDB(t)

	runner, err := NewRunner(db, os.DirFS(setupTestMigrations(t, map[string]string{
		"001_bad.sql": `
			CREATE TABLE test_habits (id TEXT PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	})), DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}

	if _, err := runner.ApplyMigrations(ctx, nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if postgresTableExists(t, db, "test_habits") {
		t.Error("test_habits table should not exist after rollback")
	}
}
