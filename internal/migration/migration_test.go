package migration

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestMigrations(t *testing.T, migrations map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for filename, content := range migrations {
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test migration %s: %v", filename, err)
		}
	}
	return dir
}

func newTestRunner(t *testing.T, db *sql.DB, dir string) *Runner {
	t.Helper()
	runner, err := NewRunner(db, os.DirFS(dir), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	db := setupTestDB(t)
	if _, err := NewRunner(db, os.DirFS(t.TempDir()), Driver("mysql")); err == nil {
		t.Error("NewRunner should reject an unsupported driver")
	}
}

func TestGetCurrentVersion(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(ctx, 5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"README.md":       "ignored",
	}))

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d: expected version %d and name %q, got version %d and name %q",
				i, w.version, w.name, migrations[i].Version, migrations[i].Name)
		}
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT);`,
		"002_logs.sql": `CREATE TABLE daily_logs (date TEXT, habit_id TEXT, done INTEGER);`,
	}))

	var lines []string
	count, err := runner.ApplyMigrations(ctx, func(s string) { lines = append(lines, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(lines) == 0 {
		t.Error("expected progress lines to be reported")
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	if !tableExists(t, db, "habits") {
		t.Error("habits table was not created")
	}
	if !tableExists(t, db, "daily_logs") {
		t.Error("daily_logs table was not created")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	dir := setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE habits (id TEXT PRIMARY KEY);`,
	})
	runner := newTestRunner(t, db, dir)

	count, err := runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}

	next := `CREATE TABLE digests (date TEXT, kind TEXT, content TEXT);`
	if err := os.WriteFile(filepath.Join(dir, "002_digests.sql"), []byte(next), 0644); err != nil {
		t.Fatalf("failed to write new migration: %v", err)
	}

	count, err = runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 more migration applied, got %d", count)
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
}

func TestApplyMigrationsNoOp(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE habits (id TEXT PRIMARY KEY);`,
	}))

	if _, err := runner.ApplyMigrations(ctx, nil); err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}

	count, err := runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations applied on second run, got %d", count)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql": `
			CREATE TABLE habits (id TEXT PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}))

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
	if tableExists(t, db, "habits") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("newer database", func(t *testing.T) {
		db := setupTestDB(t)
		runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
			"001_init.sql": `CREATE TABLE habits (id TEXT PRIMARY KEY);`,
		}))
		if err := runner.SetVersion(ctx, 10); err != nil {
			t.Fatalf("SetVersion failed: %v", err)
		}

		if err := runner.ValidateVersion(ctx); !errors.Is(err, ErrSchemaTooNew) {
			t.Errorf("ValidateVersion() error = %v, want %v", err, ErrSchemaTooNew)
		}
		if _, err := runner.ApplyMigrations(ctx, nil); !errors.Is(err, ErrSchemaTooNew) {
			t.Errorf("ApplyMigrations() error = %v, want %v", err, ErrSchemaTooNew)
		}
	})

	t.Run("pending migrations", func(t *testing.T) {
		db := setupTestDB(t)
		runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
			"001_init.sql": `CREATE TABLE habits (id TEXT PRIMARY KEY);`,
		}))
		if err := runner.ValidateVersion(ctx); !errors.Is(err, ErrSchemaOutdated) {
			t.Errorf("ValidateVersion() error = %v, want %v", err, ErrSchemaOutdated)
		}
	})

	t.Run("up to date", func(t *testing.T) {
		db := setupTestDB(t)
		runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
			"001_init.sql": `CREATE TABLE habits (id TEXT PRIMARY KEY);`,
		}))
		if _, err := runner.ApplyMigrations(ctx, nil); err != nil {
			t.Fatalf("ApplyMigrations failed: %v", err)
		}
		if err := runner.ValidateVersion(ctx); err != nil {
			t.Errorf("ValidateVersion() unexpected error: %v", err)
		}
	})
}

func TestGetLatestVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := newTestRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql":   `CREATE TABLE habits (id INTEGER);`,
		"003_logs.sql":   `CREATE TABLE daily_logs (id INTEGER);`,
		"002_update.sql": `ALTER TABLE habits ADD COLUMN name TEXT;`,
	}))

	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latestVersion != 3 {
		t.Errorf("expected latest version 3, got %d", latestVersion)
	}
}

func TestMigrationFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "missing underscore",
			files:   map[string]string{"001init.sql": `CREATE TABLE habits (id INTEGER);`},
			wantErr: "invalid migration filename format",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": `CREATE TABLE habits (id INTEGER);`},
			wantErr: "version must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_init.sql":  `CREATE TABLE habits (id INTEGER);`,
				"001_other.sql": `CREATE TABLE daily_logs (id INTEGER);`,
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			runner := newTestRunner(t, db, setupTestMigrations(t, tt.files))

			_, err := runner.ReadMigrationFiles()
			if err == nil {
				t.Fatalf("ReadMigrationFiles should have failed")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
