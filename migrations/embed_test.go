package migrations

import (
	"io/fs"
	"testing"
)

func TestBackendsShipSameVersions(t *testing.T) {
	sqliteFiles, err := fs.Glob(FS, "sqlite/*.sql")
	if err != nil {
		t.Fatalf("glob sqlite: %v", err)
	}
	postgresFiles, err := fs.Glob(FS, "postgres/*.sql")
	if err != nil {
		t.Fatalf("glob postgres: %v", err)
	}
	if len(sqliteFiles) == 0 {
		t.Fatal("no sqlite migrations embedded")
	}
	if len(sqliteFiles) != len(postgresFiles) {
		t.Errorf("sqlite has %d migrations, postgres has %d", len(sqliteFiles), len(postgresFiles))
	}
}
