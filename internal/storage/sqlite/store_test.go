package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "habitlit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProviderContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return newTestStore(t)
	})
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want %v", err, storage.ErrNotInitialized)
	}
}

func TestInitIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitlit.db")

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	h := storagetest.MustAddHabit(t, first, "water")
	settings, err := first.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	settings.City = "Jeju"
	if err := first.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Init(); err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetHabit(h.ID); err != nil {
		t.Errorf("habit lost after re-init: %v", err)
	}
	got, err := second.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got.City != "Jeju" {
		t.Errorf("City = %q after re-init, want %q", got.City, "Jeju")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitlit.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.Migrate(nil)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Migrate() applied %d migrations on an up-to-date database, want 0", n)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetDB().Exec(`
		INSERT INTO daily_logs (date, habit_id, done, note, updated_at)
		VALUES ('2025-01-01', 'ghost', 1, '', '2025-01-01T00:00:00Z')`)
	if err == nil {
		t.Error("expected foreign key violation for a log without a habit")
	}
}
