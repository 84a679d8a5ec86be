package backup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/storage/sqlite"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

// TestBackupRestoreWithStore runs the full workflow against a real habitlit
// database: log, back up, change, restore, reopen.
func TestBackupRestoreWithStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitlit.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	h := storagetest.MustAddHabit(t, store, "Stretching")
	if _, err := store.UpsertLog("2025-03-10", h.ID, true, "before"); err != nil {
		t.Fatalf("UpsertLog failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(dbPath).WithClock(tickingClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)))
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store = sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := store.UpsertLog("2025-03-10", h.ID, false, "after"); err != nil {
		t.Fatalf("UpsertLog failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	restored := sqlite.NewStore(dbPath)
	if err := restored.Load(); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	defer restored.Close()

	logs, err := restored.GetLogsForDate("2025-03-10")
	if err != nil {
		t.Fatalf("GetLogsForDate failed: %v", err)
	}
	got := logs[h.ID]
	if !got.Done || got.Note != "before" {
		t.Errorf("restored log = %+v, want done with note %q", got, "before")
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected the original backup plus a pre-restore backup, got %d", len(backups))
	}
}
