// Package clitest builds command contexts backed by a temporary SQLite
// database and no network providers.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

// Date is today for contexts built by New.
const Date = "2025-03-10"

// Clock returns 2025-03-10 09:00 UTC.
func Clock() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

// New returns an initialized context writing to the returned buffer. The
// stored timezone is UTC so Date is today.
func New(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	return NewWithDeps(t, coach.Deps{})
}

// NewWithDeps is New with fixed collaborators instead of the real clients.
func NewWithDeps(t *testing.T, deps coach.Deps) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitlit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		Out:       out,
		In:        &bytes.Buffer{},
		Now:       Clock,
		Providers: func(coach.Config) coach.Deps { return deps },
	}
	return ctx, out
}
