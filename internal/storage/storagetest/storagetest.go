// Package storagetest holds behaviour tests shared by every storage.Provider.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

// Factory returns a freshly initialized, empty store.
type Factory func(t *testing.T) storage.Provider

// NewHabit builds a valid active habit with a fresh UUIDv7 id.
func NewHabit(t *testing.T, name string) models.Habit {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("failed to generate id: %v", err)
	}
	return models.Habit{
		ID:            id.String(),
		Name:          name,
		Category:      "health",
		TargetValue:   10,
		TargetUnit:    "minutes",
		Difficulty:    2,
		FrequencyType: models.FrequencyDaily,
		IsActive:      true,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

// MustAddHabit inserts a habit and fails the test on error.
func MustAddHabit(t *testing.T, store storage.Provider, name string) models.Habit {
	t.Helper()
	h := NewHabit(t, name)
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit(%q) failed: %v", name, err)
	}
	return h
}

// Run exercises the full Provider contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Habits", func(t *testing.T) { testHabits(t, newStore(t)) })
	t.Run("HabitCreatedAtUTC", func(t *testing.T) { testHabitCreatedAtUTC(t, newStore(t)) })
	t.Run("UpsertLogRoundTrip", func(t *testing.T) { testUpsertRoundTrip(t, newStore(t)) })
	t.Run("UpsertLogIdempotent", func(t *testing.T) { testUpsertIdempotent(t, newStore(t)) })
	t.Run("UpsertLogRejects", func(t *testing.T) { testUpsertRejects(t, newStore(t)) })
	t.Run("LogsInRange", func(t *testing.T) { testLogsInRange(t, newStore(t)) })
	t.Run("Digests", func(t *testing.T) { testDigests(t, newStore(t)) })
	t.Run("Bulk", func(t *testing.T) { testBulk(t, newStore(t)) })
}

func testSettings(t *testing.T, store storage.Provider) {
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if diff := cmp.Diff(models.DefaultSettings(), settings); diff != "" {
		t.Errorf("default settings mismatch (-want +got):\n%s", diff)
	}

	settings.City = "Busan"
	settings.RewardThreshold = 85
	settings.AutoCoach = true
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if diff := cmp.Diff(settings, got); diff != "" {
		t.Errorf("saved settings mismatch (-want +got):\n%s", diff)
	}
}

func testHabits(t *testing.T, store storage.Provider) {
	water := MustAddHabit(t, store, "water")
	stretch := MustAddHabit(t, store, "stretching")
	study := MustAddHabit(t, store, "english study")

	got, err := store.GetHabit(water.ID)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if diff := cmp.Diff(water, got); diff != "" {
		t.Errorf("GetHabit() mismatch (-want +got):\n%s", diff)
	}

	byName, err := store.GetHabitByName("stretching")
	if err != nil {
		t.Fatalf("GetHabitByName() failed: %v", err)
	}
	if byName.ID != stretch.ID {
		t.Errorf("GetHabitByName() id = %s, want %s", byName.ID, stretch.ID)
	}

	if _, err := store.GetHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(missing) error = %v, want %v", err, storage.ErrNotFound)
	}

	if err := store.AddHabit(NewHabit(t, "water")); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("AddHabit(duplicate) error = %v, want %v", err, storage.ErrDuplicateHabit)
	}

	if err := store.SetHabitActive(stretch.ID, false); err != nil {
		t.Fatalf("SetHabitActive() failed: %v", err)
	}
	if err := store.SetHabitActive("missing", false); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SetHabitActive(missing) error = %v, want %v", err, storage.ErrNotFound)
	}

	active, err := store.GetActiveHabits()
	if err != nil {
		t.Fatalf("GetActiveHabits() failed: %v", err)
	}
	if ids := habitIDs(active); !cmp.Equal(ids, []string{water.ID, study.ID}) {
		t.Errorf("GetActiveHabits() ids = %v, want [%s %s]", ids, water.ID, study.ID)
	}

	all, err := store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() failed: %v", err)
	}
	if ids := habitIDs(all); !cmp.Equal(ids, []string{water.ID, study.ID, stretch.ID}) {
		t.Errorf("GetAllHabits() ids = %v, want active first then inactive", ids)
	}

	study.TargetValue = 30
	study.Difficulty = 4
	if err := store.UpdateHabit(study); err != nil {
		t.Fatalf("UpdateHabit() failed: %v", err)
	}
	updated, err := store.GetHabit(study.ID)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if updated.TargetValue != 30 || updated.Difficulty != 4 {
		t.Errorf("UpdateHabit() not persisted: got target %d difficulty %d", updated.TargetValue, updated.Difficulty)
	}

	study.Name = "water"
	if err := store.UpdateHabit(study); !errors.Is(err, storage.ErrDuplicateHabit) {
		t.Errorf("UpdateHabit(rename to taken name) error = %v, want %v", err, storage.ErrDuplicateHabit)
	}

	count, err := store.CountHabits()
	if err != nil {
		t.Fatalf("CountHabits() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("CountHabits() = %d, want 3", count)
	}
}

func testHabitCreatedAtUTC(t *testing.T, store storage.Provider) {
	seoul := time.FixedZone("KST", 9*60*60)
	h := NewHabit(t, "Evening walk")
	// 08:15 in Seoul is still the previous day in UTC
	h.CreatedAt = time.Date(2025, 3, 10, 8, 15, 0, 0, seoul)
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}

	got, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("CreatedAt = %v, want the instant %v", got.CreatedAt, h.CreatedAt)
	}
	if _, offset := got.CreatedAt.Zone(); offset != 0 {
		t.Errorf("CreatedAt = %v, want it stored in UTC", got.CreatedAt)
	}
	if day := got.CreatedAt.Format("2006-01-02"); day != "2025-03-09" {
		t.Errorf("CreatedAt day = %s, want 2025-03-09", day)
	}
}

func testUpsertRoundTrip(t *testing.T, store storage.Provider) {
	h := MustAddHabit(t, store, "meditation")

	written, err := store.UpsertLog("2025-03-01", h.ID, true, "10 minutes after lunch")
	if err != nil {
		t.Fatalf("UpsertLog() failed: %v", err)
	}

	logs, err := store.GetLogsForDate("2025-03-01")
	if err != nil {
		t.Fatalf("GetLogsForDate() failed: %v", err)
	}
	got, ok := logs[h.ID]
	if !ok {
		t.Fatalf("GetLogsForDate() missing habit %s", h.ID)
	}
	if diff := cmp.Diff(written, got); diff != "" {
		t.Errorf("round trip mismatch (-written +read):\n%s", diff)
	}
	if !got.Done || got.Note != "10 minutes after lunch" {
		t.Errorf("got done=%v note=%q, want done=true note=%q", got.Done, got.Note, "10 minutes after lunch")
	}

	if _, err := store.UpsertLog("2025-03-01", h.ID, false, ""); err != nil {
		t.Fatalf("UpsertLog() overwrite failed: %v", err)
	}
	logs, err = store.GetLogsForDate("2025-03-01")
	if err != nil {
		t.Fatalf("GetLogsForDate() failed: %v", err)
	}
	if len(logs) != 1 || logs[h.ID].Done || logs[h.ID].Note != "" {
		t.Errorf("overwrite not applied: %+v", logs)
	}
}

func testUpsertIdempotent(t *testing.T, store storage.Provider) {
	h := MustAddHabit(t, store, "water")

	for i := 0; i < 3; i++ {
		if _, err := store.UpsertLog("2025-03-02", h.ID, true, "same"); err != nil {
			t.Fatalf("UpsertLog() #%d failed: %v", i, err)
		}
	}

	records, err := store.GetLogsInRange("2025-03-02", "2025-03-02")
	if err != nil {
		t.Fatalf("GetLogsInRange() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after repeated upserts, want 1", len(records))
	}
	if !records[0].Done || records[0].Note != "same" {
		t.Errorf("got done=%v note=%q, want done=true note=%q", records[0].Done, records[0].Note, "same")
	}
}

func testUpsertRejects(t *testing.T, store storage.Provider) {
	h := MustAddHabit(t, store, "water")

	if _, err := store.UpsertLog("2025-03-02", "no-such-habit", true, ""); !errors.Is(err, storage.ErrUnknownHabit) {
		t.Errorf("UpsertLog(unknown habit) error = %v, want %v", err, storage.ErrUnknownHabit)
	}
	if _, err := store.UpsertLog("2025-02-30", h.ID, true, ""); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("UpsertLog(bad date) error = %v, want %v", err, validation.ErrInvalidInput)
	}

	logs, err := store.GetLogsForDate("2025-03-02")
	if err != nil {
		t.Fatalf("GetLogsForDate() failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("rejected writes left %d records behind", len(logs))
	}
}

func testLogsInRange(t *testing.T, store storage.Provider) {
	a := MustAddHabit(t, store, "water")
	b := MustAddHabit(t, store, "stretching")

	writes := []struct {
		date string
		id   string
		done bool
	}{
		{"2025-03-01", b.ID, false},
		{"2025-03-01", a.ID, true},
		{"2025-03-03", a.ID, true},
		{"2025-03-02", b.ID, true},
		{"2025-03-05", a.ID, true}, // outside range
		{"2025-02-28", a.ID, true}, // outside range
	}
	for _, w := range writes {
		if _, err := store.UpsertLog(w.date, w.id, w.done, ""); err != nil {
			t.Fatalf("UpsertLog(%s, %s) failed: %v", w.date, w.id, err)
		}
	}

	records, err := store.GetLogsInRange("2025-03-01", "2025-03-03")
	if err != nil {
		t.Fatalf("GetLogsInRange() failed: %v", err)
	}

	type key struct{ Date, HabitID, Name string }
	var got []key
	for _, r := range records {
		got = append(got, key{r.Date, r.HabitID, r.HabitName})
	}
	want := []key{
		{"2025-03-03", a.ID, "water"},
		{"2025-03-02", b.ID, "stretching"},
		{"2025-03-01", a.ID, "water"},
		{"2025-03-01", b.ID, "stretching"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetLogsInRange() mismatch (-want +got):\n%s", diff)
	}
	if records[0].Category != "health" {
		t.Errorf("joined category = %q, want %q", records[0].Category, "health")
	}

	if _, err := store.GetLogsInRange("2025-03-03", "2025-03-01"); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("GetLogsInRange(reversed) error = %v, want %v", err, validation.ErrInvalidInput)
	}
}

func testDigests(t *testing.T, store storage.Provider) {
	if _, err := store.GetDigest("2025-03-01", models.DigestCoach); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetDigest(absent) error = %v, want %v", err, storage.ErrNotFound)
	}

	if err := store.SaveDigest("2025-03-01", models.DigestCoach, "first"); err != nil {
		t.Fatalf("SaveDigest() failed: %v", err)
	}
	if err := store.SaveDigest("2025-03-01", models.DigestCoach, "second"); err != nil {
		t.Fatalf("SaveDigest() overwrite failed: %v", err)
	}
	if err := store.SaveDigest("2025-03-01", models.DigestInsight, "insight"); err != nil {
		t.Fatalf("SaveDigest() failed: %v", err)
	}

	got, err := store.GetDigest("2025-03-01", models.DigestCoach)
	if err != nil {
		t.Fatalf("GetDigest() failed: %v", err)
	}
	if got.Content != "second" {
		t.Errorf("GetDigest() content = %q, want %q", got.Content, "second")
	}

	if err := store.SaveDigest("2025-03-01", models.DigestKind("poem"), "x"); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("SaveDigest(bad kind) error = %v, want %v", err, validation.ErrInvalidInput)
	}

	all, err := store.GetAllDigests()
	if err != nil {
		t.Fatalf("GetAllDigests() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetAllDigests() returned %d digests, want 2", len(all))
	}
}

func testBulk(t *testing.T, store storage.Provider) {
	h := MustAddHabit(t, store, "water")

	imported := models.DailyLog{
		Date:      "2024-12-31",
		HabitID:   h.ID,
		Done:      true,
		Note:      "imported",
		UpdatedAt: time.Date(2024, 12, 31, 21, 0, 0, 0, time.UTC),
	}
	if err := store.ImportLog(imported); err != nil {
		t.Fatalf("ImportLog() failed: %v", err)
	}
	if _, err := store.UpsertLog("2025-01-01", h.ID, false, ""); err != nil {
		t.Fatalf("UpsertLog() failed: %v", err)
	}

	logs, err := store.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs() failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("GetAllLogs() returned %d logs, want 2", len(logs))
	}
	if diff := cmp.Diff(imported, logs[0]); diff != "" {
		t.Errorf("imported log mismatch (-want +got):\n%s", diff)
	}

	digest := models.CachedDigest{
		Date:      "2024-12-31",
		Kind:      models.DigestQuote,
		Content:   "\"Well begun is half done.\" - Aristotle",
		CreatedAt: time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC),
	}
	if err := store.ImportDigest(digest); err != nil {
		t.Fatalf("ImportDigest() failed: %v", err)
	}
	got, err := store.GetDigest(digest.Date, digest.Kind)
	if err != nil {
		t.Fatalf("GetDigest() failed: %v", err)
	}
	if diff := cmp.Diff(digest, got); diff != "" {
		t.Errorf("imported digest mismatch (-want +got):\n%s", diff)
	}
}

func habitIDs(habits []models.Habit) []string {
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}
	return ids
}
