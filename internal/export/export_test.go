package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitlit/internal/models"
)

func sampleRecords() []models.LogRecord {
	at := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	return []models.LogRecord{
		{
			DailyLog:  models.DailyLog{Date: "2025-03-10", HabitID: "h1", Done: true, Note: "before work, 10 min", UpdatedAt: at},
			HabitName: "Stretching",
			Category:  "health",
		},
		{
			DailyLog:  models.DailyLog{Date: "2025-03-09", HabitID: "h2", Done: false, Note: "said \"later\"", UpdatedAt: at},
			HabitName: "명상",
			Category:  "mind",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	raw := buf.Bytes()
	if !bytes.HasPrefix(raw, bom) {
		t.Fatalf("output does not start with a UTF-8 BOM: %q", raw[:3])
	}

	rows, err := csv.NewReader(bytes.NewReader(raw[len(bom):])).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := [][]string{
		Header,
		{"2025-03-10", "h1", "Stretching", "health", "true", "before work, 10 min", "2025-03-10T08:30:00Z"},
		{"2025-03-09", "h2", "명상", "mind", "false", `said "later"`, "2025-03-10T08:30:00Z"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := string(bom) + "date,habit_id,name,category,done,note,updated_at\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName("2025-03-01", "2025-03-10"))
	if err := WriteFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if filepath.Base(path) != "habit_logs_2025-03-01_2025-03-10.csv" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}
	if !bytes.HasPrefix(data, bom) {
		t.Error("file is missing the BOM")
	}
}
