// Package export writes joined daily logs as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// bom lets spreadsheet apps detect UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Header is the first CSV row.
var Header = []string{"date", "habit_id", "name", "category", "done", "note", "updated_at"}

// WriteCSV writes a BOM, the header and one row per record.
func WriteCSV(w io.Writer, records []models.LogRecord) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date,
			r.HabitID,
			r.HabitName,
			r.Category,
			strconv.FormatBool(r.Done),
			r.Note,
			r.UpdatedAt.UTC().Format(constants.TimestampFormat),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DefaultFileName is habit_logs_<start>_<end>.csv.
func DefaultFileName(start, end string) string {
	return fmt.Sprintf("habit_logs_%s_%s.csv", start, end)
}

// WriteFile writes records to path, creating parent directories.
func WriteFile(path string, records []models.LogRecord) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, records)
}
