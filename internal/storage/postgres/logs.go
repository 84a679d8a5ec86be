package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

func (s *Store) UpsertLog(date, habitID string, done bool, note string) (models.DailyLog, error) {
	if err := validation.ValidateDate(date); err != nil {
		return models.DailyLog{}, err
	}
	if _, err := s.GetHabit(habitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.DailyLog{}, fmt.Errorf("%w: %s", storage.ErrUnknownHabit, habitID)
		}
		return models.DailyLog{}, err
	}

	log := models.DailyLog{
		Date:      date,
		HabitID:   habitID,
		Done:      done,
		Note:      note,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.ImportLog(log); err != nil {
		return models.DailyLog{}, err
	}
	return log, nil
}

func (s *Store) ImportLog(log models.DailyLog) error {
	_, err := s.db.Exec(`
		INSERT INTO daily_logs (date, habit_id, done, note, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date, habit_id) DO UPDATE SET
			done = EXCLUDED.done,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`,
		log.Date, log.HabitID, log.Done, log.Note,
		log.UpdatedAt.UTC().Format(constants.TimestampFormat))
	if err != nil {
		return fmt.Errorf("failed to save log for %s on %s: %w", log.HabitID, log.Date, err)
	}
	return nil
}

func scanLog(row rowScanner, extra ...any) (models.DailyLog, error) {
	var l models.DailyLog
	var updatedAt string

	dest := append([]any{&l.Date, &l.HabitID, &l.Done, &l.Note, &updatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.DailyLog{}, err
	}

	t, err := time.Parse(constants.TimestampFormat, updatedAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to parse updated_at for %s on %s: %w", l.HabitID, l.Date, err)
	}
	l.UpdatedAt = t
	return l, nil
}

func (s *Store) GetLogsForDate(date string) (map[string]models.DailyLog, error) {
	if err := validation.ValidateDate(date); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT date, habit_id, done, note, updated_at
		FROM daily_logs WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make(map[string]models.DailyLog)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs[l.HabitID] = l
	}
	return logs, rows.Err()
}

func (s *Store) GetLogsInRange(start, end string) ([]models.LogRecord, error) {
	if err := validation.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT l.date, l.habit_id, l.done, l.note, l.updated_at, h.name, h.category
		FROM daily_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE l.date BETWEEN $1 AND $2
		ORDER BY l.date DESC, l.habit_id ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.LogRecord{}
	for rows.Next() {
		var rec models.LogRecord
		l, err := scanLog(rows, &rec.HabitName, &rec.Category)
		if err != nil {
			return nil, err
		}
		rec.DailyLog = l
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) GetAllLogs() ([]models.DailyLog, error) {
	rows, err := s.db.Query(`
		SELECT date, habit_id, done, note, updated_at
		FROM daily_logs ORDER BY date, habit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
