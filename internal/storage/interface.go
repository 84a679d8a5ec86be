package storage

import "github.com/julianstephens/habitlit/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// Migrate applies pending schema migrations, reporting progress to logFn.
	Migrate(logFn func(string)) (int, error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	UpdateHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	// GetActiveHabits returns active habits ordered by id (creation order).
	GetActiveHabits() ([]models.Habit, error)
	// GetAllHabits returns every habit, active ones first, then by id.
	GetAllHabits() ([]models.Habit, error)
	SetHabitActive(id string, active bool) error
	CountHabits() (int, error)

	// Daily logs
	// UpsertLog inserts or overwrites the record for (date, habitID) and
	// returns what was stored. Unknown habit ids fail with ErrUnknownHabit.
	UpsertLog(date, habitID string, done bool, note string) (models.DailyLog, error)
	GetLogsForDate(date string) (map[string]models.DailyLog, error)
	// GetLogsInRange returns records with start <= date <= end joined with
	// habit metadata, ordered by date DESC then habit id ASC.
	GetLogsInRange(start, end string) ([]models.LogRecord, error)

	// Digests
	SaveDigest(date string, kind models.DigestKind, content string) error
	GetDigest(date string, kind models.DigestKind) (models.CachedDigest, error)

	// Bulk retrieval and import for migrating between backends
	GetAllLogs() ([]models.DailyLog, error)
	GetAllDigests() ([]models.CachedDigest, error)
	ImportLog(models.DailyLog) error
	ImportDigest(models.CachedDigest) error

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by stores that track schema migrations.
type SchemaReporter interface {
	// SchemaVersions returns the applied and the latest known schema version.
	SchemaVersions() (current, latest int, err error)
}
