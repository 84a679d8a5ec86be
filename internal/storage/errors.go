package storage

import "errors"

var (
	// ErrNotFound is returned when a requested habit or digest does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnknownHabit is returned when a log references a habit id that does not exist
	ErrUnknownHabit = errors.New("unknown habit")
	// ErrDuplicateHabit is returned when a habit name is already taken
	ErrDuplicateHabit = errors.New("a habit with that name already exists")
	// ErrNotInitialized is returned by Load when no database exists yet
	ErrNotInitialized = errors.New("storage not initialized, run 'habitlit init' first")
)
