package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secrets lists the keyring entries habitlit knows how to manage.
var Secrets = []string{
	constants.DefaultKeyringUser,
	constants.KeyringOpenAI,
	constants.KeyringGemini,
	constants.KeyringWeather,
}

// IsKnownSecret reports whether name is one of the managed keyring entries.
func IsKnownSecret(name string) bool {
	for _, s := range Secrets {
		if s == name {
			return true
		}
	}
	return false
}

// GetSecret retrieves a named secret from the OS keyring.
// Returns ErrNotFound if nothing is stored under that name.
func GetSecret(name string) (string, error) {
	value, err := keyring.Get(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// SetSecret stores a named secret in the OS keyring.
func SetSecret(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, name, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// DeleteSecret removes a named secret from the OS keyring.
func DeleteSecret(name string) error {
	err := keyring.Delete(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return GetSecret(constants.DefaultKeyringUser)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return SetSecret(constants.DefaultKeyringUser, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return DeleteSecret(constants.DefaultKeyringUser)
}

// Resolve looks a secret up in the keyring first and then in the given
// environment variables, in order. It returns "" when nothing is set.
func Resolve(name string, envVars ...string) string {
	if value, err := GetSecret(name); err == nil && value != "" {
		return value
	}
	for _, env := range envVars {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			return value
		}
	}
	return ""
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered, it is just empty
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
