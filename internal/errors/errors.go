// Package errors turns command failures into the message printed before exit.
// Well-known failures get a follow-up hint telling the user what to run next.
package errors

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/migration"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
	"github.com/julianstephens/habitlit/internal/validation"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrDuplicateHabit, "Pick another name, or change the existing habit with 'habitlit habit edit'."},
	{storage.ErrNotFound, "Run 'habitlit habit list --all' to see the habits you can refer to."},
	{storage.ErrUnknownHabit, "Run 'habitlit habit list --all --show-ids' to see valid habit IDs."},
	{migration.ErrSchemaTooNew, "This database was written by a newer habitlit. Upgrade before opening it."},
	{postgres.ErrEmbeddedCredentials, "Store the connection string with 'habitlit keys set database', or export " +
		constants.EnvDBConnection + " without a password and use PGPASSWORD or a .pgpass file."},
	{validation.ErrInvalidInput, "Dates use YYYY-MM-DD; rates and thresholds are percentages from 0 to 100."},
}

// Hint returns the follow-up advice for err, or "" when there is none.
func Hint(err error) string {
	for _, h := range hints {
		if goerrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format renders err with the "Error: " prefix and, when known, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n  " + hint
	}
	return msg
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it and exits with status 1. A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}

func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(stderr, Formatf(format, args...))
	exit(1)
}
