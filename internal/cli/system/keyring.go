package system

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
)

// secretNames maps the names accepted on the command line to keyring entries.
var secretNames = map[string]string{
	"database": constants.DefaultKeyringUser,
	"openai":   constants.KeyringOpenAI,
	"gemini":   constants.KeyringGemini,
	"weather":  constants.KeyringWeather,
}

func secretEntry(name string) (string, error) {
	if entry, ok := secretNames[strings.ToLower(name)]; ok {
		return entry, nil
	}
	if keyring.IsKnownSecret(name) {
		return name, nil
	}
	names := make([]string, 0, len(secretNames))
	for n := range secretNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return "", fmt.Errorf("unknown secret %q (expected one of: %s)", name, strings.Join(names, ", "))
}

type KeysCmd struct {
	Set    KeysSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Delete KeysDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeysStatusCmd `cmd:"" help:"Show keyring availability and which secrets are stored."`
}

// KeysSetCmd stores a database connection string or provider API key.
type KeysSetCmd struct {
	Name  string `arg:"" help:"Secret to store: database, openai, gemini or weather."`
	Value string `arg:"" optional:"" help:"Secret value. Read from stdin when omitted."`
}

func (cmd *KeysSetCmd) Run(ctx *cli.Context) error {
	entry, err := secretEntry(cmd.Name)
	if err != nil {
		return err
	}

	value := cmd.Value
	if value == "" {
		value, err = readSecret(ctx, cmd.Name)
		if err != nil {
			return err
		}
	}
	value = strings.TrimSpace(value)

	if entry == constants.DefaultKeyringUser {
		if err := checkConnString(ctx, value); err != nil {
			return err
		}
	}

	if err := keyring.SetSecret(entry, value); err != nil {
		return err
	}
	ctx.Printf("✓ %s stored successfully in OS keyring\n", cmd.Name)
	return nil
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret(ctx *cli.Context, name string) (string, error) {
	if f, ok := ctx.Stdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		ctx.Printf("Enter %s: ", name)
		b, err := term.ReadPassword(int(f.Fd()))
		ctx.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(ctx.Stdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return line, nil
}

func checkConnString(ctx *cli.Context, connStr string) error {
	if !strings.HasPrefix(connStr, "postgres://") &&
		!strings.HasPrefix(connStr, "postgresql://") &&
		!strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so embedded credentials are allowed there
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}
	return nil
}

type KeysDeleteCmd struct {
	Name string `arg:"" help:"Secret to delete: database, openai, gemini or weather."`
}

func (cmd *KeysDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := secretEntry(cmd.Name)
	if err != nil {
		return err
	}
	if err := keyring.DeleteSecret(entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring", cmd.Name)
		}
		return err
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", cmd.Name)
	return nil
}

type KeysStatusCmd struct{}

func (cmd *KeysStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.Println("✓ OS keyring is available")

	names := make([]string, 0, len(secretNames))
	for n := range secretNames {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		value, err := keyring.GetSecret(secretNames[name])
		switch {
		case err == nil && name == "database":
			ctx.Printf("✓ %-8s %s\n", name, maskPassword(value))
		case err == nil:
			ctx.Printf("✓ %-8s %s\n", name, maskKey(value))
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("ℹ %-8s not stored\n", name)
		default:
			ctx.Printf("❌ %-8s %v\n", name, err)
		}
	}
	return nil
}

// maskKey keeps the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		at := strings.LastIndex(rest, "@")
		if at == -1 {
			return connStr
		}
		userinfo := rest[:at]
		colon := strings.Index(userinfo, ":")
		if colon == -1 {
			return connStr
		}
		return connStr[:idx+3] + userinfo[:colon] + ":****" + rest[at:]
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
