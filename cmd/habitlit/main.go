package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/cli/backups"
	"github.com/julianstephens/habitlit/internal/cli/digests"
	"github.com/julianstephens/habitlit/internal/cli/habits"
	"github.com/julianstephens/habitlit/internal/cli/settings"
	"github.com/julianstephens/habitlit/internal/cli/system"
	"github.com/julianstephens/habitlit/internal/cli/tracking"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
	"github.com/julianstephens/habitlit/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or the OS keyring instead." type:"string" default:"${default_config}" env:"HABITLIT_CONFIG"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitlit storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Keys     system.KeysCmd       `cmd:"" help:"Manage secrets in the OS keyring."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Check    tracking.CheckCmd    `cmd:"" help:"Record a habit as done (or not) for a day."`
	Today    tracking.TodayCmd    `cmd:"" help:"Show today's checklist, score and coach message."`
	Streak   tracking.StreakCmd   `cmd:"" help:"Show the current and best streak."`
	Summary  tracking.SummaryCmd  `cmd:"" help:"Summarize completion over a date range."`
	Insights tracking.InsightsCmd `cmd:"" help:"Show 7-day habit and 30-day weekday patterns."`
	Score    tracking.ScoreCmd    `cmd:"" help:"Show the coach score for a day."`
	Export   tracking.ExportCmd   `cmd:"" help:"Export logs to CSV."`
	Logs     tracking.LogsCmd     `cmd:"" help:"List the daily records of the last few days."`
	Coach    digests.CoachCmd     `cmd:"" help:"Show the coach message for a day."`
	Insight  digests.InsightCmd   `cmd:"" help:"Show the AI pattern analysis of the last 30 days."`
	Quote    digests.QuoteCmd     `cmd:"" help:"Show the quote of the day."`
	Reward   digests.RewardCmd    `cmd:"" help:"Claim the reward image for a good day."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change settings."`
}

// commands that open the database themselves, or not at all
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keys":    true,
}

func isPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

func configDir(config string) string {
	if isPostgres(config) {
		dir, err := utils.ExpandHome(filepath.Dir(constants.DefaultConfigPath))
		if err != nil {
			return "."
		}
		return dir
	}
	return filepath.Dir(config)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, a coach score and an AI coach"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	config := CLI.Config
	if !isPostgres(config) {
		// fall back to a connection string from the keyring or the environment
		if conn := keyring.Resolve(constants.DefaultKeyringUser, constants.EnvDBConnection); conn != "" && config == constants.DefaultConfigPath {
			config = conn
		}
	}
	if !isPostgres(config) {
		expanded, err := utils.ExpandHome(config)
		if err != nil {
			errors.Fatalf("failed to resolve config path: %v", err)
		}
		config = expanded
	}

	dir := configDir(config)
	// a missing .env is fine; values already in the environment win
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	_ = godotenv.Load()

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	var store storage.Provider
	if isPostgres(config) {
		if valid, err := postgres.ValidateConnString(config); !valid {
			errors.Fatal(err)
		}
		store = postgres.New(config)
	} else {
		store = sqlite.NewStore(config)
	}

	appCtx := &cli.Context{
		Store: store,
		Keys: cli.Keys{
			OpenAI:  keyring.Resolve(constants.KeyringOpenAI, constants.EnvOpenAIKey, "OPENAI_API_KEY"),
			Gemini:  keyring.Resolve(constants.KeyringGemini, constants.EnvGeminiKey, "GEMINI_API_KEY"),
			Weather: keyring.Resolve(constants.KeyringWeather, constants.EnvWeatherKey, "OPENWEATHER_API_KEY"),
		},
	}

	// Load the store before running the command; some commands handle their own loading
	if ctx.Selected() == nil || !selfLoading[strings.Fields(ctx.Command())[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
