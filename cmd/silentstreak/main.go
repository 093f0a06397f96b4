package main

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/silentstreak/internal/cli"
	"github.com/julianstephens/silentstreak/internal/cli/backups"
	"github.com/julianstephens/silentstreak/internal/cli/days"
	"github.com/julianstephens/silentstreak/internal/cli/system"
	"github.com/julianstephens/silentstreak/internal/config"
	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/errors"
	"github.com/julianstephens/silentstreak/internal/lock"
	"github.com/julianstephens/silentstreak/internal/logger"
	"github.com/julianstephens/silentstreak/internal/tracker"
	"github.com/julianstephens/silentstreak/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	DB        string `name:"db" help:"Store path (.db for SQLite, .json for a JSON file), a PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded in the connection string." default:"${db}"`
	Debug     bool   `help:"Enable debug logging to stderr." default:"${debug}"`
	Timezone  string `help:"IANA timezone used to decide calendar days." default:"${timezone}"`
	WeekStart string `help:"First day of the week for weekly statistics." default:"${week_start}"`

	Init    system.InitCmd   `cmd:"" help:"Initialize silentstreak storage."`
	Doctor  system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Mark    days.MarkCmd     `cmd:"" help:"Mark today as silent (or missed with --missed)."`
	Note    days.NoteCmd     `cmd:"" help:"Set the note on a recorded day."`
	Today   days.TodayCmd    `cmd:"" help:"Show today's status and the last seven days."`
	History days.HistoryCmd  `cmd:"" help:"List recorded days, newest first."`
	Stats   days.StatsCmd    `cmd:"" help:"Show streaks, achievements, and charts."`
	Reset   days.ResetCmd    `cmd:"" help:"Erase every recorded day."`
	Export  days.ExportCmd   `cmd:"" help:"Export recorded days as JSON."`
	Import  days.ImportCmd   `cmd:"" help:"Replace recorded days with an exported JSON file."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report whether the OS keyring is usable."`
	} `cmd:"" help:"Manage the keyring-stored connection string."`
}

// needsLoadedStore reports whether the selected command expects an
// initialized store before it runs.
func needsLoadedStore(command string) bool {
	switch {
	case command == "init", command == "doctor", strings.HasPrefix(command, "keyring"):
		return false
	}
	return true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track silent days and keep the streak going"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"db":         cfg.DBPath,
			"debug":      strconv.FormatBool(cfg.Debug),
			"timezone":   cfg.Timezone,
			"week_start": cfg.WeekStart,
			"log_limit":  strconv.Itoa(constants.DefaultLogLimit),
		},
	)

	cfg.DBPath = CLI.DB
	cfg.Debug = CLI.Debug
	cfg.Timezone = CLI.Timezone
	cfg.WeekStart = CLI.WeekStart
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.ResolvedLogDir()}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	provider, err := cli.OpenProvider(cfg.DBPath)
	if err != nil {
		errors.Fatal(err)
	}
	defer provider.Close()

	loc := cfg.Location()
	opts := []tracker.Option{tracker.WithClock(utils.SystemClock{Location: loc})}
	if cli.IsFilePath(provider.GetConfigPath()) {
		opts = append(opts, tracker.WithLocker(lock.New(provider.GetConfigPath())))
	}
	store := tracker.New(provider, opts...)

	appCtx := &cli.Context{
		Provider:  provider,
		Store:     store,
		Location:  loc,
		WeekStart: cfg.FirstWeekday(),
	}

	if needsLoadedStore(ctx.Command()) {
		if err := provider.Load(); err != nil {
			errors.Fatal(err)
		}
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "backend", provider.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		_ = provider.Close()
		errors.Fatal(err)
	}
}
