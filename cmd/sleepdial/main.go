// Package main provides the CLI entrypoint for sleepdial.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/sleepdial/internal/config"
	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/generator"
	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/notify"
	"github.com/verte-zerg/sleepdial/internal/store"
	"github.com/verte-zerg/sleepdial/internal/tui"
)

const reminderBuffer = 16

var (
	configPath string
	dbPath     string
	logLevel   string
	logOutput  string

	rootStart float64
	rootEnd   float64
	rootDays  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sleepdial",
		Short:         "Terminal sleep tracker with a bedtime dial",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDialUI,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "", "log output (stdout, stderr or a file path)")

	rootCmd.Flags().Float64Var(&rootStart, "start", 0, "bedtime handle angle in degrees")
	rootCmd.Flags().Float64Var(&rootEnd, "end", 180, "wake handle angle in degrees")
	rootCmd.Flags().StringVar(&rootDays, "days", "", "reminder days, e.g. Mon,Wed,Fri")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDialCmd())
	rootCmd.AddCommand(newSamplesCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newRemindersCmd())

	return rootCmd
}

// env holds what every command needs after config resolution.
type env struct {
	settings config.Settings
	log      *logger.Logger
	store    *store.Store
}

// loadSettings resolves the config file and applies persistent flag overrides.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := config.Resolve(fileCfg)
	if err != nil {
		return config.Settings{}, err
	}
	overrideString(cmd, "db", &settings.Storage.DB, dbPath)
	overrideString(cmd, "log-level", &settings.Log.Level, logLevel)
	overrideString(cmd, "log-output", &settings.Log.Output, logOutput)
	if err := settings.Normalize(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

func openEnv(cmd *cobra.Command) (*env, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: settings.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	st, err := store.Open(settings.Storage.DB)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug("environment ready",
		logger.String("db", settings.Storage.DB),
		logger.String("command", cmd.Name()),
	)
	return &env{settings: settings, log: log, store: st}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Error("failed to close db", logger.Error(err))
		logErrf("failed to close db: %v\n", err)
	}
	if err := e.log.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func runDialUI(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := context.Background()

	if err := seedIfEmpty(ctx, e, time.Now()); err != nil {
		return err
	}

	profile, err := e.store.LoadProfile(ctx, store.Profile{
		GoalHours:   e.settings.Sleep.GoalHours,
		GoalMinutes: e.settings.Sleep.GoalMinutes,
	})
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	state, err := loadDialState(ctx, cmd, e)
	if err != nil {
		return err
	}

	engine := notify.NewEngine(reminderBuffer)
	engine.Start()
	defer engine.Stop()
	auth := notify.SettingsAuthorizer{Profiles: e.store}
	center := notify.NewCenter(e.store, engine, auth, e.log)
	if state.ReminderEnabled && profile.NotificationsEnabled {
		perm, err := armStartupReminders(ctx, center, state, e.settings.Lead())
		if err != nil {
			e.log.Warn("failed to arm reminders", logger.Error(err))
		} else {
			e.log.Info("reminders armed",
				logger.String("permission", perm.String()),
				logger.Duration("lead", e.settings.Lead()),
			)
		}
	}

	model := tui.NewModel(tui.Options{
		Store:      e.store,
		Center:     center,
		Authorizer: auth,
		Reminders:  engine.C(),
		Settings:   e.settings,
		Profile:    profile,
		DialState:  state,
		Log:        e.log,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	center.Wait()
	if dropped := engine.Dropped(); dropped > 0 {
		e.log.Warn("reminders dropped", logger.Int64("count", int64(dropped)))
	}
	return nil
}

// armStartupReminders installs triggers for the resolved dial, so flag
// overrides replace whatever was stored by the previous run.
func armStartupReminders(ctx context.Context, center *notify.Center, state store.DialState, lead time.Duration) (notify.Permission, error) {
	rng := dial.New(state.Start, state.End, dial.WithLead(lead))
	done, err := center.Install(ctx, rng.NotificationTriggers(state.Days), rng.HandleTime(dial.Start))
	if err != nil {
		return notify.PermissionError, err
	}
	if done == nil {
		return center.LastPermission(), nil
	}
	return <-done, nil
}

// seedIfEmpty stores the demo week on first run.
func seedIfEmpty(ctx context.Context, e *env, now time.Time) error {
	count, err := e.store.CountSamples(ctx)
	if err != nil {
		return fmt.Errorf("failed to count samples: %w", err)
	}
	if count > 0 {
		return nil
	}
	samples := generator.Week(now)
	if err := e.store.InsertSamples(ctx, samples); err != nil {
		return fmt.Errorf("failed to seed samples: %w", err)
	}
	e.log.Info("seeded demo samples", logger.Int("count", len(samples)))
	return nil
}

// loadDialState returns the stored dial, falling back to config. Explicit
// --start, --end and --days flags win over both.
func loadDialState(ctx context.Context, cmd *cobra.Command, e *env) (store.DialState, error) {
	state, err := e.store.LoadDialState(ctx)
	if errors.Is(err, store.ErrNotFound) {
		state = store.DialState{
			Start:           e.settings.Dial.Start,
			End:             e.settings.Dial.End,
			Days:            e.settings.Weekdays(),
			ReminderEnabled: e.settings.Dial.Reminder,
			Window:          e.settings.TimeWindow(),
		}
	} else if err != nil {
		return store.DialState{}, fmt.Errorf("failed to load dial state: %w", err)
	}
	if cmd.Flags().Changed("start") {
		state.Start = rootStart
	}
	if cmd.Flags().Changed("end") {
		state.End = rootEnd
	}
	if cmd.Flags().Changed("days") {
		days, err := dial.ParseWeekdayList(rootDays)
		if err != nil {
			return store.DialState{}, fmt.Errorf("invalid --days value: %w", err)
		}
		state.Days = days
	}
	return state, nil
}

func overrideString(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = strings.TrimSpace(value)
}

func applyFloatConfig(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntConfig(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyStringConfig(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		_ = err
	}
}
