package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/sleepdial/internal/config"
	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/generator"
	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/stats"
	"github.com/verte-zerg/sleepdial/internal/store"
)

const (
	defaultSeedDays   = 30
	defaultSeedMean   = 7.4
	defaultSeedSpread = 0.8
	defaultChartRows  = 8
	dateLayout        = "2006-01-02"
	clockLayout       = "15:04"
)

var (
	dialStart float64
	dialEnd   float64
	dialBed   string
	dialWake  string
	dialDays  string
	dialLead  int

	samplesWindow string
	addDate       string
	addHours      float64
	seedDays      int
	seedMean      float64
	seedSpread    float64
	seedValue     int64

	chartWindow string
	chartWidth  int
	chartHeight int
	chartColor  bool

	configPrintPath bool
)

var heading = color.New(color.Bold, color.Underline)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configPrintPath, "path", false, "print the config path and exit")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := configPath
	if configPrintPath {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	edit := exec.Command(parts[0], append(parts[1:], path)...)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dial",
		Short: "Print bedtime, wake time, duration and reminder triggers",
		Args:  cobra.NoArgs,
		RunE:  runDialCmd,
	}
	cmd.Flags().Float64Var(&dialStart, "start", 0, "bedtime handle angle in degrees")
	cmd.Flags().Float64Var(&dialEnd, "end", 180, "wake handle angle in degrees")
	cmd.Flags().StringVar(&dialBed, "bed", "", "bedtime as HH:MM (overrides --start)")
	cmd.Flags().StringVar(&dialWake, "wake", "", "wake time as HH:MM (overrides --end)")
	cmd.Flags().StringVar(&dialDays, "days", "", "reminder days, e.g. Mon,Wed,Fri")
	cmd.Flags().IntVar(&dialLead, "lead", 30, "reminder lead in minutes")
	return cmd
}

func runDialCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyFloatConfig(cmd, "start", &dialStart, settings.Dial.Start)
	applyFloatConfig(cmd, "end", &dialEnd, settings.Dial.End)
	applyStringConfig(cmd, "days", &dialDays, strings.Join(settings.Dial.Days, ","))
	applyIntConfig(cmd, "lead", &dialLead, settings.Dial.LeadMinutes)

	if dialBed != "" {
		if dialStart, err = parseClockAngle(dialBed); err != nil {
			return fmt.Errorf("invalid --bed value: %w", err)
		}
	}
	if dialWake != "" {
		if dialEnd, err = parseClockAngle(dialWake); err != nil {
			return fmt.Errorf("invalid --wake value: %w", err)
		}
	}
	if dialLead < 0 {
		return fmt.Errorf("--lead must be >= 0")
	}
	days, err := dial.ParseWeekdayList(dialDays)
	if err != nil {
		return fmt.Errorf("invalid --days value: %w", err)
	}

	rng := dial.New(dialStart, dialEnd, dial.WithLead(time.Duration(dialLead)*time.Minute))
	bed := rng.HandleTime(dial.Start)
	wake := rng.HandleTime(dial.End)
	hours, minutes := rng.Duration()

	out := cmd.OutOrStdout()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Bedtime", bed.Format("Mon "+clockLayout), fmt.Sprintf("%.1f°", rng.Angle(dial.Start)))
	tbl.AddRow("Wake up", wake.Format("Mon "+clockLayout), fmt.Sprintf("%.1f°", rng.Angle(dial.End)))
	tbl.AddRow("Asleep", fmt.Sprintf("%d hr %d min", hours, minutes), "")
	tbl.RightAlign(0)
	if _, err := fmt.Fprintln(out, tbl); err != nil {
		return err
	}

	triggers := rng.NotificationTriggers(days)
	if len(triggers) == 0 {
		_, err := fmt.Fprintln(out, "\nNo reminder days selected.")
		return err
	}
	if _, err := fmt.Fprintf(out, "\n%s\n", heading.Sprintf("Reminders (%d min before bed)", dialLead)); err != nil {
		return err
	}
	tt := uitable.New()
	tt.Separator = "  "
	for _, t := range triggers {
		tt.AddRow(t.Weekday.String(), t.At.String())
	}
	_, err = fmt.Fprintln(out, tt)
	return err
}

func parseClockAngle(s string) (float64, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return dial.AngleFor(t.Hour(), t.Minute()), nil
}

func newSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Log, list and seed sleep samples",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored samples",
		Args:  cobra.NoArgs,
		RunE:  runSamplesList,
	}
	list.Flags().StringVar(&samplesWindow, "window", "", "limit to day, week or month")

	add := &cobra.Command{
		Use:   "add",
		Short: "Record a night of sleep",
		Args:  cobra.NoArgs,
		RunE:  runSamplesAdd,
	}
	add.Flags().StringVar(&addDate, "date", "", "night date (YYYY-MM-DD, default today)")
	add.Flags().Float64Var(&addHours, "hours", 0, "hours slept")
	_ = add.MarkFlagRequired("hours")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Generate random history",
		Args:  cobra.NoArgs,
		RunE:  runSamplesSeed,
	}
	seed.Flags().IntVar(&seedDays, "days", defaultSeedDays, "number of nights")
	seed.Flags().Float64Var(&seedMean, "mean", defaultSeedMean, "mean hours per night")
	seed.Flags().Float64Var(&seedSpread, "spread", defaultSeedSpread, "standard deviation in hours")
	seed.Flags().Int64Var(&seedValue, "seed", 0, "random seed (0 picks one)")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a sample",
		Args:  cobra.ExactArgs(1),
		RunE:  runSamplesRm,
	}

	cmd.AddCommand(list, add, seed, rm)
	return cmd
}

func runSamplesList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	now := time.Now()
	var since *time.Time
	var window dial.TimeWindow
	if samplesWindow != "" {
		window, err = dial.ParseTimeWindow(samplesWindow)
		if err != nil {
			return fmt.Errorf("invalid --window value: %w", err)
		}
		start := dial.WindowStart(window, now)
		since = &start
	}
	samples, err := e.store.ListSamples(context.Background(), since)
	if err != nil {
		return fmt.Errorf("failed to list samples: %w", err)
	}
	if samplesWindow != "" {
		samples = dial.FilterSamples(samples, window, now)
	}
	out := cmd.OutOrStdout()
	if len(samples) == 0 {
		_, err := fmt.Fprintln(out, "No sleep samples.")
		return err
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Date"), bold.Sprint("Slept"))
	for _, s := range samples {
		tbl.AddRow(s.ID, s.Date.Format("Mon "+dateLayout), stats.FormatHours(s.DurationHours))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func runSamplesAdd(cmd *cobra.Command, _ []string) error {
	date := time.Now()
	if addDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, addDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
		date = parsed
	}
	if addHours < 0 || addHours > 24 {
		return fmt.Errorf("--hours must be between 0 and 24")
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	sample := dial.NewSample(date, addHours)
	if err := e.store.InsertSample(context.Background(), sample); err != nil {
		return fmt.Errorf("failed to add sample: %w", err)
	}
	e.log.Info("sample added", logger.String("id", sample.ID), logger.Float("hours", sample.DurationHours))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s on %s\n", sample.ID, stats.FormatHours(sample.DurationHours), date.Format(dateLayout))
	return err
}

func runSamplesSeed(cmd *cobra.Command, _ []string) error {
	if seedDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if seedSpread < 0 {
		return fmt.Errorf("--spread must be >= 0")
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	gen := generator.New()
	if seedValue != 0 {
		gen = generator.NewSeeded(seedValue)
	}
	samples := gen.Random(time.Now(), seedDays, seedMean, seedSpread)
	if err := e.store.InsertSamples(context.Background(), samples); err != nil {
		return fmt.Errorf("failed to seed samples: %w", err)
	}
	e.log.Info("seeded samples", logger.Int("count", len(samples)))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %d samples\n", len(samples))
	return err
}

func runSamplesRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	id := strings.TrimSpace(args[0])
	if err := e.store.DeleteSample(context.Background(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no sample with id %q", id)
		}
		return fmt.Errorf("failed to delete sample: %w", err)
	}
	e.log.Info("sample deleted", logger.String("id", id))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return err
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the sleep chart for a window",
		Args:  cobra.NoArgs,
		RunE:  runChartCmd,
	}
	cmd.Flags().StringVar(&chartWindow, "window", "week", "day, week or month")
	cmd.Flags().IntVar(&chartWidth, "width", 0, "total width (0 uses the terminal width)")
	cmd.Flags().IntVar(&chartHeight, "height", defaultChartRows, "chart rows")
	cmd.Flags().BoolVar(&chartColor, "color", false, "force colour output")
	return cmd
}

func runChartCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	applyStringConfig(cmd, "window", &chartWindow, e.settings.Sleep.Window)
	window, err := dial.ParseTimeWindow(chartWindow)
	if err != nil {
		return fmt.Errorf("invalid --window value: %w", err)
	}
	ctx := context.Background()
	profile, err := e.store.LoadProfile(ctx, store.Profile{
		GoalHours:   e.settings.Sleep.GoalHours,
		GoalMinutes: e.settings.Sleep.GoalMinutes,
	})
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	report, err := stats.BuildReport(ctx, e.store, window, time.Now(), profile.Goal())
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), chartWidth, chartHeight, chartColor)
}

func newRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "List installed bedtime reminders",
		Args:  cobra.NoArgs,
		RunE:  runRemindersCmd,
	}
}

func runRemindersCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	reminders, err := e.store.ListReminders(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(reminders) == 0 {
		_, err := fmt.Fprintln(out, "No reminders installed.")
		return err
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint("At"), bold.Sprint("Message"), bold.Sprint("Installed"))
	for _, r := range reminders {
		tbl.AddRow(r.Trigger.Weekday.String(), r.Trigger.At.String(),
			r.Title+": "+r.Body, r.InstalledAt.Format(dateLayout+" "+clockLayout))
	}
	_, err = fmt.Fprintln(out, tbl)
	return err
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# sleepdial configuration
# Uncomment a value to enable it. CLI flags override config values.

[dial]
# start = 0                # Bedtime handle angle in degrees (0 = midnight)
# end = 180                # Wake handle angle in degrees (180 = noon)
# days = ["Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"]
# reminder = false         # Remind before bedtime
# lead-minutes = 30        # Minutes before bedtime

[sleep]
# goal-hours = 7
# goal-minutes = 30
# window = "week"          # day, week or month

[storage]
# db = %q

[log]
# level = "info"           # debug, info, warn, error
# format = "json"          # console or json
# output = %q
`,
		config.DefaultDBPath(),
		config.DefaultLogPath(),
	)
}
