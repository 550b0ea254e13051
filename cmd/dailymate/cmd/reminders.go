package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/database"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
	"github.com/habibpatelhabib78-png/dailymate-app/internal/store"
)

var (
	addDate     string
	addTime     string
	addRepeat   string
	addSound    string
	addDuration int

	remindersCmd = &cobra.Command{
		Use:   "reminders",
		Short: "Manage stored reminders without running the server.",
	}

	remindersListCmd = &cobra.Command{
		Use:   "list",
		Short: "List reminders with their status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReminderStores(func(rs *store.ReminderStore, _ *store.SettingsStore, loc *time.Location) error {
				reminders, err := rs.List()
				if err != nil {
					return err
				}

				now := time.Now().In(loc)
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tTITLE")
				for _, r := range reminders {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Time, r.Status(now), r.Title)
				}
				return w.Flush()
			})
		},
	}

	remindersAddCmd = &cobra.Command{
		Use:   "add <title>",
		Short: "Add a reminder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReminderStores(func(rs *store.ReminderStore, ss *store.SettingsStore, _ *time.Location) error {
				r, err := reminderFromFlags(cmd, args[0], ss.Settings())
				if err != nil {
					return err
				}
				created, err := rs.Add(r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s at %s %s\n", created.ID, created.Date, created.Time)
				return nil
			})
		},
	}

	remindersDeleteCmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReminderStores(func(rs *store.ReminderStore, _ *store.SettingsStore, _ *time.Location) error {
				found, err := rs.Delete(args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("reminder %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
)

func withReminderStores(fn func(*store.ReminderStore, *store.SettingsStore, *time.Location) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	kv := store.NewKVStore(db)
	return fn(store.NewReminderStore(kv), store.NewSettingsStore(kv), loc)
}

// reminderFromFlags builds a reminder from the add flags, taking unset
// alarm options from settings.
func reminderFromFlags(cmd *cobra.Command, title string, settings model.Settings) (model.Reminder, error) {
	if title == "" {
		return model.Reminder{}, errors.New("title is required")
	}

	r := model.Reminder{
		Title:  title,
		Date:   addDate,
		Time:   addTime,
		Repeat: model.Repeat(addRepeat),
		Sound:  model.Sound(addSound),
	}
	if _, err := r.Instant(time.UTC); err != nil {
		return r, fmt.Errorf("--date must be YYYY-MM-DD and --time HH:MM: %w", err)
	}
	if len(r.Time) != len(model.ClockLayout) {
		return r, errors.New("--time must be HH:MM")
	}
	if !r.Repeat.Valid() {
		return r, fmt.Errorf("invalid --repeat %q", addRepeat)
	}

	if r.Sound == "" {
		r.Sound = settings.DefaultAlarmSound
	}
	if !r.Sound.Valid() {
		return r, fmt.Errorf("invalid --sound %q", addSound)
	}

	duration := settings.DefaultAlarmDuration
	if cmd.Flags().Changed("duration") {
		duration = addDuration
	}
	if !model.ValidDuration(duration) {
		return r, fmt.Errorf("invalid --duration %d", duration)
	}
	r.Duration = model.IntPtr(duration)

	return r, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := remindersAddCmd.Flags()
	flags.StringVar(&addDate, "date", time.Now().Format(model.DateLayout), "date as YYYY-MM-DD")
	flags.StringVar(&addTime, "time", "", "time as HH:MM (24-hour)")
	flags.StringVar(&addRepeat, "repeat", string(model.RepeatNone), "none, daily or weekly")
	flags.StringVar(&addSound, "sound", "", "classic, zen or digital (default from settings)")
	flags.IntVar(&addDuration, "duration", 0, "seconds to ring: 30, 60, 120, 300 or 0 for until stopped (default from settings)")
	_ = remindersAddCmd.MarkFlagRequired("time")

	remindersCmd.AddCommand(remindersListCmd, remindersAddCmd, remindersDeleteCmd)
}
