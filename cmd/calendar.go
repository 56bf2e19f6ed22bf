package cmd

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/calendar"
	"github.com/gonote/gonote/internal/dateparse"
	"github.com/gonote/gonote/internal/ids"
	"github.com/gonote/gonote/internal/input"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/workspace"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show the month view",
	GroupID: "calendar",
	Example: `  gonote calendar
  gonote calendar --month 2026-03
  gonote calendar --next 2`,
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		now := a.clock.Now()
		nav, err := navigatorFromFlags(cmd, now)
		if err != nil {
			return err
		}
		a.store.SetView(models.ViewCalendar)

		events := a.store.Events()
		cells := calendar.Grid(nav.Current, events, nav.Loc)
		fmt.Println(calendar.Render(nav.Current, cells, now, output.TerminalWidth(80)))

		inMonth := calendar.InMonth(nav.Current, events, nav.Loc)
		if len(inMonth) > 0 {
			fmt.Print(output.SectionHeader("events"))
			for _, e := range inMonth {
				fmt.Println("  " + formatEvent(e, now, nav.Loc))
			}
		}
		return nil
	}),
}

var eventCmd = &cobra.Command{
	Use:     "event",
	Short:   "Manage calendar events",
	GroupID: "calendar",
}

var eventAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an event",
	Long: `Add an event. --date accepts YYYY-MM-DD, "YYYY-MM-DD HH:MM", today, tomorrow,
+Nd, +Nw, +Nm and weekday names, each optionally followed by HH:MM.
Recurrence is stored as a tag; the calendar shows the stored date only.`,
	Example: `  gonote event add "Dentist" --date "friday 09:30"
  gonote event add "Mom's birthday" --date 2026-05-12 --type lunar --recurrence yearly --countdown --family`,
	Args: cobra.ExactArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		dateStr, _ := cmd.Flags().GetString("date")
		when, err := dateparse.ParseFrom(dateStr, a.clock.Now())
		if err != nil {
			return err
		}

		typ, _ := cmd.Flags().GetString("type")
		calType := models.CalendarType(typ)
		if calType != models.CalendarSolar && calType != models.CalendarLunar {
			return fmt.Errorf("unknown calendar type %q (want solar or lunar)", typ)
		}
		rec, _ := cmd.Flags().GetString("recurrence")
		if !slices.Contains(models.ValidRecurrences(), models.Recurrence(rec)) {
			return fmt.Errorf("unknown recurrence %q (want none, daily, weekly, monthly or yearly)", rec)
		}
		notify, _ := cmd.Flags().GetStringSlice("notify")
		countdown, _ := cmd.Flags().GetBool("countdown")
		desc, _ := cmd.Flags().GetString("description")
		if desc == "-" && slices.Contains(notify, "-") {
			return fmt.Errorf("--description and --notify: %w", input.ErrStdinTwice)
		}
		if notify, err = input.Values(notify, cmd.InOrStdin()); err != nil {
			return err
		}
		if desc, err = input.Text(desc, cmd.InOrStdin()); err != nil {
			return err
		}

		e := models.CalendarEvent{
			ID:            ids.TimeID(a.clock),
			Title:         args[0],
			Date:          when.UnixMilli(),
			Type:          calType,
			Recurrence:    models.Recurrence(rec),
			NotifyUsers:   notify,
			ShowCountdown: countdown,
			Description:   desc,
		}
		if family, _ := cmd.Flags().GetBool("family"); family {
			if a.store.FamilyID() == "" {
				return workspace.ErrNoFamily
			}
			e.FamilyID = a.store.FamilyID()
		}

		a.store.AddEvent(e)
		output.Success("ADDED %s %s on %s", e.ID, e.Title, when.Format("2006-01-02 15:04"))
		return nil
	}),
}

var eventListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List events",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		now := a.clock.Now()
		events := a.store.Events()
		loc := time.Local
		if cmd.Flags().Changed("month") || cmd.Flags().Changed("next") || cmd.Flags().Changed("prev") {
			nav, err := navigatorFromFlags(cmd, now)
			if err != nil {
				return err
			}
			events = calendar.InMonth(nav.Current, events, nav.Loc)
		} else {
			slices.SortFunc(events, func(x, y models.CalendarEvent) int { return cmp.Compare(x.Date, y.Date) })
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(events)
		}
		if len(events) == 0 {
			output.Info("No events")
			return nil
		}
		for _, e := range events {
			fmt.Println(formatEvent(e, now, loc))
		}
		return nil
	}),
}

var eventRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an event",
	Args:    cobra.ExactArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.store.RemoveEvent(args[0]); err != nil {
			return err
		}
		output.Success("DELETED event %s", args[0])
		return nil
	}),
}

func navigatorFromFlags(cmd *cobra.Command, now time.Time) (*calendar.Navigator, error) {
	nav := calendar.NewNavigator(now, time.Local)
	if month, _ := cmd.Flags().GetString("month"); month != "" {
		t, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --month %q (use YYYY-MM)", month)
		}
		nav.Current = t
	}
	next, _ := cmd.Flags().GetInt("next")
	for range next {
		nav.Next()
	}
	prev, _ := cmd.Flags().GetInt("prev")
	for range prev {
		nav.Prev()
	}
	return nav, nil
}

func formatEvent(e models.CalendarEvent, now time.Time, loc *time.Location) string {
	when := time.UnixMilli(e.Date).In(loc)
	line := fmt.Sprintf("%s  %s  %s", output.Subtle(e.ID), when.Format("Mon Jan 2 15:04"), output.Title(e.Title))
	if e.Type != models.CalendarSolar {
		line += output.Subtle(" [" + string(e.Type) + "]")
	}
	if e.Recurrence != "" && e.Recurrence != models.RecurrenceNone {
		line += output.Subtle(" ↻ " + string(e.Recurrence))
	}
	if e.FamilyID != "" {
		line += output.Subtle(" 🏠")
	}
	if e.ShowCountdown {
		switch d := calendar.Countdown(e, now, loc); {
		case d == 0:
			line += "  today"
		case d > 0:
			line += fmt.Sprintf("  in %d days", d)
		}
	}
	return line
}

func addMonthFlags(cmd *cobra.Command) {
	cmd.Flags().String("month", "", "month to show (YYYY-MM, default: current)")
	cmd.Flags().Int("next", 0, "move forward N months")
	cmd.Flags().Int("prev", 0, "move back N months")
}

func init() {
	rootCmd.AddCommand(calendarCmd, eventCmd)
	eventCmd.AddCommand(eventAddCmd, eventListCmd, eventRemoveCmd)

	addMonthFlags(calendarCmd)
	addMonthFlags(eventListCmd)
	eventListCmd.Flags().Bool("json", false, "JSON output")

	eventAddCmd.Flags().String("date", "today", "event date")
	eventAddCmd.Flags().String("type", string(models.CalendarSolar), "calendar type: solar or lunar")
	eventAddCmd.Flags().String("recurrence", string(models.RecurrenceNone), "none, daily, weekly, monthly or yearly")
	eventAddCmd.Flags().StringSlice("notify", nil, "user ids to remind")
	eventAddCmd.Flags().Bool("countdown", false, "show a countdown")
	eventAddCmd.Flags().String("description", "", "description")
	eventAddCmd.Flags().Bool("family", false, "add to the family calendar")
}
