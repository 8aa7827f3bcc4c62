package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tempo/internal/bootstrap"
	plandto "tempo/internal/modules/planning/dto"
	"tempo/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Terminal client for the tempo day-planning service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: OS config home)")

	root.AddCommand(newTUICmd(&configDir))
	root.AddCommand(newLoginCmd(&configDir))
	root.AddCommand(newSignupCmd(&configDir))
	root.AddCommand(newLogoutCmd(&configDir))
	root.AddCommand(newWhoamiCmd(&configDir))
	root.AddCommand(newTaskCmd(&configDir))
	root.AddCommand(newPlanCmd(&configDir))
	root.AddCommand(newNoteCmd(&configDir))
	root.AddCommand(newExporterCmd(&configDir))
	return root
}

func loadApp(configDir string) (*bootstrap.App, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.Dir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func today() string { return time.Now().Format("2006-01-02") }

// dateArg returns args[0] when present, otherwise today. Dates are validated
// here so usecases see only well-formed input from the CLI path too.
func dateArg(args []string) (string, error) {
	if len(args) == 0 {
		return today(), nil
	}
	if _, err := time.Parse("2006-01-02", args[0]); err != nil {
		return "", fmt.Errorf("invalid date %q, expected yyyy-mm-dd", args[0])
	}
	return args[0], nil
}

func newTUICmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the tempo terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(configDir *string) *cobra.Command {
	var email, password string
	login := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Log in and persist the refresh credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			out, err := app.AuthCLI.Login(context.Background(), email, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", out.User.Name, out.User.Email)
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "account email")
	login.Flags().StringVar(&password, "password", "", "account password")
	_ = login.MarkFlagRequired("email")
	_ = login.MarkFlagRequired("password")
	return login
}

func newSignupCmd(configDir *string) *cobra.Command {
	var email, name, profile, password string
	signup := &cobra.Command{
		Use:   "signup --email <email> --name <name> --password <password>",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			out, err := app.AuthCLI.Signup(context.Background(), email, name, profile, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed up as %s (%s)\n", out.User.Name, out.User.Email)
			return nil
		},
	}
	signup.Flags().StringVar(&email, "email", "", "account email")
	signup.Flags().StringVar(&name, "name", "", "display name")
	signup.Flags().StringVar(&profile, "profile", "", "free-form profile text for the planner")
	signup.Flags().StringVar(&password, "password", "", "account password")
	_ = signup.MarkFlagRequired("email")
	_ = signup.MarkFlagRequired("name")
	_ = signup.MarkFlagRequired("password")
	return signup
}

func newLogoutCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			if err := app.AuthCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			out, err := app.AuthCLI.Current(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) id=%d\n", out.User.Name, out.User.Email, out.User.ID)
			return nil
		},
	}
}

func newTaskCmd(configDir *string) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage plannable tasks"}

	var description, deadline, taskType, importance, preferred, energy string
	var minutes int
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task for the planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := time.ParseInLocation("2006-01-02", deadline, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --deadline %q, expected yyyy-mm-dd", deadline)
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			out, err := app.TaskCLI.Add(context.Background(), args[0], description, minutes,
				due.Add(24*time.Hour-time.Minute), taskType, importance, preferred, energy)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task %d created: %s [%s]\n", out.ID, out.Title, out.Status)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "task description")
	add.Flags().IntVar(&minutes, "minutes", 30, "estimated duration in minutes")
	add.Flags().StringVar(&deadline, "deadline", "", "deadline date (yyyy-mm-dd)")
	add.Flags().StringVar(&taskType, "type", "", "study|work|meeting|personal|social|admin")
	add.Flags().StringVar(&importance, "importance", "", "low|medium|high")
	add.Flags().StringVar(&preferred, "preferred", "", "morning|afternoon|evening|anytime")
	add.Flags().StringVar(&energy, "energy", "", "low|medium|high")
	_ = add.MarkFlagRequired("deadline")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			tasks, err := app.TaskCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}
			for _, t := range tasks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%dm\tdue %s\t%s\n",
					t.ID, t.Status, t.DurationMinutes, t.Deadline.Format("2006-01-02"), t.Title)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			t, err := app.TaskCLI.Show(context.Background(), id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"id: %d\ntitle: %s\nstatus: %s\nduration: %dm\ndeadline: %s\ntype: %s\nimportance: %s\npreferred: %s\nenergy: %s\n",
				t.ID, t.Title, t.Status, t.DurationMinutes, t.Deadline.Format("2006-01-02 15:04"),
				t.Type, t.Importance, t.PreferredTime, t.Energy)
			if t.Description != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "description: %s\n", t.Description)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			if err := app.TaskCLI.Delete(context.Background(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task %d deleted\n", id)
			return nil
		},
	}

	task.AddCommand(add, list, show, rm)
	return task
}

func newPlanCmd(configDir *string) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Day plans and the week schedule"}

	show := &cobra.Command{
		Use:   "show [date]",
		Short: "Show the plan for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			view, err := app.PlanCLI.Show(context.Background(), date)
			if err != nil {
				return err
			}
			printPlan(cmd, view.Plan)
			return nil
		},
	}

	cached := &cobra.Command{
		Use:   "cached [date]",
		Short: "Show the locally cached plan for a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			day, err := app.PlanCLI.ShowCached(context.Background(), date)
			if err != nil {
				return err
			}
			printPlan(cmd, day)
			return nil
		},
	}

	generate := &cobra.Command{
		Use:   "generate [date]",
		Short: "Ask the service to (re)plan a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			view, err := app.PlanCLI.Generate(context.Background(), date)
			if err != nil {
				return err
			}
			printPlan(cmd, view.Plan)
			return nil
		},
	}

	var scale float64
	week := &cobra.Command{
		Use:   "week [date]",
		Short: "Show the positioned week grid containing a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateArg(args)
			if err != nil {
				return err
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			view, err := app.ScheduleCLI.Week(context.Background(), date, scale)
			if err != nil {
				return err
			}
			for _, day := range view.Days {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), day.Date)
				for _, b := range day.Blocks {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  item=%d top=%.1f height=%.1f %s (%s-%s)\n",
						b.PlanItemID, b.Top, b.Height, b.Title,
						b.Start.Format("15:04"), b.End.Format("15:04"))
				}
			}
			return nil
		},
	}
	week.Flags().Float64Var(&scale, "scale", 60, "vertical units per hour")

	var reschedDate, start, end string
	reschedule := &cobra.Command{
		Use:   "reschedule <item>",
		Short: "Move a plan item to a new time window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid plan item id %q", args[0])
			}
			if reschedDate == "" {
				reschedDate = today()
			}
			startAt, err := parseClock(reschedDate, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endAt, err := parseClock(reschedDate, end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			view, err := app.PlanCLI.Reschedule(context.Background(), reschedDate, itemID, startAt, endAt)
			if err != nil {
				return err
			}
			printPlan(cmd, view.Plan)
			return nil
		},
	}
	reschedule.Flags().StringVar(&reschedDate, "date", "", "plan date (default today)")
	reschedule.Flags().StringVar(&start, "start", "", "new start time (hh:mm)")
	reschedule.Flags().StringVar(&end, "end", "", "new end time (hh:mm)")
	_ = reschedule.MarkFlagRequired("start")
	_ = reschedule.MarkFlagRequired("end")

	var removeDate string
	remove := &cobra.Command{
		Use:   "remove <item>",
		Short: "Remove an item from the plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid plan item id %q", args[0])
			}
			if removeDate == "" {
				removeDate = today()
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			view, err := app.PlanCLI.Remove(context.Background(), removeDate, itemID)
			if err != nil {
				return err
			}
			printPlan(cmd, view.Plan)
			return nil
		},
	}
	remove.Flags().StringVar(&removeDate, "date", "", "plan date (default today)")

	var note string
	feedback := &cobra.Command{
		Use:   "feedback <task> <+1|-1>",
		Short: "Tell the planner a task should move earlier or later",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			outcome, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid outcome %q, expected +1 or -1", args[1])
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			if err := app.PlanCLI.Feedback(context.Background(), taskID, outcome, note); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "feedback recorded")
			return nil
		},
	}
	feedback.Flags().StringVar(&note, "note", "", "optional note for the planner")

	plan.AddCommand(show, cached, generate, week, reschedule, remove, feedback)
	return plan
}

func newNoteCmd(configDir *string) *cobra.Command {
	note := &cobra.Command{Use: "note", Short: "Quick notes"}

	var body string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			out, err := app.NoteCLI.Add(context.Background(), args[0], body)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note %d created: %s\n", out.ID, out.Title)
			return nil
		},
	}
	add.Flags().StringVar(&body, "body", "", "note body")

	list := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			notes, err := app.NoteCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notes")
				return nil
			}
			for _, n := range notes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n",
					n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Title)
			}
			return nil
		},
	}

	note.AddCommand(add, list)
	return note
}

func newExporterCmd(configDir *string) *cobra.Command {
	exporter := &cobra.Command{Use: "exporter", Short: "Out-of-process plan exporters"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List installed exporters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			infos, err := app.ExportCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exporters installed")
				return nil
			}
			for _, info := range infos {
				state := "enabled"
				if !info.Enabled {
					state = "disabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tformats=%s\n",
					info.Name, info.Version, state, strings.Join(info.Formats, ","))
			}
			return nil
		},
	}

	doctor := &cobra.Command{
		Use:   "doctor",
		Short: "Verify exporter binaries, checksums, and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			results, err := app.ExportCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t checksum=%t lifecycle=%t\t%s\n",
					r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, status)
			}
			return nil
		},
	}

	var format, date, outPath string
	var offline bool
	export := &cobra.Command{
		Use:   "export <name>",
		Short: "Render a day plan through an exporter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = today()
			}
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			out, err := app.ExportCLI.Export(context.Background(), args[0], format, date, offline)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(out.Document), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", outPath, out.MimeType)
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Document)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", "markdown", "output format")
	export.Flags().StringVar(&date, "date", "", "plan date (default today)")
	export.Flags().StringVar(&outPath, "out", "", "write to file instead of stdout")
	export.Flags().BoolVar(&offline, "offline", false, "render from the local plan cache")

	exporter.AddCommand(list, doctor, export)
	return exporter
}

func printPlan(cmd *cobra.Command, plan plandto.DayPlanOutput) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "plan for %s\n", plan.Date)
	if len(plan.Scheduled) == 0 {
		_, _ = fmt.Fprintln(out, "  nothing scheduled")
	}
	for _, item := range plan.Scheduled {
		_, _ = fmt.Fprintf(out, "  %s-%s\titem=%d task=%d\t%s\n",
			item.Start.Format("15:04"), item.End.Format("15:04"),
			item.PlanItemID, item.TaskID, item.Title)
		if item.Explanation != "" {
			_, _ = fmt.Fprintf(out, "  \t\t%s\n", item.Explanation)
		}
	}
	if len(plan.Unscheduled) > 0 {
		_, _ = fmt.Fprintln(out, "unscheduled:")
		for _, u := range plan.Unscheduled {
			_, _ = fmt.Fprintf(out, "  task=%d\t%s\t%s\n", u.TaskID, u.Title, u.Reason)
		}
	}
	if plan.ModelVersion != "" {
		_, _ = fmt.Fprintf(out, "model %s confidence %.2f\n", plan.ModelVersion, plan.ModelConfidence)
	}
}

func parseClock(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}
