package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/backlog/internal/commands"
	"github.com/sandeepkv93/backlog/internal/model"
	"github.com/sandeepkv93/backlog/internal/scheduler"
	"github.com/sandeepkv93/backlog/internal/update"
	"github.com/sandeepkv93/backlog/internal/views"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "backlog",
		Short:         "Show one todo at a time and bring finished ones back later",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/backlog/config.toml)")
	flags.StringVar(&opts.storePath, "store", "", "snapshot location, a JSON file or SQLite database")
	flags.StringVar(&opts.driver, "driver", "", "snapshot backend: file or sqlite")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&opts.now, "now", "", "pretend the current time is this RFC3339 instant")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for random picks (0 picks a fresh seed)")
	_ = flags.MarkHidden("now")

	withApp := func(tui bool, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, stderr, tui)
			if err != nil {
				return err
			}
			defer a.Close()
			return fn(cmd, a, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "add <text...>",
			Short: "Add a todo to the end of the list",
			Args:  cobra.MinimumNArgs(1),
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				text := strings.Join(args, " ")
				if err := a.engine.Add(cmd.Context(), text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added #%d: %s\n", len(a.engine.State().Active), strings.TrimSpace(text))
				return nil
			}),
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List active todos",
			Args:    cobra.NoArgs,
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				active := a.engine.State().Active
				if len(active) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "(no active todos)")
					return nil
				}
				for i, text := range active {
					fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s\n", i+1, text)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "future",
			Short: "List deferred todos and when they come back",
			Args:  cobra.NoArgs,
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				deferred := a.engine.State().Deferred
				if len(deferred) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "(nothing deferred)")
					return nil
				}
				now := a.clock.Now()
				for i, entry := range deferred {
					fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s (back in %s, at %s)\n",
						i+1, entry.Text,
						views.FormatRemaining(scheduler.Remaining(entry, now)),
						scheduler.NextReturn(entry).Format("2006-01-02 15:04 MST"))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:     "pick",
			Aliases: []string{"random"},
			Short:   "Show one active todo at random",
			Args:    cobra.NoArgs,
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				sel, ok := a.engine.Picked()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d: %s\n", sel.Index+1, sel.Text)
				return nil
			}),
		},
		newDoneCmd(withApp),
		&cobra.Command{
			Use:     "delete <position>",
			Aliases: []string{"rm"},
			Short:   "Delete an active todo for good",
			Args:    cobra.ExactArgs(1),
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				index, err := commands.ParsePosition(args[0])
				if err != nil {
					return err
				}
				text, err := activeText(a, index)
				if err != nil {
					return err
				}
				if err := a.engine.Delete(cmd.Context(), index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", text)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "drop <position>",
			Short: "Drop a deferred todo so it never comes back",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				index, err := commands.ParsePosition(args[0])
				if err != nil {
					return err
				}
				deferred := a.engine.State().Deferred
				if err := a.engine.DeleteDeferred(cmd.Context(), index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped: %s\n", deferred[index].Text)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "edit <position> <new text...>",
			Short: "Replace an active todo; the new text goes to the end of the list",
			Args:  cobra.MinimumNArgs(2),
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				index, err := commands.ParsePosition(args[0])
				if err != nil {
					return err
				}
				text := strings.Join(args[1:], " ")
				if strings.TrimSpace(text) == "" {
					return fmt.Errorf("edit: new text is empty")
				}
				old, err := a.engine.Edit(cmd.Context(), index)
				if err != nil {
					return err
				}
				if err := a.engine.Add(cmd.Context(), text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "edited: %s -> %s\n", old, strings.TrimSpace(text))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "check",
			Short: "Return every deferred todo that is due",
			Args:  cobra.NoArgs,
			RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
				n, err := a.engine.CheckDue(cmd.Context(), a.clock.Now())
				if err != nil {
					return err
				}
				n += a.engine.CaughtUp()
				fmt.Fprintf(cmd.OutOrStdout(), "returned %d %s\n", n, views.Plural(n, "todo", "todos"))
				return nil
			}),
		},
	)
	return root
}

func newDoneCmd(withApp func(bool, func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "done <position>",
		Short: "Mark an active todo done; it comes back after a few days",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			index, err := commands.ParsePosition(args[0])
			if err != nil {
				return err
			}
			text, err := activeText(a, index)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				err = a.engine.MarkDoneAfter(cmd.Context(), index, days)
			} else {
				days = a.engine.DefaultReturnDays()
				err = a.engine.MarkDone(cmd.Context(), index)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "done: %s (back in %d %s)\n", text, days, views.Plural(days, "day", "days"))
			return nil
		}),
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "days until the todo comes back (default from config)")
	return cmd
}

func runTUI(cmd *cobra.Command, opts *rootOptions, stderr io.Writer) error {
	a, err := openApp(cmd.Context(), opts, stderr, true)
	if err != nil {
		return err
	}
	defer a.Close()

	waker := scheduler.NewWaker(a.cfg.UI.WakerBuffer)
	waker.Start()
	defer waker.Stop()

	tui := update.NewModel(cmd.Context(), a.engine, waker, update.Options{
		DueCheckInterval:     a.cfg.UI.DueCheckInterval,
		DesktopNotifications: a.cfg.UI.DesktopNotifications,
		Notifier:             update.ExecDesktopNotifier{},
		Now:                  a.clock.Now,
	})
	if n := a.engine.CaughtUp(); n > 0 {
		tui.Status = update.StatusBar{Text: fmt.Sprintf("%d %s came back while you were away", n, views.Plural(n, "todo", "todos"))}
	}
	program := tea.NewProgram(tui, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = program.Run()
	if n := waker.Dropped(); n > 0 {
		a.logger.Warn("return events dropped while the ui was busy", "count", n)
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func activeText(a *app, index int) (string, error) {
	active := a.engine.State().Active
	if index >= len(active) {
		return "", fmt.Errorf("%w: no active todo at position %d (have %d)", model.ErrInvalidIndex, index+1, len(active))
	}
	return active[index], nil
}
