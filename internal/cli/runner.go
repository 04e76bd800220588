package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/store/jsonstore"
	"github.com/idilsaglam/todo/internal/ui"
)

// Exit codes returned by Run.
const (
	ExitOK       = 0
	ExitStorage  = 1 // load/save failed, or any other runtime failure
	ExitNotFound = 2
	ExitUsage    = 3
	ExitConfig   = 4 // config file unreadable or invalid
)

// Options mirror the root flags.
type Options struct {
	File       string
	ConfigPath string
	Theme      string
	Group      bool // list grouped by pending/done
	NoColor    bool
	Verbose    bool
}

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }

func (e *configError) Unwrap() error { return e.err }

type app struct {
	stdout, stderr io.Writer
	opt            Options
	cfg            config.Config
	log            *log.Logger
	closeLog       func() error
}

// Run executes one command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		log:      log.New(io.Discard),
		closeLog: func() error { return nil },
	}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	defer a.closeLog()
	if err == nil {
		return ExitOK
	}

	code := exitCode(err)
	a.log.Debug("command failed", "err", err, "exit", code)
	ui.Fail(stderr, err.Error())
	if code == ExitUsage {
		ui.Muted(stderr, "Run `todo --help` for usage.")
	}
	return code
}

func exitCode(err error) int {
	var (
		ue *usageError
		ce *configError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ue):
		return ExitUsage
	case errors.As(err, &ce):
		return ExitConfig
	case errors.Is(err, model.ErrNotFound):
		return ExitNotFound
	default:
		return ExitStorage
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny task list CLI",
		Long: `todo keeps a task list in a local JSON file (todos.json by default).

Each invocation loads the file, applies one command and writes the file back
when something changed.`,
		Example: `  todo add Buy milk
  todo list
  todo done 2
  todo rm 3
  todo clear-done`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown subcommand: %s", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usageErrorf("missing subcommand")
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&a.opt.File, "file", "f", "", "task list file (default \"todos.json\")")
	pf.StringVar(&a.opt.ConfigPath, "config", "", "config file (default: user config dir and ./.tada.toml)")
	pf.StringVar(&a.opt.Theme, "theme", "", "output theme: classic, neon or mono")
	pf.BoolVar(&a.opt.Group, "group", false, "group list output by pending/done")
	pf.BoolVar(&a.opt.NoColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&a.opt.Verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.doneCmd(),
		a.removeCmd(),
		a.clearDoneCmd(),
		a.browseCmd(),
		a.configCmd(),
	)
	return root
}

// setup resolves configuration and wires logging and theme.
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg config.Config
		err error
	)
	if a.opt.ConfigPath != "" {
		cfg, err = config.LoadFile(a.opt.ConfigPath)
	} else {
		cfg, err = config.Load(config.Paths()...)
	}
	if err != nil {
		return &configError{err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.File = a.opt.File
	}
	if flags.Changed("theme") {
		cfg.Theme = a.opt.Theme
	}
	if flags.Changed("group") {
		cfg.Group = a.opt.Group
	}
	if a.opt.Verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.File == "" {
		cfg.File = jsonstore.DefaultFile
	}
	a.cfg = cfg

	a.log, a.closeLog = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: a.stderr,
	})
	ui.SetTheme(cfg.Theme)
	if a.opt.NoColor {
		ui.SetColorForcing(false, true)
	}
	a.log.Debug("config resolved", "file", cfg.File, "theme", cfg.Theme, "sources", cfg.Sources)
	return nil
}

// -------------- storage round trip ----------------

func (a *app) load() (*model.List, error) {
	l, err := jsonstore.Load(a.cfg.File)
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded", "path", a.cfg.File, "tasks", l.Len(), "next_id", l.NextID())
	return l, nil
}

func (a *app) save(l *model.List) error {
	if err := jsonstore.Save(a.cfg.File, l); err != nil {
		return err
	}
	a.log.Debug("saved", "path", a.cfg.File, "tasks", l.Len(), "next_id", l.NextID())
	return nil
}

// mutate loads the list, applies op and saves only when op reports a change.
// The success message is printed after the save went through.
func (a *app) mutate(op func(*model.List) (msg string, changed bool, err error)) error {
	l, err := a.load()
	if err != nil {
		return err
	}
	msg, changed, err := op(l)
	if err != nil {
		return err
	}
	if changed {
		if err := a.save(l); err != nil {
			return err
		}
	}
	ui.OK(a.stdout, msg)
	return nil
}

// -------------- subcommands ----------------

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a new task (text can be multiple words)",
		Args:  minArgs(1, "usage: todo add <text...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return a.mutate(func(l *model.List) (string, bool, error) {
				t, err := l.Add(text)
				if err != nil {
					return "", false, err
				}
				a.log.Debug("add", "id", t.ID)
				return fmt.Sprintf("added [%d] %s", t.ID, t.Text), true, nil
			})
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    exactArgs(0, "usage: todo list"),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load()
			if err != nil {
				return err
			}
			renderList(a.stdout, l, a.cfg.Group)
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark the task with the given id as done",
		Args:  exactArgs(1, "usage: todo done <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(l *model.List) (string, bool, error) {
				if err := l.MarkDone(id); err != nil {
					return "", false, err
				}
				return fmt.Sprintf("marked %d as done", id), true, nil
			})
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove the task with the given id",
		Args:    exactArgs(1, "usage: todo rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(l *model.List) (string, bool, error) {
				if err := l.Remove(id); err != nil {
					return "", false, err
				}
				return fmt.Sprintf("removed task %d", id), true, nil
			})
		},
	}
}

func (a *app) clearDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-done",
		Short: "Remove every completed task",
		Args:  exactArgs(0, "usage: todo clear-done"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(func(l *model.List) (string, bool, error) {
				n := l.ClearDone()
				return fmt.Sprintf("removed %d completed tasks", n), n > 0, nil
			})
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  exactArgs(0, "usage: todo config"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.cfg.Sources) == 0 {
				fmt.Fprintln(a.stdout, "# no config files found; using defaults")
			}
			for _, src := range a.cfg.Sources {
				fmt.Fprintf(a.stdout, "# from %s\n", src)
			}
			if err := config.Write(a.stdout, a.cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			help, err := config.EnvHelp()
			if err != nil {
				return fmt.Errorf("env help: %w", err)
			}
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, help)
			return nil
		},
	}
}

func parseID(cmd, s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, usageErrorf("%s: not a valid id: %s", cmd, s)
	}
	return id, nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageErrorf("%s", usage)
		}
		return nil
	}
}
