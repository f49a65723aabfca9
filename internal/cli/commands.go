// Package cli wires the command-line entry points to the overlay presenters.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/riordanpawley/teafoundation/internal/config"
	"github.com/riordanpawley/teafoundation/internal/directives/datetime"
	"github.com/riordanpawley/teafoundation/internal/types"
	"github.com/riordanpawley/teafoundation/internal/ui/alert"
	"github.com/riordanpawley/teafoundation/internal/ui/overlay"
	"github.com/riordanpawley/teafoundation/internal/ui/smartselect"
	"github.com/riordanpawley/teafoundation/internal/ui/toast"
)

// Dependencies holds what every command needs
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
	// Runner runs a presentation; tests replace it to skip the terminal
	Runner Runner
}

// GlobalOptions are the persistent flags
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	LogFile    string
}

// NewDependencies loads configuration and builds the logger
func NewDependencies(opts GlobalOptions, out io.Writer) (*Dependencies, error) {
	logger, err := newLogger(opts)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ErrorHandler = func(err error) {
		logger.Error("unhandled error", "error", err)
	}
	config.Configure(cfg)

	return &Dependencies{
		Config: config.Current(),
		Logger: logger,
		Out:    out,
		Runner: ProgramRunner{Logger: logger},
	}, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger returns a charm-styled slog logger. The TUI owns the terminal,
// so logs are discarded unless a log file is given or verbose is set.
func newLogger(opts GlobalOptions) (*slog.Logger, error) {
	var w io.Writer = io.Discard
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	} else if opts.Verbose {
		w = os.Stderr
	}

	level := charmlog.InfoLevel
	if opts.Verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "teafoundation",
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// NewRootCommand builds the command tree. Dependencies are created from
// the persistent flags before any command runs.
func NewRootCommand(out io.Writer) *cobra.Command {
	return newRootCommand(out, nil)
}

// NewRootCommandWith builds the command tree around existing dependencies
func NewRootCommandWith(deps *Dependencies) *cobra.Command {
	return newRootCommand(deps.Out, deps)
}

func newRootCommand(out io.Writer, preset *Dependencies) *cobra.Command {
	var opts GlobalOptions
	deps := preset

	root := &cobra.Command{
		Use:   "teafoundation",
		Short: "Overlay building blocks for terminal apps",
		Long: `teafoundation presents alerts, confirmations, wait screens, toasts and
pickers over a Bubble Tea program.

Running teafoundation without a subcommand launches the interactive demo.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return nil
			}
			var err error
			deps, err = NewDependencies(opts, out)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return DemoCommand(cmd.Context(), deps)
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (.json, .toml, .yaml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file")

	depsFn := func() *Dependencies { return deps }
	root.AddCommand(
		newDemoCommand(depsFn),
		newAlertCommand(depsFn),
		newConfirmCommand(depsFn, "confirm", "Ask a yes/no question", alert.Confirm),
		newConfirmCommand(depsFn, "destroy", "Ask to confirm a destructive action", alert.ConfirmDestroy),
		newWaitCommand(depsFn),
		newToastCommand(depsFn),
		newSelectCommand(depsFn),
		newDatetimeCommand(depsFn),
		newConfigCommand(depsFn),
	)
	return root
}

func title(cmd *cobra.Command) string {
	t, _ := cmd.Flags().GetString("title")
	return t
}

func newDemoCommand(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Launch the interactive demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return DemoCommand(cmd.Context(), deps())
		},
	}
}

func newAlertCommand(deps func() *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert MESSAGE",
		Short: "Show an alert and wait for it to be closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			opts := alert.Titled(title(cmd), args[0])
			return d.Runner.Run(cmd.Context(), func(ctx context.Context, s Session) (string, error) {
				return "", alert.Alert(ctx, s.Engine, opts)
			})
		},
	}
	cmd.Flags().StringP("title", "t", "", "alert title")
	return cmd
}

func newConfirmCommand(deps func() *Dependencies, use, short string, present func(context.Context, *overlay.Engine, alert.Options) (bool, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " MESSAGE",
		Short: short,
		Long:  short + ". Prints true or false; exits non-zero unless confirmed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			opts := alert.Titled(title(cmd), args[0])

			var confirmed bool
			err := d.Runner.Run(cmd.Context(), func(ctx context.Context, s Session) (string, error) {
				ok, err := present(ctx, s.Engine, opts)
				confirmed = ok
				return fmt.Sprint(ok), err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(d.Out, confirmed)
			if !confirmed {
				return ErrNotConfirmed
			}
			return nil
		},
	}
	cmd.Flags().StringP("title", "t", "", "dialog title")
	return cmd
}

func newWaitCommand(deps func() *Dependencies) *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "wait MESSAGE",
		Short: "Show a blocking wait screen for a fixed time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			opts := alert.Message(args[0])
			return d.Runner.Run(cmd.Context(), func(ctx context.Context, s Session) (string, error) {
				dismiss := alert.Wait(s.Engine, opts)
				defer dismiss()
				select {
				case <-time.After(duration):
					return "", nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			})
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 3*time.Second, "how long to wait")
	return cmd
}

func newToastCommand(deps func() *Dependencies) *cobra.Command {
	var level string
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "toast MESSAGE",
		Short: "Show a toast until it expires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			lvl, err := types.ParseToastLevel(level)
			if err != nil {
				return err
			}
			opts := toast.Options{Message: args[0], Level: lvl, Duration: duration}
			return d.Runner.Run(cmd.Context(), func(ctx context.Context, s Session) (string, error) {
				emptied := s.Emptied(ctx)
				toast.Show(s.Engine, opts)
				select {
				case <-emptied:
					return "", nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			})
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "info", "info, success, warning or error")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "display time (default from config)")
	return cmd
}

func newSelectCommand(deps func() *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select OPTION...",
		Short: "Pick one of the given options with fuzzy filtering",
		Long: `Pick one of the given options with fuzzy filtering.

An option may carry a subtitle after a colon, e.g. "prod:us-east-1".
The chosen option is printed; exits non-zero when cancelled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			opts := smartselect.Options[string]{Title: title(cmd)}
			for _, arg := range args {
				name, sub, _ := strings.Cut(arg, ":")
				opts.Options = append(opts.Options, smartselect.Option[string]{
					Key:      arg,
					Title:    name,
					Subtitle: sub,
					Ref:      name,
				})
			}

			var chosen string
			var ok bool
			err := d.Runner.Run(cmd.Context(), func(ctx context.Context, s Session) (string, error) {
				choice, picked, err := smartselect.Choose(ctx, s.Engine, opts)
				chosen, ok = choice.Ref, picked
				return chosen, err
			})
			if err != nil {
				return err
			}
			if !ok {
				return ErrCancelled
			}
			fmt.Fprintln(d.Out, chosen)
			return nil
		},
	}
	cmd.Flags().StringP("title", "t", "", "picker title")
	return cmd
}

func newDatetimeCommand(deps func() *Dependencies) *cobra.Command {
	var attrs datetime.Attributes
	var tz string
	cmd := &cobra.Command{
		Use:   "datetime [VALUE...]",
		Short: "Format timestamps the way the datetime directive renders them",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			f := datetime.Formatter{}
			if tz != "" {
				loc, err := time.LoadLocation(tz)
				if err != nil {
					return fmt.Errorf("invalid timezone %q: %w", tz, err)
				}
				f.Location = loc
			}
			if len(args) == 0 {
				args = []string{""}
			}
			for _, v := range args {
				out, err := f.Format(v, attrs)
				if err != nil {
					return err
				}
				fmt.Fprintln(d.Out, out)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&attrs.Placeholder, "placeholder", "", "text for empty values")
	flags.BoolVar(&attrs.Local, "local", false, "treat zone-less values as local time")
	flags.BoolVar(&attrs.DisplayUTC, "display-utc", false, "render in UTC")
	flags.StringVarP(&attrs.Format, "format", "f", "", "explicit pattern, e.g. yyyy-MM-dd HH:mm")
	flags.BoolVar(&attrs.DateOnly, "date-only", false, "omit the time")
	flags.BoolVar(&attrs.RelativeDate, "relative-date", false, `render today's values as "at HH:mm"`)
	flags.BoolVar(&attrs.SimplifiedDate, "simplified-date", false, "omit date parts shared with today")
	flags.BoolVar(&attrs.Ago, "ago", false, "render the distance from now")
	flags.StringVar(&tz, "tz", "", "IANA zone to render in (default local)")
	return cmd
}

func newConfigCommand(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			cfg := d.Config
			w := tabwriter.NewWriter(d.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "unhandledErrorSupportText\t%s\n", cfg.UnhandledErrorSupportText)
			fmt.Fprintf(w, "defaultDateFormat\t%s\n", cfg.DefaultDateFormat)
			fmt.Fprintf(w, "defaultTimeFormat\t%s\n", cfg.DefaultTimeFormat)
			fmt.Fprintf(w, "toast.durationMs\t%d\n", cfg.Toast.DurationMs)
			fmt.Fprintf(w, "toast.maxWidth\t%d\n", cfg.Toast.MaxWidth)
			fmt.Fprintf(w, "select.maxVisible\t%d\n", cfg.Select.MaxVisible)
			return w.Flush()
		},
	}
}
